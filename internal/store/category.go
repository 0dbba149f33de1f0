// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"marketplace/internal/catalog"
	"marketplace/internal/models"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db DBTX
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db DBTX) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, parent_id, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description,
		&c.ParentID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// queryCategories runs a query returning categoryColumns rows.
func (s *CategoryStore) queryCategories(ctx context.Context, op, query string, args ...any) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	items := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// findOne runs a single-row query. Returns nil if not found.
func (s *CategoryStore) findOne(ctx context.Context, op, where string, arg any) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE `+where, arg)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return s.findOne(ctx, "find category by id", `id = $1`, id)
}

// FindByName retrieves a category by its exact name. Returns nil if not found.
func (s *CategoryStore) FindByName(ctx context.Context, name string) (*models.Category, error) {
	return s.findOne(ctx, "find category by name", `name = $1`, name)
}

// FindBySlug retrieves the oldest category with the given slug.
// Returns nil if not found.
func (s *CategoryStore) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.findOne(ctx, "find category by slug", `slug = $1 ORDER BY created_at, id LIMIT 1`, slug)
}

// List returns all categories ordered by creation.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	return s.queryCategories(ctx, "list categories",
		`SELECT `+categoryColumns+` FROM categories ORDER BY created_at, name`)
}

// ListByParent returns the direct children of parentID, or the roots if
// parentID is nil.
func (s *CategoryStore) ListByParent(ctx context.Context, parentID *uuid.UUID) ([]models.Category, error) {
	if parentID == nil {
		return s.queryCategories(ctx, "list root categories",
			`SELECT `+categoryColumns+` FROM categories WHERE parent_id IS NULL ORDER BY created_at, name`)
	}
	return s.queryCategories(ctx, "list child categories",
		`SELECT `+categoryColumns+` FROM categories WHERE parent_id = $1 ORDER BY created_at, name`, *parentID)
}

// ListByParents returns every category whose parent is one of parentIDs.
func (s *CategoryStore) ListByParents(ctx context.Context, parentIDs []uuid.UUID) ([]models.Category, error) {
	if len(parentIDs) == 0 {
		return []models.Category{}, nil
	}
	return s.queryCategories(ctx, "list categories by parents",
		`SELECT `+categoryColumns+` FROM categories WHERE parent_id = ANY($1::uuid[]) ORDER BY created_at, name`,
		uuidStrings(parentIDs))
}

// Count returns the total number of categories.
func (s *CategoryStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, slug, description, parent_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.ParentID,
	)
	result, err := scanCategory(row)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("create category: %w: name %q is taken", catalog.ErrConflict, c.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// Update modifies an existing category.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) error {
	err := s.db.QueryRowContext(ctx, `
		UPDATE categories SET
			name = $1, slug = $2, description = $3, parent_id = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`, c.Name, c.Slug, c.Description, c.ParentID, c.ID).Scan(&c.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("update category: %w: name %q is taken", catalog.ErrConflict, c.Name)
	}
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// DeleteMany removes the categories with the given IDs in one statement.
// The parent_id and product foreign keys reject the delete if any row
// outside ids still references one of them.
func (s *CategoryStore) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ANY($1::uuid[])`, uuidStrings(ids))
	if err != nil {
		return 0, fmt.Errorf("delete categories: %w", err)
	}
	return res.RowsAffected()
}
