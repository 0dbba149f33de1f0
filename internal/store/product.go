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

	"marketplace/internal/models"
)

// ProductStore handles the product queries the catalog needs.
type ProductStore struct {
	db DBTX
}

// NewProductStore creates a new ProductStore with the given database connection.
func NewProductStore(db DBTX) *ProductStore {
	return &ProductStore{db: db}
}

const productColumns = `id, name, slug, description, price, stock, category_id, created_at, updated_at`

func scanProduct(scanner interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	err := scanner.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Stock,
		&p.CategoryID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByID retrieves a product by its UUID. Returns nil if not found.
func (s *ProductStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product by id: %w", err)
	}
	return p, nil
}

// ListByCategory returns the products filed directly under a category.
func (s *ProductStore) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE category_id = $1 ORDER BY name, id`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list products by category: %w", err)
	}
	defer rows.Close()

	items := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// Create inserts a product and returns it.
func (s *ProductStore) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO products (name, slug, description, price, stock, category_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+productColumns,
		p.Name, p.Slug, p.Description, p.Price, p.Stock, p.CategoryID,
	)
	result, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return result, nil
}

// SetCategory files a product under categoryID, or clears it when nil.
func (s *ProductStore) SetCategory(ctx context.Context, productID uuid.UUID, categoryID *uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET category_id = $1, updated_at = NOW() WHERE id = $2`, categoryID, productID)
	if err != nil {
		return fmt.Errorf("set product category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("set product category: product %s does not exist", productID)
	}
	return nil
}

// ClearCategory detaches every product filed under one of categoryIDs and
// returns how many rows changed.
func (s *ProductStore) ClearCategory(ctx context.Context, categoryIDs []uuid.UUID) (int64, error) {
	if len(categoryIDs) == 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE products SET category_id = NULL, updated_at = NOW()
		WHERE category_id = ANY($1::uuid[])
	`, uuidStrings(categoryIDs))
	if err != nil {
		return 0, fmt.Errorf("clear product categories: %w", err)
	}
	return res.RowsAffected()
}
