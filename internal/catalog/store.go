// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"

	"github.com/google/uuid"

	"marketplace/internal/models"
)

// CategoryStore is the flat, id-keyed category storage the engine
// traverses by repeated indexed lookup. Find methods return (nil, nil)
// when nothing matches. Create and Update return an error wrapping
// ErrConflict when the unique name constraint is violated.
type CategoryStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindByName(ctx context.Context, name string) (*models.Category, error)
	// FindBySlug returns the oldest category carrying slug.
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	// ListByParent returns direct children of parentID, or roots when nil.
	ListByParent(ctx context.Context, parentID *uuid.UUID) ([]models.Category, error)
	// ListByParents returns every category whose parent is in parentIDs.
	ListByParents(ctx context.Context, parentIDs []uuid.UUID) ([]models.Category, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
	Update(ctx context.Context, c *models.Category) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error)
}

// ProductStore exposes the product operations the engine needs to keep
// category references consistent.
type ProductStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Product, error)
	SetCategory(ctx context.Context, productID uuid.UUID, categoryID *uuid.UUID) error
	// ClearCategory sets category to NULL on every product filed under
	// any of categoryIDs and returns how many products changed.
	ClearCategory(ctx context.Context, categoryIDs []uuid.UUID) (int64, error)
}

// Repository groups the stores and provides transactional scoping.
type Repository interface {
	Categories() CategoryStore
	Products() ProductStore
	// WithTx runs fn against a transaction-scoped Repository. The
	// transaction commits only if fn returns nil.
	WithTx(ctx context.Context, fn func(tx Repository) error) error
}

// Cache holds derived read models. Implementations must treat every
// failure as a miss; the service never depends on the cache for
// correctness.
type Cache interface {
	Roots(ctx context.Context) ([]models.Category, bool)
	SetRoots(ctx context.Context, roots []models.Category)
	Path(ctx context.Context, key string) ([]models.Category, bool)
	SetPath(ctx context.Context, key string, path []models.Category)
	Invalidate(ctx context.Context)
}
