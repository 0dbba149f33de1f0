// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog implements the category hierarchy engine: creating
// categories under an optional parent, listing roots and children,
// resolving breadcrumb paths and cascading deletion with product repair.
// It speaks only to the Repository and Cache ports; HTTP and database
// drivers live elsewhere.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"marketplace/internal/models"
	"marketplace/internal/slug"
)

const rootsKey = "roots"

// Service is the category hierarchy engine.
type Service struct {
	repo  Repository
	cache Cache
	group singleflight.Group

	// gen counts successful writes. Loads started under an older
	// generation are neither shared with newer callers nor cached.
	genMu sync.Mutex
	gen   uint64
}

// New returns a Service backed by repo. cache may be nil.
func New(repo Repository, cache Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Create inserts a new category. When in.Parent names an existing category
// the new one is filed beneath it; otherwise it becomes a root.
func (s *Service) Create(ctx context.Context, in CreateInput) (c *models.Category, err error) {
	defer observe("create", time.Now(), &err)

	in.normalize()
	if err := validateStruct(&in); err != nil {
		return nil, err
	}
	sl, err := slugFor(in.Name)
	if err != nil {
		return nil, err
	}

	cats := s.repo.Categories()

	existing, err := cats.FindByName(ctx, in.Name)
	if err != nil {
		return nil, fmt.Errorf("check category name: %w", err)
	}
	if existing != nil {
		return nil, conflict(in.Name)
	}

	var parentID *uuid.UUID
	if in.Parent != "" {
		parent, err := cats.FindByName(ctx, in.Parent)
		if err != nil {
			return nil, fmt.Errorf("find parent category: %w", err)
		}
		if parent != nil {
			id := parent.ID
			parentID = &id
		} else {
			slog.Info("parent category not found, creating root", "name", in.Name, "parent", in.Parent)
		}
	}

	created, err := cats.Create(ctx, &models.Category{
		Name:        in.Name,
		Slug:        sl,
		Description: in.Description,
		ParentID:    parentID,
	})
	if errors.Is(err, ErrConflict) {
		return nil, conflict(in.Name)
	}
	if err != nil {
		slog.Error("failed to create category", "name", in.Name, "error", err)
		return nil, err
	}

	s.invalidate(ctx)
	slog.Info("category created", "id", created.ID, "name", created.Name, "parent_id", created.ParentID)
	return created, nil
}

// Update renames or redescribes a category. The slug is recomputed from
// the new name. Re-parenting is not supported.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (c *models.Category, err error) {
	defer observe("update", time.Now(), &err)

	in.normalize()
	if err := validateStruct(&in); err != nil {
		return nil, err
	}

	cats := s.repo.Categories()
	c, err = s.mustFind(ctx, cats, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		sl, err := slugFor(*in.Name)
		if err != nil {
			return nil, err
		}
		if *in.Name != c.Name {
			other, err := cats.FindByName(ctx, *in.Name)
			if err != nil {
				return nil, fmt.Errorf("check category name: %w", err)
			}
			if other != nil && other.ID != id {
				return nil, conflict(*in.Name)
			}
		}
		c.Name = *in.Name
		c.Slug = sl
	}
	if in.Description != nil {
		c.Description = *in.Description
	}

	err = cats.Update(ctx, c)
	if errors.Is(err, ErrConflict) {
		return nil, conflict(c.Name)
	}
	if err != nil {
		slog.Error("failed to update category", "id", id, "error", err)
		return nil, err
	}

	s.invalidate(ctx)
	slog.Info("category updated", "id", id, "name", c.Name, "slug", c.Slug)
	return c, nil
}

// Get returns the category with the given id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return s.mustFind(ctx, s.repo.Categories(), id)
}

// GetBySlug returns the oldest category with the given slug.
func (s *Service) GetBySlug(ctx context.Context, sl string) (*models.Category, error) {
	c, err := s.repo.Categories().FindBySlug(ctx, sl)
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("%w: category with slug %q does not exist", ErrNotFound, sl)
	}
	return c, nil
}

// List returns every category.
func (s *Service) List(ctx context.Context) ([]models.Category, error) {
	items, err := s.repo.Categories().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return items, nil
}

// Roots returns all root categories, each with its direct children
// attached. Results may come from the cache; callers must not modify them.
func (s *Service) Roots(ctx context.Context) (roots []models.Category, err error) {
	defer observe("roots", time.Now(), &err)

	if s.cache != nil {
		if cached, ok := s.cache.Roots(ctx); ok {
			return cached, nil
		}
	}

	return s.shared(ctx, rootsKey, func(ctx context.Context, gen uint64) ([]models.Category, error) {
		roots, err := s.loadRoots(ctx)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			s.publish(gen, func() { s.cache.SetRoots(ctx, roots) })
		}
		return roots, nil
	})
}

func (s *Service) loadRoots(ctx context.Context) ([]models.Category, error) {
	cats := s.repo.Categories()

	roots, err := cats.ListByParent(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list root categories: %w", err)
	}
	if len(roots) == 0 {
		return []models.Category{}, nil
	}

	ids := make([]uuid.UUID, len(roots))
	for i, r := range roots {
		ids[i] = r.ID
	}
	children, err := cats.ListByParents(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list root children: %w", err)
	}

	attachChildren(roots, children)
	return roots, nil
}

// Children returns the direct children of the category with the given id.
// A leaf yields an empty slice.
func (s *Service) Children(ctx context.Context, parentID uuid.UUID) (children []models.Category, err error) {
	defer observe("children", time.Now(), &err)

	cats := s.repo.Categories()
	if _, err := s.mustFind(ctx, cats, parentID); err != nil {
		return nil, err
	}
	return s.listChildren(ctx, cats, parentID)
}

// ChildrenBySlug returns the direct children of the category with the
// given slug.
func (s *Service) ChildrenBySlug(ctx context.Context, sl string) (children []models.Category, err error) {
	defer observe("children", time.Now(), &err)

	parent, err := s.GetBySlug(ctx, sl)
	if err != nil {
		return nil, err
	}
	return s.listChildren(ctx, s.repo.Categories(), parent.ID)
}

func (s *Service) listChildren(ctx context.Context, cats CategoryStore, parentID uuid.UUID) ([]models.Category, error) {
	children, err := cats.ListByParent(ctx, &parentID)
	if err != nil {
		return nil, fmt.Errorf("list children of %s: %w", parentID, err)
	}
	if children == nil {
		children = []models.Category{}
	}
	return children, nil
}

// PathToRoot resolves key (a category id or slug) and returns the chain of
// categories from its root down to the category itself.
func (s *Service) PathToRoot(ctx context.Context, key string) (path []models.Category, err error) {
	defer observe("path", time.Now(), &err)

	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("%w: category slug or id is required", ErrInvalidInput)
	}

	if s.cache != nil {
		if cached, ok := s.cache.Path(ctx, key); ok {
			return cached, nil
		}
	}

	return s.shared(ctx, "path:"+key, func(ctx context.Context, gen uint64) ([]models.Category, error) {
		cats := s.repo.Categories()
		start, err := s.resolveKey(ctx, cats, key)
		if err != nil {
			return nil, err
		}
		path, err := pathToRoot(ctx, cats, start)
		if err != nil {
			if errors.Is(err, ErrCycleDetected) {
				slog.Error("category parent graph is corrupt", "key", key, "error", err)
			}
			return nil, err
		}
		pathLength.Observe(float64(len(path)))
		if s.cache != nil {
			s.publish(gen, func() { s.cache.SetPath(ctx, key, path) })
		}
		return path, nil
	})
}

// resolveKey looks key up as an id first, then as a slug.
func (s *Service) resolveKey(ctx context.Context, cats CategoryStore, key string) (*models.Category, error) {
	if id, err := uuid.Parse(key); err == nil {
		c, err := cats.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("find category by id: %w", err)
		}
		if c != nil {
			return c, nil
		}
	}

	c, err := cats.FindBySlug(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("%w: category %q does not exist", ErrNotFound, key)
	}
	return c, nil
}

// Subtree returns id followed by the ids of all its descendants.
func (s *Service) Subtree(ctx context.Context, id uuid.UUID) (ids []uuid.UUID, err error) {
	defer observe("subtree", time.Now(), &err)

	cats := s.repo.Categories()
	if _, err := s.mustFind(ctx, cats, id); err != nil {
		return nil, err
	}
	ids, err = collectSubtree(ctx, cats, id)
	if err != nil {
		return nil, err
	}
	subtreeSize.Observe(float64(len(ids)))
	return ids, nil
}

// Delete removes a category together with all its descendants. Products
// filed under any removed category are detached first, in the same
// transaction; if that fails nothing is deleted.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (res *models.DeleteResult, err error) {
	defer observe("delete", time.Now(), &err)

	err = s.repo.WithTx(ctx, func(tx Repository) error {
		cats := tx.Categories()
		if _, err := s.mustFind(ctx, cats, id); err != nil {
			return err
		}

		ids, err := collectSubtree(ctx, cats, id)
		if err != nil {
			return err
		}

		repaired, err := tx.Products().ClearCategory(ctx, ids)
		if err != nil {
			return fmt.Errorf("%w: detach products from category %s: %w", ErrRepairFailed, id, err)
		}

		if _, err := cats.DeleteMany(ctx, ids); err != nil {
			return fmt.Errorf("delete category %s: %w", id, err)
		}

		descendants := make([]uuid.UUID, len(ids)-1)
		copy(descendants, ids[1:])
		res = &models.DeleteResult{
			DeletedID:            id,
			DeletedDescendantIDs: descendants,
			ProductsRepaired:     repaired,
		}
		return nil
	})
	if err != nil {
		if Fatal(err) {
			slog.Error("category deletion aborted", "id", id, "error", err)
		}
		return nil, err
	}

	subtreeSize.Observe(float64(len(res.DeletedDescendantIDs) + 1))
	productsRepaired.Add(float64(res.ProductsRepaired))
	s.invalidate(ctx)

	slog.Info("category deleted",
		"id", id,
		"descendants", len(res.DeletedDescendantIDs),
		"products_repaired", res.ProductsRepaired,
	)
	return res, nil
}

// Products returns the products filed directly under a category.
func (s *Service) Products(ctx context.Context, categoryID uuid.UUID) (products []models.Product, err error) {
	defer observe("products", time.Now(), &err)

	if _, err := s.mustFind(ctx, s.repo.Categories(), categoryID); err != nil {
		return nil, err
	}
	products, err = s.repo.Products().ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list products of %s: %w", categoryID, err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// AssignProduct files a product under categoryID, replacing any previous
// category. A nil categoryID leaves the product uncategorized.
func (s *Service) AssignProduct(ctx context.Context, productID uuid.UUID, categoryID *uuid.UUID) (p *models.Product, err error) {
	defer observe("assign", time.Now(), &err)

	err = s.repo.WithTx(ctx, func(tx Repository) error {
		product, err := tx.Products().FindByID(ctx, productID)
		if err != nil {
			return fmt.Errorf("find product: %w", err)
		}
		if product == nil {
			return fmt.Errorf("%w: product with id %s does not exist", ErrNotFound, productID)
		}

		if categoryID != nil {
			if _, err := s.mustFind(ctx, tx.Categories(), *categoryID); err != nil {
				return err
			}
		}

		if err := tx.Products().SetCategory(ctx, productID, categoryID); err != nil {
			return fmt.Errorf("set product category: %w", err)
		}
		product.CategoryID = categoryID
		p = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("product category assigned", "product_id", productID, "category_id", categoryID)
	return p, nil
}

// mustFind loads a category by id and converts absence into ErrNotFound.
func (s *Service) mustFind(ctx context.Context, cats CategoryStore, id uuid.UUID) (*models.Category, error) {
	c, err := cats.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("%w: category with id %s does not exist", ErrNotFound, id)
	}
	return c, nil
}

// shared runs load once for all concurrent callers asking for key under
// the current generation. The load is detached from the caller's
// cancellation so one client going away cannot fail the others; each
// caller still stops waiting when its own ctx ends.
func (s *Service) shared(ctx context.Context, key string, load func(ctx context.Context, gen uint64) ([]models.Category, error)) ([]models.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	gen := s.generation()
	detached := context.WithoutCancel(ctx)
	ch := s.group.DoChan(fmt.Sprintf("%s@%d", key, gen), func() (any, error) {
		return load(detached, gen)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]models.Category), nil
	}
}

func (s *Service) generation() uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.gen
}

// publish runs set unless a write has happened since gen was read.
func (s *Service) publish(gen uint64, set func()) {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	if s.gen == gen {
		set()
	}
}

// invalidate drops derived read models after a write. Holding genMu
// orders it against publish: a stale load either lands before the
// invalidation and is removed by it, or sees the new generation and
// skips the cache.
func (s *Service) invalidate(ctx context.Context) {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	s.gen++
	if s.cache != nil {
		s.cache.Invalidate(context.WithoutCancel(ctx))
	}
}

func slugFor(name string) (string, error) {
	sl := slug.Generate(name)
	if sl == "" {
		return "", fmt.Errorf("%w: name %q must contain at least one letter or digit", ErrInvalidInput, name)
	}
	return sl, nil
}

func conflict(name string) error {
	return fmt.Errorf("%w: category with name %q already exists", ErrConflict, name)
}
