// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package memory provides an in-process implementation of the catalog
// storage ports. Categories and products live in flat id-keyed maps; no
// pointer graph is built. Transactions copy the maps and swap them in on
// commit while holding the write lock.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"marketplace/internal/catalog"
	"marketplace/internal/models"
)

// data is the state guarded by Store.mu.
type data struct {
	categories map[uuid.UUID]models.Category
	products   map[uuid.UUID]models.Product
	order      map[uuid.UUID]uint64 // insertion sequence per category
	seq        uint64
}

func newData() *data {
	return &data{
		categories: make(map[uuid.UUID]models.Category),
		products:   make(map[uuid.UUID]models.Product),
		order:      make(map[uuid.UUID]uint64),
	}
}

func (d *data) clone() *data {
	c := newData()
	for k, v := range d.categories {
		c.categories[k] = v
	}
	for k, v := range d.products {
		c.products[k] = v
	}
	for k, v := range d.order {
		c.order[k] = v
	}
	c.seq = d.seq
	return c
}

// Store is a concurrency-safe in-memory catalog repository.
type Store struct {
	mu   *sync.RWMutex
	root **data // shared by a Store and its transaction views
	tx   *data  // non-nil inside WithTx; accessed without locking
	now  func() time.Time
}

// New returns an empty Store.
func New() *Store {
	d := newData()
	return &Store{mu: &sync.RWMutex{}, root: &d, now: time.Now}
}

// read runs fn with a consistent view of the data.
func (s *Store) read(fn func(d *data)) {
	if s.tx != nil {
		fn(s.tx)
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(*s.root)
}

// write runs fn against mutable data. Outside a transaction the change is
// applied immediately under the write lock.
func (s *Store) write(fn func(d *data) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(*s.root)
}

// Categories returns the category store view.
func (s *Store) Categories() catalog.CategoryStore { return categoryStore{s} }

// Products returns the product store view.
func (s *Store) Products() catalog.ProductStore { return productStore{s} }

// WithTx runs fn against a private copy of the data and publishes the copy
// only when fn succeeds. Writers are serialized for the duration.
func (s *Store) WithTx(ctx context.Context, fn func(tx catalog.Repository) error) error {
	if s.tx != nil {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	work := (*s.root).clone()
	view := &Store{mu: s.mu, root: s.root, tx: work, now: s.now}
	if err := fn(view); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	*s.root = work
	return nil
}

// CreateProduct inserts a product. Product CRUD is outside the catalog
// ports; this exists for seeding and tests.
func (s *Store) CreateProduct(_ context.Context, p *models.Product) (*models.Product, error) {
	out := *p
	if out.ID == uuid.Nil {
		out.ID = uuid.New()
	}
	now := s.now()
	out.CreatedAt, out.UpdatedAt = now, now

	err := s.write(func(d *data) error {
		if out.CategoryID != nil {
			if _, ok := d.categories[*out.CategoryID]; !ok {
				return fmt.Errorf("create product: category %s does not exist", *out.CategoryID)
			}
		}
		d.products[out.ID] = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// --- categories ---

type categoryStore struct{ s *Store }

func (cs categoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	var out *models.Category
	cs.s.read(func(d *data) {
		if c, ok := d.categories[id]; ok {
			out = &c
		}
	})
	return out, nil
}

func (cs categoryStore) FindByName(_ context.Context, name string) (*models.Category, error) {
	var out *models.Category
	cs.s.read(func(d *data) {
		for _, c := range d.categories {
			if c.Name == name {
				out = &c
				return
			}
		}
	})
	return out, nil
}

func (cs categoryStore) FindBySlug(_ context.Context, sl string) (*models.Category, error) {
	var out *models.Category
	cs.s.read(func(d *data) {
		for _, c := range sorted(d, nil) {
			if c.Slug == sl {
				out = &c
				return
			}
		}
	})
	return out, nil
}

func (cs categoryStore) List(_ context.Context) ([]models.Category, error) {
	var out []models.Category
	cs.s.read(func(d *data) {
		out = sorted(d, nil)
	})
	return out, nil
}

func (cs categoryStore) ListByParent(_ context.Context, parentID *uuid.UUID) ([]models.Category, error) {
	var out []models.Category
	cs.s.read(func(d *data) {
		out = sorted(d, func(c models.Category) bool {
			if parentID == nil {
				return c.ParentID == nil
			}
			return c.HasParent(*parentID)
		})
	})
	return out, nil
}

func (cs categoryStore) ListByParents(_ context.Context, parentIDs []uuid.UUID) ([]models.Category, error) {
	want := make(map[uuid.UUID]struct{}, len(parentIDs))
	for _, id := range parentIDs {
		want[id] = struct{}{}
	}
	var out []models.Category
	cs.s.read(func(d *data) {
		out = sorted(d, func(c models.Category) bool {
			if c.ParentID == nil {
				return false
			}
			_, ok := want[*c.ParentID]
			return ok
		})
	})
	return out, nil
}

func (cs categoryStore) Count(_ context.Context) (int, error) {
	var n int
	cs.s.read(func(d *data) { n = len(d.categories) })
	return n, nil
}

func (cs categoryStore) Create(_ context.Context, c *models.Category) (*models.Category, error) {
	out := *c
	out.ID = uuid.New()
	now := cs.s.now()
	out.CreatedAt, out.UpdatedAt = now, now
	out.Children = nil
	out.Depth = nil

	err := cs.s.write(func(d *data) error {
		for _, existing := range d.categories {
			if existing.Name == out.Name {
				return fmt.Errorf("create category: %w: name %q is taken", catalog.ErrConflict, out.Name)
			}
		}
		if out.ParentID != nil {
			if _, ok := d.categories[*out.ParentID]; !ok {
				return fmt.Errorf("create category: parent %s does not exist", *out.ParentID)
			}
		}
		d.seq++
		d.categories[out.ID] = out
		d.order[out.ID] = d.seq
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (cs categoryStore) Update(_ context.Context, c *models.Category) error {
	return cs.s.write(func(d *data) error {
		current, ok := d.categories[c.ID]
		if !ok {
			return fmt.Errorf("update category: %s does not exist", c.ID)
		}
		for id, existing := range d.categories {
			if id != c.ID && existing.Name == c.Name {
				return fmt.Errorf("update category: %w: name %q is taken", catalog.ErrConflict, c.Name)
			}
		}
		current.Name = c.Name
		current.Slug = c.Slug
		current.Description = c.Description
		current.ParentID = c.ParentID
		current.UpdatedAt = cs.s.now()
		d.categories[c.ID] = current
		c.UpdatedAt = current.UpdatedAt
		return nil
	})
}

func (cs categoryStore) DeleteMany(_ context.Context, ids []uuid.UUID) (int64, error) {
	var n int64
	err := cs.s.write(func(d *data) error {
		doomed := make(map[uuid.UUID]struct{}, len(ids))
		for _, id := range ids {
			doomed[id] = struct{}{}
		}
		// Same guarantees as the foreign keys in the SQL schema.
		for _, c := range d.categories {
			if _, gone := doomed[c.ID]; gone || c.ParentID == nil {
				continue
			}
			if _, orphaned := doomed[*c.ParentID]; orphaned {
				return fmt.Errorf("delete categories: %s still has child %s", *c.ParentID, c.ID)
			}
		}
		for _, p := range d.products {
			if p.CategoryID == nil {
				continue
			}
			if _, dangling := doomed[*p.CategoryID]; dangling {
				return fmt.Errorf("delete categories: product %s still references %s", p.ID, *p.CategoryID)
			}
		}
		for id := range doomed {
			if _, ok := d.categories[id]; ok {
				delete(d.categories, id)
				delete(d.order, id)
				n++
			}
		}
		return nil
	})
	return n, err
}

// sorted returns categories matching keep in insertion order.
func sorted(d *data, keep func(models.Category) bool) []models.Category {
	out := make([]models.Category, 0, len(d.categories))
	for _, c := range d.categories {
		if keep == nil || keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return d.order[out[i].ID] < d.order[out[j].ID]
	})
	return out
}

// --- products ---

type productStore struct{ s *Store }

func (ps productStore) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	var out *models.Product
	ps.s.read(func(d *data) {
		if p, ok := d.products[id]; ok {
			out = &p
		}
	})
	return out, nil
}

func (ps productStore) ListByCategory(_ context.Context, categoryID uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	ps.s.read(func(d *data) {
		for _, p := range d.products {
			if p.InCategory(categoryID) {
				out = append(out, p)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (ps productStore) SetCategory(_ context.Context, productID uuid.UUID, categoryID *uuid.UUID) error {
	return ps.s.write(func(d *data) error {
		p, ok := d.products[productID]
		if !ok {
			return fmt.Errorf("set product category: product %s does not exist", productID)
		}
		if categoryID != nil {
			if _, ok := d.categories[*categoryID]; !ok {
				return fmt.Errorf("set product category: category %s does not exist", *categoryID)
			}
		}
		p.CategoryID = categoryID
		p.UpdatedAt = ps.s.now()
		d.products[productID] = p
		return nil
	})
}

func (ps productStore) ClearCategory(_ context.Context, categoryIDs []uuid.UUID) (int64, error) {
	var n int64
	err := ps.s.write(func(d *data) error {
		for id, p := range d.products {
			if p.InCategory(categoryIDs...) {
				p.CategoryID = nil
				p.UpdatedAt = ps.s.now()
				d.products[id] = p
				n++
			}
		}
		return nil
	})
	return n, err
}
