// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a node in the product category forest. A nil ParentID marks
// a root category. Products reference categories, never the reverse.
type Category struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Virtual fields populated by the catalog service.
	Children []Category `json:"children,omitempty"`
	Depth    *int       `json:"depth,omitempty"` // set on path results only
}

// IsRoot reports whether the category has no parent.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// HasParent reports whether the category's parent is id.
func (c *Category) HasParent(id uuid.UUID) bool {
	return c.ParentID != nil && *c.ParentID == id
}

// DeleteResult describes the outcome of a cascading category deletion.
type DeleteResult struct {
	DeletedID            uuid.UUID   `json:"deleted_id"`
	DeletedDescendantIDs []uuid.UUID `json:"deleted_descendant_ids"`
	ProductsRepaired     int64       `json:"products_repaired"`
}
