// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a marketplace listing. Only the fields the category engine
// touches are modelled here; a product is filed under at most one category.
type Product struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	Stock       int        `json:"stock"`
	CategoryID  *uuid.UUID `json:"category_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// InCategory reports whether the product is filed under any of ids.
func (p *Product) InCategory(ids ...uuid.UUID) bool {
	if p.CategoryID == nil {
		return false
	}
	for _, id := range ids {
		if *p.CategoryID == id {
			return true
		}
	}
	return false
}
