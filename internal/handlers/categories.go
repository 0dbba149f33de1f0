// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers exposes the catalog service over a JSON HTTP API.
package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"marketplace/internal/catalog"
)

// Categories groups the category and product-assignment endpoints.
type Categories struct {
	svc *catalog.Service
}

// NewCategories creates the category handler group.
func NewCategories(svc *catalog.Service) *Categories {
	return &Categories{svc: svc}
}

// List returns every category.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, http.StatusOK, items)
}

// Roots returns the root categories with their direct children.
func (h *Categories) Roots(w http.ResponseWriter, r *http.Request) {
	roots, err := h.svc.Roots(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, http.StatusOK, roots)
}

// Path returns the breadcrumb for ?category=<slug or id>, root first.
func (h *Categories) Path(w http.ResponseWriter, r *http.Request) {
	path, err := h.svc.PathToRoot(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, http.StatusOK, path)
}

// ChildrenBySlug returns the direct children of ?category=<slug>.
func (h *Categories) ChildrenBySlug(w http.ResponseWriter, r *http.Request) {
	sl := r.URL.Query().Get("category")
	if sl == "" {
		writeFail(w, http.StatusBadRequest, "category query parameter is required")
		return
	}
	children, err := h.svc.ChildrenBySlug(r.Context(), sl)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, http.StatusOK, children)
}

// Get returns a single category.
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

// Children returns the direct children of a category.
func (h *Categories) Children(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	children, err := h.svc.Children(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, http.StatusOK, children)
}

// Subtree returns the ids of a category and all of its descendants.
func (h *Categories) Subtree(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ids, err := h.svc.Subtree(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, http.StatusOK, ids)
}

// Products returns the products filed directly under a category.
func (h *Categories) Products(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	products, err := h.svc.Products(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, http.StatusOK, products)
}

// Create adds a category. Body: {"name", "description", "parent"}.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var in catalog.CreateInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/categories/"+c.ID.String())
	writeData(w, http.StatusCreated, c)
}

// Update renames or redescribes a category. Body: {"name"?, "description"?}.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in catalog.UpdateInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

// Delete removes a category and its descendants.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, res)
}

// assignRequest is the body of AssignProduct. A null category_id
// uncategorizes the product.
type assignRequest struct {
	CategoryID *uuid.UUID `json:"category_id"`
}

// AssignProduct files the product {id} under a category.
func (h *Categories) AssignProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req assignRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.svc.AssignProduct(r.Context(), id, req.CategoryID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, p)
}
