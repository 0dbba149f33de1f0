// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"marketplace/internal/models"
)

func TestCreate(t *testing.T) {
	env := newTestEnv(t)
	env.mustCreate(t, "Electronics", "")

	tests := []struct {
		name      string
		body      string
		want      int
		errSubstr string
	}{
		{"root", `{"name":"Home","description":"Household goods"}`, http.StatusCreated, ""},
		{"child", `{"name":"Computers","description":"Desktops","parent":"Electronics"}`, http.StatusCreated, ""},
		{"duplicate", `{"name":"Electronics","description":"Again here"}`, http.StatusConflict, "already exists"},
		{"short name", `{"name":"A","description":"Valid text"}`, http.StatusBadRequest, "at least 2"},
		{"long description", `{"name":"Books","description":"` + strings.Repeat("x", 501) + `"}`, http.StatusBadRequest, "more than 500"},
		{"missing description", `{"name":"Books"}`, http.StatusBadRequest, "description is required"},
		{"malformed json", `{"name":`, http.StatusBadRequest, "malformed"},
		{"unknown field", `{"name":"Books","description":"Paper","color":"red"}`, http.StatusBadRequest, "malformed"},
		{"trailing data", `{"name":"Books","description":"Paper"}{}`, http.StatusBadRequest, "single JSON object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			env.H.Create(rr, jsonRequest(http.MethodPost, "/api/v1/admin/categories", tt.body))

			if rr.Code != tt.want {
				t.Fatalf("status: got %d, want %d (body %s)", rr.Code, tt.want, rr.Body.String())
			}
			resp := decode(t, rr, nil)
			if resp.Success != (tt.want == http.StatusCreated) {
				t.Errorf("success: got %v", resp.Success)
			}
			if tt.errSubstr != "" && !strings.Contains(resp.Error, tt.errSubstr) {
				t.Errorf("error: got %q, want it to contain %q", resp.Error, tt.errSubstr)
			}
		})
	}
}

func TestCreateSetsLocationAndParent(t *testing.T) {
	env := newTestEnv(t)
	parent := env.mustCreate(t, "Electronics", "")

	rr := httptest.NewRecorder()
	env.H.Create(rr, jsonRequest(http.MethodPost, "/api/v1/admin/categories",
		`{"name":"Computers","description":"Desktops and laptops","parent":"Electronics"}`))

	var c models.Category
	decode(t, rr, &c)
	if !c.HasParent(parent.ID) {
		t.Errorf("parent_id: got %v, want %s", c.ParentID, parent.ID)
	}
	if c.Slug != "computers" {
		t.Errorf("slug: got %q, want %q", c.Slug, "computers")
	}
	if loc := rr.Header().Get("Location"); loc != "/api/v1/categories/"+c.ID.String() {
		t.Errorf("Location: got %q", loc)
	}
}

func TestPath(t *testing.T) {
	env := newTestEnv(t)
	env.mustCreate(t, "Electronics", "")
	env.mustCreate(t, "Computers", "Electronics")
	laptops := env.mustCreate(t, "Laptops", "Computers")

	for _, key := range []string{"laptops", laptops.ID.String()} {
		t.Run(key, func(t *testing.T) {
			rr := httptest.NewRecorder()
			env.H.Path(rr, httptest.NewRequest(http.MethodGet, "/api/v1/categories/path?category="+key, nil))
			if rr.Code != http.StatusOK {
				t.Fatalf("status: got %d, want 200", rr.Code)
			}

			var path []models.Category
			decode(t, rr, &path)
			want := []string{"Electronics", "Computers", "Laptops"}
			if len(path) != len(want) {
				t.Fatalf("path length: got %d, want %d", len(path), len(want))
			}
			for i, name := range want {
				if path[i].Name != name || path[i].Depth == nil || *path[i].Depth != i {
					t.Errorf("path[%d]: got %s@%v, want %s@%d", i, path[i].Name, path[i].Depth, name, i)
				}
			}
		})
	}
}

func TestPathErrors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"missing parameter", "", http.StatusBadRequest},
		{"unknown slug", "?category=nowhere", http.StatusNotFound},
		{"unknown id", "?category=" + uuid.NewString(), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			env.H.Path(rr, httptest.NewRequest(http.MethodGet, "/api/v1/categories/path"+tt.query, nil))
			if rr.Code != tt.want {
				t.Errorf("status: got %d, want %d", rr.Code, tt.want)
			}
			if resp := decode(t, rr, nil); resp.Success || resp.Error == "" {
				t.Errorf("expected error envelope, got %+v", resp)
			}
		})
	}
}

func TestRoots(t *testing.T) {
	env := newTestEnv(t)
	env.mustCreate(t, "Electronics", "")
	env.mustCreate(t, "Computers", "Electronics")
	env.mustCreate(t, "Home", "")

	rr := httptest.NewRecorder()
	env.H.Roots(rr, httptest.NewRequest(http.MethodGet, "/api/v1/categories/roots", nil))

	var roots []models.Category
	decode(t, rr, &roots)
	if len(roots) != 2 {
		t.Fatalf("roots: got %d, want 2", len(roots))
	}
	for _, r := range roots {
		if !r.IsRoot() {
			t.Errorf("%s is not a root", r.Name)
		}
		if r.Name == "Electronics" && (len(r.Children) != 1 || r.Children[0].Name != "Computers") {
			t.Errorf("Electronics children: got %+v", r.Children)
		}
	}
}

func TestChildren(t *testing.T) {
	env := newTestEnv(t)
	electronics := env.mustCreate(t, "Electronics", "")
	env.mustCreate(t, "Computers", "Electronics")
	env.mustCreate(t, "Phones", "Electronics")
	leaf := env.mustCreate(t, "Home", "")

	t.Run("by id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", electronics.ID.String())
		env.H.Children(rr, req)

		var kids []models.Category
		decode(t, rr, &kids)
		if len(kids) != 2 {
			t.Errorf("children: got %d, want 2", len(kids))
		}
	})

	t.Run("leaf returns empty array", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", leaf.ID.String())
		env.H.Children(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("status: got %d, want 200", rr.Code)
		}
		if !strings.Contains(rr.Body.String(), `"data":[]`) {
			t.Errorf("body: got %s, want an empty data array", rr.Body.String())
		}
	})

	t.Run("by slug", func(t *testing.T) {
		rr := httptest.NewRecorder()
		env.H.ChildrenBySlug(rr, httptest.NewRequest(http.MethodGet, "/api/v1/categories/children?category=electronics", nil))

		var kids []models.Category
		decode(t, rr, &kids)
		if len(kids) != 2 {
			t.Errorf("children: got %d, want 2", len(kids))
		}
	})

	t.Run("slug parameter required", func(t *testing.T) {
		rr := httptest.NewRecorder()
		env.H.ChildrenBySlug(rr, httptest.NewRequest(http.MethodGet, "/api/v1/categories/children", nil))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want 400", rr.Code)
		}
	})

	t.Run("unknown parent", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", uuid.NewString())
		env.H.Children(rr, req)
		if rr.Code != http.StatusNotFound {
			t.Errorf("status: got %d, want 404", rr.Code)
		}
	})
}

func TestInvalidIDParam(t *testing.T) {
	env := newTestEnv(t)

	handlers := map[string]http.HandlerFunc{
		"Get":           env.H.Get,
		"Children":      env.H.Children,
		"Subtree":       env.H.Subtree,
		"Products":      env.H.Products,
		"Update":        env.H.Update,
		"Delete":        env.H.Delete,
		"AssignProduct": env.H.AssignProduct,
	}

	for name, h := range handlers {
		t.Run(name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := withChiURLParam(jsonRequest(http.MethodGet, "/", `{}`), "id", "not-a-uuid")
			h(rr, req)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400", rr.Code)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	env := newTestEnv(t)
	c := env.mustCreate(t, "Computers", "")
	env.mustCreate(t, "Phones", "")

	tests := []struct {
		name string
		body string
		want int
	}{
		{"rename", `{"name":"Laptop Bags"}`, http.StatusOK},
		{"describe", `{"description":"Bags for laptops"}`, http.StatusOK},
		{"taken name", `{"name":"Phones"}`, http.StatusConflict},
		{"too short", `{"name":"x"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := withChiURLParam(jsonRequest(http.MethodPatch, "/", tt.body), "id", c.ID.String())
			env.H.Update(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status: got %d, want %d (body %s)", rr.Code, tt.want, rr.Body.String())
			}
		})
	}

	got, err := env.Service.Get(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Slug != "laptop-bags" || got.Description != "Bags for laptops" {
		t.Errorf("after updates: got slug %q description %q", got.Slug, got.Description)
	}
}

func TestDeleteCascadesAndRepairsProducts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	electronics := env.mustCreate(t, "Electronics", "")
	computers := env.mustCreate(t, "Computers", "Electronics")
	laptops := env.mustCreate(t, "Laptops", "Computers")

	p, err := env.Store.CreateProduct(ctx, &models.Product{Name: "Ultrabook", CategoryID: &laptops.ID})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	rr := httptest.NewRecorder()
	env.H.Delete(rr, withChiURLParam(httptest.NewRequest(http.MethodDelete, "/", nil), "id", computers.ID.String()))
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}

	var res models.DeleteResult
	decode(t, rr, &res)
	if res.DeletedID != computers.ID {
		t.Errorf("deleted_id: got %s, want %s", res.DeletedID, computers.ID)
	}
	if len(res.DeletedDescendantIDs) != 1 || res.DeletedDescendantIDs[0] != laptops.ID {
		t.Errorf("descendants: got %v, want [%s]", res.DeletedDescendantIDs, laptops.ID)
	}
	if res.ProductsRepaired != 1 {
		t.Errorf("products_repaired: got %d, want 1", res.ProductsRepaired)
	}

	got, _ := env.Store.Products().FindByID(ctx, p.ID)
	if got.CategoryID != nil {
		t.Errorf("product still references %s", *got.CategoryID)
	}
	if _, err := env.Service.Get(ctx, electronics.ID); err != nil {
		t.Errorf("ancestor should survive: %v", err)
	}

	rr = httptest.NewRecorder()
	env.H.Delete(rr, withChiURLParam(httptest.NewRequest(http.MethodDelete, "/", nil), "id", computers.ID.String()))
	if rr.Code != http.StatusNotFound {
		t.Errorf("second delete: got %d, want 404", rr.Code)
	}
}

func TestSubtreeAndProducts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	electronics := env.mustCreate(t, "Electronics", "")
	computers := env.mustCreate(t, "Computers", "Electronics")
	env.Store.CreateProduct(ctx, &models.Product{Name: "Desk PC", CategoryID: &computers.ID})

	rr := httptest.NewRecorder()
	env.H.Subtree(rr, withChiURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", electronics.ID.String()))
	var ids []uuid.UUID
	decode(t, rr, &ids)
	if len(ids) != 2 || ids[0] != electronics.ID {
		t.Errorf("subtree: got %v", ids)
	}

	rr = httptest.NewRecorder()
	env.H.Products(rr, withChiURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", computers.ID.String()))
	var products []models.Product
	decode(t, rr, &products)
	if len(products) != 1 || products[0].Name != "Desk PC" {
		t.Errorf("products: got %+v", products)
	}

	rr = httptest.NewRecorder()
	env.H.Products(rr, withChiURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", electronics.ID.String()))
	if !strings.Contains(rr.Body.String(), `"data":[]`) {
		t.Errorf("products of empty category: got %s", rr.Body.String())
	}
}

func TestAssignProduct(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	phones := env.mustCreate(t, "Phones", "")
	p, _ := env.Store.CreateProduct(ctx, &models.Product{Name: "Pocket Phone"})

	tests := []struct {
		name    string
		product string
		body    string
		want    int
	}{
		{"assign", p.ID.String(), `{"category_id":"` + phones.ID.String() + `"}`, http.StatusOK},
		{"clear", p.ID.String(), `{"category_id":null}`, http.StatusOK},
		{"unknown category", p.ID.String(), `{"category_id":"` + uuid.NewString() + `"}`, http.StatusNotFound},
		{"unknown product", uuid.NewString(), `{"category_id":null}`, http.StatusNotFound},
		{"bad category id", p.ID.String(), `{"category_id":"nope"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := withChiURLParam(jsonRequest(http.MethodPut, "/", tt.body), "id", tt.product)
			env.H.AssignProduct(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status: got %d, want %d (body %s)", rr.Code, tt.want, rr.Body.String())
			}
		})
	}
}

func TestList(t *testing.T) {
	env := newTestEnv(t)
	env.mustCreate(t, "Electronics", "")
	env.mustCreate(t, "Computers", "Electronics")

	rr := httptest.NewRecorder()
	env.H.List(rr, httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil))

	var all []models.Category
	decode(t, rr, &all)
	if len(all) != 2 {
		t.Errorf("list: got %d, want 2", len(all))
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type: got %q", ct)
	}
}
