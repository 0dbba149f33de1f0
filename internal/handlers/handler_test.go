// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Handlers run against the in-memory store so no external services are
// required.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"marketplace/internal/catalog"
	"marketplace/internal/models"
	"marketplace/internal/store/memory"
)

// testEnv holds all dependencies for handler tests.
type testEnv struct {
	Store   *memory.Store
	Service *catalog.Service
	H       *Categories
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st := memory.New()
	svc := catalog.New(st, nil)
	return &testEnv{Store: st, Service: svc, H: NewCategories(svc)}
}

// mustCreate adds a category through the service.
func (e *testEnv) mustCreate(t *testing.T, name, parent string) *models.Category {
	t.Helper()
	c, err := e.Service.Create(context.Background(), catalog.CreateInput{
		Name:        name,
		Description: name + " department",
		Parent:      parent,
	})
	if err != nil {
		t.Fatalf("Create(%s): %v", name, err)
	}
	return c
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// jsonRequest builds a request with a JSON body.
func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// response is the decoded API envelope.
type response struct {
	Success bool            `json:"success"`
	Count   *int            `json:"count"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// decode parses the envelope and, when out is non-nil, its data payload.
func decode(t *testing.T, rr *httptest.ResponseRecorder, out any) response {
	t.Helper()
	var resp response
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
	if out != nil {
		if err := json.Unmarshal(resp.Data, out); err != nil {
			t.Fatalf("decode data %s: %v", resp.Data, err)
		}
	}
	return resp
}
