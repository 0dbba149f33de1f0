// Package router sets up all HTTP routes and middleware chains for the
// marketplace API. Routes are split into a public read-only group and an
// admin group guarded by a bearer token.
package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"marketplace/internal/handlers"
	"marketplace/internal/middleware"
)

// Options carries the dependencies New wires into the router.
type Options struct {
	Categories  *handlers.Categories
	RateLimiter *middleware.RateLimiter // nil disables rate limiting
	AdminToken  string

	// Ready reports whether backing services are reachable. Nil means
	// always ready.
	Ready func(ctx context.Context) error
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler(opts.Ready))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	h := opts.Categories
	r.Route("/api/v1", func(r chi.Router) {
		if opts.RateLimiter != nil {
			r.Use(opts.RateLimiter.Middleware)
		}

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.List)
			r.Get("/roots", h.Roots)
			r.Get("/path", h.Path)
			r.Get("/children", h.ChildrenBySlug)
			r.Get("/{id}", h.Get)
			r.Get("/{id}/children", h.Children)
			r.Get("/{id}/subtree", h.Subtree)
			r.Get("/{id}/products", h.Products)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdminToken(opts.AdminToken))

			r.Post("/categories", h.Create)
			r.Patch("/categories/{id}", h.Update)
			r.Delete("/categories/{id}", h.Delete)
			r.Put("/products/{id}/category", h.AssignProduct)
		})
	})

	return r
}

// healthHandler returns a JSON health check response. When ready is set
// and fails, it answers 503 so load balancers stop routing traffic here.
func healthHandler(ready func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ready(ctx); err != nil {
				slog.Warn("health check failed", "error", err)
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"status":"unavailable"}`))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}
}
