// Package main is the entry point for the marketplace catalog server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace/internal/cache"
	"marketplace/internal/catalog"
	"marketplace/internal/config"
	"marketplace/internal/database"
	"marketplace/internal/handlers"
	"marketplace/internal/middleware"
	"marketplace/internal/router"
	"marketplace/internal/store"
	"marketplace/internal/store/memory"
)

func main() {
	// Structured logger: text in development, JSON elsewhere.
	level := slog.LevelInfo
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"store", cfg.StoreDriver,
	)

	ctx := context.Background()

	// Storage backend.
	var repo catalog.Repository
	var ready func(context.Context) error
	switch cfg.StoreDriver {
	case config.DriverMemory:
		repo = memory.New()
		slog.Warn("using in-memory store, data is lost on restart")
	default:
		db, err := database.Connect(ctx, cfg.DSN())
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := database.Migrate(ctx, db); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}

		// Seed development data (no-op if data already exists).
		if cfg.IsDev() {
			if err := database.Seed(ctx, db); err != nil {
				slog.Error("failed to seed database", "error", err)
				os.Exit(1)
			}
		}

		repo = store.NewCatalog(db)
		ready = db.PingContext
	}

	// Optional Valkey cache for roots and breadcrumb paths. The catalog
	// is correct without it, so a connection failure only degrades speed.
	var categoryCache catalog.Cache
	if cfg.CacheEnabled() {
		client, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
		if err != nil {
			slog.Warn("valkey unavailable, running without category cache", "error", err)
		} else {
			defer client.Close()
			categoryCache = cache.NewCategoryCache(client, cfg.CacheTTL)
		}
	}

	svc := catalog.New(repo, categoryCache)

	if cfg.AdminToken == "" {
		slog.Warn("ADMIN_TOKEN is empty, admin routes are locked")
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
	defer limiter.Stop()

	r := router.New(router.Options{
		Categories:  handlers.NewCategories(svc),
		RateLimiter: limiter,
		AdminToken:  cfg.AdminToken,
		Ready:       ready,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		slog.Error("server failed to start", "error", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
