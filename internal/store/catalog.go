// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store implements the catalog storage ports on PostgreSQL. Every
// store runs its queries through a DBTX so the same code serves both the
// connection pool and an open transaction.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"marketplace/internal/catalog"
)

// DBTX is the query surface shared by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Catalog is the PostgreSQL catalog repository.
type Catalog struct {
	db *sql.DB // nil inside a transaction
	q  DBTX
}

// NewCatalog returns a repository backed by the given pool.
func NewCatalog(db *sql.DB) *Catalog {
	return &Catalog{db: db, q: db}
}

// Categories returns a category store bound to this repository's connection.
func (c *Catalog) Categories() catalog.CategoryStore { return NewCategoryStore(c.q) }

// Products returns a product store bound to this repository's connection.
func (c *Catalog) Products() catalog.ProductStore { return NewProductStore(c.q) }

// WithTx runs fn inside a database transaction. The transaction commits
// only if fn returns nil. Calling WithTx on a transactional repository
// reuses the open transaction.
func (c *Catalog) WithTx(ctx context.Context, fn func(tx catalog.Repository) error) error {
	if c.db == nil {
		return fn(c)
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := fn(&Catalog{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// uuidStrings renders ids for a uuid[] array parameter.
func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
