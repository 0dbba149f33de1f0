package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"marketplace/internal/slug"
)

type seedCategory struct {
	name, description, parent string
}

type seedProduct struct {
	name, description, category string
	price                       float64
	stock                       int
}

var seedCategories = []seedCategory{
	{name: "Electronics", description: "Devices, gadgets and accessories"},
	{name: "Computers", description: "Desktops, laptops and parts", parent: "Electronics"},
	{name: "Laptops", description: "Portable computers", parent: "Computers"},
	{name: "Phones", description: "Smartphones and feature phones", parent: "Electronics"},
	{name: "Home", description: "Furniture and household goods"},
}

var seedProducts = []seedProduct{
	{name: "Ultrabook 13", description: "Light 13 inch laptop", category: "Laptops", price: 1099, stock: 12},
	{name: "Workstation Tower", description: "Desktop for heavy workloads", category: "Computers", price: 1899, stock: 3},
	{name: "Pocket Phone", description: "Compact smartphone", category: "Phones", price: 499, stock: 40},
	{name: "Oak Desk", description: "Solid oak writing desk", category: "Home", price: 349, stock: 5},
}

// Seed populates an empty database with a small category tree and a few
// products for development. It does nothing if any category exists.
func Seed(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ids := make(map[string]string, len(seedCategories))
	for _, c := range seedCategories {
		var parentID *string
		if c.parent != "" {
			id := ids[c.parent]
			parentID = &id
		}
		var id string
		err := tx.QueryRowContext(ctx, `
			INSERT INTO categories (name, slug, description, parent_id)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, c.name, slug.Generate(c.name), c.description, parentID).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", c.name, err)
		}
		ids[c.name] = id
	}

	for _, p := range seedProducts {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO products (name, slug, description, price, stock, category_id)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, p.name, slug.Generate(p.name), p.description, p.price, p.stock, ids[p.category])
		if err != nil {
			return fmt.Errorf("seed product %s: %w", p.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded",
		"categories", len(seedCategories),
		"products", len(seedProducts),
	)
	return nil
}
