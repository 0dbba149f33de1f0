package database

import (
	"context"
	"testing"
)

func TestSeedIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := Connect(ctx, testDSN())
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	defer db.Close()

	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	// Seed only writes into an empty catalog, so a second call is a no-op.
	// The database is not cleared first because other test packages may be
	// running against it concurrently.
	if err := Seed(ctx, db); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	if err := Seed(ctx, db); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		t.Fatalf("count categories: %v", err)
	}
	if count < 1 {
		t.Errorf("expected categories after seeding, got %d", count)
	}
}

func TestSeedTreeIsWellFormed(t *testing.T) {
	known := map[string]bool{}
	for _, c := range seedCategories {
		if c.parent != "" && !known[c.parent] {
			t.Errorf("category %q lists parent %q before it is seeded", c.name, c.parent)
		}
		known[c.name] = true
	}
	for _, p := range seedProducts {
		if !known[p.category] {
			t.Errorf("product %q references unknown category %q", p.name, p.category)
		}
	}
}
