// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"marketplace/internal/models"
)

// pathToRoot follows parent references upward from start and returns the
// visited categories ordered root first, with Depth set to the number of
// hops from the root. The walk is bounded by the total category count so a
// corrupted parent graph fails with ErrCycleDetected instead of looping.
func pathToRoot(ctx context.Context, cats CategoryStore, start *models.Category) ([]models.Category, error) {
	total, err := cats.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}

	path := []models.Category{*start}
	current := start
	for hops := 0; current.ParentID != nil; {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		hops++
		if hops > total {
			return nil, fmt.Errorf("%w: category %s did not reach a root within %d hops",
				ErrCycleDetected, start.ID, total)
		}

		parent, err := cats.FindByID(ctx, *current.ParentID)
		if err != nil {
			return nil, fmt.Errorf("find parent of %s: %w", current.ID, err)
		}
		if parent == nil {
			return nil, fmt.Errorf("%w: parent %s of category %s does not exist",
				ErrNotFound, *current.ParentID, current.ID)
		}

		path = append(path, *parent)
		current = parent
	}

	// Collected leaf first; callers render breadcrumbs root first.
	slices.Reverse(path)
	for i := range path {
		depth := i
		path[i].Depth = &depth
		path[i].Children = nil
	}
	return path, nil
}

// collectSubtree returns rootID followed by every transitive descendant in
// breadth-first order. Each pass fetches the children of the whole
// frontier in one store call; a node already collected is never revisited.
func collectSubtree(ctx context.Context, cats CategoryStore, rootID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{rootID}
	seen := map[uuid.UUID]struct{}{rootID: {}}
	frontier := []uuid.UUID{rootID}

	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		children, err := cats.ListByParents(ctx, frontier)
		if err != nil {
			return nil, fmt.Errorf("list children: %w", err)
		}

		next := make([]uuid.UUID, 0, len(children))
		for _, c := range children {
			if _, ok := seen[c.ID]; ok {
				continue
			}
			seen[c.ID] = struct{}{}
			ids = append(ids, c.ID)
			next = append(next, c.ID)
		}
		frontier = next
	}
	return ids, nil
}

// attachChildren sets Children on each parent from a flat child list.
func attachChildren(parents []models.Category, children []models.Category) {
	byParent := make(map[uuid.UUID][]models.Category, len(parents))
	for _, c := range children {
		if c.ParentID != nil {
			byParent[*c.ParentID] = append(byParent[*c.ParentID], c)
		}
	}
	for i := range parents {
		kids := byParent[parents[i].ID]
		if kids == nil {
			kids = []models.Category{}
		}
		parents[i].Children = kids
	}
}
