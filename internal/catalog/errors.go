// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import "errors"

// Error kinds returned by the catalog service. Every error the service
// returns wraps exactly one of these, so callers branch with errors.Is.
var (
	// ErrNotFound means a referenced category, product, slug or id is absent.
	ErrNotFound = errors.New("not found")

	// ErrConflict means a category with the same name already exists.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput means a field failed length or format validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCycleDetected means the parent graph is corrupt. It cannot happen
	// while writes go through this package.
	ErrCycleDetected = errors.New("cycle detected")

	// ErrRepairFailed means products referencing a deleted category could
	// not be detached; the deletion was rolled back.
	ErrRepairFailed = errors.New("product repair failed")
)

// Fatal reports whether err is a structural failure that must not be
// retried without manual intervention.
func Fatal(err error) bool {
	return errors.Is(err, ErrCycleDetected) || errors.Is(err, ErrRepairFailed)
}
