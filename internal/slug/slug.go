// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation for category and
// product names.
package slug

import (
	"strings"

	gosimple "github.com/gosimple/slug"
)

// Generate creates a URL-friendly slug from the given name. Non-ASCII
// letters are transliterated, everything is lowercased and runs of
// separators collapse into a single hyphen.
// Example: "Hello, World! 2026" → "hello-world-2026"
//
// Slugs are not unique: distinct names may produce the same slug.
func Generate(s string) string {
	return gosimple.Make(strings.TrimSpace(s))
}

// Valid reports whether s is already in canonical slug form.
func Valid(s string) bool {
	return s != "" && gosimple.IsSlug(s)
}
