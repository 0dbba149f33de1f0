// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// category.go provides a Valkey-backed cache for the category read models
// that are expensive to rebuild: the root listing with attached children and
// resolved breadcrumb paths. Every write to the catalog clears it.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"marketplace/internal/models"
)

const (
	// categoryKeyPrefix is the Valkey key prefix for cached category data.
	categoryKeyPrefix = "catalog:"

	rootsKey   = categoryKeyPrefix + "roots"
	pathPrefix = categoryKeyPrefix + "path:"

	// DefaultCategoryTTL bounds how long a cached entry can outlive a write
	// made by another process.
	DefaultCategoryTTL = 5 * time.Minute
)

// CategoryCache stores category read models in Valkey. All failures are
// logged and reported as misses.
type CategoryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCategoryCache creates a category cache backed by the given Valkey client.
func NewCategoryCache(client *redis.Client, ttl time.Duration) *CategoryCache {
	if ttl == 0 {
		ttl = DefaultCategoryTTL
	}
	return &CategoryCache{client: client, ttl: ttl}
}

// Roots returns the cached root listing.
func (cc *CategoryCache) Roots(ctx context.Context) ([]models.Category, bool) {
	return cc.get(ctx, rootsKey)
}

// SetRoots caches the root listing.
func (cc *CategoryCache) SetRoots(ctx context.Context, roots []models.Category) {
	cc.set(ctx, rootsKey, roots)
}

// Path returns the cached path for a category id or slug.
func (cc *CategoryCache) Path(ctx context.Context, key string) ([]models.Category, bool) {
	return cc.get(ctx, pathPrefix+key)
}

// SetPath caches the path for a category id or slug.
func (cc *CategoryCache) SetPath(ctx context.Context, key string, path []models.Category) {
	cc.set(ctx, pathPrefix+key, path)
}

func (cc *CategoryCache) get(ctx context.Context, key string) ([]models.Category, bool) {
	val, err := cc.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("category cache get error", "key", key, "error", err)
		return nil, false
	}

	var out []models.Category
	if err := json.Unmarshal(val, &out); err != nil {
		slog.Warn("category cache decode error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("category cache hit", "key", key)
	return out, true
}

func (cc *CategoryCache) set(ctx context.Context, key string, v []models.Category) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Warn("category cache encode error", "key", key, "error", err)
		return
	}
	if err := cc.client.Set(ctx, key, data, cc.ttl).Err(); err != nil {
		slog.Warn("category cache set error", "key", key, "error", err)
	}
}

// Invalidate removes every cached category entry by scanning for the prefix.
func (cc *CategoryCache) Invalidate(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := cc.client.Scan(ctx, cursor, categoryKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("category cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := cc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("category cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	slog.Debug("category cache cleared", "deleted", deleted)
}
