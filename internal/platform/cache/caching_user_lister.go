// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"learnhub_backend/internal/feature/auth/domain/entity"
)

// UserLister is the listing operation this decorator wraps.
type UserLister interface {
	ListActive(ctx context.Context) ([]entity.User, error)
}

// CachingUserLister decorates a UserLister with Redis caching.
// It implements the decorator pattern, transparently adding caching without
// modifying the underlying repository. With a nil Redis client every call
// passes straight through, so the service runs fine without a cache.
type CachingUserLister struct {
	inner UserLister
	rdb   *redis.Client
	ttl   time.Duration
	key   string
}

// NewCachingUserLister decorates a UserLister with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses
// "users".
func NewCachingUserLister(rdb *redis.Client, ttl time.Duration, inner UserLister, namespace string) *CachingUserLister {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "users"
	}
	return &CachingUserLister{
		inner: inner,
		rdb:   rdb,
		ttl:   ttl,
		key:   namespace + ":active",
	}
}

// ListActive retrieves the active users, checking cache first then falling
// back to the database.
func (c *CachingUserLister) ListActive(ctx context.Context) ([]entity.User, error) {
	if c.rdb == nil {
		return c.inner.ListActive(ctx)
	}

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, c.key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.User
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, c.key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, c.key, b, c.ttl).Err()
	}

	return out, nil
}

// Invalidate drops the cached listing. Called after any user write so the
// admin listing never serves stale accounts.
func (c *CachingUserLister) Invalidate(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, c.key).Err()
}
