package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/landmarket/backend/internal/domain/listing"
	"github.com/landmarket/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ListingCache keeps fully loaded listings keyed by slug
type ListingCache interface {
	// Get returns the cached listing, or nil on a miss
	Get(ctx context.Context, slug string) (*listing.Listing, error)
	Set(ctx context.Context, l *listing.Listing) error
	Invalidate(ctx context.Context, slug string) error
}

const listingKeyPrefix = "landmarket:listing:slug:"

// NewListingCache picks Redis when a client is available and process memory
// otherwise. A disabled cache never stores anything.
func NewListingCache(cfg config.CacheConfig, client *redis.Client, logger *zap.Logger) ListingCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch {
	case !cfg.Enabled:
		return NoopListingCache{}
	case client != nil:
		logger.Info("using Redis listing cache", zap.Duration("ttl", cfg.ListingTTL))
		return NewRedisListingCache(client, cfg.ListingTTL)
	default:
		logger.Warn("Redis unavailable, using in-memory listing cache")
		return NewInMemoryListingCache(cfg.ListingTTL)
	}
}

// RedisListingCache stores listings as JSON with a TTL
type RedisListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisListingCache creates a cache on an existing client
func NewRedisListingCache(client *redis.Client, ttl time.Duration) *RedisListingCache {
	return &RedisListingCache{client: client, ttl: ttl}
}

// Get loads and decodes the cached listing
func (c *RedisListingCache) Get(ctx context.Context, slug string) (*listing.Listing, error) {
	raw, err := c.client.Get(ctx, listingKeyPrefix+slug).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read listing cache: %w", err)
	}
	var l listing.Listing
	if err := json.Unmarshal(raw, &l); err != nil {
		// A stale encoding is treated as a miss
		return nil, nil
	}
	return &l, nil
}

// Set stores l under its slug
func (c *RedisListingCache) Set(ctx context.Context, l *listing.Listing) error {
	if l == nil || l.Slug == "" {
		return nil
	}
	raw, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("failed to encode listing: %w", err)
	}
	if err := c.client.Set(ctx, listingKeyPrefix+l.Slug, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write listing cache: %w", err)
	}
	return nil
}

// Invalidate drops the entry for slug
func (c *RedisListingCache) Invalidate(ctx context.Context, slug string) error {
	if err := c.client.Del(ctx, listingKeyPrefix+slug).Err(); err != nil {
		return fmt.Errorf("failed to invalidate listing cache: %w", err)
	}
	return nil
}

// cacheEntry wraps a cached value with expiration time
type cacheEntry[T any] struct {
	value     *T
	expiresAt time.Time
}

func (e *cacheEntry[T]) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemoryListingCache is a per-process cache for single-instance deployments
type InMemoryListingCache struct {
	entries sync.Map // slug -> *cacheEntry[listing.Listing]
	ttl     time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

// NewInMemoryListingCache creates an empty cache
func NewInMemoryListingCache(ttl time.Duration) *InMemoryListingCache {
	return &InMemoryListingCache{ttl: ttl}
}

// Get returns a copy of the cached listing
func (c *InMemoryListingCache) Get(_ context.Context, slug string) (*listing.Listing, error) {
	if v, ok := c.entries.Load(slug); ok {
		entry := v.(*cacheEntry[listing.Listing])
		if !entry.isExpired() {
			c.hits.Add(1)
			cp := *entry.value
			return &cp, nil
		}
		c.entries.Delete(slug)
	}
	c.misses.Add(1)
	return nil, nil
}

// Set stores a copy of l
func (c *InMemoryListingCache) Set(_ context.Context, l *listing.Listing) error {
	if l == nil || l.Slug == "" {
		return nil
	}
	cp := *l
	c.entries.Store(l.Slug, &cacheEntry[listing.Listing]{value: &cp, expiresAt: time.Now().Add(c.ttl)})
	return nil
}

// Invalidate drops the entry for slug
func (c *InMemoryListingCache) Invalidate(_ context.Context, slug string) error {
	c.entries.Delete(slug)
	return nil
}

// Stats returns hit and miss counters
func (c *InMemoryListingCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// NoopListingCache always misses
type NoopListingCache struct{}

func (NoopListingCache) Get(context.Context, string) (*listing.Listing, error) { return nil, nil }
func (NoopListingCache) Set(context.Context, *listing.Listing) error           { return nil }
func (NoopListingCache) Invalidate(context.Context, string) error              { return nil }
