package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/nutrilabel/backend/internal/domain"
)

// MemoryCache is a bounded in-memory cache: entries expire after the
// configured TTL and the least recently used entry is evicted once the
// size cap is reached, so the cache cannot grow without bound.
type MemoryCache struct {
	lru *expirable.LRU[string, []byte]
}

// NewMemoryCache creates an in-memory cache holding at most maxEntries
// values for at most ttl each.
func NewMemoryCache(maxEntries int, ttl time.Duration) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = 10000
	}
	return &MemoryCache{
		lru: expirable.NewLRU[string, []byte](maxEntries, nil, ttl),
	}
}

// Get retrieves a value from the cache.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, ok := c.lru.Get(key)
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return value, nil
}

// Set stores a value in the cache.
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte) error {
	c.lru.Add(key, value)
	return nil
}

// Delete removes a value from the cache.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}

// Exists checks whether a live entry is present for the key.
func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := c.lru.Get(key)
	return ok, nil
}

// Len returns the current number of items in the cache.
func (c *MemoryCache) Len() int {
	return c.lru.Len()
}
