package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"

	"github.com/nutrilabel/backend/internal/domain"
)

// pebbleEntry is the stored envelope: the raw value plus its expiry so
// stale entries read after a restart are still honored as misses.
type pebbleEntry struct {
	ExpiresAt time.Time `json:"expiresAt"`
	Value     []byte    `json:"value"`
}

// PebbleCache is a durable on-disk cache backed by a Pebble KV store.
// Repeated runs of the same session reuse previously persisted search
// results instead of re-issuing external calls.
type PebbleCache struct {
	db  *pebble.DB
	ttl time.Duration
}

// NewPebbleCache opens (or creates) the cache database at path.
func NewPebbleCache(path string, ttl time.Duration) (*PebbleCache, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open pebble cache: %w", err)
	}
	return &PebbleCache{db: db, ttl: ttl}, nil
}

// Get retrieves a value, treating expired or undecodable entries as
// misses.
func (c *PebbleCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, closer, err := c.db.Get([]byte(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, domain.ErrCacheMiss
		}
		return nil, fmt.Errorf("pebble get: %w", err)
	}

	var entry pebbleEntry
	decodeErr := json.Unmarshal(data, &entry)
	closer.Close()
	if decodeErr != nil {
		return nil, domain.ErrCacheMiss
	}

	if time.Now().After(entry.ExpiresAt) {
		_ = c.db.Delete([]byte(key), pebble.NoSync)
		return nil, domain.ErrCacheMiss
	}

	return entry.Value, nil
}

// Set persists a value with the configured TTL.
func (c *PebbleCache) Set(ctx context.Context, key string, value []byte) error {
	entry := pebbleEntry{
		ExpiresAt: time.Now().Add(c.ttl),
		Value:     value,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := c.db.Set([]byte(key), data, pebble.Sync); err != nil {
		return fmt.Errorf("pebble set: %w", err)
	}
	return nil
}

// Delete removes a value from the cache.
func (c *PebbleCache) Delete(ctx context.Context, key string) error {
	if err := c.db.Delete([]byte(key), pebble.Sync); err != nil {
		return fmt.Errorf("pebble delete: %w", err)
	}
	return nil
}

// Exists checks whether a live entry is present for the key.
func (c *PebbleCache) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.Get(ctx, key)
	if errors.Is(err, domain.ErrCacheMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Close releases the underlying database.
func (c *PebbleCache) Close() error {
	return c.db.Close()
}
