package embedding

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/nutrilabel/backend/internal/domain"
)

// DefaultCacheSize bounds the embedding memo. At ~1536 dimensions and
// 4 bytes per float, 2048 entries stay around 12MB.
const DefaultCacheSize = 2048

// CachedEmbedder memoizes an Embedder for the process lifetime so
// repeated comparison strings within and across matching operations hit
// the external service at most once. Safe for concurrent use; concurrent
// misses for the same text are collapsed into a single upstream call.
type CachedEmbedder struct {
	inner domain.Embedder
	cache *lru.Cache[string, []float32]
	group singleflight.Group
}

// NewCachedEmbedder wraps inner with an LRU memo of the given size.
func NewCachedEmbedder(inner domain.Embedder, size int) *CachedEmbedder {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, _ := lru.New[string, []float32](size)
	return &CachedEmbedder{
		inner: inner,
		cache: cache,
	}
}

// Embed returns the memoized vector for text, calling the inner embedder
// only on first sight. Errors are not cached, so a transient upstream
// failure does not poison the key.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := c.cache.Get(text); ok {
		return vec, nil
	}

	v, err, _ := c.group.Do(text, func() (interface{}, error) {
		if vec, ok := c.cache.Get(text); ok {
			return vec, nil
		}
		vec, err := c.inner.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		c.cache.Add(text, vec)
		return vec, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]float32), nil
}

// Len reports the current number of memoized entries.
func (c *CachedEmbedder) Len() int {
	return c.cache.Len()
}
