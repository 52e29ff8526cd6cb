package domain

import "context"

// CacheRepository is the narrow interface every result-cache backend
// implements. Values are opaque serialized payloads; keys are exact query
// strings (case-sensitive, no normalization). Entry lifetime and eviction
// are owned by the backend so callers cannot grow the cache without bound.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CatalogClient is the interface to the external food catalog.
// SearchFoods returns an empty slice (not an error) when the catalog has
// no hits for the query.
type CatalogClient interface {
	SearchFoods(ctx context.Context, query string) ([]CatalogCandidate, error)
	GetFoodDetail(ctx context.Context, fdcID int64) (*FoodDetail, error)
}

// Embedder produces a fixed-length vector for a text string.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
