package domain

import "errors"

var (
	// ErrCacheMiss is returned when a key is not found in the result cache.
	ErrCacheMiss = errors.New("cache miss")

	// ErrCatalogUnavailable is returned when a catalog request fails or
	// returns a non-success status.
	ErrCatalogUnavailable = errors.New("catalog request failed")

	// ErrFoodNotFound is returned when the catalog has no record for an
	// identifier.
	ErrFoodNotFound = errors.New("food not found in catalog")

	// ErrEmbeddingUnavailable is returned when the embedding service
	// cannot produce a vector.
	ErrEmbeddingUnavailable = errors.New("embedding request failed")

	// ErrZeroEnergy is returned when per-energy normalization is attempted
	// on a profile whose energy value is zero.
	ErrZeroEnergy = errors.New("cannot normalize profile with zero energy")

	// ErrInvalidRequest is returned when request parameters are invalid.
	ErrInvalidRequest = errors.New("invalid request parameters")
)
