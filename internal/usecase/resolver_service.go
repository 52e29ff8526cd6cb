package usecase

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/nutrilabel/backend/internal/domain"
)

const searchKeyPrefix = "search:"

// ResolverConfig holds configuration for the resolver service.
type ResolverConfig struct {
	// Workers bounds the number of queries resolved concurrently.
	Workers int
}

// ResolverService resolves free-text food queries to catalog records:
// cached search results when available, an external search otherwise,
// then hybrid matching over the candidates.
type ResolverService struct {
	cache   domain.CacheRepository
	catalog domain.CatalogClient
	matcher *MatchingService
	group   singleflight.Group
	workers int
	logger  *zap.Logger
}

// NewResolverService creates a resolver with the given dependencies.
func NewResolverService(
	cache domain.CacheRepository,
	catalog domain.CatalogClient,
	matcher *MatchingService,
	config ResolverConfig,
	logger *zap.Logger,
) *ResolverService {
	workers := config.Workers
	if workers <= 0 {
		workers = 4
	}

	return &ResolverService{
		cache:   cache,
		catalog: catalog,
		matcher: matcher,
		workers: workers,
		logger:  logger,
	}
}

// ResolveAll resolves every query independently and returns results in
// input order. One query's failure never aborts the batch: a failed or
// empty search yields a no-candidates result for that entry. Queries fan
// out over a bounded worker pool; lookups for the same query string are
// collapsed so the external search runs at most once per key.
func (s *ResolverService) ResolveAll(
	ctx context.Context,
	queries []string,
	opts MatchOptions,
) ([]domain.MatchResult, error) {
	if len(queries) == 0 {
		return nil, domain.ErrInvalidRequest
	}

	batchID := uuid.NewString()
	s.logger.Info("resolving food queries",
		zap.String("batch", batchID),
		zap.Int("count", len(queries)))

	results := make([]domain.MatchResult, len(queries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, query := range queries {
		i, query := i, query
		g.Go(func() error {
			results[i] = s.resolveOne(ctx, query, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// resolveOne handles a single query: candidate lookup, then matching.
func (s *ResolverService) resolveOne(ctx context.Context, query string, opts MatchOptions) domain.MatchResult {
	candidates := s.lookupCandidates(ctx, query)
	if len(candidates) == 0 {
		return domain.MatchResult{Query: query, Status: domain.StatusNoCandidates}
	}

	result, err := s.matcher.Match(ctx, query, candidates, opts)
	if err != nil {
		s.logger.Warn("match aborted",
			zap.String("query", query),
			zap.Error(err))
		return domain.MatchResult{Query: query, Status: domain.StatusNoMatch}
	}
	return result
}

// lookupCandidates returns the candidate list for a query, from cache
// when possible. Check-then-populate is serialized per key via
// singleflight to keep the at-most-one-external-call-per-key guarantee
// under concurrency. A failed search is recovered as an empty candidate
// list and is not cached, so a later attempt can retry.
func (s *ResolverService) lookupCandidates(ctx context.Context, query string) []domain.CatalogCandidate {
	v, _, _ := s.group.Do(query, func() (interface{}, error) {
		key := searchKeyPrefix + query

		if data, err := s.cache.Get(ctx, key); err == nil {
			var cached []domain.CatalogCandidate
			if err := json.Unmarshal(data, &cached); err == nil {
				s.logger.Debug("search cache hit", zap.String("query", query))
				return cached, nil
			}
			// Undecodable entry: fall through to a fresh search.
			s.logger.Warn("discarding corrupt cache entry", zap.String("query", query))
		}

		candidates, err := s.catalog.SearchFoods(ctx, query)
		if err != nil {
			s.logger.Warn("catalog search failed, treating as no candidates",
				zap.String("query", query),
				zap.Error(err))
			return []domain.CatalogCandidate(nil), nil
		}

		if data, err := json.Marshal(candidates); err == nil {
			if err := s.cache.Set(ctx, key, data); err != nil {
				s.logger.Warn("failed to cache search results",
					zap.String("query", query),
					zap.Error(err))
			}
		}
		return candidates, nil
	})

	return v.([]domain.CatalogCandidate)
}
