package usecase

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/nutrilabel/backend/internal/domain"
)

// DefaultAlpha is the semantic weight used when the caller does not
// supply one.
const DefaultAlpha = 0.5

// Package-level compiled regex pattern for performance
var punctuationRegex = regexp.MustCompile(`[^\w\s]`)

// MatchOptions controls hybrid scoring for one match operation.
type MatchOptions struct {
	// PreferBranded augments a candidate's comparison string with its
	// brand owner when one is present.
	PreferBranded bool
	// Alpha weights the semantic score; the lexical score gets 1-alpha.
	// Values outside [0,1] are clamped.
	Alpha float64
}

// MatchingService selects the best catalog candidate for a free-text
// query using a weighted blend of lexical token-set similarity and
// embedding cosine similarity.
type MatchingService struct {
	embedder domain.Embedder
	logger   *zap.Logger
}

// NewMatchingService creates a matching service backed by the given
// embedder.
func NewMatchingService(embedder domain.Embedder, logger *zap.Logger) *MatchingService {
	return &MatchingService{
		embedder: embedder,
		logger:   logger,
	}
}

// Match scores every candidate and returns the one with the strictly
// greatest hybrid score. Ties keep the first candidate seen, preserving
// catalog order. An empty candidate list, or a list where nothing scores
// above zero, yields a no-match result rather than an error.
//
// The comparison string feeds both the lexical and semantic signals so
// alpha interpolates between two views of the same text. If the
// embedding service is unavailable the match degrades to lexical-only
// scoring for this candidate set.
func (s *MatchingService) Match(
	ctx context.Context,
	query string,
	candidates []domain.CatalogCandidate,
	opts MatchOptions,
) (domain.MatchResult, error) {
	result := domain.MatchResult{Query: query, Status: domain.StatusNoMatch}
	if len(candidates) == 0 {
		return result, nil
	}

	alpha := clamp01(opts.Alpha)
	queryLower := strings.ToLower(query)

	queryVec, err := s.embedder.Embed(ctx, query)
	semanticOK := err == nil
	if !semanticOK {
		s.logger.Warn("embedding unavailable, scoring lexical-only",
			zap.String("query", query),
			zap.Error(err))
	}

	bestIdx := -1
	bestScore := 0.0

	for i, cand := range candidates {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		compare := cand.Description
		if opts.PreferBranded && cand.BrandOwner != "" {
			compare = cand.BrandOwner + " " + cand.Description
		}

		lexical := tokenSetRatio(queryLower, strings.ToLower(compare))

		score := lexical
		if semanticOK {
			candVec, err := s.embedder.Embed(ctx, compare)
			if err != nil {
				s.logger.Warn("candidate embedding failed, using lexical score",
					zap.Int64("fdcId", cand.FdcID),
					zap.Error(err))
			} else {
				semantic := clamp01(cosineSimilarity(queryVec, candVec))
				score = alpha*semantic + (1-alpha)*lexical
			}
		}

		// Strict greater-than: the first candidate in catalog order wins
		// ties, and a zero score never qualifies.
		if score > bestScore {
			bestIdx = i
			bestScore = score
		}
	}

	if bestIdx < 0 {
		return result, nil
	}

	best := candidates[bestIdx]
	return domain.MatchResult{
		Query:       query,
		Status:      domain.StatusMatched,
		FdcID:       best.FdcID,
		Description: best.Description,
		BrandOwner:  best.BrandOwner,
		Category:    best.Category.Description,
		Score:       bestScore,
	}, nil
}

// tokenSetRatio computes a token-set similarity in [0,1]: both strings
// are reduced to sorted unique token sets, and the best pairwise ratio
// among {intersection, intersection+restA, intersection+restB} is taken.
// A string whose tokens are a subset of the other's scores 1.
func tokenSetRatio(a, b string) float64 {
	tokensA := tokenSet(a)
	tokensB := tokenSet(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	intersection, restA, restB := partitionTokens(tokensA, tokensB)

	base := strings.Join(intersection, " ")
	combinedA := strings.TrimSpace(base + " " + strings.Join(restA, " "))
	combinedB := strings.TrimSpace(base + " " + strings.Join(restB, " "))

	best := editRatio(base, combinedA)
	if r := editRatio(base, combinedB); r > best {
		best = r
	}
	if r := editRatio(combinedA, combinedB); r > best {
		best = r
	}
	return best
}

// tokenSet splits a string into sorted unique tokens with punctuation
// removed. Caller is expected to lower-case the input.
func tokenSet(s string) []string {
	cleaned := punctuationRegex.ReplaceAllString(s, " ")
	words := strings.Fields(cleaned)

	seen := make(map[string]bool, len(words))
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if !seen[w] {
			seen[w] = true
			tokens = append(tokens, w)
		}
	}
	sort.Strings(tokens)
	return tokens
}

// partitionTokens splits two sorted token sets into their intersection
// and the leftovers unique to each side, all sorted.
func partitionTokens(tokensA, tokensB []string) (intersection, restA, restB []string) {
	inB := make(map[string]bool, len(tokensB))
	for _, t := range tokensB {
		inB[t] = true
	}

	inBoth := make(map[string]bool)
	for _, t := range tokensA {
		if inB[t] {
			intersection = append(intersection, t)
			inBoth[t] = true
		} else {
			restA = append(restA, t)
		}
	}
	for _, t := range tokensB {
		if !inBoth[t] {
			restB = append(restB, t)
		}
	}
	return intersection, restA, restB
}

// editRatio is a normalized Levenshtein similarity: 1 for identical
// strings, 0 when every character differs.
func editRatio(s1, s2 string) float64 {
	if s1 == "" && s2 == "" {
		return 0
	}
	longer := len([]rune(s1))
	if l := len([]rune(s2)); l > longer {
		longer = l
	}
	dist := levenshteinDistance(s1, s2)
	return 1 - float64(dist)/float64(longer)
}

// levenshteinDistance calculates the edit distance between two strings
// using two rows instead of the full matrix.
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len([]rune(s2))
	}
	if len(s2) == 0 {
		return len([]rune(s1))
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	n := len(r2)

	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched lengths are compared over the shared prefix with the extra
// dimensions counted toward the longer vector's norm.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	shared := len(a)
	if len(b) < shared {
		shared = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < shared; i++ {
		av := float64(a[i])
		bv := float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}
	for _, av := range a[shared:] {
		normA += float64(av) * float64(av)
	}
	for _, bv := range b[shared:] {
		normB += float64(bv) * float64(bv)
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
