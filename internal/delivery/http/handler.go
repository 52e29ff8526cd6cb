package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nutrilabel/backend/internal/domain"
	"github.com/nutrilabel/backend/internal/usecase"
)

// FoodResolver resolves free-text food queries to catalog matches.
type FoodResolver interface {
	ResolveAll(ctx context.Context, queries []string, opts usecase.MatchOptions) ([]domain.MatchResult, error)
}

// NutrientExtractor fetches canonical nutrient profiles by identifier.
type NutrientExtractor interface {
	Extract(ctx context.Context, fdcID int64) (domain.Profile, error)
	ExtractAll(ctx context.Context, fdcIDs []int64) []domain.ExtractResult
}

// MatchDefaults are applied when a request omits matching options.
type MatchDefaults struct {
	Alpha         float64
	PreferBranded bool
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	resolver  FoodResolver
	nutrition NutrientExtractor
	defaults  MatchDefaults
	logger    *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(resolver FoodResolver, nutrition NutrientExtractor, defaults MatchDefaults, logger *zap.Logger) *Handler {
	return &Handler{
		resolver:  resolver,
		nutrition: nutrition,
		defaults:  defaults,
		logger:    logger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "nutrilabel-backend",
		"version": "1.0.0",
	})
}

type resolveRequest struct {
	Items         []string `json:"items" binding:"required"`
	PreferBranded *bool    `json:"preferBranded"`
	Alpha         *float64 `json:"alpha"`
}

// ResolveFoods resolves a batch of free-text food queries.
func (h *Handler) ResolveFoods(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "items must not be empty"})
		return
	}

	results, err := h.resolver.ResolveAll(c.Request.Context(), req.Items, h.matchOptions(req.PreferBranded, req.Alpha))
	if err != nil {
		h.logger.Error("resolve batch failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve foods"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

type nutritionRequest struct {
	FdcIDs    []int64 `json:"fdcIds" binding:"required"`
	PerEnergy bool    `json:"perEnergy"`
}

type nutritionEntry struct {
	FdcID     int64                    `json:"fdcId"`
	Profile   *domain.Profile          `json:"profile,omitempty"`
	PerEnergy *domain.PerEnergyProfile `json:"perEnergyProfile,omitempty"`
	Error     string                   `json:"error,omitempty"`
}

// GetNutrition returns canonical nutrient profiles for a batch of
// catalog identifiers, optionally rescaled to a per-kcal basis.
func (h *Handler) GetNutrition(c *gin.Context) {
	var req nutritionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if len(req.FdcIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fdcIds must not be empty"})
		return
	}

	results := h.nutrition.ExtractAll(c.Request.Context(), req.FdcIDs)

	entries := make([]nutritionEntry, 0, len(results))
	for _, r := range results {
		entry := nutritionEntry{FdcID: r.FdcID}
		switch {
		case r.Err != nil:
			entry.Error = r.Err.Error()
		case req.PerEnergy:
			normalized, err := usecase.NormalizePerEnergy(r.Profile)
			if err != nil {
				entry.Error = err.Error()
			} else {
				entry.PerEnergy = &normalized
			}
		default:
			profile := r.Profile
			entry.Profile = &profile
		}
		entries = append(entries, entry)
	}

	c.JSON(http.StatusOK, gin.H{"foods": entries})
}

type labelItem struct {
	Query string  `json:"query"`
	FdcID int64   `json:"fdcId"`
	Grams float64 `json:"grams" binding:"required"`
}

type labelRequest struct {
	Items         []labelItem `json:"items" binding:"required"`
	PreferBranded *bool       `json:"preferBranded"`
	Alpha         *float64    `json:"alpha"`
}

// CreateLabel resolves the requested items, extracts their nutrient
// profiles, aggregates the portions and returns a structured nutrition
// label for the combined meal.
func (h *Handler) CreateLabel(c *gin.Context) {
	var req labelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "items must not be empty"})
		return
	}
	for _, item := range req.Items {
		if item.Query == "" && item.FdcID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "each item needs a query or an fdcId"})
			return
		}
		if item.Grams <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "grams must be positive"})
			return
		}
	}

	ids, unresolved, err := h.resolveLabelItems(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("label resolution failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve label items"})
		return
	}
	if len(unresolved) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":      "some items could not be matched to a food",
			"unresolved": unresolved,
		})
		return
	}

	results := h.nutrition.ExtractAll(c.Request.Context(), ids)
	profiles := make(map[int64]domain.Profile, len(results))
	for _, r := range results {
		if r.Err != nil {
			h.logger.Warn("label nutrient lookup failed",
				zap.Int64("fdcId", r.FdcID),
				zap.Error(r.Err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "nutrient lookup failed for one or more items"})
			return
		}
		profiles[r.FdcID] = r.Profile
	}

	portions := make([]domain.Portion, 0, len(req.Items))
	for i, item := range req.Items {
		portions = append(portions, domain.Portion{
			Profile: profiles[ids[i]],
			Grams:   item.Grams,
		})
	}

	combined := usecase.Aggregate(portions)
	c.JSON(http.StatusOK, usecase.FormatLabel(combined))
}

// resolveLabelItems maps each label item to a catalog identifier:
// explicit fdcIds pass through, queries go through the resolver. The
// returned slice is parallel to the request items.
func (h *Handler) resolveLabelItems(ctx context.Context, req labelRequest) ([]int64, []string, error) {
	ids := make([]int64, len(req.Items))

	queries := make([]string, 0, len(req.Items))
	queryIdx := make([]int, 0, len(req.Items))
	for i, item := range req.Items {
		if item.FdcID != 0 {
			ids[i] = item.FdcID
			continue
		}
		queries = append(queries, item.Query)
		queryIdx = append(queryIdx, i)
	}

	var unresolved []string
	if len(queries) > 0 {
		results, err := h.resolver.ResolveAll(ctx, queries, h.matchOptions(req.PreferBranded, req.Alpha))
		if err != nil {
			return nil, nil, err
		}
		for j, r := range results {
			if r.Status != domain.StatusMatched {
				unresolved = append(unresolved, r.Query)
				continue
			}
			ids[queryIdx[j]] = r.FdcID
		}
	}

	return ids, unresolved, nil
}

// matchOptions fills omitted request options from the configured defaults.
func (h *Handler) matchOptions(preferBranded *bool, alpha *float64) usecase.MatchOptions {
	opts := usecase.MatchOptions{
		PreferBranded: h.defaults.PreferBranded,
		Alpha:         h.defaults.Alpha,
	}
	if preferBranded != nil {
		opts.PreferBranded = *preferBranded
	}
	if alpha != nil {
		opts.Alpha = *alpha
	}
	return opts
}
