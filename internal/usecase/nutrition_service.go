package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nutrilabel/backend/internal/domain"
)

// Catalog nutrient ids for the canonical nutrient set.
const (
	nutrientIDTransFat      = 1257
	nutrientIDSaturatedFat  = 1258
	nutrientIDCholesterol   = 1253
	nutrientIDSodium        = 1093
	nutrientIDCarbohydrates = 1005
	nutrientIDFiber         = 1079
	nutrientIDSugars        = 2000
	nutrientIDProtein       = 1003
	nutrientIDVitaminA      = 1104
	nutrientIDVitaminC      = 1162
	nutrientIDCalcium       = 1087
	nutrientIDIron          = 1089
	nutrientIDEnergy        = 1008
)

// NutritionConfig holds configuration for the nutrition service.
type NutritionConfig struct {
	// Workers bounds the number of concurrent detail lookups.
	Workers int
}

// NutritionService turns catalog identifiers into canonical nutrient
// profiles.
type NutritionService struct {
	catalog domain.CatalogClient
	workers int
	logger  *zap.Logger
}

// NewNutritionService creates a nutrition service backed by the given
// catalog client.
func NewNutritionService(catalog domain.CatalogClient, config NutritionConfig, logger *zap.Logger) *NutritionService {
	workers := config.Workers
	if workers <= 0 {
		workers = 4
	}

	return &NutritionService{
		catalog: catalog,
		workers: workers,
		logger:  logger,
	}
}

// Extract fetches the nutrient payload for one identifier and maps known
// nutrient ids onto the canonical profile. Unknown ids are dropped;
// canonical nutrients absent from the payload stay zero.
func (s *NutritionService) Extract(ctx context.Context, fdcID int64) (domain.Profile, error) {
	detail, err := s.catalog.GetFoodDetail(ctx, fdcID)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("nutrient lookup for fdcId %d: %w", fdcID, err)
	}

	profile := domain.Profile{
		FdcID: fdcID,
		Name:  detail.Description,
	}
	for _, fn := range detail.FoodNutrients {
		applyNutrient(&profile.Nutrients, fn.Nutrient.ID, fn.Amount)
	}
	return profile, nil
}

// ExtractAll extracts profiles for a batch of identifiers. Duplicates
// are collapsed so each unique identifier triggers at most one external
// call; lookups fan out over a bounded worker pool. One identifier's
// failure is recorded in its entry and never aborts the batch. Results
// come back in first-seen order of the unique identifiers.
func (s *NutritionService) ExtractAll(ctx context.Context, fdcIDs []int64) []domain.ExtractResult {
	unique := dedupeIDs(fdcIDs)
	results := make([]domain.ExtractResult, len(unique))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, id := range unique {
		i, id := i, id
		g.Go(func() error {
			profile, err := s.Extract(ctx, id)
			if err != nil {
				s.logger.Warn("skipping failed nutrient lookup",
					zap.Int64("fdcId", id),
					zap.Error(err))
				results[i] = domain.ExtractResult{FdcID: id, Err: err}
				return nil
			}
			results[i] = domain.ExtractResult{FdcID: id, Profile: profile}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// applyNutrient maps one catalog nutrient id onto its canonical slot.
func applyNutrient(n *domain.Nutrients, id int64, amount float64) {
	switch id {
	case nutrientIDTransFat:
		n.TransFat = amount
	case nutrientIDSaturatedFat:
		n.SaturatedFat = amount
	case nutrientIDCholesterol:
		n.Cholesterol = amount
	case nutrientIDSodium:
		n.Sodium = amount
	case nutrientIDCarbohydrates:
		n.Carbohydrates = amount
	case nutrientIDFiber:
		n.Fiber = amount
	case nutrientIDSugars:
		n.Sugars = amount
	case nutrientIDProtein:
		n.Protein = amount
	case nutrientIDVitaminA:
		n.VitaminA = amount
	case nutrientIDVitaminC:
		n.VitaminC = amount
	case nutrientIDCalcium:
		n.Calcium = amount
	case nutrientIDIron:
		n.Iron = amount
	case nutrientIDEnergy:
		n.Energy = amount
	}
}

// dedupeIDs removes duplicate identifiers preserving first-seen order.
func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	return unique
}

// NormalizePerEnergy rescales the tracked subset of nutrients (protein,
// fiber, trans fat, saturated fat, sugars, calcium, vitamin C, sodium)
// to a per-kcal basis. The result is a distinct type so it cannot be
// normalized again or aggregated. A zero-energy profile returns
// ErrZeroEnergy instead of producing non-finite values.
func NormalizePerEnergy(p domain.Profile) (domain.PerEnergyProfile, error) {
	if p.Nutrients.Energy == 0 {
		return domain.PerEnergyProfile{}, domain.ErrZeroEnergy
	}

	n := p.Nutrients
	e := n.Energy
	n.Protein /= e
	n.Fiber /= e
	n.TransFat /= e
	n.SaturatedFat /= e
	n.Sugars /= e
	n.Calcium /= e
	n.VitaminC /= e
	n.Sodium /= e

	return domain.PerEnergyProfile{
		FdcID:     p.FdcID,
		Name:      p.Name,
		Nutrients: n,
	}, nil
}

// Aggregate scales each portion's nutrients by its gram weight (source
// amounts are per-100g) and sums them into one combined profile. Zero
// portions yield an all-zero profile. Display names are comma-joined,
// with embedded commas stripped from individual names to keep the join
// unambiguous.
func Aggregate(portions []domain.Portion) domain.Profile {
	var combined domain.Profile
	names := make([]string, 0, len(portions))

	for _, portion := range portions {
		scale := portion.Grams / 100
		n := portion.Profile.Nutrients

		combined.Nutrients.TransFat += n.TransFat * scale
		combined.Nutrients.SaturatedFat += n.SaturatedFat * scale
		combined.Nutrients.Cholesterol += n.Cholesterol * scale
		combined.Nutrients.Sodium += n.Sodium * scale
		combined.Nutrients.Carbohydrates += n.Carbohydrates * scale
		combined.Nutrients.Fiber += n.Fiber * scale
		combined.Nutrients.Sugars += n.Sugars * scale
		combined.Nutrients.Protein += n.Protein * scale
		combined.Nutrients.VitaminA += n.VitaminA * scale
		combined.Nutrients.VitaminC += n.VitaminC * scale
		combined.Nutrients.Calcium += n.Calcium * scale
		combined.Nutrients.Iron += n.Iron * scale
		combined.Nutrients.Energy += n.Energy * scale

		name := strings.TrimSpace(strings.ReplaceAll(portion.Profile.Name, ",", ""))
		if name != "" {
			names = append(names, name)
		}
	}

	combined.Name = strings.Join(names, ", ")
	return combined
}
