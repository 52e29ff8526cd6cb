package domain

// Nutrients holds the fixed canonical nutrient amounts the system tracks.
// Macros are grams, cholesterol/sodium/calcium/iron/vitamin C are
// milligrams, vitamin A is micrograms and energy is kcal, all per 100g of
// the source food unless the profile has been rescaled.
type Nutrients struct {
	TransFat      float64 `json:"transFat"`
	SaturatedFat  float64 `json:"saturatedFat"`
	Cholesterol   float64 `json:"cholesterol"`
	Sodium        float64 `json:"sodium"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fiber         float64 `json:"fiber"`
	Sugars        float64 `json:"sugars"`
	Protein       float64 `json:"protein"`
	VitaminA      float64 `json:"vitaminA"`
	VitaminC      float64 `json:"vitaminC"`
	Calcium       float64 `json:"calcium"`
	Iron          float64 `json:"iron"`
	Energy        float64 `json:"energy"`
}

// Profile is the canonical nutrient record for one catalog entry on a
// per-100g basis. Every canonical key is always present; nutrients absent
// from the source payload stay zero.
type Profile struct {
	FdcID     int64     `json:"fdcId"`
	Name      string    `json:"name,omitempty"`
	Nutrients Nutrients `json:"nutrients"`
}

// PerEnergyProfile is a profile whose tracked subset has been divided by
// its energy value. It is a distinct type so a normalized profile cannot
// be normalized again or fed into portion aggregation.
type PerEnergyProfile struct {
	FdcID     int64     `json:"fdcId"`
	Name      string    `json:"name,omitempty"`
	Nutrients Nutrients `json:"nutrients"`
}

// Portion pairs a raw per-100g profile with the gram weight of the
// ingredient as used in a meal.
type Portion struct {
	Profile Profile `json:"profile"`
	Grams   float64 `json:"grams"`
}

// MatchStatus classifies the outcome of resolving one food query.
type MatchStatus string

const (
	// StatusMatched means a candidate scored above zero and was selected.
	StatusMatched MatchStatus = "matched"
	// StatusNoMatch means the search returned candidates but none scored
	// above zero.
	StatusNoMatch MatchStatus = "no_match"
	// StatusNoCandidates means the search returned nothing, or failed and
	// was recovered as an empty result.
	StatusNoCandidates MatchStatus = "no_candidates"
)

// MatchResult is the outcome of hybrid matching for a single query.
// FdcID is only meaningful when Status is StatusMatched.
type MatchResult struct {
	Query       string      `json:"query"`
	Status      MatchStatus `json:"status"`
	FdcID       int64       `json:"fdcId,omitempty"`
	Description string      `json:"description,omitempty"`
	BrandOwner  string      `json:"brandOwner,omitempty"`
	Category    string      `json:"category,omitempty"`
	Score       float64     `json:"score"`
}

// ExtractResult is the per-identifier outcome of a bulk nutrient
// extraction. Err is non-nil when the detail lookup for that identifier
// failed; the rest of the batch is unaffected.
type ExtractResult struct {
	FdcID   int64   `json:"fdcId"`
	Profile Profile `json:"profile"`
	Err     error   `json:"-"`
}
