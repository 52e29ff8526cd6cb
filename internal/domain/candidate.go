package domain

import "encoding/json"

// FoodCategory decodes the catalog's category field, which arrives either
// as a bare string or as an object carrying a description. It is resolved
// to a single display string at ingestion and marshals back as a string.
type FoodCategory struct {
	Description string
}

func (c *FoodCategory) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.Description = s
		return nil
	}

	var obj struct {
		Description string `json:"description"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		// Malformed category shapes are tolerated as empty, never fatal.
		c.Description = ""
		return nil
	}
	c.Description = obj.Description
	return nil
}

func (c FoodCategory) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Description)
}

// CatalogCandidate is one record from a catalog search response.
type CatalogCandidate struct {
	FdcID       int64        `json:"fdcId"`
	Description string       `json:"description"`
	BrandOwner  string       `json:"brandOwner,omitempty"`
	DataType    string       `json:"dataType,omitempty"`
	Category    FoodCategory `json:"foodCategory,omitempty"`
}

// SearchResponse is the catalog search endpoint payload.
type SearchResponse struct {
	Foods     []CatalogCandidate `json:"foods"`
	TotalHits int                `json:"totalHits"`
}

// FoodDetail is the catalog detail endpoint payload for one identifier.
// Unlike search results, detail nutrients arrive nested under a nutrient
// descriptor object.
type FoodDetail struct {
	FdcID         int64          `json:"fdcId"`
	Description   string         `json:"description"`
	FoodNutrients []FoodNutrient `json:"foodNutrients"`
}

// FoodNutrient is a single (nutrient id, amount) pair from a detail
// payload.
type FoodNutrient struct {
	Nutrient NutrientRef `json:"nutrient"`
	Amount   float64     `json:"amount"`
}

// NutrientRef identifies a nutrient in the catalog's numbering scheme.
type NutrientRef struct {
	ID       int64  `json:"id"`
	Name     string `json:"name,omitempty"`
	UnitName string `json:"unitName,omitempty"`
}
