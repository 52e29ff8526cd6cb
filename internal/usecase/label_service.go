package usecase

import (
	"fmt"
	"math"

	"github.com/nutrilabel/backend/internal/domain"
)

// Per-key display units on the label.
const (
	unitGrams      = "g"
	unitMilligrams = "mg"
	unitMicrograms = "mcg"
)

// labelRow describes one canonical nutrient's presentation: display
// name, unit, FDA daily reference value (0 when none is defined) and an
// accessor into the canonical profile.
type labelRow struct {
	name       string
	unit       string
	dailyValue float64
	value      func(domain.Nutrients) float64
}

// macroRows lists the label's main nutrient group in FDA label order.
var macroRows = []labelRow{
	{"Trans Fat", unitGrams, 0, func(n domain.Nutrients) float64 { return n.TransFat }},
	{"Saturated Fat", unitGrams, 20, func(n domain.Nutrients) float64 { return n.SaturatedFat }},
	{"Cholesterol", unitMilligrams, 300, func(n domain.Nutrients) float64 { return n.Cholesterol }},
	{"Sodium", unitMilligrams, 2300, func(n domain.Nutrients) float64 { return n.Sodium }},
	{"Total Carbohydrate", unitGrams, 275, func(n domain.Nutrients) float64 { return n.Carbohydrates }},
	{"Dietary Fiber", unitGrams, 28, func(n domain.Nutrients) float64 { return n.Fiber }},
	{"Total Sugars", unitGrams, 0, func(n domain.Nutrients) float64 { return n.Sugars }},
	{"Protein", unitGrams, 50, func(n domain.Nutrients) float64 { return n.Protein }},
}

// microRows lists the vitamin and mineral group.
var microRows = []labelRow{
	{"Vitamin A", unitMicrograms, 900, func(n domain.Nutrients) float64 { return n.VitaminA }},
	{"Vitamin C", unitMilligrams, 90, func(n domain.Nutrients) float64 { return n.VitaminC }},
	{"Calcium", unitMilligrams, 1300, func(n domain.Nutrients) float64 { return n.Calcium }},
	{"Iron", unitMilligrams, 18, func(n domain.Nutrients) float64 { return n.Iron }},
}

// labelFooter is the standard daily-value explanation printed under the
// micronutrient group.
var labelFooter = []string{
	"* The % Daily Value (DV) tells you how much a nutrient in",
	"a serving of food contributes to a daily diet. 2,000 calories",
	"a day is used for general nutrition advice.",
}

// FormatLabel maps a canonical profile into the structured label schema
// handed to the external renderer: a calories line from the energy key,
// the macro group, and the micro group, each row carrying an amount with
// unit and a % daily value where the FDA defines a reference amount.
func FormatLabel(p domain.Profile) domain.LabelSchema {
	schema := domain.LabelSchema{
		Title:          p.Name,
		ServingSize:    "100g",
		Calories:       math.Round(p.Nutrients.Energy),
		Nutrients:      make([]domain.LabelEntry, 0, len(macroRows)),
		Micronutrients: make([]domain.LabelEntry, 0, len(microRows)),
		Footer:         labelFooter,
	}

	for _, row := range macroRows {
		schema.Nutrients = append(schema.Nutrients, formatEntry(row, p.Nutrients))
	}
	for _, row := range microRows {
		schema.Micronutrients = append(schema.Micronutrients, formatEntry(row, p.Nutrients))
	}

	return schema
}

func formatEntry(row labelRow, n domain.Nutrients) domain.LabelEntry {
	amount := row.value(n)

	entry := domain.LabelEntry{
		Name:   row.name,
		Amount: formatAmount(amount, row.unit),
	}
	if row.dailyValue > 0 {
		entry.DailyValue = fmt.Sprintf("%d%%", int(math.Round(amount/row.dailyValue*100)))
	}
	return entry
}

// formatAmount renders an amount with its unit: grams keep one decimal,
// milligrams round to whole numbers, micrograms keep one decimal.
func formatAmount(v float64, unit string) string {
	switch unit {
	case unitMilligrams:
		return fmt.Sprintf("%.0f%s", v, unit)
	default:
		return fmt.Sprintf("%.1f%s", v, unit)
	}
}
