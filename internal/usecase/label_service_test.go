package usecase

import (
	"testing"

	"github.com/nutrilabel/backend/internal/domain"
)

func TestFormatLabel(t *testing.T) {
	profile := domain.Profile{
		Name: "Chicken breast raw, Rice brown cooked",
		Nutrients: domain.Nutrients{
			Energy:        493.5,
			TransFat:      0.1,
			SaturatedFat:  5,
			Cholesterol:   150,
			Sodium:        575,
			Carbohydrates: 55,
			Fiber:         7,
			Sugars:        1.2,
			Protein:       52,
			VitaminA:      90,
			VitaminC:      9,
			Calcium:       130,
			Iron:          3.6,
		},
	}

	schema := FormatLabel(profile)

	t.Run("header", func(t *testing.T) {
		if schema.Title != profile.Name {
			t.Errorf("Title = %q, want %q", schema.Title, profile.Name)
		}
		if schema.ServingSize != "100g" {
			t.Errorf("ServingSize = %q, want 100g", schema.ServingSize)
		}
		if schema.Calories != 494 {
			t.Errorf("Calories = %v, want 494 (rounded)", schema.Calories)
		}
	})

	t.Run("macro group order and amounts", func(t *testing.T) {
		want := []domain.LabelEntry{
			{Name: "Trans Fat", Amount: "0.1g"},
			{Name: "Saturated Fat", Amount: "5.0g", DailyValue: "25%"},
			{Name: "Cholesterol", Amount: "150mg", DailyValue: "50%"},
			{Name: "Sodium", Amount: "575mg", DailyValue: "25%"},
			{Name: "Total Carbohydrate", Amount: "55.0g", DailyValue: "20%"},
			{Name: "Dietary Fiber", Amount: "7.0g", DailyValue: "25%"},
			{Name: "Total Sugars", Amount: "1.2g"},
			{Name: "Protein", Amount: "52.0g", DailyValue: "104%"},
		}

		if len(schema.Nutrients) != len(want) {
			t.Fatalf("len(Nutrients) = %d, want %d", len(schema.Nutrients), len(want))
		}
		for i, w := range want {
			if schema.Nutrients[i] != w {
				t.Errorf("Nutrients[%d] = %+v, want %+v", i, schema.Nutrients[i], w)
			}
		}
	})

	t.Run("micro group order and amounts", func(t *testing.T) {
		want := []domain.LabelEntry{
			{Name: "Vitamin A", Amount: "90.0mcg", DailyValue: "10%"},
			{Name: "Vitamin C", Amount: "9mg", DailyValue: "10%"},
			{Name: "Calcium", Amount: "130mg", DailyValue: "10%"},
			{Name: "Iron", Amount: "4mg", DailyValue: "20%"},
		}

		if len(schema.Micronutrients) != len(want) {
			t.Fatalf("len(Micronutrients) = %d, want %d", len(schema.Micronutrients), len(want))
		}
		for i, w := range want {
			if schema.Micronutrients[i] != w {
				t.Errorf("Micronutrients[%d] = %+v, want %+v", i, schema.Micronutrients[i], w)
			}
		}
	})

	t.Run("footer", func(t *testing.T) {
		if len(schema.Footer) == 0 {
			t.Error("Footer is empty")
		}
	})
}

func TestFormatLabel_ZeroProfile(t *testing.T) {
	schema := FormatLabel(domain.Profile{})

	if schema.Calories != 0 {
		t.Errorf("Calories = %v, want 0", schema.Calories)
	}
	// Every row is still present with a zero amount.
	if len(schema.Nutrients) != 8 {
		t.Errorf("len(Nutrients) = %d, want 8", len(schema.Nutrients))
	}
	if len(schema.Micronutrients) != 4 {
		t.Errorf("len(Micronutrients) = %d, want 4", len(schema.Micronutrients))
	}
	for _, e := range schema.Nutrients {
		if e.Name == "Sodium" && e.Amount != "0mg" {
			t.Errorf("Sodium Amount = %q, want 0mg", e.Amount)
		}
		if e.Name == "Protein" && e.DailyValue != "0%" {
			t.Errorf("Protein DailyValue = %q, want 0%%", e.DailyValue)
		}
	}
}

func TestFormatLabel_NoDailyValueRows(t *testing.T) {
	schema := FormatLabel(domain.Profile{Nutrients: domain.Nutrients{TransFat: 3, Sugars: 12}})

	for _, e := range schema.Nutrients {
		if (e.Name == "Trans Fat" || e.Name == "Total Sugars") && e.DailyValue != "" {
			t.Errorf("%s DailyValue = %q, want empty (no FDA reference)", e.Name, e.DailyValue)
		}
	}
}
