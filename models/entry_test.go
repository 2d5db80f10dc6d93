package models_test

import (
	"testing"

	"nutrition-tracker-system/models"
)

func TestComputeTotalsScalesByPortion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		entry        models.FoodLogEntry
		wantCalories float64
		wantProtein  float64
		wantCarbs    float64
		wantFat      float64
	}{
		{
			name: "double portion",
			entry: models.FoodLogEntry{
				CaloriesPer100g: 150,
				ProteinPer100g:  10,
				CarbsPer100g:    20,
				FatPer100g:      5,
				PortionGrams:    200,
			},
			wantCalories: 300,
			wantProtein:  20,
			wantCarbs:    40,
			wantFat:      10,
		},
		{
			name: "fractional portion rounds to one decimal",
			entry: models.FoodLogEntry{
				CaloriesPer100g: 123.4,
				ProteinPer100g:  8.9,
				CarbsPer100g:    15.7,
				FatPer100g:      4.3,
				PortionGrams:    250,
			},
			wantCalories: 308.5,
			wantProtein:  22.3,
			wantCarbs:    39.3,
			wantFat:      10.8,
		},
		{
			name: "small portion",
			entry: models.FoodLogEntry{
				CaloriesPer100g: 200,
				ProteinPer100g:  10,
				CarbsPer100g:    25,
				FatPer100g:      8,
				PortionGrams:    30,
			},
			wantCalories: 60,
			wantProtein:  3,
			wantCarbs:    7.5,
			wantFat:      2.4,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := tc.entry
			e.ComputeTotals()

			if e.TotalCalories != tc.wantCalories {
				t.Fatalf("expected total calories %v, got %v", tc.wantCalories, e.TotalCalories)
			}
			if e.TotalProtein != tc.wantProtein {
				t.Fatalf("expected total protein %v, got %v", tc.wantProtein, e.TotalProtein)
			}
			if e.TotalCarbs != tc.wantCarbs {
				t.Fatalf("expected total carbs %v, got %v", tc.wantCarbs, e.TotalCarbs)
			}
			if e.TotalFat != tc.wantFat {
				t.Fatalf("expected total fat %v, got %v", tc.wantFat, e.TotalFat)
			}
		})
	}
}

func TestComputeTotalsOverwritesClientValues(t *testing.T) {
	t.Parallel()

	e := models.FoodLogEntry{
		CaloriesPer100g: 100,
		ProteinPer100g:  10,
		PortionGrams:    100,
		// A client claiming inflated totals gets recomputed
		TotalCalories: 9999,
		TotalProtein:  9999,
	}
	e.ComputeTotals()

	if e.TotalCalories != 100 {
		t.Fatalf("expected recomputed calories 100, got %v", e.TotalCalories)
	}
	if e.TotalProtein != 10 {
		t.Fatalf("expected recomputed protein 10, got %v", e.TotalProtein)
	}
}
