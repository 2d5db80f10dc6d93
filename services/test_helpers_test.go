package services_test

import (
	"nutrition-tracker-system/models"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

// baseProfile is a valid profile tests tweak per case.
func baseProfile() *models.UserProfile {
	return &models.UserProfile{
		ID:            "user-1",
		Email:         "test@example.com",
		Name:          "Test User",
		Age:           29,
		Gender:        models.GenderFemale,
		HeightCm:      162,
		WeightKg:      60,
		ActivityLevel: models.ActivityVeryActive,
		Goal:          models.GoalLose,
	}
}

func entry(id, date string, calories, protein float64) models.FoodLogEntry {
	return models.FoodLogEntry{
		ID:            id,
		UserID:        "user-1",
		LogDate:       date,
		FoodName:      "Test Food",
		FoodSlug:      "test-food",
		TotalCalories: calories,
		TotalProtein:  protein,
	}
}
