package services_test

import (
	"errors"
	"testing"

	"nutrition-tracker-system/models"
	"nutrition-tracker-system/services"
)

func TestComputeRecommendationsKnownProfile(t *testing.T) {
	t.Parallel()

	// female, 29y, 162cm, 60kg, very active, losing:
	// BMR 1306.5 → TDEE 2253.7125 → ×0.85 → 1916; protein 60×1.8 → 108
	rec, err := services.ComputeRecommendations(baseProfile())
	if err != nil {
		t.Fatalf("compute recommendations: %v", err)
	}
	if rec.Calories != 1916 {
		t.Fatalf("expected 1916 recommended calories, got %d", rec.Calories)
	}
	if rec.ProteinG != 108 {
		t.Fatalf("expected 108g recommended protein, got %d", rec.ProteinG)
	}
}

func TestComputeRecommendationsPerGoal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		goal         models.GoalType
		goalWeightKg *float64
		wantCalories int
		wantProtein  int
	}{
		// male 30y/180cm/80kg moderately active: BMR 1780, TDEE 2759
		{name: "maintain", goal: models.GoalMaintain, wantCalories: 2759, wantProtein: 144},
		{name: "lose", goal: models.GoalLose, wantCalories: 2345, wantProtein: 144},
		{name: "gain uses current weight", goal: models.GoalGain, wantCalories: 3173, wantProtein: 160},
		{name: "gain uses goal weight for protein", goal: models.GoalGain, goalWeightKg: floatPtr(90), wantCalories: 3173, wantProtein: 180},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := baseProfile()
			p.Gender = models.GenderMale
			p.Age = 30
			p.HeightCm = 180
			p.WeightKg = 80
			p.ActivityLevel = models.ActivityModeratelyActive
			p.Goal = tc.goal
			p.GoalWeightKg = tc.goalWeightKg

			rec, err := services.ComputeRecommendations(p)
			if err != nil {
				t.Fatalf("compute recommendations: %v", err)
			}
			if rec.Calories != tc.wantCalories {
				t.Fatalf("expected %d calories, got %d", tc.wantCalories, rec.Calories)
			}
			if rec.ProteinG != tc.wantProtein {
				t.Fatalf("expected %dg protein, got %d", tc.wantProtein, rec.ProteinG)
			}
		})
	}
}

func TestComputeRecommendationsDeterministic(t *testing.T) {
	t.Parallel()

	p := baseProfile()
	first, err := services.ComputeRecommendations(p)
	if err != nil {
		t.Fatalf("first compute: %v", err)
	}
	second, err := services.ComputeRecommendations(p)
	if err != nil {
		t.Fatalf("second compute: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical recommendations, got %+v then %+v", first, second)
	}
}

func TestValidateProfileMetricsRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(p *models.UserProfile)
		wantField string
	}{
		{name: "zero age", mutate: func(p *models.UserProfile) { p.Age = 0 }, wantField: "age"},
		{name: "negative age", mutate: func(p *models.UserProfile) { p.Age = -4 }, wantField: "age"},
		{name: "zero height", mutate: func(p *models.UserProfile) { p.HeightCm = 0 }, wantField: "height_cm"},
		{name: "zero weight", mutate: func(p *models.UserProfile) { p.WeightKg = 0 }, wantField: "weight_kg"},
		{name: "unknown gender", mutate: func(p *models.UserProfile) { p.Gender = "other" }, wantField: "gender"},
		{name: "unknown activity level", mutate: func(p *models.UserProfile) { p.ActivityLevel = "olympic" }, wantField: "activity_level"},
		{name: "unknown goal", mutate: func(p *models.UserProfile) { p.Goal = "bulk" }, wantField: "goal"},
		{name: "non-positive goal weight", mutate: func(p *models.UserProfile) { p.GoalWeightKg = floatPtr(0) }, wantField: "goal_weight_kg"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := baseProfile()
			tc.mutate(p)

			_, err := services.ComputeRecommendations(p)
			var vErr *models.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected a validation error, got %v", err)
			}
			if vErr.Field != tc.wantField {
				t.Fatalf("expected field %q, got %q", tc.wantField, vErr.Field)
			}
		})
	}
}
