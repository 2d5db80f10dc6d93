package services

import (
	"math"

	"nutrition-tracker-system/models"
)

// ActivityMultipliers maps each activity level to its TDEE factor. This is
// the single source of truth for valid activity levels — profile validation
// checks membership here.
var ActivityMultipliers = map[models.ActivityLevel]float64{
	models.ActivitySedentary:        1.2,
	models.ActivityLightlyActive:    1.375,
	models.ActivityModeratelyActive: 1.55,
	models.ActivityVeryActive:       1.725,
	models.ActivityExtremelyActive:  1.9,
}

// ProteinRates holds the g/kg protein target per goal. For a gain goal with
// goal_weight_kg set, the rate applies to the goal weight instead.
var ProteinRates = map[models.GoalType]float64{
	models.GoalLose:     1.8,
	models.GoalMaintain: 1.8,
	models.GoalGain:     2.0,
}

// calorieGoalFactors scales TDEE into the calorie target: 15% deficit for
// lose, 15% surplus for gain.
var calorieGoalFactors = map[models.GoalType]float64{
	models.GoalLose:     0.85,
	models.GoalMaintain: 1.0,
	models.GoalGain:     1.15,
}

// GoalMetFraction is how much of a daily target counts as "goal met" —
// reaching 90% of recommended calories or protein satisfies the day.
const GoalMetFraction = 0.9

// Recommendation is the daily calorie and protein target for one profile.
type Recommendation struct {
	Calories int `json:"recommended_calories"`
	ProteinG int `json:"recommended_protein_g"`
}

// ValidateProfileMetrics rejects profiles the recommendation formulas cannot
// price: non-positive age/height/weight or an enum value outside the tables.
func ValidateProfileMetrics(p *models.UserProfile) error {
	if p.Age <= 0 {
		return models.NewValidationError("age", "must be a positive number of years")
	}
	if p.HeightCm <= 0 {
		return models.NewValidationError("height_cm", "must be positive")
	}
	if p.WeightKg <= 0 {
		return models.NewValidationError("weight_kg", "must be positive")
	}
	if p.Gender != models.GenderMale && p.Gender != models.GenderFemale {
		return models.NewValidationError("gender", "must be \"male\" or \"female\"")
	}
	if _, ok := ActivityMultipliers[p.ActivityLevel]; !ok {
		return models.NewValidationError("activity_level", "unknown activity level")
	}
	if _, ok := calorieGoalFactors[p.Goal]; !ok {
		return models.NewValidationError("goal", "must be \"lose\", \"maintain\" or \"gain\"")
	}
	if p.GoalWeightKg != nil && *p.GoalWeightKg <= 0 {
		return models.NewValidationError("goal_weight_kg", "must be positive when set")
	}
	return nil
}

// CalculateBMR computes basal metabolic rate via Mifflin-St Jeor.
func CalculateBMR(p *models.UserProfile) float64 {
	bmr := 10*p.WeightKg + 6.25*p.HeightCm - 5*float64(p.Age)
	if p.Gender == models.GenderMale {
		return bmr + 5
	}
	return bmr - 161
}

// ComputeRecommendations turns a profile into its daily calorie and protein
// targets. Pure and deterministic; the only failure mode is invalid input.
//
// Calories: BMR × activity multiplier, then ±15% by goal. A lose-goal result
// is clamped so it never dips below BMR. Protein: goal rate × body weight
// (goal weight for gain, when set). Both rounded to the nearest integer.
func ComputeRecommendations(p *models.UserProfile) (Recommendation, error) {
	if err := ValidateProfileMetrics(p); err != nil {
		return Recommendation{}, err
	}

	bmr := CalculateBMR(p)
	tdee := bmr * ActivityMultipliers[p.ActivityLevel]
	calories := tdee * calorieGoalFactors[p.Goal]
	if p.Goal == models.GoalLose && calories < bmr {
		calories = bmr
	}

	proteinWeight := p.WeightKg
	if p.Goal == models.GoalGain && p.GoalWeightKg != nil {
		proteinWeight = *p.GoalWeightKg
	}
	protein := proteinWeight * ProteinRates[p.Goal]

	return Recommendation{
		Calories: int(math.Round(calories)),
		ProteinG: int(math.Round(protein)),
	}, nil
}
