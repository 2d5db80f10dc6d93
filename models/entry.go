package models

import (
	"math"
	"time"
)

// FoodLogEntry is one logged meal. Rows are immutable once created; streaks,
// achievements and analytics are all derived from them.
type FoodLogEntry struct {
	ID       string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID   string `gorm:"index:idx_entries_user_date;not null" json:"user_id"`
	LogDate  string `gorm:"index:idx_entries_user_date;type:varchar(10);not null" json:"log_date"` // YYYY-MM-DD
	FoodName string `gorm:"not null" json:"food_name"`
	FoodSlug string `gorm:"index;not null" json:"food_slug"`

	CaloriesPer100g float64 `json:"calories_per_100g"`
	ProteinPer100g  float64 `json:"protein_per_100g"`
	CarbsPer100g    float64 `json:"carbs_per_100g"`
	FatPer100g      float64 `json:"fat_per_100g"`
	PortionGrams    float64 `json:"estimated_portion_g"`

	TotalCalories float64 `json:"total_calories"`
	TotalProtein  float64 `json:"total_protein"`
	TotalCarbs    float64 `json:"total_carbs"`
	TotalFat      float64 `json:"total_fat"`

	Confidence float64 `json:"confidence"` // classifier confidence in [0,1]
	PhotoURL   string  `gorm:"type:text" json:"photo_url,omitempty"`

	LoggedAt time.Time `gorm:"autoCreateTime" json:"logged_at"`
}

// ComputeTotals fills the total macros from the per-100g values and the
// portion size. Totals are always computed here, never trusted from clients.
func (e *FoodLogEntry) ComputeTotals() {
	f := e.PortionGrams / 100
	e.TotalCalories = round1(e.CaloriesPer100g * f)
	e.TotalProtein = round1(e.ProteinPer100g * f)
	e.TotalCarbs = round1(e.CarbsPer100g * f)
	e.TotalFat = round1(e.FatPer100g * f)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// FoodAnalysis is the classifier's structured estimate for one meal photo.
type FoodAnalysis struct {
	FoodName        string  `json:"food_name"`
	CaloriesPer100g float64 `json:"calories_per_100g"`
	ProteinPer100g  float64 `json:"protein_per_100g"`
	CarbsPer100g    float64 `json:"carbs_per_100g"`
	FatPer100g      float64 `json:"fat_per_100g"`
	PortionGrams    float64 `json:"estimated_portion_g"`
	Confidence      float64 `json:"confidence"`
	Notes           string  `json:"notes,omitempty"`
}
