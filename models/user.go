package models

import (
	"time"
)

// Gender values the recommendation formula knows how to price.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ActivityLevel keys into the TDEE multiplier table in services.
type ActivityLevel string

const (
	ActivitySedentary        ActivityLevel = "sedentary"
	ActivityLightlyActive    ActivityLevel = "lightly_active"
	ActivityModeratelyActive ActivityLevel = "moderately_active"
	ActivityVeryActive       ActivityLevel = "very_active"
	ActivityExtremelyActive  ActivityLevel = "extremely_active"
)

// GoalType is the user's current objective.
type GoalType string

const (
	GoalLose     GoalType = "lose"
	GoalMaintain GoalType = "maintain"
	GoalGain     GoalType = "gain"
)

// UserProfile holds the account identity plus everything the recommendation
// engine needs. Enum validation lives next to the multiplier tables in
// services, which are the source of truth for accepted values.
type UserProfile struct {
	ID           string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Name         string `gorm:"not null" json:"name"`

	Age           int           `json:"age"`
	Gender        Gender        `gorm:"type:varchar(8)" json:"gender"`
	HeightCm      float64       `json:"height_cm"`
	WeightKg      float64       `json:"weight_kg"`
	ActivityLevel ActivityLevel `gorm:"type:varchar(24)" json:"activity_level"`
	Goal          GoalType      `gorm:"type:varchar(12)" json:"goal"`
	GoalWeightKg  *float64      `json:"goal_weight_kg,omitempty"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	Timestamps
}
