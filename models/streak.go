package models

import (
	"time"

	"gorm.io/gorm"
)

// StreakState caches per-user logging streak counters (denormalized for
// cheap reads). It is always re-derivable from the FoodLogEntry history;
// the integrity sweep compares the two.
//
// Invariant: LongestStreak >= CurrentStreak. A stored row violating it is a
// data integrity fault and must never be served.
type StreakState struct {
	ID     string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID string `gorm:"uniqueIndex;not null" json:"user_id"`

	CurrentStreak   int     `gorm:"default:0" json:"current_streak"`
	LongestStreak   int     `gorm:"default:0" json:"longest_streak"`
	LastLoggedDate  *string `gorm:"type:varchar(10)" json:"last_logged_date"` // YYYY-MM-DD
	TotalDaysLogged int     `gorm:"default:0" json:"total_days_logged"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
