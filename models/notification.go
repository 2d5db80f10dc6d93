package models

import "time"

// AchievementNotification is an outbox row written in the same transaction
// as the unlock it announces. The notifier worker drains rows with a nil
// SentAt, so a delivery failure never loses the event.
type AchievementNotification struct {
	ID              string     `gorm:"primaryKey" json:"id"`
	UserID          string     `gorm:"index" json:"user_id"`
	AchievementCode string     `json:"achievement_code"`
	CreatedAt       time.Time  `json:"created_at"`
	SentAt          *time.Time `gorm:"index" json:"sent_at,omitempty"`
}
