package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"nutrition-tracker-system/models"

	"gorm.io/gorm"
)

// AchievementNotifier delivers unlock events from the outbox table to the
// notification service. The outbox row is written in the same transaction
// as the unlock, so delivery here is at-least-once.
type AchievementNotifier struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	DB         *gorm.DB
}

func NewAchievementNotifier(db *gorm.DB) *AchievementNotifier {
	baseURL := os.Getenv("NOTIFY_SERVICE_URL")
	if baseURL == "" {
		log.Fatal("NOTIFY_SERVICE_URL environment variable is required")
	}
	token := os.Getenv("SERVICE_TOKEN")
	if token == "" {
		log.Fatal("SERVICE_TOKEN environment variable is required for notification delivery")
	}

	return &AchievementNotifier{
		BaseURL: baseURL,
		Token:   token,
		DB:      db,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (n *AchievementNotifier) deliver(ctx context.Context, note *models.AchievementNotification) error {
	payload := struct {
		UserID          string    `json:"user_id"`
		AchievementCode string    `json:"achievement_code"`
		Name            string    `json:"name,omitempty"`
		BadgeIcon       string    `json:"badge_icon,omitempty"`
		Points          int       `json:"points,omitempty"`
		UnlockedAt      time.Time `json:"unlocked_at"`
	}{
		UserID:          note.UserID,
		AchievementCode: note.AchievementCode,
		UnlockedAt:      note.CreatedAt,
	}
	if a, ok := models.CatalogByCode()[note.AchievementCode]; ok {
		payload.Name = a.Name
		payload.BadgeIcon = a.BadgeIcon
		payload.Points = a.Points
	}

	buf, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST",
		fmt.Sprintf("%s/api/v1/notifications/achievement", n.BaseURL), bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Service-Token", n.Token)

	resp, err := n.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call notification service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("notification service returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// PollNotifications drains unsent outbox rows on a fixed interval. A row
// is marked sent only after the service accepts it; failed rows stay in
// the outbox and retry next tick.
func PollNotifications(ctx context.Context, n *AchievementNotifier, pollInterval time.Duration) {
	log.Println("Starting achievement notification delivery...")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Notification delivery stopped.")
			return
		case <-ticker.C:
			var pending []models.AchievementNotification
			if err := n.DB.Where("sent_at IS NULL").
				Order("created_at ASC").
				Limit(50).
				Find(&pending).Error; err != nil {
				log.Printf("❌ Error loading pending notifications: %v", err)
				continue
			}

			if len(pending) == 0 {
				continue
			}
			log.Printf("📤 Delivering %d pending achievement notification(s)...", len(pending))

			delivered := 0
			for i := range pending {
				if err := n.deliver(ctx, &pending[i]); err != nil {
					log.Printf("❌ Failed to deliver notification %s: %v", pending[i].ID, err)
					continue
				}

				now := time.Now().UTC()
				if err := n.DB.Model(&pending[i]).Update("sent_at", now).Error; err != nil {
					log.Printf("❌ Failed to mark notification %s sent: %v", pending[i].ID, err)
					continue
				}
				delivered++
			}

			if delivered > 0 {
				log.Printf("✅ Delivered %d achievement notification(s).", delivered)
			}
		}
	}
}
