package services

import (
	"fmt"
	"log"

	"nutrition-tracker-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ruleSatisfied is the one generic rule interpreter. Every catalog entry is
// evaluated here and nowhere else; adding an achievement never adds a
// conditional.
func ruleSatisfied(rule models.UnlockRule, stats models.StatsSnapshot) bool {
	switch rule.Kind {
	case models.RuleStreak:
		return stats.CurrentStreak >= rule.Threshold
	case models.RuleDaysLogged:
		return stats.TotalDaysLogged >= rule.Threshold
	case models.RuleProteinToday:
		return stats.ProteinGoalMetToday
	case models.RuleProteinDays:
		return stats.ProteinGoalDays >= rule.Threshold
	case models.RuleUniqueFoods:
		return stats.UniqueFoods >= rule.Threshold
	default:
		return false
	}
}

// NewlyUnlocked folds the catalog in declared order against a stats
// snapshot, returning the achievements whose rules hold and whose codes are
// not already unlocked. Pure; persistence is the service's job.
func NewlyUnlocked(stats models.StatsSnapshot, unlocked map[string]bool) []models.Achievement {
	var newly []models.Achievement
	for _, a := range models.AchievementCatalog {
		if unlocked[a.Code] {
			continue
		}
		if ruleSatisfied(a.Rule, stats) {
			newly = append(newly, a)
		}
	}
	return newly
}

type AchievementService struct {
	DB *gorm.DB
}

func NewAchievementService(db *gorm.DB) *AchievementService {
	return &AchievementService{DB: db}
}

// UnlockedCodes returns the set of achievement codes the user has earned.
func (s *AchievementService) UnlockedCodes(tx *gorm.DB, userID string) (map[string]bool, error) {
	var codes []string
	if err := tx.Model(&models.UnlockedAchievement{}).
		Where("user_id = ?", userID).
		Pluck("achievement_code", &codes).Error; err != nil {
		return nil, fmt.Errorf("load unlocked achievements: %w", err)
	}
	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	return set, nil
}

// Evaluate runs the catalog against a snapshot inside the caller's
// transaction and records every fresh unlock, in catalog order. The
// composite unique index plus ON CONFLICT DO NOTHING turns any unlock
// racing past the per-user lock into a silent no-op, so an achievement can
// never be earned twice. Each confirmed unlock also queues one outbox
// notification in the same transaction.
func (s *AchievementService) Evaluate(tx *gorm.DB, userID string, stats models.StatsSnapshot) ([]models.Achievement, error) {
	unlocked, err := s.UnlockedCodes(tx, userID)
	if err != nil {
		return nil, err
	}

	var confirmed []models.Achievement
	for _, a := range NewlyUnlocked(stats, unlocked) {
		row := models.UnlockedAchievement{
			ID:              uuid.NewString(),
			UserID:          userID,
			AchievementCode: a.Code,
		}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_code"}},
			DoNothing: true,
		}).Create(&row)
		if res.Error != nil {
			return nil, fmt.Errorf("record unlock %s: %w", a.Code, res.Error)
		}
		if res.RowsAffected == 0 {
			// Lost a race to a concurrent request; it already unlocked.
			continue
		}

		note := models.AchievementNotification{
			ID:              uuid.NewString(),
			UserID:          userID,
			AchievementCode: a.Code,
		}
		if err := tx.Create(&note).Error; err != nil {
			return nil, fmt.Errorf("queue unlock notification %s: %w", a.Code, err)
		}

		confirmed = append(confirmed, a)
		log.Printf("🎖️ Achievement unlocked: %s → %s", a.Name, userID)
	}
	return confirmed, nil
}

// UnlockedAchievementDetail is one earned achievement joined with its
// catalog entry for display.
type UnlockedAchievementDetail struct {
	models.Achievement
	UnlockedAt string `json:"unlocked_at"`
}

// GetUserAchievements lists a user's earned achievements with catalog
// details, newest first.
func (s *AchievementService) GetUserAchievements(userID string) ([]UnlockedAchievementDetail, error) {
	var rows []models.UnlockedAchievement
	if err := s.DB.Where("user_id = ?", userID).
		Order("unlocked_at DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load achievements: %w", err)
	}

	catalog := models.CatalogByCode()
	details := make([]UnlockedAchievementDetail, 0, len(rows))
	for _, r := range rows {
		a, ok := catalog[r.AchievementCode]
		if !ok {
			// Row for a code the catalog no longer declares; skip rather
			// than invent display data.
			log.Printf("⚠️  [ACHIEVEMENTS] unlock row %s references unknown code %s", r.ID, r.AchievementCode)
			continue
		}
		details = append(details, UnlockedAchievementDetail{
			Achievement: a,
			UnlockedAt:  r.UnlockedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return details, nil
}

// TotalPoints sums the points of a user's unlocked achievements.
func (s *AchievementService) TotalPoints(userID string) (int, error) {
	unlocked, err := s.UnlockedCodes(s.DB, userID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, a := range models.AchievementCatalog {
		if unlocked[a.Code] {
			total += a.Points
		}
	}
	return total, nil
}
