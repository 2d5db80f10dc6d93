package services

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"time"

	"nutrition-tracker-system/models"
	"nutrition-tracker-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const maxMealPhotoSize = 10 * 1024 * 1024 // 10MB

type FoodLogService struct {
	DB           *gorm.DB
	Streaks      *StreakService
	Achievements *AchievementService
	Vision       Classifier
}

func NewFoodLogService(db *gorm.DB, streaks *StreakService, achievements *AchievementService, vision Classifier) *FoodLogService {
	return &FoodLogService{
		DB:           db,
		Streaks:      streaks,
		Achievements: achievements,
		Vision:       vision,
	}
}

// LogEntryInput is one meal submission. LogDate is optional; the HTTP layer
// leaves it empty so entries always land on the server's calendar day.
type LogEntryInput struct {
	FoodName        string  `json:"food_name"`
	CaloriesPer100g float64 `json:"calories_per_100g"`
	ProteinPer100g  float64 `json:"protein_per_100g"`
	CarbsPer100g    float64 `json:"carbs_per_100g"`
	FatPer100g      float64 `json:"fat_per_100g"`
	PortionGrams    float64 `json:"estimated_portion_g"`
	Confidence      float64 `json:"confidence"`
	PhotoURL        string  `json:"photo_url"`
	LogDate         string  `json:"-"`
}

// DailyStats is one day's intake next to the user's targets. A goal counts
// as met at 90% of the recommendation.
type DailyStats struct {
	Date                string  `json:"date"`
	TotalCalories       float64 `json:"total_calories"`
	TotalProtein        float64 `json:"total_protein"`
	RecommendedCalories int     `json:"recommended_calories"`
	RecommendedProtein  int     `json:"recommended_protein_g"`
	CalorieGoalMet      bool    `json:"calorie_goal_met"`
	ProteinGoalMet      bool    `json:"protein_goal_met"`
}

// LogEventResult is everything a logging event produced: the stored entry,
// the day's stats after it, and any achievements it unlocked.
type LogEventResult struct {
	Entry         *models.FoodLogEntry `json:"entry"`
	DailyStats    *DailyStats          `json:"daily_stats"`
	NewlyUnlocked []models.Achievement `json:"newly_unlocked_achievements"`
}

func validateLogInput(in *LogEntryInput) error {
	if in.FoodName == "" {
		return models.NewValidationError("food_name", "required")
	}
	if in.PortionGrams <= 0 {
		return models.NewValidationError("estimated_portion_g", "must be positive")
	}
	if in.CaloriesPer100g < 0 {
		return models.NewValidationError("calories_per_100g", "must not be negative")
	}
	if in.ProteinPer100g < 0 {
		return models.NewValidationError("protein_per_100g", "must not be negative")
	}
	if in.CarbsPer100g < 0 {
		return models.NewValidationError("carbs_per_100g", "must not be negative")
	}
	if in.FatPer100g < 0 {
		return models.NewValidationError("fat_per_100g", "must not be negative")
	}
	if in.Confidence < 0 || in.Confidence > 1 {
		return models.NewValidationError("confidence", "must be between 0 and 1")
	}
	return nil
}

// RecordLogEvent appends one entry and runs the full gamification pass:
// entry insert, streak advance and achievement evaluation happen in a
// single transaction holding the user's streak row lock, so two same-day
// submissions can never double-count a day or double-unlock a badge.
// Totals are always computed here from the per-100g macros and portion.
func (s *FoodLogService) RecordLogEvent(userID string, in LogEntryInput) (*LogEventResult, error) {
	if err := validateLogInput(&in); err != nil {
		return nil, err
	}

	var profile models.UserProfile
	if err := s.DB.Where("id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	rec, err := ComputeRecommendations(&profile)
	if err != nil {
		return nil, err
	}

	logDate := in.LogDate
	if logDate == "" {
		logDate = time.Now().UTC().Format(logDateLayout)
	} else if _, err := ParseLogDate(logDate); err != nil {
		return nil, models.NewValidationError("log_date", "must be YYYY-MM-DD")
	}

	entry := &models.FoodLogEntry{
		ID:              uuid.NewString(),
		UserID:          userID,
		LogDate:         logDate,
		FoodName:        in.FoodName,
		FoodSlug:        slug.Make(in.FoodName),
		CaloriesPer100g: in.CaloriesPer100g,
		ProteinPer100g:  in.ProteinPer100g,
		CarbsPer100g:    in.CarbsPer100g,
		FatPer100g:      in.FatPer100g,
		PortionGrams:    in.PortionGrams,
		Confidence:      in.Confidence,
		PhotoURL:        in.PhotoURL,
	}
	entry.ComputeTotals()

	var result LogEventResult
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("create entry: %w", err)
		}

		st, _, err := s.Streaks.AdvanceStreak(tx, userID, logDate)
		if err != nil {
			return err
		}

		stats, err := statsSnapshot(tx, userID, st, rec)
		if err != nil {
			return err
		}

		newly, err := s.Achievements.Evaluate(tx, userID, stats)
		if err != nil {
			return err
		}

		daily, err := dailyStatsFor(tx, userID, logDate, rec)
		if err != nil {
			return err
		}

		result = LogEventResult{Entry: entry, DailyStats: daily, NewlyUnlocked: newly}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// statsSnapshot reads the aggregate stats the achievement rules compare
// against, inside the logging transaction so the snapshot and the unlock
// are one atomic step.
func statsSnapshot(tx *gorm.DB, userID string, st *models.StreakState, rec Recommendation) (models.StatsSnapshot, error) {
	stats := models.StatsSnapshot{
		CurrentStreak:   st.CurrentStreak,
		LongestStreak:   st.LongestStreak,
		TotalDaysLogged: st.TotalDaysLogged,
	}

	var totalEntries int64
	if err := tx.Model(&models.FoodLogEntry{}).
		Where("user_id = ?", userID).
		Count(&totalEntries).Error; err != nil {
		return stats, fmt.Errorf("count entries: %w", err)
	}
	stats.TotalEntries = int(totalEntries)

	proteinThreshold := float64(rec.ProteinG) * GoalMetFraction

	if st.LastLoggedDate != nil {
		var todayProtein float64
		if err := tx.Model(&models.FoodLogEntry{}).
			Where("user_id = ? AND log_date = ?", userID, *st.LastLoggedDate).
			Select("COALESCE(SUM(total_protein), 0)").
			Scan(&todayProtein).Error; err != nil {
			return stats, fmt.Errorf("sum today's protein: %w", err)
		}
		stats.ProteinGoalMetToday = todayProtein >= proteinThreshold
	}

	var proteinDays int64
	if err := tx.Raw(`
		SELECT COUNT(*) FROM (
			SELECT log_date FROM food_log_entries
			WHERE user_id = ?
			GROUP BY log_date
			HAVING SUM(total_protein) >= ?
		) AS qualifying_days`, userID, proteinThreshold).
		Scan(&proteinDays).Error; err != nil {
		return stats, fmt.Errorf("count protein goal days: %w", err)
	}
	stats.ProteinGoalDays = int(proteinDays)

	var uniqueFoods int64
	if err := tx.Model(&models.FoodLogEntry{}).
		Where("user_id = ?", userID).
		Distinct("food_slug").
		Count(&uniqueFoods).Error; err != nil {
		return stats, fmt.Errorf("count unique foods: %w", err)
	}
	stats.UniqueFoods = int(uniqueFoods)

	return stats, nil
}

func dailyStatsFor(db *gorm.DB, userID, date string, rec Recommendation) (*DailyStats, error) {
	var sums struct {
		Calories float64
		Protein  float64
	}
	if err := db.Model(&models.FoodLogEntry{}).
		Where("user_id = ? AND log_date = ?", userID, date).
		Select("COALESCE(SUM(total_calories), 0) AS calories, COALESCE(SUM(total_protein), 0) AS protein").
		Scan(&sums).Error; err != nil {
		return nil, fmt.Errorf("sum daily totals: %w", err)
	}

	return &DailyStats{
		Date:                date,
		TotalCalories:       round1(sums.Calories),
		TotalProtein:        round1(sums.Protein),
		RecommendedCalories: rec.Calories,
		RecommendedProtein:  rec.ProteinG,
		CalorieGoalMet:      sums.Calories >= float64(rec.Calories)*GoalMetFraction,
		ProteinGoalMet:      sums.Protein >= float64(rec.ProteinG)*GoalMetFraction,
	}, nil
}

// GetDailyStats reports one day's totals against the user's targets. An
// empty date means today.
func (s *FoodLogService) GetDailyStats(userID, date string) (*DailyStats, error) {
	if date == "" {
		date = time.Now().UTC().Format(logDateLayout)
	} else if _, err := ParseLogDate(date); err != nil {
		return nil, err
	}

	var profile models.UserProfile
	if err := s.DB.Where("id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	rec, err := ComputeRecommendations(&profile)
	if err != nil {
		return nil, err
	}

	return dailyStatsFor(s.DB, userID, date, rec)
}

// GetEntries lists a user's entries newest first, optionally filtered to
// one calendar date.
func (s *FoodLogService) GetEntries(userID, date string) ([]models.FoodLogEntry, error) {
	q := s.DB.Where("user_id = ?", userID)
	if date != "" {
		if _, err := ParseLogDate(date); err != nil {
			return nil, err
		}
		q = q.Where("log_date = ?", date)
	}

	var entries []models.FoodLogEntry
	if err := q.Order("logged_at DESC").Limit(100).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}
	return entries, nil
}

// FoodAnalysisResponse is the analyze endpoint's answer: the classifier's
// per-100g estimate plus the computed portion totals and the stored photo.
type FoodAnalysisResponse struct {
	models.FoodAnalysis
	TotalCalories float64 `json:"total_calories"`
	TotalProtein  float64 `json:"total_protein"`
	PhotoURL      string  `json:"photo_url,omitempty"`
}

// AnalyzeFood takes a multipart meal photo, stores it, and answers the
// classifier's structured estimate with totals computed server-side. A
// classifier failure degrades to a low-confidence fallback estimate rather
// than failing the request.
func (s *FoodLogService) AnalyzeFood(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}
	if fileHeader.Size > maxMealPhotoSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file too large (max 10MB)"})
	}

	data, err := readMultipartFile(fileHeader)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read image", "cause": err.Error()})
	}

	photoURL, err := storeMealPhoto(fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to store meal photo", "cause": err.Error()})
	}

	var analysis *models.FoodAnalysis
	if s.Vision == nil {
		analysis = FallbackAnalysis("classifier disabled")
	} else {
		analysis, err = s.Vision.AnalyzeImage(c.UserContext(), data)
		if err != nil {
			log.Printf("❌ [VISION] classification failed: %v", err)
			analysis = FallbackAnalysis("unable to analyze image clearly")
		}
	}

	factor := analysis.PortionGrams / 100
	return c.JSON(FoodAnalysisResponse{
		FoodAnalysis:  *analysis,
		TotalCalories: round1(analysis.CaloriesPer100g * factor),
		TotalProtein:  round1(analysis.ProteinPer100g * factor),
		PhotoURL:      photoURL,
	})
}

func readMultipartFile(fileHeader *multipart.FileHeader) ([]byte, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// storeMealPhoto uploads to R2 when configured, else falls back to the
// local uploads directory served under /uploads.
func storeMealPhoto(filename, contentType string, data []byte) (string, error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".jpg"
	}
	key := "meals/" + uuid.NewString() + ext

	if utils.R2Enabled() {
		return utils.UploadBytesToR2(data, contentType, key)
	}

	localPath := utils.GetUploadPath(key)
	if err := utils.SaveBytes(data, localPath); err != nil {
		return "", err
	}
	return "/" + filepath.ToSlash(localPath), nil
}
