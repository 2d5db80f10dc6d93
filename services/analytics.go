package services

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"nutrition-tracker-system/models"

	"gorm.io/gorm"
)

// PeriodSummary is one weekly or monthly rollup. Weekly rows carry
// week_start/week_end; monthly rows carry month/year and goal adherence.
// Summaries are derived from the entry history on demand, never stored.
type PeriodSummary struct {
	WeekStart     string   `json:"week_start,omitempty"`
	WeekEnd       string   `json:"week_end,omitempty"`
	Month         string   `json:"month,omitempty"`
	Year          int      `json:"year,omitempty"`
	DaysLogged    int      `json:"days_logged"`
	AvgCalories   float64  `json:"avg_calories"`
	AvgProtein    float64  `json:"avg_protein"`
	TotalEntries  int      `json:"total_entries"`
	GoalAdherence *float64 `json:"goal_adherence,omitempty"`
}

// AnalyticsSummary is the all-time overview served alongside the period
// rollups.
type AnalyticsSummary struct {
	TotalEntries      int64   `json:"total_entries"`
	CurrentStreak     int     `json:"current_streak"`
	LongestStreak     int     `json:"longest_streak"`
	TotalDaysLogged   int     `json:"total_days_logged"`
	TotalAchievements int64   `json:"total_achievements"`
	AchievementPoints int     `json:"achievement_points"`
	ThisMonthEntries  int     `json:"this_month_entries"`
	ThisMonthCalories float64 `json:"this_month_calories"`
	ThisMonthProtein  float64 `json:"this_month_protein"`
}

// mondayOf returns the Monday of the ISO week containing d. Go weekdays
// start at Sunday=0, so Sunday maps to day 7 of the preceding Monday-based
// week.
func mondayOf(d time.Time) time.Time {
	weekday := int(d.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return d.AddDate(0, 0, -(weekday - 1))
}

type dayTotals struct {
	calories float64
	protein  float64
}

type periodBucket struct {
	totalCalories float64
	totalProtein  float64
	entries       int
	days          map[string]*dayTotals
}

// bucketEntries groups entries under keyFn(logged date). Multiple entries on
// one day share that day's bucket slot, so days_logged counts distinct days
// while the totals keep every entry's contribution.
func bucketEntries(entries []models.FoodLogEntry, keyFn func(time.Time) string) (map[string]*periodBucket, error) {
	buckets := make(map[string]*periodBucket)
	for _, e := range entries {
		d, err := time.Parse(logDateLayout, e.LogDate)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %s has log_date %q", models.ErrDataIntegrity, e.ID, e.LogDate)
		}
		key := keyFn(d)
		b := buckets[key]
		if b == nil {
			b = &periodBucket{days: make(map[string]*dayTotals)}
			buckets[key] = b
		}
		b.totalCalories += e.TotalCalories
		b.totalProtein += e.TotalProtein
		b.entries++
		day := b.days[e.LogDate]
		if day == nil {
			day = &dayTotals{}
			b.days[e.LogDate] = day
		}
		day.calories += e.TotalCalories
		day.protein += e.TotalProtein
	}
	return buckets, nil
}

// WeeklySummaries rolls a user's entry history into ISO-week summaries,
// most recent week first. Only weeks containing at least one entry appear.
// Averages divide period totals by distinct days logged, not entry count.
func WeeklySummaries(entries []models.FoodLogEntry) ([]PeriodSummary, error) {
	buckets, err := bucketEntries(entries, func(d time.Time) string {
		return mondayOf(d).Format(logDateLayout)
	})
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	summaries := make([]PeriodSummary, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		days := len(b.days)
		monday, _ := time.Parse(logDateLayout, k)
		summaries = append(summaries, PeriodSummary{
			WeekStart:    k,
			WeekEnd:      monday.AddDate(0, 0, 6).Format(logDateLayout),
			DaysLogged:   days,
			AvgCalories:  round1(b.totalCalories / float64(days)),
			AvgProtein:   round1(b.totalProtein / float64(days)),
			TotalEntries: b.entries,
		})
	}
	return summaries, nil
}

// MonthlySummaries rolls a user's entry history into calendar-month
// summaries, most recent month first, with goal adherence measured against
// the full recommended targets: a day adheres when its summed calories and
// protein both reach the recommendation. Months without entries are never
// emitted, so adherence is always over at least one logged day.
func MonthlySummaries(entries []models.FoodLogEntry, rec Recommendation) ([]PeriodSummary, error) {
	buckets, err := bucketEntries(entries, func(d time.Time) string {
		return d.Format("2006-01")
	})
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	summaries := make([]PeriodSummary, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		days := len(b.days)

		met := 0
		for _, day := range b.days {
			if day.calories >= float64(rec.Calories) && day.protein >= float64(rec.ProteinG) {
				met++
			}
		}
		adherence := round1(float64(met) / float64(days) * 100)

		month, _ := time.Parse("2006-01", k)
		summaries = append(summaries, PeriodSummary{
			Month:         month.Month().String(),
			Year:          month.Year(),
			DaysLogged:    days,
			AvgCalories:   round1(b.totalCalories / float64(days)),
			AvgProtein:    round1(b.totalProtein / float64(days)),
			TotalEntries:  b.entries,
			GoalAdherence: &adherence,
		})
	}
	return summaries, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

type AnalyticsService struct {
	DB *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{DB: db}
}

func (s *AnalyticsService) entryHistory(userID string) ([]models.FoodLogEntry, error) {
	var entries []models.FoodLogEntry
	if err := s.DB.Where("user_id = ?", userID).
		Order("log_date ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("load entry history: %w", err)
	}
	return entries, nil
}

// WeeklyAnalytics returns up to limit weekly summaries, newest first.
func (s *AnalyticsService) WeeklyAnalytics(userID string, limit int) ([]PeriodSummary, error) {
	entries, err := s.entryHistory(userID)
	if err != nil {
		return nil, err
	}
	summaries, err := WeeklySummaries(entries)
	if err != nil {
		return nil, err
	}
	return clipSummaries(summaries, limit), nil
}

// MonthlyAnalytics returns up to limit monthly summaries, newest first,
// with adherence against the user's current recommendations.
func (s *AnalyticsService) MonthlyAnalytics(userID string, limit int) ([]PeriodSummary, error) {
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

	entries, err := s.entryHistory(userID)
	if err != nil {
		return nil, err
	}
	summaries, err := MonthlySummaries(entries, rec)
	if err != nil {
		return nil, err
	}
	return clipSummaries(summaries, limit), nil
}

func clipSummaries(summaries []PeriodSummary, limit int) []PeriodSummary {
	if limit > 0 && len(summaries) > limit {
		return summaries[:limit]
	}
	return summaries
}

// Summary reports the all-time totals plus the current calendar month's
// activity relative to today.
func (s *AnalyticsService) Summary(userID string, today time.Time) (*AnalyticsSummary, error) {
	out := &AnalyticsSummary{}

	if err := s.DB.Model(&models.FoodLogEntry{}).
		Where("user_id = ?", userID).
		Count(&out.TotalEntries).Error; err != nil {
		return nil, fmt.Errorf("count entries: %w", err)
	}

	var st models.StreakState
	err := s.DB.Where("user_id = ?", userID).First(&st).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	out.CurrentStreak = st.CurrentStreak
	out.LongestStreak = st.LongestStreak
	out.TotalDaysLogged = st.TotalDaysLogged

	var codes []string
	if err := s.DB.Model(&models.UnlockedAchievement{}).
		Where("user_id = ?", userID).
		Pluck("achievement_code", &codes).Error; err != nil {
		return nil, fmt.Errorf("load unlocked achievements: %w", err)
	}
	out.TotalAchievements = int64(len(codes))
	catalog := models.CatalogByCode()
	for _, c := range codes {
		out.AchievementPoints += catalog[c].Points
	}

	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).Format(logDateLayout)
	var monthEntries []models.FoodLogEntry
	if err := s.DB.Where("user_id = ? AND log_date >= ?", userID, monthStart).
		Find(&monthEntries).Error; err != nil {
		return nil, fmt.Errorf("load month entries: %w", err)
	}
	out.ThisMonthEntries = len(monthEntries)
	for _, e := range monthEntries {
		out.ThisMonthCalories += e.TotalCalories
		out.ThisMonthProtein += e.TotalProtein
	}
	out.ThisMonthCalories = round1(out.ThisMonthCalories)
	out.ThisMonthProtein = round1(out.ThisMonthProtein)

	return out, nil
}
