package services_test

import (
	"errors"
	"testing"

	"nutrition-tracker-system/models"
	"nutrition-tracker-system/services"
)

// March 2026: the 2nd is a Monday, so the 8th (Sunday) closes that week
// and the 9th opens the next.
func marchEntries() []models.FoodLogEntry {
	return []models.FoodLogEntry{
		entry("e1", "2026-03-02", 500, 40),
		entry("e2", "2026-03-02", 700, 60),
		entry("e3", "2026-03-04", 900, 80),
		entry("e4", "2026-03-08", 600, 30),
		entry("e5", "2026-03-09", 800, 45),
	}
}

func TestWeeklySummariesGroupsByWeek(t *testing.T) {
	t.Parallel()

	weeks, err := services.WeeklySummaries(marchEntries())
	if err != nil {
		t.Fatalf("weekly summaries: %v", err)
	}

	if len(weeks) != 2 {
		t.Fatalf("expected 2 weeks, got %d: %+v", len(weeks), weeks)
	}

	// Newest week first
	latest := weeks[0]
	if latest.WeekStart != "2026-03-09" || latest.WeekEnd != "2026-03-15" {
		t.Fatalf("expected latest week 2026-03-09..2026-03-15, got %s..%s", latest.WeekStart, latest.WeekEnd)
	}
	if latest.DaysLogged != 1 || latest.TotalEntries != 1 {
		t.Fatalf("expected 1 day / 1 entry in latest week, got %d/%d", latest.DaysLogged, latest.TotalEntries)
	}
	if latest.AvgCalories != 800 || latest.AvgProtein != 45 {
		t.Fatalf("expected averages 800/45 in latest week, got %v/%v", latest.AvgCalories, latest.AvgProtein)
	}

	first := weeks[1]
	if first.WeekStart != "2026-03-02" || first.WeekEnd != "2026-03-08" {
		t.Fatalf("expected first week 2026-03-02..2026-03-08, got %s..%s", first.WeekStart, first.WeekEnd)
	}
	// Sunday the 8th belongs to the week that started Monday the 2nd
	if first.DaysLogged != 3 {
		t.Fatalf("expected 3 distinct days in first week, got %d", first.DaysLogged)
	}
	if first.TotalEntries != 4 {
		t.Fatalf("expected 4 entries in first week, got %d", first.TotalEntries)
	}
	// Averages divide by days logged (3), not entries (4)
	if first.AvgCalories != 900 {
		t.Fatalf("expected avg calories 900, got %v", first.AvgCalories)
	}
	if first.AvgProtein != 70 {
		t.Fatalf("expected avg protein 70, got %v", first.AvgProtein)
	}
	if first.GoalAdherence != nil {
		t.Fatalf("expected weekly summaries to carry no adherence, got %v", *first.GoalAdherence)
	}
}

func TestWeeklySummariesEmptyHistory(t *testing.T) {
	t.Parallel()

	weeks, err := services.WeeklySummaries(nil)
	if err != nil {
		t.Fatalf("weekly summaries: %v", err)
	}
	if len(weeks) != 0 {
		t.Fatalf("expected no summaries for empty history, got %+v", weeks)
	}
}

func TestMonthlySummariesGoalAdherence(t *testing.T) {
	t.Parallel()

	rec := services.Recommendation{Calories: 2000, ProteinG: 100}

	var entries []models.FoodLogEntry
	// 6 days meeting both targets (boundary: exactly on target counts)
	adherent := []string{"2026-03-01", "2026-03-02", "2026-03-03", "2026-03-04", "2026-03-05", "2026-03-06"}
	for i, d := range adherent {
		if i%2 == 0 {
			entries = append(entries, entry("a"+d, d, 2000, 100))
		} else {
			entries = append(entries, entry("a"+d, d, 2200, 120))
		}
	}
	// 4 days missing at least one target
	entries = append(entries,
		entry("m1", "2026-03-07", 2500, 50),  // calories only
		entry("m2", "2026-03-08", 1500, 150), // protein only
		entry("m3", "2026-03-09", 1000, 40),
		entry("m4", "2026-03-10", 900, 30),
	)

	months, err := services.MonthlySummaries(entries, rec)
	if err != nil {
		t.Fatalf("monthly summaries: %v", err)
	}
	if len(months) != 1 {
		t.Fatalf("expected 1 month, got %d", len(months))
	}

	m := months[0]
	if m.Month != "March" || m.Year != 2026 {
		t.Fatalf("expected March 2026, got %s %d", m.Month, m.Year)
	}
	if m.DaysLogged != 10 {
		t.Fatalf("expected 10 days logged, got %d", m.DaysLogged)
	}
	if m.GoalAdherence == nil {
		t.Fatal("expected monthly adherence to be set")
	}
	if *m.GoalAdherence != 60.0 {
		t.Fatalf("expected 60.0%% adherence (6 of 10 days), got %v", *m.GoalAdherence)
	}
}

func TestMonthlySummariesSplitsDaysAcrossEntries(t *testing.T) {
	t.Parallel()

	rec := services.Recommendation{Calories: 2000, ProteinG: 100}

	// One day assembled from three meals that only jointly reach the targets
	entries := []models.FoodLogEntry{
		entry("b1", "2026-03-02", 700, 40),
		entry("b2", "2026-03-02", 700, 40),
		entry("b3", "2026-03-02", 700, 40),
	}

	months, err := services.MonthlySummaries(entries, rec)
	if err != nil {
		t.Fatalf("monthly summaries: %v", err)
	}
	if len(months) != 1 || months[0].DaysLogged != 1 {
		t.Fatalf("expected one month with one logged day, got %+v", months)
	}
	if *months[0].GoalAdherence != 100.0 {
		t.Fatalf("expected day meeting targets via summed meals, got adherence %v", *months[0].GoalAdherence)
	}
	if months[0].TotalEntries != 3 {
		t.Fatalf("expected 3 entries, got %d", months[0].TotalEntries)
	}
	// Average is the day's total, divided by the single day
	if months[0].AvgCalories != 2100 {
		t.Fatalf("expected avg calories 2100, got %v", months[0].AvgCalories)
	}
}

func TestMonthlySummariesSkipsEmptyMonths(t *testing.T) {
	t.Parallel()

	rec := services.Recommendation{Calories: 2000, ProteinG: 100}
	entries := []models.FoodLogEntry{
		entry("j1", "2026-01-10", 1800, 90),
		entry("m1", "2026-03-05", 1900, 95),
	}

	months, err := services.MonthlySummaries(entries, rec)
	if err != nil {
		t.Fatalf("monthly summaries: %v", err)
	}
	if len(months) != 2 {
		t.Fatalf("expected 2 months (no empty February row), got %d: %+v", len(months), months)
	}
	if months[0].Month != "March" || months[1].Month != "January" {
		t.Fatalf("expected March then January, got %s then %s", months[0].Month, months[1].Month)
	}
}

func TestWeeklyAndMonthlyAgreeOnSameSpan(t *testing.T) {
	t.Parallel()

	entries := marchEntries()

	weeks, err := services.WeeklySummaries(entries)
	if err != nil {
		t.Fatalf("weekly summaries: %v", err)
	}
	months, err := services.MonthlySummaries(entries, services.Recommendation{Calories: 2000, ProteinG: 100})
	if err != nil {
		t.Fatalf("monthly summaries: %v", err)
	}

	weekDays, weekEntries := 0, 0
	for _, w := range weeks {
		weekDays += w.DaysLogged
		weekEntries += w.TotalEntries
	}

	if len(months) != 1 {
		t.Fatalf("expected a single month, got %d", len(months))
	}
	if months[0].DaysLogged != weekDays {
		t.Fatalf("weekly and monthly views disagree on days: %d vs %d", weekDays, months[0].DaysLogged)
	}
	if months[0].TotalEntries != weekEntries {
		t.Fatalf("weekly and monthly views disagree on entries: %d vs %d", weekEntries, months[0].TotalEntries)
	}
	if weekEntries != len(entries) {
		t.Fatalf("expected every entry counted exactly once, got %d of %d", weekEntries, len(entries))
	}
}

func TestSummariesRejectCorruptStoredDates(t *testing.T) {
	t.Parallel()

	entries := []models.FoodLogEntry{entry("x1", "noon-ish", 500, 30)}

	if _, err := services.WeeklySummaries(entries); !errors.Is(err, models.ErrDataIntegrity) {
		t.Fatalf("expected data integrity fault for corrupt log date, got %v", err)
	}
}
