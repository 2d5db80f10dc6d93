package services_test

import (
	"testing"

	"nutrition-tracker-system/models"
	"nutrition-tracker-system/services"
)

func TestNewlyUnlockedFollowsCatalogOrder(t *testing.T) {
	t.Parallel()

	stats := models.StatsSnapshot{
		CurrentStreak:       7,
		LongestStreak:       7,
		TotalDaysLogged:     7,
		TotalEntries:        12,
		ProteinGoalMetToday: true,
	}

	newly := services.NewlyUnlocked(stats, map[string]bool{})

	want := []string{"FIRST_STEPS", "THREE_DAY_WARRIOR", "WEEK_CHAMPION", "PROTEIN_SEEKER"}
	if len(newly) != len(want) {
		t.Fatalf("expected %d unlocks, got %d: %+v", len(want), len(newly), newly)
	}
	for i, a := range newly {
		if a.Code != want[i] {
			t.Fatalf("expected unlock %d to be %s, got %s", i, want[i], a.Code)
		}
	}
}

func TestNewlyUnlockedSkipsAlreadyEarned(t *testing.T) {
	t.Parallel()

	stats := models.StatsSnapshot{
		CurrentStreak:       7,
		LongestStreak:       7,
		TotalDaysLogged:     7,
		ProteinGoalMetToday: true,
	}
	earned := map[string]bool{
		"FIRST_STEPS":   true,
		"WEEK_CHAMPION": true,
	}

	newly := services.NewlyUnlocked(stats, earned)

	want := []string{"THREE_DAY_WARRIOR", "PROTEIN_SEEKER"}
	if len(newly) != len(want) {
		t.Fatalf("expected %d unlocks, got %d: %+v", len(want), len(newly), newly)
	}
	for i, a := range newly {
		if a.Code != want[i] {
			t.Fatalf("expected unlock %d to be %s, got %s", i, want[i], a.Code)
		}
	}
}

func TestNewlyUnlockedIdempotent(t *testing.T) {
	t.Parallel()

	stats := models.StatsSnapshot{
		CurrentStreak:   3,
		LongestStreak:   3,
		TotalDaysLogged: 3,
	}

	earned := map[string]bool{}
	first := services.NewlyUnlocked(stats, earned)
	if len(first) == 0 {
		t.Fatal("expected at least one unlock on first evaluation")
	}
	for _, a := range first {
		earned[a.Code] = true
	}

	second := services.NewlyUnlocked(stats, earned)
	if len(second) != 0 {
		t.Fatalf("expected no unlocks on re-evaluation of same stats, got %+v", second)
	}
}

func TestNewlyUnlockedThresholds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		stats    models.StatsSnapshot
		code     string
		unlocked bool
	}{
		{
			name:     "hundred unique foods unlocks explorer",
			stats:    models.StatsSnapshot{TotalDaysLogged: 1, UniqueFoods: 100},
			code:     "NUTRITION_EXPLORER",
			unlocked: true,
		},
		{
			name:     "ninety nine unique foods does not",
			stats:    models.StatsSnapshot{TotalDaysLogged: 1, UniqueFoods: 99},
			code:     "NUTRITION_EXPLORER",
			unlocked: false,
		},
		{
			name:     "thirty protein days unlocks beast",
			stats:    models.StatsSnapshot{TotalDaysLogged: 30, ProteinGoalDays: 30},
			code:     "PROTEIN_BEAST",
			unlocked: true,
		},
		{
			name:     "fifty days logged unlocks dedicated logger",
			stats:    models.StatsSnapshot{TotalDaysLogged: 50},
			code:     "DEDICATED_LOGGER",
			unlocked: true,
		},
		{
			name:     "hundred day streak unlocks legend",
			stats:    models.StatsSnapshot{CurrentStreak: 100, LongestStreak: 100, TotalDaysLogged: 100},
			code:     "STREAK_LEGEND",
			unlocked: true,
		},
		{
			name:     "protein today alone does not count protein days",
			stats:    models.StatsSnapshot{TotalDaysLogged: 1, ProteinGoalMetToday: true, ProteinGoalDays: 1},
			code:     "PROTEIN_PRO",
			unlocked: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			newly := services.NewlyUnlocked(tc.stats, map[string]bool{})
			got := false
			for _, a := range newly {
				if a.Code == tc.code {
					got = true
				}
			}
			if got != tc.unlocked {
				t.Fatalf("expected %s unlocked=%t, got %t (unlocks: %+v)", tc.code, tc.unlocked, got, newly)
			}
		})
	}
}

func TestCatalogCodesUnique(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for _, a := range models.AchievementCatalog {
		if a.Code == "" {
			t.Fatalf("achievement %q has no code", a.Name)
		}
		if seen[a.Code] {
			t.Fatalf("duplicate achievement code %s", a.Code)
		}
		seen[a.Code] = true
	}

	byCode := models.CatalogByCode()
	if len(byCode) != len(models.AchievementCatalog) {
		t.Fatalf("expected index over %d entries, got %d", len(models.AchievementCatalog), len(byCode))
	}
}
