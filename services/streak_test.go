package services_test

import (
	"errors"
	"testing"

	"nutrition-tracker-system/models"
	"nutrition-tracker-system/services"
)

func TestNextStreakStateTransitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		state        models.StreakState
		date         string
		wantCurrent  int
		wantLongest  int
		wantDays     int
		wantAdvanced bool
	}{
		{
			name:         "first ever log starts at one",
			state:        models.StreakState{UserID: "user-1"},
			date:         "2026-03-02",
			wantCurrent:  1,
			wantLongest:  1,
			wantDays:     1,
			wantAdvanced: true,
		},
		{
			name: "consecutive day extends streak",
			state: models.StreakState{
				UserID: "user-1", CurrentStreak: 2, LongestStreak: 2,
				TotalDaysLogged: 2, LastLoggedDate: strPtr("2026-03-02"),
			},
			date:         "2026-03-03",
			wantCurrent:  3,
			wantLongest:  3,
			wantDays:     3,
			wantAdvanced: true,
		},
		{
			name: "same day is a no-op",
			state: models.StreakState{
				UserID: "user-1", CurrentStreak: 3, LongestStreak: 3,
				TotalDaysLogged: 3, LastLoggedDate: strPtr("2026-03-04"),
			},
			date:         "2026-03-04",
			wantCurrent:  3,
			wantLongest:  3,
			wantDays:     3,
			wantAdvanced: false,
		},
		{
			name: "gap resets streak but keeps longest",
			state: models.StreakState{
				UserID: "user-1", CurrentStreak: 3, LongestStreak: 3,
				TotalDaysLogged: 3, LastLoggedDate: strPtr("2026-03-04"),
			},
			date:         "2026-03-09",
			wantCurrent:  1,
			wantLongest:  3,
			wantDays:     4,
			wantAdvanced: true,
		},
		{
			name: "month boundary still counts as consecutive",
			state: models.StreakState{
				UserID: "user-1", CurrentStreak: 5, LongestStreak: 5,
				TotalDaysLogged: 5, LastLoggedDate: strPtr("2026-02-28"),
			},
			date:         "2026-03-01",
			wantCurrent:  6,
			wantLongest:  6,
			wantDays:     6,
			wantAdvanced: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next, advanced, err := services.NextStreakState(tc.state, tc.date)
			if err != nil {
				t.Fatalf("next streak state: %v", err)
			}
			if advanced != tc.wantAdvanced {
				t.Fatalf("expected advanced=%t, got %t", tc.wantAdvanced, advanced)
			}
			if next.CurrentStreak != tc.wantCurrent {
				t.Fatalf("expected current streak %d, got %d", tc.wantCurrent, next.CurrentStreak)
			}
			if next.LongestStreak != tc.wantLongest {
				t.Fatalf("expected longest streak %d, got %d", tc.wantLongest, next.LongestStreak)
			}
			if next.TotalDaysLogged != tc.wantDays {
				t.Fatalf("expected %d days logged, got %d", tc.wantDays, next.TotalDaysLogged)
			}
			if tc.wantAdvanced && (next.LastLoggedDate == nil || *next.LastLoggedDate != tc.date) {
				t.Fatalf("expected last logged date %s, got %v", tc.date, next.LastLoggedDate)
			}
		})
	}
}

func TestNextStreakStateRejectsBadDates(t *testing.T) {
	t.Parallel()

	state := models.StreakState{
		UserID: "user-1", CurrentStreak: 2, LongestStreak: 2,
		TotalDaysLogged: 2, LastLoggedDate: strPtr("2026-03-05"),
	}

	if _, _, err := services.NextStreakState(state, "03/06/2026"); err == nil {
		t.Fatal("expected malformed date to be rejected")
	}

	_, _, err := services.NextStreakState(state, "2026-03-01")
	var vErr *models.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error for out-of-order date, got %v", err)
	}
}

func TestNextStreakStateFlagsCorruptStoredDate(t *testing.T) {
	t.Parallel()

	state := models.StreakState{
		UserID: "user-1", CurrentStreak: 1, LongestStreak: 1,
		TotalDaysLogged: 1, LastLoggedDate: strPtr("yesterday"),
	}

	_, _, err := services.NextStreakState(state, "2026-03-06")
	if !errors.Is(err, models.ErrDataIntegrity) {
		t.Fatalf("expected data integrity fault, got %v", err)
	}
}

func TestDeriveStreakStateFoldsHistory(t *testing.T) {
	t.Parallel()

	st, err := services.DeriveStreakState("user-1", []string{
		"2026-03-02", "2026-03-03", "2026-03-04",
	})
	if err != nil {
		t.Fatalf("derive streak state: %v", err)
	}
	if st.CurrentStreak != 3 || st.LongestStreak != 3 || st.TotalDaysLogged != 3 {
		t.Fatalf("expected 3/3/3 after three consecutive days, got %d/%d/%d",
			st.CurrentStreak, st.LongestStreak, st.TotalDaysLogged)
	}

	st, err = services.DeriveStreakState("user-1", []string{
		"2026-03-02", "2026-03-03", "2026-03-04", "2026-03-09",
	})
	if err != nil {
		t.Fatalf("derive streak state with gap: %v", err)
	}
	if st.CurrentStreak != 1 {
		t.Fatalf("expected streak reset to 1 after gap, got %d", st.CurrentStreak)
	}
	if st.LongestStreak != 3 {
		t.Fatalf("expected longest streak 3 preserved, got %d", st.LongestStreak)
	}
	if st.TotalDaysLogged != 4 {
		t.Fatalf("expected 4 days logged, got %d", st.TotalDaysLogged)
	}
}

func TestNextStreakStateRepeatedDayStable(t *testing.T) {
	t.Parallel()

	st := models.StreakState{UserID: "user-1"}
	next, _, err := services.NextStreakState(st, "2026-03-02")
	if err != nil {
		t.Fatalf("first log: %v", err)
	}

	again, advanced, err := services.NextStreakState(next, "2026-03-02")
	if err != nil {
		t.Fatalf("repeat log: %v", err)
	}
	if advanced {
		t.Fatal("expected repeated day not to advance")
	}
	if again.CurrentStreak != next.CurrentStreak || again.TotalDaysLogged != next.TotalDaysLogged {
		t.Fatalf("expected state unchanged on repeat, got %+v then %+v", next, again)
	}
}
