package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"nutrition-tracker-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const logDateLayout = "2006-01-02"

// ParseLogDate validates a YYYY-MM-DD calendar date string.
func ParseLogDate(s string) (time.Time, error) {
	d, err := time.Parse(logDateLayout, s)
	if err != nil {
		return time.Time{}, models.NewValidationError("date", "must be YYYY-MM-DD")
	}
	return d, nil
}

// NextStreakState applies one logging event to a streak state and returns
// the updated state. Pure: the stored row is only touched by callers.
// advanced reports whether the date was a genuinely new day (a repeat of
// last_logged_date is a no-op).
//
// Transition: same day → unchanged; exactly the next day → streak continues;
// any larger gap or a first-ever entry → streak restarts at 1. A date before
// last_logged_date is malformed collaborator input and is rejected.
func NextStreakState(st models.StreakState, date string) (next models.StreakState, advanced bool, err error) {
	cur, err := ParseLogDate(date)
	if err != nil {
		return st, false, models.NewValidationError("log_date", "must be YYYY-MM-DD")
	}

	if st.LastLoggedDate != nil {
		if date == *st.LastLoggedDate {
			return st, false, nil
		}
		last, perr := ParseLogDate(*st.LastLoggedDate)
		if perr != nil {
			return st, false, fmt.Errorf("%w: stored last_logged_date %q is not a date", models.ErrDataIntegrity, *st.LastLoggedDate)
		}
		if cur.Before(last) {
			return st, false, models.NewValidationError("log_date", "earlier than last logged date")
		}
		if cur.Equal(last.AddDate(0, 0, 1)) {
			st.CurrentStreak++
		} else {
			st.CurrentStreak = 1
		}
	} else {
		st.CurrentStreak = 1
	}

	if st.CurrentStreak > st.LongestStreak {
		st.LongestStreak = st.CurrentStreak
	}
	st.TotalDaysLogged++
	st.LastLoggedDate = &date
	return st, true, nil
}

// DeriveStreakState folds an ascending sequence of distinct log dates
// through the streak transition, rebuilding the state from scratch. The
// cached row must always agree with this; the integrity sweep compares them.
func DeriveStreakState(userID string, dates []string) (models.StreakState, error) {
	st := models.StreakState{UserID: userID}
	for _, d := range dates {
		next, _, err := NextStreakState(st, d)
		if err != nil {
			return st, fmt.Errorf("derive streaks for %s at %s: %w", userID, d, err)
		}
		st = next
	}
	return st, nil
}

// checkStreakInvariant guards the stored-state invariant. A row where the
// longest streak trails the current one is corrupt; it is reported, never
// silently repaired.
func checkStreakInvariant(st *models.StreakState) error {
	if st.LongestStreak < st.CurrentStreak {
		return fmt.Errorf("%w: streak state for %s has longest_streak %d < current_streak %d",
			models.ErrDataIntegrity, st.UserID, st.LongestStreak, st.CurrentStreak)
	}
	return nil
}

type StreakService struct {
	DB *gorm.DB
}

func NewStreakService(db *gorm.DB) *StreakService {
	return &StreakService{DB: db}
}

// EnsureStreakState returns the user's streak row, creating the zero-valued
// initial state on first use (idempotent).
func (s *StreakService) EnsureStreakState(tx *gorm.DB, userID string) (*models.StreakState, error) {
	var st models.StreakState
	err := tx.Where("user_id = ?", userID).First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		st = models.StreakState{
			ID:     uuid.NewString(),
			UserID: userID,
		}
		if err := tx.Create(&st).Error; err != nil {
			return nil, err
		}
		return &st, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// AdvanceStreak runs the streak transition for one log event inside the
// caller's transaction, holding a row lock on the user's streak state so
// two same-day submissions cannot both count the day. Returns the updated
// state and whether the date was new.
func (s *StreakService) AdvanceStreak(tx *gorm.DB, userID, date string) (*models.StreakState, bool, error) {
	if _, err := s.EnsureStreakState(tx, userID); err != nil {
		return nil, false, fmt.Errorf("ensure streak state: %w", err)
	}

	var st models.StreakState
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).First(&st).Error; err != nil {
		return nil, false, fmt.Errorf("lock streak state: %w", err)
	}

	if err := checkStreakInvariant(&st); err != nil {
		return nil, false, err
	}

	next, advanced, err := NextStreakState(st, date)
	if err != nil {
		return nil, false, err
	}
	if !advanced {
		return &st, false, nil
	}

	if err := tx.Save(&next).Error; err != nil {
		return nil, false, fmt.Errorf("save streak state: %w", err)
	}
	return &next, true, nil
}

// GetStreaks returns the user's streak state, or the zero-valued initial
// state if they have never logged. A stored invariant violation aborts the
// read.
func (s *StreakService) GetStreaks(userID string) (*models.StreakState, error) {
	var st models.StreakState
	err := s.DB.Where("user_id = ?", userID).First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.StreakState{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	if err := checkStreakInvariant(&st); err != nil {
		log.Printf("❌ [STREAKS] %v", err)
		return nil, err
	}
	return &st, nil
}

// StreakDivergence is one reconciliation report: the cached row next to the
// state re-derived from the entry history.
type StreakDivergence struct {
	UserID    string             `json:"user_id"`
	Divergent bool               `json:"divergent"`
	Applied   bool               `json:"applied"`
	Stored    models.StreakState `json:"stored"`
	Derived   models.StreakState `json:"derived"`
}

// ReconcileStreaks re-derives a user's streak state from their distinct log
// dates and compares it to the cached row. With apply set, a divergent row
// is rewritten to the derived state in one transaction; otherwise the
// divergence is only reported.
func (s *StreakService) ReconcileStreaks(userID string, apply bool) (*StreakDivergence, error) {
	var dates []string
	if err := s.DB.Model(&models.FoodLogEntry{}).
		Where("user_id = ?", userID).
		Distinct("log_date").
		Order("log_date ASC").
		Pluck("log_date", &dates).Error; err != nil {
		return nil, fmt.Errorf("load log dates: %w", err)
	}

	derived, err := DeriveStreakState(userID, dates)
	if err != nil {
		return nil, err
	}

	var stored models.StreakState
	err = s.DB.Where("user_id = ?", userID).First(&stored).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		stored = models.StreakState{UserID: userID}
	} else if err != nil {
		return nil, err
	}

	report := &StreakDivergence{
		UserID:    userID,
		Stored:    stored,
		Derived:   derived,
		Divergent: streaksDiffer(&stored, &derived),
	}

	if report.Divergent && apply {
		err := s.DB.Transaction(func(tx *gorm.DB) error {
			row, err := s.EnsureStreakState(tx, userID)
			if err != nil {
				return err
			}
			row.CurrentStreak = derived.CurrentStreak
			row.LongestStreak = derived.LongestStreak
			row.LastLoggedDate = derived.LastLoggedDate
			row.TotalDaysLogged = derived.TotalDaysLogged
			return tx.Save(row).Error
		})
		if err != nil {
			return nil, fmt.Errorf("apply derived streak state: %w", err)
		}
		report.Applied = true
		log.Printf("✅ [STREAKS] Reconciled streak state for %s (current=%d longest=%d days=%d)",
			userID, derived.CurrentStreak, derived.LongestStreak, derived.TotalDaysLogged)
	}

	return report, nil
}

func streaksDiffer(a, b *models.StreakState) bool {
	if a.CurrentStreak != b.CurrentStreak ||
		a.LongestStreak != b.LongestStreak ||
		a.TotalDaysLogged != b.TotalDaysLogged {
		return true
	}
	switch {
	case a.LastLoggedDate == nil && b.LastLoggedDate == nil:
		return false
	case a.LastLoggedDate == nil || b.LastLoggedDate == nil:
		return true
	default:
		return *a.LastLoggedDate != *b.LastLoggedDate
	}
}
