// services/scheduler.go
package services

import (
	"log"
	"time"

	"nutrition-tracker-system/models"

	"github.com/go-co-op/gocron/v2"
)

// StartIntegritySweep audits every cached streak row against the state
// re-derived from the entry log. The sweep only reports; repairs go
// through the admin reconcile endpoint with apply set.
func (s *StreakService) StartIntegritySweep() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every hour: re-derive streaks and flag divergent rows
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			var userIDs []string
			err := s.DB.Model(&models.StreakState{}).
				Pluck("user_id", &userIDs).Error
			if err != nil {
				log.Printf("[Sweep] DB error: %v", err)
				return
			}

			divergent := 0
			for _, id := range userIDs {
				report, err := s.ReconcileStreaks(id, false)
				if err != nil {
					log.Printf("[Sweep] Failed to reconcile %s: %v", id, err)
					continue
				}
				if report.Divergent {
					divergent++
					log.Printf("⚠️ [Sweep] Streak divergence for %s: stored current=%d longest=%d days=%d, derived current=%d longest=%d days=%d",
						id,
						report.Stored.CurrentStreak, report.Stored.LongestStreak, report.Stored.TotalDaysLogged,
						report.Derived.CurrentStreak, report.Derived.LongestStreak, report.Derived.TotalDaysLogged)
				}
			}

			if divergent > 0 {
				log.Printf("⚠️ [Sweep] %d of %d streak rows divergent", divergent, len(userIDs))
			}
		}),
	)
}
