// handlers/gamification_routes.go
package handlers

import (
	"nutrition-tracker-system/middleware"
	"nutrition-tracker-system/models"
	"nutrition-tracker-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupGamificationRoutes(app *fiber.App, streakService *services.StreakService, achievementService *services.AchievementService, authService *services.AuthService) {
	userAuth := middleware.UserAuthMiddleware(authService)

	app.Get("/api/users/:id/streaks", userAuth, func(c *fiber.Ctx) error {
		userID := requireSelf(c)
		if userID == "" {
			return nil
		}

		st, err := streakService.GetStreaks(userID)
		if err != nil {
			return writeError(c, "failed to load streaks", err)
		}
		return c.JSON(fiber.Map{
			"current_streak":    st.CurrentStreak,
			"longest_streak":    st.LongestStreak,
			"last_logged_date":  st.LastLoggedDate,
			"total_days_logged": st.TotalDaysLogged,
		})
	})

	app.Get("/api/users/:id/achievements", userAuth, func(c *fiber.Ctx) error {
		userID := requireSelf(c)
		if userID == "" {
			return nil
		}

		unlocked, err := achievementService.GetUserAchievements(userID)
		if err != nil {
			return writeError(c, "failed to load achievements", err)
		}
		points, err := achievementService.TotalPoints(userID)
		if err != nil {
			return writeError(c, "failed to total achievement points", err)
		}
		return c.JSON(fiber.Map{
			"achievements": unlocked,
			"total_count":  len(unlocked),
			"total_points": points,
		})
	})

	// Full catalog, locked ones included — clients render these greyed out
	app.Get("/api/achievements", userAuth, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"achievements": models.AchievementCatalog,
			"total_count":  len(models.AchievementCatalog),
		})
	})

	// Admin endpoints
	admin := app.Group("/api/admin", middleware.ServiceAuthMiddleware())

	admin.Post("/users/:id/reconcile-streaks", func(c *fiber.Ctx) error {
		apply := c.QueryBool("apply", false)

		report, err := streakService.ReconcileStreaks(c.Params("id"), apply)
		if err != nil {
			return writeError(c, "streak reconciliation failed", err)
		}
		return c.JSON(report)
	})
}
