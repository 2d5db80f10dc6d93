// handlers/analytics.go
package handlers

import (
	"strconv"
	"time"

	"nutrition-tracker-system/middleware"
	"nutrition-tracker-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAnalyticsRoutes(app *fiber.App, analyticsService *services.AnalyticsService, authService *services.AuthService) {
	userAuth := middleware.UserAuthMiddleware(authService)

	app.Get("/api/users/:id/analytics/weekly", userAuth, func(c *fiber.Ctx) error {
		userID := requireSelf(c)
		if userID == "" {
			return nil
		}

		limit := parseLimit(c.Query("limit", "12"))
		weeks, err := analyticsService.WeeklyAnalytics(userID, limit)
		if err != nil {
			return writeError(c, "failed to compute weekly analytics", err)
		}
		return c.JSON(fiber.Map{"weekly_analytics": weeks})
	})

	app.Get("/api/users/:id/analytics/monthly", userAuth, func(c *fiber.Ctx) error {
		userID := requireSelf(c)
		if userID == "" {
			return nil
		}

		limit := parseLimit(c.Query("limit", "12"))
		months, err := analyticsService.MonthlyAnalytics(userID, limit)
		if err != nil {
			return writeError(c, "failed to compute monthly analytics", err)
		}
		return c.JSON(fiber.Map{"monthly_analytics": months})
	})

	app.Get("/api/users/:id/analytics/summary", userAuth, func(c *fiber.Ctx) error {
		userID := requireSelf(c)
		if userID == "" {
			return nil
		}

		summary, err := analyticsService.Summary(userID, time.Now().UTC())
		if err != nil {
			return writeError(c, "failed to compute analytics summary", err)
		}
		return c.JSON(summary)
	})
}

func parseLimit(s string) int {
	limit, err := strconv.Atoi(s)
	if err != nil || limit <= 0 || limit > 100 {
		return 12
	}
	return limit
}
