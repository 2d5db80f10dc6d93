// handlers/nutrition.go
package handlers

import (
	"nutrition-tracker-system/middleware"
	"nutrition-tracker-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupNutritionRoutes(app *fiber.App, logService *services.FoodLogService, authService *services.AuthService) {
	userAuth := middleware.UserAuthMiddleware(authService)

	// Vision analysis lives on the service (multipart plumbing)
	app.Post("/api/analyze-food", userAuth, logService.AnalyzeFood)

	// Logging an entry is the event that moves streaks and achievements
	app.Post("/api/food-entries", userAuth, func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var in services.LogEntryInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		result, err := logService.RecordLogEvent(userID, in)
		if err != nil {
			return writeError(c, "failed to log food entry", err)
		}
		return c.Status(fiber.StatusCreated).JSON(result)
	})

	app.Get("/api/users/:id/food-entries", userAuth, func(c *fiber.Ctx) error {
		userID := requireSelf(c)
		if userID == "" {
			return nil
		}

		entries, err := logService.GetEntries(userID, c.Query("date", ""))
		if err != nil {
			return writeError(c, "failed to load food entries", err)
		}
		return c.JSON(entries)
	})

	app.Get("/api/users/:id/daily-stats", userAuth, func(c *fiber.Ctx) error {
		userID := requireSelf(c)
		if userID == "" {
			return nil
		}

		stats, err := logService.GetDailyStats(userID, c.Query("date", ""))
		if err != nil {
			return writeError(c, "failed to compute daily stats", err)
		}
		return c.JSON(stats)
	})
}
