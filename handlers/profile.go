// handlers/profile.go
package handlers

import (
	"nutrition-tracker-system/middleware"
	"nutrition-tracker-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProfileRoutes(app *fiber.App, profileService *services.ProfileService, authService *services.AuthService) {
	userAuth := middleware.UserAuthMiddleware(authService)

	// 🔐 Users can only read and update their own profile
	app.Get("/api/users/:id", userAuth, func(c *fiber.Ctx) error {
		userID := requireSelf(c)
		if userID == "" {
			return nil
		}

		profile, err := profileService.GetProfile(userID)
		if err != nil {
			return writeError(c, "failed to load profile", err)
		}
		return c.JSON(profile)
	})

	app.Put("/api/users/:id", userAuth, func(c *fiber.Ctx) error {
		userID := requireSelf(c)
		if userID == "" {
			return nil
		}

		var in services.ProfileUpdateInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		profile, err := profileService.UpdateProfile(userID, in)
		if err != nil {
			return writeError(c, "failed to update profile", err)
		}
		return c.JSON(profile)
	})

	app.Get("/api/users/:id/recommendations", userAuth, func(c *fiber.Ctx) error {
		userID := requireSelf(c)
		if userID == "" {
			return nil
		}

		rec, err := profileService.Recommendations(userID)
		if err != nil {
			return writeError(c, "failed to compute recommendations", err)
		}
		return c.JSON(rec)
	})
}
