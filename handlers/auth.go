// handlers/auth.go
package handlers

import (
	"nutrition-tracker-system/middleware"
	"nutrition-tracker-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, authService *services.AuthService) {
	auth := app.Group("/api/auth")

	// 🔓 Public routes — account creation and login
	auth.Post("/signup", func(c *fiber.Ctx) error {
		var in services.SignupInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		result, err := authService.Signup(in)
		if err != nil {
			return writeError(c, "signup failed", err)
		}
		return c.Status(fiber.StatusCreated).JSON(result)
	})

	auth.Post("/login", func(c *fiber.Ctx) error {
		var in services.LoginInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		result, err := authService.Login(in)
		if err != nil {
			return writeError(c, "login failed", err)
		}
		return c.JSON(result)
	})

	// 🔐 Who am I — requires a valid token
	auth.Get("/me", middleware.UserAuthMiddleware(authService), func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		user, err := authService.CurrentUser(userID)
		if err != nil {
			return writeError(c, "failed to load current user", err)
		}
		return c.JSON(user)
	})
}
