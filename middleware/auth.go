// middleware/auth.go
package middleware

import (
	"log"
	"strings"

	"nutrition-tracker-system/services"

	"github.com/gofiber/fiber/v2"
)

// UserAuthMiddleware validates the Bearer JWT on every protected route and
// attaches the subject user id for handlers.
func UserAuthMiddleware(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "authorization header missing",
			})
		}

		// Parse "Bearer <token>"
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader || token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "authorization header must be a Bearer token",
			})
		}

		userID, err := auth.VerifyToken(token)
		if err != nil {
			log.Printf("🚫 [AUTH] Rejected token for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		// Attach to ctx for handlers
		c.Locals("user_id", userID)
		return c.Next()
	}
}
