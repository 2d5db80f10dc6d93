// handlers/respond.go
package handlers

import (
	"errors"

	"nutrition-tracker-system/models"

	"github.com/gofiber/fiber/v2"
)

// writeError maps the service error taxonomy to HTTP statuses with the
// {"error", "cause"} body every endpoint shares.
func writeError(c *fiber.Ctx, message string, err error) error {
	var vErr *models.ValidationError
	switch {
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": message,
			"cause": vErr.Error(),
		})
	case errors.Is(err, models.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": message,
			"cause": "not found",
		})
	case errors.Is(err, models.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": message,
			"cause": models.ErrInvalidCredentials.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": message,
			"cause": err.Error(),
		})
	}
}

// requireSelf lets a user touch only their own resources: the :id path
// param must match the authenticated subject. Returns the id, or "" after
// writing the 403.
func requireSelf(c *fiber.Ctx) string {
	userID, _ := c.Locals("user_id").(string)
	pathID := c.Params("id")
	if pathID == "" || pathID != userID {
		_ = c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "access denied",
		})
		return ""
	}
	return pathID
}
