package controllers

import (
	"github.com/gofiber/fiber/v2"
)

// HandleApiPing answers the /api root so clients can probe whether the
// endpoint layer is deployed at all.
func HandleApiPing(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Hello from api",
	})
}
