package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/nlzhang/homepage/internal/pkg/kvstore"
	"github.com/nlzhang/homepage/internal/pkg/theme"
)

var themeService *theme.Service

// InitializeThemeController wires the theme color service.
func InitializeThemeController(service *theme.Service) {
	themeService = service
}

// HandleThemeGet returns the stored global accent color, or null when
// no color has been set yet.
func HandleThemeGet(c *fiber.Ctx) error {
	color, err := themeService.Get(c.Context())
	if err != nil {
		return respondThemeError(c, err)
	}

	message := "no global theme color set"
	if color != nil {
		message = "global theme color loaded"
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    color,
		"message": message,
	})
}

// HandleThemePost validates and stores a new global accent color.
func HandleThemePost(c *fiber.Ctx) error {
	color := theme.Color{Saturation: 100, Lightness: 50}
	if err := c.BodyParser(&color); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid theme color payload",
		})
	}

	stored, err := themeService.Set(c.Context(), color, c.Get("User-Agent"))
	if err != nil {
		if errors.Is(err, kvstore.ErrNotConfigured) {
			return respondThemeError(c, err)
		}
		// Validation failure: RGB or HSL values out of range
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "RGB color values must be within 0-255",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    stored,
		"message": "global theme color saved",
	})
}

// HandleThemeDelete resets the global accent color to the default.
func HandleThemeDelete(c *fiber.Ctx) error {
	if err := themeService.Reset(c.Context()); err != nil {
		return respondThemeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "global theme color reset to default",
	})
}

func respondThemeError(c *fiber.Ctx, err error) error {
	if errors.Is(err, kvstore.ErrNotConfigured) {
		return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{
			"success": false,
			"message": "KV store is not configured, theme color is local-only",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": err.Error(),
	})
}
