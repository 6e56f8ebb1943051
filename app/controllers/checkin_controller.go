package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/nlzhang/homepage/internal/pkg/checkin"
	"github.com/nlzhang/homepage/internal/pkg/kvstore"
)

var checkinService *checkin.Service

// InitializeCheckinController wires the check-in service.
func InitializeCheckinController(service *checkin.Service) {
	checkinService = service
}

type checkinRequest struct {
	Day string `json:"day"`
}

// HandleCheckinGet returns the recorded check-in days for a uid.
func HandleCheckinGet(c *fiber.Ctx) error {
	uid := c.Query("uid")
	if uid == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing uid",
		})
	}

	days, err := checkinService.Days(c.Context(), uid)
	if err != nil {
		return respondCheckinError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"days": days,
	})
}

// HandleCheckinPost records a check-in day. A client without a uid gets
// a fresh server-issued one back and keeps it for future calls.
func HandleCheckinPost(c *fiber.Ctx) error {
	uid := c.Query("uid")
	if uid == "" {
		uid = checkin.NewUID()
	}

	var req checkinRequest
	_ = c.BodyParser(&req)

	days, err := checkinService.Add(c.Context(), uid, req.Day)
	if err != nil {
		if errors.Is(err, checkin.ErrInvalidDay) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "bad day",
			})
		}
		return respondCheckinError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok":   true,
		"uid":  uid,
		"days": days,
	})
}

func respondCheckinError(c *fiber.Ctx, err error) error {
	if errors.Is(err, kvstore.ErrNotConfigured) {
		return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{
			"error": "kv_not_configured",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "kv_operation_failed",
		"message": err.Error(),
	})
}
