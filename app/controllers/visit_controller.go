package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nlzhang/homepage/internal/pkg/visit"
)

var visitService *visit.Service

// InitializeVisitController wires the visit counter service. A nil
// service (no store bound) makes the endpoint answer 501 so clients
// fall back to their local counter.
func InitializeVisitController(service *visit.Service) {
	visitService = service
}

type dailyVisitRequest struct {
	Date      string `json:"date"`
	Timestamp int64  `json:"timestamp"`
}

// HandleDailyVisitPost counts one visit for today. Identity comes from
// connection metadata, never from the body.
func HandleDailyVisitPost(c *fiber.Ctx) error {
	var req dailyVisitRequest
	// A malformed body falls through with an empty date and fails
	// validation below, same as a missing date.
	_ = c.BodyParser(&req)

	identity := GetClientIdentity(c)

	result, err := visitService.RecordVisit(c.Context(), req.Date, identity)
	if err != nil {
		return respondVisitError(c, err)
	}

	message := "visit from this IP already recorded today"
	if result.IsNewVisit {
		message = "new visit recorded"
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"todayCount": result.TodayCount,
		"totalCount": result.TotalCount,
		"isNewVisit": result.IsNewVisit,
		"message":    message,
	})
}

// HandleDailyVisitGet returns the counters for a date without counting
// anything. The date defaults to the current UTC day.
func HandleDailyVisitGet(c *fiber.Ctx) error {
	date := c.Query("date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}

	counts, err := visitService.GetCounts(c.Context(), date)
	if err != nil {
		return respondVisitError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(counts)
}

func respondVisitError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, visit.ErrInvalidDate):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_date",
			"message": "date must be formatted YYYY-MM-DD",
		})
	case errors.Is(err, visit.ErrNotConfigured):
		return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{
			"error":   "kv_not_configured",
			"message": "KV store is not configured, set CACHE_HOST to enable server-side counting",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "kv_operation_failed",
			"message": err.Error(),
		})
	}
}
