package handler

import (
	"errors"
	"log"
	"strconv"

	"go-storefront-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

// writeError maps service errors onto HTTP statuses. Anything unrecognised is
// logged and reported as a 500 without leaking details.
func writeError(c *fiber.Ctx, err error) error {
	var stockErr *service.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":      err.Error(),
			"product_id": stockErr.ProductID,
			"requested":  stockErr.Requested,
			"available":  stockErr.Available,
			"shortfall":  stockErr.Shortfall(),
		})
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	log.Printf("%s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func invalidJSON(c *fiber.Ctx) error {
	return badRequest(c, "Invalid JSON")
}

// paramID reads a positive integer route parameter.
func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// queryID reads an optional positive integer query parameter; absent is 0.
func queryID(c *fiber.Ctx, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func wantsMany(c *fiber.Ctx) bool {
	return c.QueryBool("many", false)
}
