package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/leadscout/backend/internal/http/dto"
	"github.com/leadscout/backend/internal/services"
)

// respondError maps service errors onto HTTP statuses.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.Error(err.Error()))
	case errors.Is(err, services.ErrQuotaExceeded):
		return c.Status(fiber.StatusTooManyRequests).JSON(dto.Error(err.Error()))
	case errors.Is(err, services.ErrOpInFlight):
		return c.Status(fiber.StatusConflict).JSON(dto.Error(err.Error()))
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Error(err.Error()))
	}
}

func idParam(c *fiber.Ctx, name string) (int, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
