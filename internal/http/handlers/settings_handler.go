package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/leadscout/backend/internal/http/dto"
	"github.com/leadscout/backend/internal/models"
	"github.com/leadscout/backend/internal/services"
)

type SettingsHandler struct {
	settings *services.SettingsService
	log      *zap.Logger
}

func NewSettingsHandler(settings *services.SettingsService, log *zap.Logger) *SettingsHandler {
	return &SettingsHandler{settings: settings, log: log}
}

func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	return c.JSON(dto.Success(h.settings.Get()))
}

func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("invalid request body"))
	}

	updated, err := h.settings.Update(c.Context(), models.Settings{
		DisplayName:  req.DisplayName,
		CommentStyle: req.CommentStyle,
		GeminiAPIKey: req.GeminiAPIKey,
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error(err.Error()))
	}
	return c.JSON(dto.Success(updated))
}

func (h *SettingsHandler) Usage(c *fiber.Ctx) error {
	return c.JSON(dto.Success(h.settings.Usage()))
}

// Clear wipes all stored data. Irreversible.
func (h *SettingsHandler) Clear(c *fiber.Ctx) error {
	if err := h.settings.Clear(c.Context()); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Success(nil))
}
