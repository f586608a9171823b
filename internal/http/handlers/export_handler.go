package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/leadscout/backend/internal/http/dto"
	"github.com/leadscout/backend/internal/services"
)

type ExportHandler struct {
	exports *services.ExportService
	log     *zap.Logger
}

func NewExportHandler(exports *services.ExportService, log *zap.Logger) *ExportHandler {
	return &ExportHandler{exports: exports, log: log}
}

// Dump returns the full application state as JSON.
func (h *ExportHandler) Dump(c *fiber.Ctx) error {
	return c.JSON(dto.Success(h.exports.Dump()))
}

func (h *ExportHandler) CampaignCSV(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error(err.Error()))
	}
	data, err := h.exports.CampaignCSV(id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="campaign-%d-leads.csv"`, id))
	return c.Send(data)
}

func (h *ExportHandler) CampaignXLSX(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error(err.Error()))
	}
	data, err := h.exports.CampaignXLSX(id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="campaign-%d-leads.xlsx"`, id))
	return c.Send(data)
}
