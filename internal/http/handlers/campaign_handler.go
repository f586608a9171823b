package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/leadscout/backend/internal/http/dto"
	"github.com/leadscout/backend/internal/services"
)

type CampaignHandler struct {
	campaigns *services.CampaignService
	log       *zap.Logger
}

func NewCampaignHandler(campaigns *services.CampaignService, log *zap.Logger) *CampaignHandler {
	return &CampaignHandler{campaigns: campaigns, log: log}
}

// Create launches a new campaign, running the initial lead search before
// anything is persisted.
func (h *CampaignHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("invalid request body"))
	}

	campaign, err := h.campaigns.Create(c.Context(), req.ToModel())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Success(campaign))
}

func (h *CampaignHandler) List(c *fiber.Ctx) error {
	return c.JSON(dto.Success(h.campaigns.List()))
}

func (h *CampaignHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error(err.Error()))
	}
	campaign, err := h.campaigns.Get(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Success(campaign))
}

func (h *CampaignHandler) Delete(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error(err.Error()))
	}
	if err := h.campaigns.Delete(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Success(nil))
}

// Refresh runs a repeat lead search. Quota exhaustion comes back as a
// declined outcome with HTTP 200, not as an error.
func (h *CampaignHandler) Refresh(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error(err.Error()))
	}
	outcome, err := h.campaigns.Refresh(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Success(outcome))
}

func (h *CampaignHandler) Pause(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error(err.Error()))
	}
	campaign, err := h.campaigns.Pause(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Success(campaign))
}

func (h *CampaignHandler) Resume(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error(err.Error()))
	}
	campaign, err := h.campaigns.Resume(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Success(campaign))
}

// OpStatus reports the last known ingestion state for polling clients.
func (h *CampaignHandler) OpStatus(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error(err.Error()))
	}
	if _, err := h.campaigns.Get(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Success(fiber.Map{"state": h.campaigns.OpState(id)}))
}

func (h *CampaignHandler) Posts(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error(err.Error()))
	}
	posts, err := h.campaigns.Posts(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Success(posts))
}
