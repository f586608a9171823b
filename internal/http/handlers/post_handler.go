package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/leadscout/backend/internal/http/dto"
	"github.com/leadscout/backend/internal/services"
)

type PostHandler struct {
	posts *services.PostService
	log   *zap.Logger
}

func NewPostHandler(posts *services.PostService, log *zap.Logger) *PostHandler {
	return &PostHandler{posts: posts, log: log}
}

func (h *PostHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error(err.Error()))
	}
	post, err := h.posts.Get(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Success(post))
}

func (h *PostHandler) MarkContacted(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error(err.Error()))
	}
	post, err := h.posts.MarkContacted(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Success(post))
}

func (h *PostHandler) Hide(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error(err.Error()))
	}
	post, err := h.posts.Hide(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Success(post))
}

// AuthorSummary returns the cached author profile summary, generating it on
// first request.
func (h *PostHandler) AuthorSummary(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error(err.Error()))
	}
	post, err := h.posts.AuthorSummary(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Success(fiber.Map{"summary": post.AuthorSummary}))
}

// DraftComment generates an outreach comment. The draft is returned to the
// caller and not stored.
func (h *PostHandler) DraftComment(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error(err.Error()))
	}
	draft, err := h.posts.DraftComment(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Success(fiber.Map{"draft": draft}))
}

func (h *PostHandler) Comments(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error(err.Error()))
	}
	comments, err := h.posts.Comments(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Success(comments))
}

// RecordComment appends a comment the user actually posted to the lead's
// history.
func (h *PostHandler) RecordComment(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error(err.Error()))
	}
	var req dto.RecordCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("invalid request body"))
	}
	if strings.TrimSpace(req.Text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("comment text is required"))
	}
	if err := h.posts.RecordComment(c.Context(), id, req.Text); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Success(nil))
}
