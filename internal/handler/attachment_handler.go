package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/praxis-api/internal/models"
	"github.com/noah-isme/praxis-api/internal/service"
	"github.com/noah-isme/praxis-api/internal/utils"
	"github.com/noah-isme/praxis-api/pkg/blob"
)

// AttachmentHandler uploads attachments referenced by file response fields.
type AttachmentHandler struct {
	assignments service.AssignmentService
	store       blob.Store
	logger      zerolog.Logger
}

// NewAttachmentHandler builds an attachment handler instance.
func NewAttachmentHandler(assignments service.AssignmentService, store blob.Store, logger zerolog.Logger) *AttachmentHandler {
	return &AttachmentHandler{
		assignments: assignments,
		store:       store,
		logger:      logger.With().Str("component", "attachment_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *AttachmentHandler) Register(router fiber.Router) {
	router.Post("/:id/attachments", h.upload)
}

func (h *AttachmentHandler) upload(c *fiber.Ctx) error {
	caller, ok := requestCaller(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	assignment, err := h.assignments.Get(c.Context(), caller, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAssignmentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrForbidden):
			return utils.SendError(c, fiber.StatusForbidden, err.Error())
		default:
			h.logger.Error().Err(err).Msg("internal server error")
			return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
		}
	}

	if assignment.Status != models.AssignmentStatusDraft {
		return utils.SendError(c, fiber.StatusConflict, service.ErrInvalidTransition.Error())
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	probe, err := file.Open()
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "failed to open file")
	}
	typeErr := blob.ValidateContentType(probe)
	probe.Close()
	if typeErr != nil {
		return utils.SendError(c, fiber.StatusBadRequest, typeErr.Error())
	}

	reader, err := file.Open()
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "failed to open file")
	}
	defer reader.Close()

	path, err := h.store.Upload(c.Context(), file.Filename, reader)
	if err != nil {
		h.logger.Error().Err(err).Msg("attachment upload failed")
		return utils.SendError(c, fiber.StatusBadGateway, "failed to store attachment")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "attachment uploaded", fiber.Map{
		"assignment_id": assignment.ID,
		"path":          path,
	})
}
