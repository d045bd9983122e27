package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/praxis-api/internal/dto"
	"github.com/noah-isme/praxis-api/internal/service"
	"github.com/noah-isme/praxis-api/internal/utils"
)

// GradingHandler manages the staff-facing scoring endpoints.
type GradingHandler struct {
	grading service.GradingService
	logger  zerolog.Logger
}

// NewGradingHandler builds a grading handler instance.
func NewGradingHandler(grading service.GradingService, logger zerolog.Logger) *GradingHandler {
	return &GradingHandler{
		grading: grading,
		logger:  logger.With().Str("component", "grading_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *GradingHandler) Register(router fiber.Router) {
	router.Get("/:id/scoring", h.sheet)
	router.Put("/:id/scoring/draft", h.saveDraft)
	router.Post("/:id/scoring/complete", h.complete)
	router.Post("/:id/review", h.markReviewed)
}

func (h *GradingHandler) sheet(c *fiber.Ctx) error {
	caller, ok := requestCaller(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	sheet, err := h.grading.GetScoringSheet(c.Context(), caller, id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "scoring sheet retrieved", sheet)
}

func (h *GradingHandler) saveDraft(c *fiber.Ctx) error {
	caller, ok := requestCaller(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ScoringSaveRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	sheet, err := h.grading.SaveDraft(c.Context(), caller, id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "scoring draft saved", sheet)
}

func (h *GradingHandler) complete(c *fiber.Ctx) error {
	caller, ok := requestCaller(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ScoringSaveRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	sheet, err := h.grading.Complete(c.Context(), caller, id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "scoring completed", sheet)
}

func (h *GradingHandler) markReviewed(c *fiber.Ctx) error {
	caller, ok := requestCaller(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	assignment, err := h.grading.MarkReviewedWithoutRubric(c.Context(), caller, id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "assignment marked reviewed", assignment)
}

func (h *GradingHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound),
		errors.Is(err, service.ErrSnapshotNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	// The two guard rejections keep their distinct messages: they tell the
	// grader different things to do next.
	case errors.Is(err, service.ErrAlreadyReviewed),
		errors.Is(err, service.ErrNotSubmitted),
		errors.Is(err, service.ErrNotReviewed),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrScoringRequired):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrMissingRubric):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrUnknownQuestion),
		errors.Is(err, service.ErrUnknownDomain):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
