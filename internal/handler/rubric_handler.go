package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/praxis-api/internal/dto"
	"github.com/noah-isme/praxis-api/internal/service"
	"github.com/noah-isme/praxis-api/internal/utils"
)

// RubricHandler exposes read-only rubric configuration to staff.
type RubricHandler struct {
	rubrics service.RubricProvider
	logger  zerolog.Logger
}

// NewRubricHandler builds a rubric handler instance.
func NewRubricHandler(rubrics service.RubricProvider, logger zerolog.Logger) *RubricHandler {
	return &RubricHandler{
		rubrics: rubrics,
		logger:  logger.With().Str("component", "rubric_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *RubricHandler) Register(router fiber.Router) {
	router.Get("/:id", h.get)
}

func (h *RubricHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	assessment, err := h.rubrics.GetRubric(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrMissingRubric) {
			return utils.SendError(c, fiber.StatusNotFound, "rubric not found")
		}
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "rubric retrieved", dto.NewRubricResponse(assessment))
}
