package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/praxis-api/internal/dto"
	"github.com/noah-isme/praxis-api/internal/middleware"
	"github.com/noah-isme/praxis-api/internal/service"
	"github.com/noah-isme/praxis-api/internal/utils"
)

type stubGradingService struct {
	err   error
	sheet dto.ScoringSheetResponse
}

func (s *stubGradingService) GetScoringSheet(context.Context, service.Caller, uint) (dto.ScoringSheetResponse, error) {
	return s.sheet, s.err
}

func (s *stubGradingService) SaveDraft(context.Context, service.Caller, uint, dto.ScoringSaveRequest) (dto.ScoringSheetResponse, error) {
	return s.sheet, s.err
}

func (s *stubGradingService) Complete(context.Context, service.Caller, uint, dto.ScoringSaveRequest) (dto.ScoringSheetResponse, error) {
	return s.sheet, s.err
}

func (s *stubGradingService) MarkReviewedWithoutRubric(context.Context, service.Caller, uint) (dto.AssignmentResponse, error) {
	return dto.AssignmentResponse{}, s.err
}

func (s *stubGradingService) GetCapabilityReport(context.Context, service.Caller, uint) (dto.CapabilityReportResponse, error) {
	return dto.CapabilityReportResponse{}, s.err
}

func newGradingTestApp(svc service.GradingService) *fiber.App {
	app := fiber.New()
	group := app.Group("/assignments", middleware.WithCaller(service.Caller{ID: 50, Roles: []string{service.RoleInstructor}}))
	NewGradingHandler(svc, zerolog.New(io.Discard)).Register(group)

	return app
}

func decodeAPIResponse(t *testing.T, body io.Reader) utils.APIResponse {
	t.Helper()
	var response utils.APIResponse
	require.NoError(t, json.NewDecoder(body).Decode(&response))

	return response
}

func TestGradingHandlerGuardErrorsMapToConflict(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		message string
	}{
		{"already reviewed", service.ErrAlreadyReviewed, "assignment has already been reviewed"},
		{"not submitted", service.ErrNotSubmitted, "assignment has not been submitted yet"},
		{"scoring required", service.ErrScoringRequired, "assignment type has a rubric; complete scoring instead"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newGradingTestApp(&stubGradingService{err: tc.err})

			request := httptest.NewRequest(fiber.MethodPost, "/assignments/1/scoring/complete", strings.NewReader(`{}`))
			request.Header.Set("Content-Type", "application/json")
			response, err := app.Test(request)
			require.NoError(t, err)
			require.Equal(t, fiber.StatusConflict, response.StatusCode)

			body := decodeAPIResponse(t, response.Body)
			require.False(t, body.Success)
			require.Equal(t, tc.message, body.Message)
		})
	}
}

func TestGradingHandlerMissingRubricMapsTo422(t *testing.T) {
	app := newGradingTestApp(&stubGradingService{err: service.ErrMissingRubric})

	request := httptest.NewRequest(fiber.MethodGet, "/assignments/1/scoring", nil)
	response, err := app.Test(request)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnprocessableEntity, response.StatusCode)
}

func TestGradingHandlerRatingErrorsMapToBadRequest(t *testing.T) {
	app := newGradingTestApp(&stubGradingService{err: service.ErrInvalidRating})

	request := httptest.NewRequest(fiber.MethodPut, "/assignments/1/scoring/draft", strings.NewReader(`{"ratings":{"1":9}}`))
	request.Header.Set("Content-Type", "application/json")
	response, err := app.Test(request)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, response.StatusCode)
}

func TestGradingHandlerNotFound(t *testing.T) {
	app := newGradingTestApp(&stubGradingService{err: service.ErrAssignmentNotFound})

	request := httptest.NewRequest(fiber.MethodGet, "/assignments/42/scoring", nil)
	response, err := app.Test(request)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, response.StatusCode)
}

func TestGradingHandlerRejectsInvalidID(t *testing.T) {
	app := newGradingTestApp(&stubGradingService{})

	request := httptest.NewRequest(fiber.MethodGet, "/assignments/abc/scoring", nil)
	response, err := app.Test(request)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, response.StatusCode)
}

func TestGradingHandlerSheetSuccess(t *testing.T) {
	app := newGradingTestApp(&stubGradingService{})

	request := httptest.NewRequest(fiber.MethodGet, "/assignments/1/scoring", nil)
	response, err := app.Test(request)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, response.StatusCode)

	body := decodeAPIResponse(t, response.Body)
	require.True(t, body.Success)
	require.Equal(t, "scoring sheet retrieved", body.Message)
}
