package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/praxis-api/internal/dto"
	"github.com/noah-isme/praxis-api/internal/models"
	"github.com/noah-isme/praxis-api/internal/observability"
	"github.com/noah-isme/praxis-api/internal/repository"
)

// AssignmentService covers the client side of the assignment lifecycle:
// drafting, editing, and submitting work for grading.
type AssignmentService interface {
	CreateDraft(ctx context.Context, caller Caller, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error)
	UpdateDraft(ctx context.Context, caller Caller, id uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error)
	Get(ctx context.Context, caller Caller, id uint) (dto.AssignmentResponse, error)
	Submit(ctx context.Context, caller Caller, id uint, payload dto.AssignmentSubmitRequest) (dto.AssignmentResponse, error)
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	types       repository.AssignmentTypeRepository
	progress    repository.ModuleProgressRepository
	staff       repository.StaffRepository
	validator   *validator.Validate
	gateway     NotificationGateway
	logger      zerolog.Logger
	now         func() time.Time
}

// NewAssignmentService constructs the client-side lifecycle service.
func NewAssignmentService(
	assignments repository.AssignmentRepository,
	types repository.AssignmentTypeRepository,
	progress repository.ModuleProgressRepository,
	staff repository.StaffRepository,
	validate *validator.Validate,
	gateway NotificationGateway,
	logger zerolog.Logger,
) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		types:       types,
		progress:    progress,
		staff:       staff,
		validator:   validate,
		gateway:     gateway,
		logger:      logger.With().Str("component", "assignment_service").Logger(),
		now:         time.Now,
	}
}

func (s *assignmentService) CreateDraft(ctx context.Context, caller Caller, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	progress, err := s.progress.GetByID(ctx, payload.ModuleProgressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrModuleProgressNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	if progress.ClientID != caller.ID {
		return dto.AssignmentResponse{}, ErrForbidden
	}

	assignmentType, err := s.types.GetByID(ctx, payload.AssignmentTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentTypeNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	fields, err := ParseResponseFields(assignmentType)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}
	if err := ValidateResponses(fields, payload.Responses, false); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment := models.Assignment{
		ModuleProgressID: payload.ModuleProgressID,
		AssignmentTypeID: payload.AssignmentTypeID,
		AssessorID:       caller.ID,
		Responses:        datatypes.JSONMap(payload.Responses),
		Status:           models.AssignmentStatusDraft,
		IsPrivate:        payload.IsPrivate,
	}

	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	created, err := s.assignments.GetByID(ctx, assignment.ID)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", created.ID).Msg("assignment draft created")

	return dto.NewAssignmentResponse(created, false), nil
}

func (s *assignmentService) UpdateDraft(ctx context.Context, caller Caller, id uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment, err := s.loadOwned(ctx, caller, id)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	if !assignment.IsEditableByClient() {
		return dto.AssignmentResponse{}, ErrInvalidTransition
	}

	if payload.Responses != nil {
		fields, err := ParseResponseFields(assignment.AssignmentType)
		if err != nil {
			return dto.AssignmentResponse{}, err
		}
		if err := ValidateResponses(fields, payload.Responses, false); err != nil {
			return dto.AssignmentResponse{}, err
		}
		assignment.Responses = datatypes.JSONMap(payload.Responses)
	}

	if payload.OverallComments != nil {
		assignment.OverallComments = payload.OverallComments
	}
	if payload.IsPrivate != nil {
		assignment.IsPrivate = *payload.IsPrivate
	}

	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	return dto.NewAssignmentResponse(assignment, false), nil
}

func (s *assignmentService) Get(ctx context.Context, caller Caller, id uint) (dto.AssignmentResponse, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	isOwner := assignment.ModuleProgress.ClientID == caller.ID
	if !isOwner && !caller.IsStaff() {
		return dto.AssignmentResponse{}, ErrForbidden
	}

	// Grading feedback becomes visible to the owner once the work is final.
	includeFeedback := caller.IsStaff() || assignment.IsFinal()

	return dto.NewAssignmentResponse(assignment, includeFeedback), nil
}

func (s *assignmentService) Submit(ctx context.Context, caller Caller, id uint, payload dto.AssignmentSubmitRequest) (dto.AssignmentResponse, error) {
	tracer := otel.Tracer("github.com/noah-isme/praxis-api/internal/service/assignment")
	ctx, span := tracer.Start(ctx, "assignment.submit")
	span.SetAttributes(
		attribute.Int64("assignment.id", int64(id)),
		attribute.Int64("assignment.caller_id", int64(caller.ID)),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.AssignmentResponse{}, err
	}

	assignment, err := s.loadOwned(ctx, caller, id)
	if err != nil {
		span.RecordError(err)
		return dto.AssignmentResponse{}, err
	}

	if !assignment.IsEditableByClient() {
		span.SetStatus(codes.Error, "invalid_transition")
		return dto.AssignmentResponse{}, ErrInvalidTransition
	}

	responses := map[string]interface{}(assignment.Responses)
	if payload.Responses != nil {
		responses = payload.Responses
	}

	fields, err := ParseResponseFields(assignment.AssignmentType)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}
	if err := ValidateResponses(fields, responses, true); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid_responses")
		return dto.AssignmentResponse{}, err
	}

	updates := map[string]interface{}{
		"responses": datatypes.JSONMap(responses),
	}
	if payload.OverallComments != nil {
		updates["overall_comments"] = *payload.OverallComments
	}
	if payload.IsPrivate != nil {
		updates["is_private"] = *payload.IsPrivate
	}

	ok, err := s.assignments.TransitionStatus(ctx, id, models.AssignmentStatusDraft, models.AssignmentStatusSubmitted, updates)
	if err != nil {
		span.RecordError(err)
		return dto.AssignmentResponse{}, err
	}
	if !ok {
		span.SetStatus(codes.Error, "invalid_transition")
		return dto.AssignmentResponse{}, ErrInvalidTransition
	}

	observability.AssignmentTransitions().
		WithLabelValues(models.AssignmentStatusDraft, models.AssignmentStatusSubmitted).Inc()

	submitted, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.notifyStaff(ctx, submitted)

	s.logger.Info().Uint("assignment_id", id).Msg("assignment submitted")

	return dto.NewAssignmentResponse(submitted, false), nil
}

// notifyStaff dispatches the submitted event to the deduplicated union of
// instructors and coaches attached to the assignment's module and program.
// Failures here never affect the submit operation.
func (s *assignmentService) notifyStaff(ctx context.Context, assignment models.Assignment) {
	module := assignment.ModuleProgress.Module

	moduleStaff, err := s.staff.ListModuleStaffIDs(ctx, module.ID)
	if err != nil {
		s.logger.Warn().Err(err).Uint("module_id", module.ID).Msg("failed to resolve module staff")
	}
	programStaff, err := s.staff.ListProgramStaffIDs(ctx, module.ProgramID)
	if err != nil {
		s.logger.Warn().Err(err).Uint("program_id", module.ProgramID).Msg("failed to resolve program staff")
	}

	recipients := dedupeIDs(moduleStaff, programStaff)

	s.gateway.Notify(ctx, NotificationEvent{
		Type:       models.NotificationTypeAssignmentSubmitted,
		Recipients: recipients,
		Message:    "A module assignment was submitted for review.",
		Metadata: map[string]interface{}{
			"assignment_id":      assignment.ID,
			"module_progress_id": assignment.ModuleProgressID,
			"client_id":          assignment.ModuleProgress.ClientID,
		},
	})
}

func (s *assignmentService) loadOwned(ctx context.Context, caller Caller, id uint) (models.Assignment, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Assignment{}, ErrAssignmentNotFound
		}
		return models.Assignment{}, err
	}

	if assignment.ModuleProgress.ClientID != caller.ID {
		return models.Assignment{}, ErrForbidden
	}

	return assignment, nil
}

// dedupeIDs unions id slices through an explicit set so the recipient rule
// stays testable without relying on database DISTINCT semantics.
func dedupeIDs(groups ...[]uint) []uint {
	seen := make(map[uint]struct{})
	for _, group := range groups {
		for _, id := range group {
			seen[id] = struct{}{}
		}
	}

	ids := make([]uint, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}
