package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/noah-isme/praxis-api/internal/dto"
	"github.com/noah-isme/praxis-api/internal/models"
	"github.com/noah-isme/praxis-api/internal/observability"
	"github.com/noah-isme/praxis-api/internal/repository"
)

// GradingService covers the staff side of the assignment lifecycle: scoring
// against the capability rubric and finalizing reviews.
type GradingService interface {
	GetScoringSheet(ctx context.Context, caller Caller, assignmentID uint) (dto.ScoringSheetResponse, error)
	SaveDraft(ctx context.Context, caller Caller, assignmentID uint, payload dto.ScoringSaveRequest) (dto.ScoringSheetResponse, error)
	Complete(ctx context.Context, caller Caller, assignmentID uint, payload dto.ScoringSaveRequest) (dto.ScoringSheetResponse, error)
	MarkReviewedWithoutRubric(ctx context.Context, caller Caller, assignmentID uint) (dto.AssignmentResponse, error)
	GetCapabilityReport(ctx context.Context, caller Caller, assignmentID uint) (dto.CapabilityReportResponse, error)
}

type gradingService struct {
	assignments repository.AssignmentRepository
	snapshots   repository.SnapshotRepository
	rubrics     RubricProvider
	gateway     NotificationGateway
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
	now         func() time.Time
}

// NewGradingService constructs the grading service.
func NewGradingService(
	assignments repository.AssignmentRepository,
	snapshots repository.SnapshotRepository,
	rubrics RubricProvider,
	gateway NotificationGateway,
	validate *validator.Validate,
	logger zerolog.Logger,
) GradingService {
	return &gradingService{
		assignments: assignments,
		snapshots:   snapshots,
		rubrics:     rubrics,
		gateway:     gateway,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "grading_service").Logger(),
		now:         time.Now,
	}
}

// scoringInput is a payload validated against a rubric: ratings checked for
// range and membership, notes trimmed with blanks dropped.
type scoringInput struct {
	ratings       map[uint]int
	questionNotes map[uint]string
	domainNotes   map[uint]string
}

func (s *gradingService) GetScoringSheet(ctx context.Context, caller Caller, assignmentID uint) (dto.ScoringSheetResponse, error) {
	assignment, err := s.loadForStaff(ctx, caller, assignmentID)
	if err != nil {
		return dto.ScoringSheetResponse{}, err
	}

	if !assignment.AssignmentType.HasRubric() {
		return dto.ScoringSheetResponse{}, ErrMissingRubric
	}

	assessment, err := s.rubrics.GetRubric(ctx, *assignment.AssignmentType.AssessmentID)
	if err != nil {
		return dto.ScoringSheetResponse{}, err
	}

	var snapshot *models.CapabilitySnapshot
	if assignment.ScoringSnapshotID != nil {
		loaded, err := s.snapshots.GetByID(ctx, *assignment.ScoringSnapshotID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.ScoringSheetResponse{}, ErrSnapshotNotFound
			}
			return dto.ScoringSheetResponse{}, err
		}
		snapshot = &loaded
	}

	return buildScoringSheet(assignment, assessment, snapshot), nil
}

func (s *gradingService) SaveDraft(ctx context.Context, caller Caller, assignmentID uint, payload dto.ScoringSaveRequest) (dto.ScoringSheetResponse, error) {
	timer := time.Now()
	defer func() {
		observability.ScoringDuration().WithLabelValues("save_draft").Observe(time.Since(timer).Seconds())
	}()

	if err := s.validator.Struct(payload); err != nil {
		return dto.ScoringSheetResponse{}, err
	}

	assignment, err := s.loadForStaff(ctx, caller, assignmentID)
	if err != nil {
		return dto.ScoringSheetResponse{}, err
	}
	if err := guardGradable(assignment); err != nil {
		return dto.ScoringSheetResponse{}, err
	}
	if !assignment.AssignmentType.HasRubric() {
		return dto.ScoringSheetResponse{}, ErrMissingRubric
	}

	assessment, err := s.rubrics.GetRubric(ctx, *assignment.AssignmentType.AssessmentID)
	if err != nil {
		return dto.ScoringSheetResponse{}, err
	}

	input, err := s.validateScoringPayload(assessment, payload)
	if err != nil {
		return dto.ScoringSheetResponse{}, err
	}

	snapshot, err := s.ensureSnapshot(ctx, &assignment, assessment, caller)
	if err != nil {
		return dto.ScoringSheetResponse{}, err
	}

	if err := s.applyScores(ctx, snapshot.ID, input); err != nil {
		return dto.ScoringSheetResponse{}, err
	}

	if payload.InstructorNotes != nil {
		notes := strings.TrimSpace(s.sanitizer.Sanitize(*payload.InstructorNotes))
		assignment.InstructorNotes = &notes
		if err := s.assignments.Update(ctx, &assignment); err != nil {
			return dto.ScoringSheetResponse{}, err
		}
	}

	reloaded, err := s.snapshots.GetByID(ctx, snapshot.ID)
	if err != nil {
		return dto.ScoringSheetResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", assignmentID).Uint("snapshot_id", snapshot.ID).
		Msg("scoring draft saved")

	return buildScoringSheet(assignment, assessment, &reloaded), nil
}

func (s *gradingService) Complete(ctx context.Context, caller Caller, assignmentID uint, payload dto.ScoringSaveRequest) (dto.ScoringSheetResponse, error) {
	tracer := otel.Tracer("github.com/noah-isme/praxis-api/internal/service/grading")
	ctx, span := tracer.Start(ctx, "grading.complete")
	span.SetAttributes(
		attribute.Int64("grading.assignment_id", int64(assignmentID)),
		attribute.Int64("grading.evaluator_id", int64(caller.ID)),
	)
	defer span.End()

	timer := time.Now()
	defer func() {
		observability.ScoringDuration().WithLabelValues("complete").Observe(time.Since(timer).Seconds())
	}()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.ScoringSheetResponse{}, err
	}

	assignment, err := s.loadForStaff(ctx, caller, assignmentID)
	if err != nil {
		span.RecordError(err)
		return dto.ScoringSheetResponse{}, err
	}
	if err := guardGradable(assignment); err != nil {
		span.SetStatus(codes.Error, "guard_rejected")
		return dto.ScoringSheetResponse{}, err
	}
	if !assignment.AssignmentType.HasRubric() {
		span.SetStatus(codes.Error, "missing_rubric")
		return dto.ScoringSheetResponse{}, ErrMissingRubric
	}

	assessment, err := s.rubrics.GetRubric(ctx, *assignment.AssignmentType.AssessmentID)
	if err != nil {
		span.RecordError(err)
		return dto.ScoringSheetResponse{}, err
	}

	input, err := s.validateScoringPayload(assessment, payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid_scores")
		return dto.ScoringSheetResponse{}, err
	}

	snapshot, err := s.ensureSnapshot(ctx, &assignment, assessment, caller)
	if err != nil {
		span.RecordError(err)
		return dto.ScoringSheetResponse{}, err
	}

	if err := s.applyScores(ctx, snapshot.ID, input); err != nil {
		span.RecordError(err)
		return dto.ScoringSheetResponse{}, err
	}

	// Final ratings are whatever the snapshot already held overlaid with
	// this payload; the overall score persisted on the assignment reflects
	// that merged view.
	merged, err := s.snapshots.GetByID(ctx, snapshot.ID)
	if err != nil {
		return dto.ScoringSheetResponse{}, err
	}
	ratings := ratingsByQuestion(merged)
	overall := OverallAverage(assessment.Domains, ratings)

	scoredAt := s.now()
	updates := map[string]interface{}{
		"scoring_snapshot_id": snapshot.ID,
		"scored_by":           caller.ID,
		"scored_at":           scoredAt,
	}
	if overall != nil {
		updates["overall_score"] = *overall
	}
	if payload.InstructorNotes != nil {
		updates["instructor_notes"] = strings.TrimSpace(s.sanitizer.Sanitize(*payload.InstructorNotes))
	}

	// The conditional transition is the authoritative guard: whichever
	// request flips submitted to reviewed owns the grading.
	ok, err := s.assignments.TransitionStatus(ctx, assignmentID, models.AssignmentStatusSubmitted, models.AssignmentStatusReviewed, updates)
	if err != nil {
		span.RecordError(err)
		return dto.ScoringSheetResponse{}, err
	}
	if !ok {
		guardErr := s.classifyGuardFailure(ctx, assignmentID)
		span.SetStatus(codes.Error, "guard_rejected")
		return dto.ScoringSheetResponse{}, guardErr
	}

	observability.AssignmentTransitions().
		WithLabelValues(models.AssignmentStatusSubmitted, models.AssignmentStatusReviewed).Inc()

	completedAt := scoredAt
	merged.Status = models.SnapshotStatusCompleted
	merged.CompletedAt = &completedAt
	merged.EvaluatorID = caller.ID
	if err := s.snapshots.Update(ctx, &merged); err != nil {
		span.RecordError(err)
		return dto.ScoringSheetResponse{}, err
	}

	reviewed, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return dto.ScoringSheetResponse{}, err
	}

	s.notifyClient(ctx, reviewed, &merged)

	span.SetAttributes(attribute.String("grading.status", reviewed.Status))
	s.logger.Info().Uint("assignment_id", assignmentID).Uint("snapshot_id", merged.ID).
		Msg("scoring completed")

	return buildScoringSheet(reviewed, assessment, &merged), nil
}

func (s *gradingService) MarkReviewedWithoutRubric(ctx context.Context, caller Caller, assignmentID uint) (dto.AssignmentResponse, error) {
	assignment, err := s.loadForStaff(ctx, caller, assignmentID)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}
	if err := guardGradable(assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}
	if assignment.AssignmentType.HasRubric() {
		return dto.AssignmentResponse{}, ErrScoringRequired
	}

	scoredAt := s.now()
	updates := map[string]interface{}{
		"scored_by": caller.ID,
		"scored_at": scoredAt,
	}

	ok, err := s.assignments.TransitionStatus(ctx, assignmentID, models.AssignmentStatusSubmitted, models.AssignmentStatusReviewed, updates)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}
	if !ok {
		return dto.AssignmentResponse{}, s.classifyGuardFailure(ctx, assignmentID)
	}

	observability.AssignmentTransitions().
		WithLabelValues(models.AssignmentStatusSubmitted, models.AssignmentStatusReviewed).Inc()

	reviewed, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.notifyClient(ctx, reviewed, nil)

	s.logger.Info().Uint("assignment_id", assignmentID).Msg("assignment marked reviewed without rubric")

	return dto.NewAssignmentResponse(reviewed, true), nil
}

func (s *gradingService) GetCapabilityReport(ctx context.Context, caller Caller, assignmentID uint) (dto.CapabilityReportResponse, error) {
	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CapabilityReportResponse{}, ErrAssignmentNotFound
		}
		return dto.CapabilityReportResponse{}, err
	}

	if assignment.ModuleProgress.ClientID != caller.ID && !caller.IsStaff() {
		return dto.CapabilityReportResponse{}, ErrForbidden
	}
	if !assignment.IsFinal() {
		return dto.CapabilityReportResponse{}, ErrNotReviewed
	}

	report := dto.CapabilityReportResponse{
		AssignmentID:    assignment.ID,
		Status:          assignment.Status,
		OverallComments: assignment.OverallComments,
		InstructorNotes: assignment.InstructorNotes,
		ScoredAt:        assignment.ScoredAt,
	}
	if assignment.OverallScore != nil {
		rounded := RoundScore(*assignment.OverallScore)
		report.OverallScore = &rounded
	}

	if assignment.ScoringSnapshotID == nil {
		// Rubric-less review: outcome is the assignment record itself.
		return report, nil
	}

	snapshot, err := s.snapshots.GetByID(ctx, *assignment.ScoringSnapshotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CapabilityReportResponse{}, ErrSnapshotNotFound
		}
		return dto.CapabilityReportResponse{}, err
	}

	assessment, err := s.rubrics.GetRubric(ctx, snapshot.AssessmentID)
	if err != nil {
		return dto.CapabilityReportResponse{}, err
	}

	ratings := ratingsByQuestion(snapshot)
	report.DomainScores = domainScoreViews(assessment, ratings)
	if outcome := EvaluatePassFail(assessment, ratings); outcome != nil {
		report.PassFail = &dto.PassFailView{Passed: outcome.Passed, Label: outcome.Label}
	}

	return report, nil
}

func (s *gradingService) loadForStaff(ctx context.Context, caller Caller, assignmentID uint) (models.Assignment, error) {
	if !caller.IsStaff() {
		return models.Assignment{}, ErrForbidden
	}

	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Assignment{}, ErrAssignmentNotFound
		}
		return models.Assignment{}, err
	}

	return assignment, nil
}

// guardGradable enforces the grading guard: only submitted work may be
// scored. The two rejection reasons stay distinct because they call for
// different corrective actions.
func guardGradable(assignment models.Assignment) error {
	if assignment.IsGradable() {
		return nil
	}
	if assignment.IsFinal() {
		return ErrAlreadyReviewed
	}

	return ErrNotSubmitted
}

// classifyGuardFailure re-reads the assignment after a conditional update
// matched zero rows and maps the observed status to the right guard error.
func (s *gradingService) classifyGuardFailure(ctx context.Context, assignmentID uint) error {
	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}
	if assignment.IsFinal() {
		return ErrAlreadyReviewed
	}

	return ErrNotSubmitted
}

func (s *gradingService) validateScoringPayload(assessment models.Assessment, payload dto.ScoringSaveRequest) (scoringInput, error) {
	questionIDs := make(map[uint]struct{})
	domainIDs := make(map[uint]struct{})
	for _, domain := range assessment.Domains {
		domainIDs[domain.ID] = struct{}{}
		for _, question := range domain.Questions {
			questionIDs[question.ID] = struct{}{}
		}
	}

	input := scoringInput{
		ratings:       make(map[uint]int, len(payload.Ratings)),
		questionNotes: make(map[uint]string, len(payload.QuestionNotes)),
		domainNotes:   make(map[uint]string, len(payload.DomainNotes)),
	}

	for questionID, rating := range payload.Ratings {
		if _, ok := questionIDs[questionID]; !ok {
			return scoringInput{}, fmt.Errorf("%w: question %d", ErrUnknownQuestion, questionID)
		}
		if rating < 1 || rating > assessment.RatingScale {
			return scoringInput{}, fmt.Errorf("%w: question %d rating %d not in [1, %d]", ErrInvalidRating, questionID, rating, assessment.RatingScale)
		}
		input.ratings[questionID] = rating
	}

	for questionID, note := range payload.QuestionNotes {
		if _, ok := questionIDs[questionID]; !ok {
			return scoringInput{}, fmt.Errorf("%w: question %d", ErrUnknownQuestion, questionID)
		}
		cleaned := strings.TrimSpace(s.sanitizer.Sanitize(note))
		if cleaned == "" {
			// Blank notes are "no note", never stored.
			continue
		}
		input.questionNotes[questionID] = cleaned
	}

	for domainID, note := range payload.DomainNotes {
		if _, ok := domainIDs[domainID]; !ok {
			return scoringInput{}, fmt.Errorf("%w: domain %d", ErrUnknownDomain, domainID)
		}
		cleaned := strings.TrimSpace(s.sanitizer.Sanitize(note))
		if cleaned == "" {
			continue
		}
		input.domainNotes[domainID] = cleaned
	}

	return input, nil
}

// ensureSnapshot finds the assignment's snapshot or creates a draft one and
// links it. The link is written exactly once; re-grading always lands on the
// same snapshot.
func (s *gradingService) ensureSnapshot(ctx context.Context, assignment *models.Assignment, assessment models.Assessment, caller Caller) (models.CapabilitySnapshot, error) {
	if assignment.ScoringSnapshotID != nil {
		snapshot, err := s.snapshots.GetByID(ctx, *assignment.ScoringSnapshotID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.CapabilitySnapshot{}, ErrSnapshotNotFound
			}
			return models.CapabilitySnapshot{}, err
		}

		return snapshot, nil
	}

	snapshot := models.CapabilitySnapshot{
		AssessmentID:     assessment.ID,
		UserID:           assignment.ModuleProgress.ClientID,
		EnrollmentID:     assignment.ModuleProgress.EnrollmentID,
		EvaluatorID:      caller.ID,
		IsSelfAssessment: false,
		Status:           models.SnapshotStatusDraft,
	}
	if err := s.snapshots.Create(ctx, &snapshot); err != nil {
		return models.CapabilitySnapshot{}, err
	}

	assignment.ScoringSnapshotID = &snapshot.ID
	if err := s.assignments.Update(ctx, assignment); err != nil {
		return models.CapabilitySnapshot{}, err
	}

	return snapshot, nil
}

func (s *gradingService) applyScores(ctx context.Context, snapshotID uint, input scoringInput) error {
	if err := s.snapshots.UpsertRatings(ctx, snapshotID, input.ratings); err != nil {
		return err
	}
	if err := s.snapshots.UpsertQuestionNotes(ctx, snapshotID, input.questionNotes); err != nil {
		return err
	}

	return s.snapshots.UpsertDomainNotes(ctx, snapshotID, input.domainNotes)
}

// notifyClient dispatches the graded event to the assignment's owner.
// Dispatch problems are logged inside the gateway and never bubble up.
func (s *gradingService) notifyClient(ctx context.Context, assignment models.Assignment, snapshot *models.CapabilitySnapshot) {
	metadata := map[string]interface{}{
		"assignment_id":      assignment.ID,
		"module_progress_id": assignment.ModuleProgressID,
	}
	if snapshot != nil {
		metadata["snapshot_id"] = snapshot.ID
	}

	s.gateway.Notify(ctx, NotificationEvent{
		Type:       models.NotificationTypeAssignmentGraded,
		Recipients: []uint{assignment.ModuleProgress.ClientID},
		Message:    "Your module assignment has been reviewed.",
		Metadata:   metadata,
	})
}

func ratingsByQuestion(snapshot models.CapabilitySnapshot) map[uint]int {
	ratings := make(map[uint]int, len(snapshot.Ratings))
	for _, rating := range snapshot.Ratings {
		ratings[rating.QuestionID] = rating.Rating
	}

	return ratings
}

func domainScoreViews(assessment models.Assessment, ratings map[uint]int) []dto.DomainScoreView {
	scores := DomainScores(assessment, ratings)
	views := make([]dto.DomainScoreView, 0, len(scores))
	for _, score := range scores {
		view := dto.DomainScoreView{DomainID: score.DomainID, Name: score.Name}
		if score.Average != nil {
			rounded := RoundScore(*score.Average)
			view.Average = &rounded
		}
		if score.Percentage != nil {
			rounded := RoundScore(*score.Percentage)
			view.Percentage = &rounded
		}
		views = append(views, view)
	}

	return views
}

func buildScoringSheet(assignment models.Assignment, assessment models.Assessment, snapshot *models.CapabilitySnapshot) dto.ScoringSheetResponse {
	sheet := dto.ScoringSheetResponse{
		Assignment: dto.NewAssignmentResponse(assignment, true),
		Rubric:     dto.NewRubricResponse(assessment),
	}

	ratings := map[uint]int{}
	if snapshot != nil {
		response := dto.NewSnapshotResponse(*snapshot)
		sheet.Snapshot = &response
		ratings = ratingsByQuestion(*snapshot)
	}

	sheet.DomainScores = domainScoreViews(assessment, ratings)
	if overall := OverallAverage(assessment.Domains, ratings); overall != nil {
		rounded := RoundScore(*overall)
		sheet.OverallAverage = &rounded
	}
	if outcome := EvaluatePassFail(assessment, ratings); outcome != nil {
		sheet.PassFail = &dto.PassFailView{Passed: outcome.Passed, Label: outcome.Label}
	}

	return sheet
}
