package dto

import (
	"math"
	"time"

	"github.com/noah-isme/praxis-api/internal/models"
)

// ScoringSaveRequest carries ratings and notes for a grading save, either as
// a draft or as the final completion. Map keys are rubric question/domain ids.
type ScoringSaveRequest struct {
	Ratings         map[uint]int    `json:"ratings"`
	QuestionNotes   map[uint]string `json:"question_notes"`
	DomainNotes     map[uint]string `json:"domain_notes"`
	InstructorNotes *string         `json:"instructor_notes" validate:"omitempty,max=10000"`
}

// SnapshotResponse serializes a capability snapshot with its ratings and notes.
type SnapshotResponse struct {
	ID            uint            `json:"id"`
	AssessmentID  uint            `json:"assessment_id"`
	UserID        uint            `json:"user_id"`
	EnrollmentID  uint            `json:"enrollment_id"`
	EvaluatorID   uint            `json:"evaluator_id"`
	Status        string          `json:"status"`
	CompletedAt   *time.Time      `json:"completed_at"`
	Ratings       map[uint]int    `json:"ratings"`
	QuestionNotes map[uint]string `json:"question_notes"`
	DomainNotes   map[uint]string `json:"domain_notes"`
}

// DomainScoreView is a display-ready per-domain aggregate, rounded to one
// decimal.
type DomainScoreView struct {
	DomainID   uint     `json:"domain_id"`
	Name       string   `json:"name"`
	Average    *float64 `json:"average"`
	Percentage *float64 `json:"percentage"`
}

// PassFailView serializes a pass/fail outcome.
type PassFailView struct {
	Passed bool   `json:"passed"`
	Label  string `json:"label"`
}

// ScoringSheetResponse is the staff read model for grading: the assignment,
// its rubric, the snapshot recorded so far, and computed aggregates.
type ScoringSheetResponse struct {
	Assignment     AssignmentResponse `json:"assignment"`
	Rubric         RubricResponse     `json:"rubric"`
	Snapshot       *SnapshotResponse  `json:"snapshot"`
	DomainScores   []DomainScoreView  `json:"domain_scores"`
	OverallAverage *float64           `json:"overall_average"`
	PassFail       *PassFailView      `json:"pass_fail"`
}

// CapabilityReportResponse is the client-facing feedback view, available
// once the assignment is final.
type CapabilityReportResponse struct {
	AssignmentID    uint              `json:"assignment_id"`
	Status          string            `json:"status"`
	OverallScore    *float64          `json:"overall_score"`
	OverallComments *string           `json:"overall_comments"`
	InstructorNotes *string           `json:"instructor_notes"`
	DomainScores    []DomainScoreView `json:"domain_scores"`
	PassFail        *PassFailView     `json:"pass_fail"`
	ScoredAt        *time.Time        `json:"scored_at"`
}

// NewSnapshotResponse converts a CapabilitySnapshot model into a DTO.
func NewSnapshotResponse(model models.CapabilitySnapshot) SnapshotResponse {
	response := SnapshotResponse{
		ID:            model.ID,
		AssessmentID:  model.AssessmentID,
		UserID:        model.UserID,
		EnrollmentID:  model.EnrollmentID,
		EvaluatorID:   model.EvaluatorID,
		Status:        model.Status,
		CompletedAt:   model.CompletedAt,
		Ratings:       make(map[uint]int, len(model.Ratings)),
		QuestionNotes: make(map[uint]string, len(model.QuestionNotes)),
		DomainNotes:   make(map[uint]string, len(model.DomainNotes)),
	}

	for _, rating := range model.Ratings {
		response.Ratings[rating.QuestionID] = rating.Rating
	}
	for _, note := range model.QuestionNotes {
		response.QuestionNotes[note.QuestionID] = note.Note
	}
	for _, note := range model.DomainNotes {
		response.DomainNotes[note.DomainID] = note.Note
	}

	return response
}

func roundedScore(value *float64) *float64 {
	if value == nil {
		return nil
	}
	rounded := math.Round(*value*10) / 10

	return &rounded
}
