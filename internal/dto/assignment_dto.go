package dto

import (
	"time"

	"github.com/noah-isme/praxis-api/internal/models"
)

// AssignmentCreateRequest starts a new draft assignment.
type AssignmentCreateRequest struct {
	ModuleProgressID uint                   `json:"module_progress_id" validate:"required,gt=0"`
	AssignmentTypeID uint                   `json:"assignment_type_id" validate:"required,gt=0"`
	Responses        map[string]interface{} `json:"responses"`
	IsPrivate        bool                   `json:"is_private"`
}

// AssignmentUpdateRequest mutates a draft assignment.
type AssignmentUpdateRequest struct {
	Responses       map[string]interface{} `json:"responses"`
	OverallComments *string                `json:"overall_comments" validate:"omitempty,max=10000"`
	IsPrivate       *bool                  `json:"is_private"`
}

// AssignmentSubmitRequest finalizes the client's work and locks it for
// grading. Responses, when present, replace the draft's responses.
type AssignmentSubmitRequest struct {
	Responses       map[string]interface{} `json:"responses"`
	OverallComments *string                `json:"overall_comments" validate:"omitempty,max=10000"`
	IsPrivate       *bool                  `json:"is_private"`
}

// AssignmentResponse is returned to API clients when viewing assignments.
type AssignmentResponse struct {
	ID                uint                   `json:"id"`
	ModuleProgressID  uint                   `json:"module_progress_id"`
	AssignmentTypeID  uint                   `json:"assignment_type_id"`
	AssessorID        uint                   `json:"assessor_id"`
	Responses         map[string]interface{} `json:"responses"`
	OverallScore      *float64               `json:"overall_score"`
	OverallComments   *string                `json:"overall_comments"`
	Status            string                 `json:"status"`
	CompletedAt       *time.Time             `json:"completed_at"`
	IsPrivate         bool                   `json:"is_private"`
	ScoringSnapshotID *uint                  `json:"scoring_snapshot_id"`
	ScoredBy          *uint                  `json:"scored_by"`
	ScoredAt          *time.Time             `json:"scored_at"`
	InstructorNotes   *string                `json:"instructor_notes,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
	AssignmentType    AssignmentTypeLite     `json:"assignment_type"`
}

// AssignmentTypeLite summarizes an assignment type in assignment responses.
type AssignmentTypeLite struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	AssessmentID *uint  `json:"assessment_id"`
}

// NewAssignmentResponse converts an Assignment model into a DTO. Grading
// feedback (score, comments by staff, notes) is withheld until the
// assignment is final unless the viewer is staff.
func NewAssignmentResponse(model models.Assignment, includeFeedback bool) AssignmentResponse {
	response := AssignmentResponse{
		ID:                model.ID,
		ModuleProgressID:  model.ModuleProgressID,
		AssignmentTypeID:  model.AssignmentTypeID,
		AssessorID:        model.AssessorID,
		Responses:         model.Responses,
		OverallComments:   model.OverallComments,
		Status:            model.Status,
		CompletedAt:       model.CompletedAt,
		IsPrivate:         model.IsPrivate,
		ScoringSnapshotID: model.ScoringSnapshotID,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}

	if includeFeedback {
		response.OverallScore = roundedScore(model.OverallScore)
		response.ScoredBy = model.ScoredBy
		response.ScoredAt = model.ScoredAt
		response.InstructorNotes = model.InstructorNotes
	}

	if model.AssignmentType.ID != 0 {
		response.AssignmentType = AssignmentTypeLite{
			ID:           model.AssignmentType.ID,
			Name:         model.AssignmentType.Name,
			AssessmentID: model.AssignmentType.AssessmentID,
		}
	}

	return response
}
