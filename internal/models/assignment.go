package models

import (
	"time"

	"gorm.io/datatypes"
)

// Assignment status values. Status only ever moves forward:
// draft -> submitted -> reviewed. Nothing leaves reviewed.
const (
	// AssignmentStatusDraft indicates the client is still editing the work.
	AssignmentStatusDraft = "draft"
	// AssignmentStatusSubmitted indicates the work is locked and awaiting grading.
	AssignmentStatusSubmitted = "submitted"
	// AssignmentStatusReviewed indicates grading has been finalized.
	AssignmentStatusReviewed = "reviewed"
	// AssignmentStatusCompleted is a legacy terminal value treated as a
	// synonym of reviewed on every read side. No transition here produces it.
	AssignmentStatusCompleted = "completed"
)

// Assignment is one client's attempt at an assignment type within a module
// progress context.
type Assignment struct {
	ID                uint              `gorm:"primaryKey" json:"id"`
	ModuleProgressID  uint              `gorm:"not null;index:idx_assignment_progress_type,priority:1" json:"module_progress_id"`
	AssignmentTypeID  uint              `gorm:"not null;index:idx_assignment_progress_type,priority:2" json:"assignment_type_id"`
	AssessorID        uint              `gorm:"not null;index" json:"assessor_id"`
	Responses         datatypes.JSONMap `gorm:"type:json" json:"responses"`
	OverallScore      *float64          `json:"overall_score"`
	OverallComments   *string           `gorm:"type:text" json:"overall_comments"`
	Status            string            `gorm:"size:32;not null;default:draft" json:"status"`
	CompletedAt       *time.Time        `json:"completed_at"`
	IsPrivate         bool              `gorm:"not null;default:false" json:"is_private"`
	ScoringSnapshotID *uint             `gorm:"uniqueIndex" json:"scoring_snapshot_id"`
	ScoredBy          *uint             `json:"scored_by"`
	ScoredAt          *time.Time        `json:"scored_at"`
	InstructorNotes   *string           `gorm:"type:text" json:"instructor_notes"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`

	AssignmentType AssignmentType `gorm:"constraint:OnUpdate:CASCADE" json:"assignment_type"`
	ModuleProgress ModuleProgress `gorm:"constraint:OnUpdate:CASCADE" json:"module_progress"`
}

// IsFinal reports whether the assignment has reached a terminal status.
func (a Assignment) IsFinal() bool {
	return a.Status == AssignmentStatusReviewed || a.Status == AssignmentStatusCompleted
}

// IsEditableByClient reports whether the owning client may still change
// responses. The work becomes read-only to the client once submitted.
func (a Assignment) IsEditableByClient() bool {
	return a.Status == AssignmentStatusDraft
}

// IsGradable reports whether staff may record scores against the assignment.
func (a Assignment) IsGradable() bool {
	return a.Status == AssignmentStatusSubmitted
}
