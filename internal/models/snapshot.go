package models

import "time"

// Capability snapshot status values.
const (
	// SnapshotStatusDraft indicates scoring is still in progress.
	SnapshotStatusDraft = "draft"
	// SnapshotStatusCompleted indicates the evaluation is final and immutable.
	SnapshotStatusCompleted = "completed"
)

// CapabilitySnapshot records one evaluation event against a rubric. In the
// assignment grading flow it is always evaluator-authored and linked 1:1 to
// a single assignment; re-grading updates this row, it never creates another.
type CapabilitySnapshot struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	AssessmentID     uint       `gorm:"not null;index" json:"assessment_id"`
	UserID           uint       `gorm:"not null;index" json:"user_id"`
	EnrollmentID     uint       `gorm:"not null;index" json:"enrollment_id"`
	EvaluatorID      uint       `gorm:"not null" json:"evaluator_id"`
	IsSelfAssessment bool       `gorm:"not null;default:false" json:"is_self_assessment"`
	Status           string     `gorm:"size:32;not null;default:draft" json:"status"`
	CompletedAt      *time.Time `json:"completed_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	Ratings       []SnapshotRating       `gorm:"foreignKey:SnapshotID" json:"ratings"`
	QuestionNotes []SnapshotQuestionNote `gorm:"foreignKey:SnapshotID" json:"question_notes"`
	DomainNotes   []SnapshotDomainNote   `gorm:"foreignKey:SnapshotID" json:"domain_notes"`
}

// IsCompleted reports whether the snapshot is final.
func (s CapabilitySnapshot) IsCompleted() bool {
	return s.Status == SnapshotStatusCompleted
}

// SnapshotRating stores one integer rating for one rubric question. The
// composite unique index makes concurrent same-key writes resolve as a
// last-writer-wins update rather than duplicate rows.
type SnapshotRating struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SnapshotID uint      `gorm:"not null;uniqueIndex:idx_snapshot_question_rating,priority:1" json:"snapshot_id"`
	QuestionID uint      `gorm:"not null;uniqueIndex:idx_snapshot_question_rating,priority:2" json:"question_id"`
	Rating     int       `gorm:"not null" json:"rating"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SnapshotQuestionNote stores free text attached to one rubric question.
// Blank notes are never persisted.
type SnapshotQuestionNote struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SnapshotID uint      `gorm:"not null;uniqueIndex:idx_snapshot_question_note,priority:1" json:"snapshot_id"`
	QuestionID uint      `gorm:"not null;uniqueIndex:idx_snapshot_question_note,priority:2" json:"question_id"`
	Note       string    `gorm:"type:text;not null" json:"note"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SnapshotDomainNote stores free text attached to one rubric domain.
type SnapshotDomainNote struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SnapshotID uint      `gorm:"not null;uniqueIndex:idx_snapshot_domain_note,priority:1" json:"snapshot_id"`
	DomainID   uint      `gorm:"not null;uniqueIndex:idx_snapshot_domain_note,priority:2" json:"domain_id"`
	Note       string    `gorm:"type:text;not null" json:"note"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
