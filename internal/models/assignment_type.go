package models

import (
	"time"

	"gorm.io/datatypes"
)

// Response field kinds supported by assignment type schemas.
const (
	FieldKindText     = "text"
	FieldKindNumber   = "number"
	FieldKindRating   = "rating"
	FieldKindCheckbox = "checkbox"
	FieldKindSelect   = "select"
	FieldKindFile     = "file"
)

// ResponseField describes one field of an assignment type's response schema.
// Submitted responses are validated against these definitions before the
// assignment can leave draft.
type ResponseField struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Kind     string   `json:"kind"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
	Max      *float64 `json:"max,omitempty"`
}

// AssignmentType defines a kind of module assignment: its response field
// schema and, optionally, the capability rubric it is graded against.
type AssignmentType struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"size:255;not null" json:"name"`
	Description  string         `gorm:"type:text" json:"description"`
	AssessmentID *uint          `gorm:"index" json:"assessment_id"`
	Fields       datatypes.JSON `gorm:"type:json" json:"fields"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// HasRubric reports whether grading this type produces a capability snapshot.
func (t AssignmentType) HasRubric() bool {
	return t.AssessmentID != nil && *t.AssessmentID != 0
}
