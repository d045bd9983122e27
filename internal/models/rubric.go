package models

import "time"

// Pass/fail evaluation modes.
const (
	// PassFailModeOverall compares the overall average against the threshold.
	PassFailModeOverall = "overall"
	// PassFailModePerDomain requires every scored domain to clear the threshold.
	PassFailModePerDomain = "per_domain"
)

// Assessment is a capability rubric: ordered domains of ordered questions
// scored on a fixed integer scale. Rubric data is read-only to this service;
// authoring happens elsewhere.
type Assessment struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Name              string    `gorm:"size:255;not null" json:"name"`
	RatingScale       int       `gorm:"not null;default:5" json:"rating_scale"`
	PassFailEnabled   bool      `gorm:"not null;default:false" json:"pass_fail_enabled"`
	PassFailThreshold *float64  `json:"pass_fail_threshold"`
	PassFailMode      string    `gorm:"size:32;not null;default:overall" json:"pass_fail_mode"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	Domains []AssessmentDomain `json:"domains"`
}

// AssessmentDomain groups related questions within a rubric.
type AssessmentDomain struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	AssessmentID uint   `gorm:"not null;index" json:"assessment_id"`
	Name         string `gorm:"size:255;not null" json:"name"`
	OrderIndex   int    `gorm:"not null;default:0" json:"order_index"`

	Questions []AssessmentQuestion `json:"questions"`
}

// AssessmentQuestion is a single rated item within a domain.
type AssessmentQuestion struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	DomainID   uint   `gorm:"not null;index" json:"domain_id"`
	Text       string `gorm:"type:text;not null" json:"text"`
	OrderIndex int    `gorm:"not null;default:0" json:"order_index"`
}
