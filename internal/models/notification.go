package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification event types emitted by the assignment lifecycle.
const (
	NotificationTypeAssignmentSubmitted = "assignment_submitted"
	NotificationTypeAssignmentGraded    = "assignment_graded"
)

// Notification represents one queued notification targeted at a single user.
// Delivery downstream is at-least-once and best effort.
type Notification struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	UserID    uint              `gorm:"not null;index" json:"user_id"`
	Type      string            `gorm:"size:64;not null" json:"type"`
	Message   string            `gorm:"type:text" json:"message"`
	Metadata  datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	Read      bool              `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
