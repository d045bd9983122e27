package models

import "time"

// Staff roles that can be attached to a module or program.
const (
	StaffRoleInstructor = "instructor"
	StaffRoleCoach      = "coach"
)

// Program is a top-level offering grouping modules.
type Program struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Module is one unit of a program.
type Module struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProgramID uint      `gorm:"not null;index" json:"program_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ModuleProgress tracks one enrolled client working through one module.
// Assignments hang off this record.
type ModuleProgress struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	EnrollmentID uint      `gorm:"not null;index" json:"enrollment_id"`
	ModuleID     uint      `gorm:"not null;index" json:"module_id"`
	ClientID     uint      `gorm:"not null;index" json:"client_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Module Module `gorm:"constraint:OnUpdate:CASCADE" json:"module"`
}

// ModuleStaff attaches an instructor or coach to a module.
type ModuleStaff struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ModuleID  uint      `gorm:"not null;uniqueIndex:idx_module_staff,priority:1" json:"module_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_module_staff,priority:2" json:"user_id"`
	Role      string    `gorm:"size:32;not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ProgramStaff attaches an instructor or coach to a program.
type ProgramStaff struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProgramID uint      `gorm:"not null;uniqueIndex:idx_program_staff,priority:1" json:"program_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_program_staff,priority:2" json:"user_id"`
	Role      string    `gorm:"size:32;not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
