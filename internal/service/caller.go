package service

// Caller roles recognized by the lifecycle operations.
const (
	RoleClient     = "client"
	RoleInstructor = "instructor"
	RoleCoach      = "coach"
	RoleAdmin      = "admin"
)

// Caller identifies the authenticated user performing an operation. Identity
// is always threaded explicitly; nothing in this package reads ambient
// session state.
type Caller struct {
	ID    uint
	Roles []string
}

// HasRole reports whether the caller carries the given role.
func (c Caller) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}

	return false
}

// IsStaff reports whether the caller may grade assignments.
func (c Caller) IsStaff() bool {
	return c.HasRole(RoleInstructor) || c.HasRole(RoleCoach) || c.HasRole(RoleAdmin)
}
