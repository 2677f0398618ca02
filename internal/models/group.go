package models

// Membership roles.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Group is a set of users who share expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name (e.g. "Roommates").
	Name string `json:"name"`

	// Description is optional free text.
	Description string `json:"description,omitempty"`

	// CreatedBy is the user ID of the group creator (its first admin).
	CreatedBy string `json:"created_by"`

	// IsActive is false for archived groups.
	IsActive bool `json:"is_active"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"created_at"`

	// Members holds the current memberships when loaded; may be nil on
	// listings that don't need them.
	Members []Membership `json:"members,omitempty"`
}

// Membership ties a user to a group with a role. Inactive memberships are
// kept for history; a removed member's past expenses still reconcile.
type Membership struct {
	GroupID  string `json:"group_id"`
	UserID   string `json:"user_id"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
	JoinedAt int64  `json:"joined_at"`
}

// IsAdmin reports whether the membership carries the admin role.
func (m Membership) IsAdmin() bool {
	return m.IsActive && m.Role == RoleAdmin
}
