package model

// Role defines the set of permissions granted to a user
type Role string

const (
	// RoleAdmin grants full access, including user management, logs and backups
	RoleAdmin Role = "admin"
	// RoleUser grants access to own and assisted customer records only
	RoleUser Role = "user"
)

// User is user model entity, username is the primary key
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
	FullName     string `json:"fullName"`
	Language     string `json:"language"`
}

// UserInfo is user representation safe for listing - no password material
type UserInfo struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
	FullName string `json:"fullName"`
	Language string `json:"language"`
}

// Actor is the authenticated identity performing an operation.
// It is passed explicitly into services and policy checks, never read
// from ambient session state.
type Actor struct {
	Username string
	Role     Role
}

// SystemActor attributes mutations happening outside of any user session,
// e.g. initial admin seeding
var SystemActor = Actor{Username: "system", Role: RoleAdmin}

// IsAdmin reports whether actor has administrator permissions
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
