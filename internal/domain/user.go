package domain

import "time"

// Role distinguishes residents from local administrators.
type Role string

const (
	RoleVillager Role = "villager"
	RoleAdmin    Role = "admin"
)

// Valid reports whether the role is a known value.
func (r Role) Valid() bool {
	return r == RoleVillager || r == RoleAdmin
}

// User is an active, verified identity. Registrations that have not yet
// passed code verification never produce a User row; they live only as a
// pending code record until finalized.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Mobile       string
	Role         Role
	Address      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
