package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleStudent UserRole = "student"
)

// Valid reports whether the role is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStudent:
		return true
	}
	return false
}

// Branch identifies a physical academy location. BranchAll is a scoping
// wildcard used on admin accounts and in listing filters.
type Branch string

const (
	BranchAll          Branch = "all"
	BranchKothavara    Branch = "kothavara"
	BranchAmbikamarket Branch = "ambikamarket"
	BranchEdayazham    Branch = "edayazham"
)

// Valid reports whether the branch is a known location or the wildcard.
func (b Branch) Valid() bool {
	switch b {
	case BranchAll, BranchKothavara, BranchAmbikamarket, BranchEdayazham:
		return true
	}
	return false
}

// User represents an application account stored in the users table.
type User struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	Branch       Branch    `db:"branch" json:"branch"`
	Phone        string    `db:"phone" json:"phone,omitempty"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
