package auth

import (
	"time"

	"github.com/google/uuid"
)

// Role is a user's authorization level. Super admins operate the platform
// and are not bound to any tenant; admins run one agency; clients rent cars.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleClient     Role = "client"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleClient:
		return true
	}
	return false
}

// User is an account on the platform. TenantID is nil exactly when the role
// is super_admin.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Name         string     `json:"name,omitempty"`
	Role         Role       `json:"role"`
	TenantID     *uuid.UUID `json:"tenant_id,omitempty"`
	Active       bool       `json:"active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
