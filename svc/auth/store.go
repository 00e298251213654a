package auth

import (
	"context"

	"github.com/google/uuid"
)

// UserStore persists user accounts. Every lookup that identifies a user by
// email is scoped: emails are unique per tenant, not globally, so an
// unscoped email lookup would be ambiguous.
type UserStore interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetTenantUser finds a user by email within one tenant, excluding
	// super admins.
	GetTenantUser(ctx context.Context, tenantID uuid.UUID, email string) (*User, error)

	// GetSuperAdmin finds a platform super admin by email.
	GetSuperAdmin(ctx context.Context, email string) (*User, error)

	// GetLegacyUser finds a user by email and role on the main domain,
	// for accounts predating tenant scoping.
	GetLegacyUser(ctx context.Context, email string, roles []Role) (*User, error)

	// EmailTaken reports whether the email is already used within the
	// tenant. A nil tenantID checks the super admin namespace.
	EmailTaken(ctx context.Context, tenantID *uuid.UUID, email string) (bool, error)
}
