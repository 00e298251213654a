package tenant

import "errors"

var (
	// ErrTenantNotFound is returned when no tenant matches a hostname.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrTenantInactive is returned when a tenant exists but its status is
	// not active.
	ErrTenantInactive = errors.New("tenant is inactive")

	// ErrLookupFailed is returned when the persistent store errors during
	// resolution. Callers must fail closed: treat it as not found, never as
	// valid.
	ErrLookupFailed = errors.New("tenant lookup failed")

	// ErrNoTenantInContext is returned when a handler requires a resolved
	// tenant but the request context has none.
	ErrNoTenantInContext = errors.New("no tenant in context")
)
