package tenants

import "errors"

var (
	ErrNotFound         = errors.New("tenants: tenant not found")
	ErrInvalidSlug      = errors.New("tenants: invalid slug")
	ErrSlugTaken        = errors.New("tenants: slug already taken")
	ErrDomainTaken      = errors.New("tenants: domain already taken")
	ErrUnknownPlan      = errors.New("tenants: unknown plan")
	ErrInvalidOwner     = errors.New("tenants: invalid owner email")
	ErrSettingsNotFound = errors.New("tenants: settings not found")
	ErrStoreFailure     = errors.New("tenants: store failure")
)
