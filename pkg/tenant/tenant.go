package tenant

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle status of a tenant. Any status other than
// StatusActive causes tenant-domain requests to be rejected before they
// reach business logic.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

// Limits holds per-plan resource caps. Enforcement is informational: services
// surface an error when a cap is hit but no quota engine exists.
type Limits struct {
	Users           int64 `json:"users" yaml:"users" bson:"users"`
	Vehicles        int64 `json:"vehicles" yaml:"vehicles" bson:"vehicles"`
	MonthlyBookings int64 `json:"monthly_bookings" yaml:"monthly_bookings" bson:"monthly_bookings"`
	StorageGB       int64 `json:"storage_gb" yaml:"storage_gb" bson:"storage_gb"`
}

// Unlimited marks a resource with no cap.
const Unlimited int64 = -1

// Tenant represents one rental agency on the platform.
type Tenant struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Slug          string     `json:"slug"`
	PrimaryDomain string     `json:"primary_domain"`
	CustomDomains []string   `json:"custom_domains,omitempty"`
	OwnerID       uuid.UUID  `json:"owner_id"`
	Plan          string     `json:"plan"`
	Limits        Limits     `json:"limits"`
	Status        Status     `json:"status"`
	PeriodStart   time.Time  `json:"current_period_start,omitzero"`
	PeriodEnd     time.Time  `json:"current_period_end,omitzero"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
}

// IsActive reports whether tenant-domain requests may proceed.
func (t *Tenant) IsActive() bool {
	return t != nil && t.Status == StatusActive && t.DeletedAt == nil
}

// Domains returns every hostname that can resolve to this tenant: the
// generated primary domain plus all custom domains. Cache invalidation must
// cover the full set, since any of them could have been cached as valid.
func (t *Tenant) Domains() []string {
	domains := make([]string, 0, len(t.CustomDomains)+1)
	if t.PrimaryDomain != "" {
		domains = append(domains, t.PrimaryDomain)
	}
	domains = append(domains, t.CustomDomains...)
	return domains
}

// PrimaryDomainFor derives the generated subdomain for a slug. The mapping is
// deterministic: the primary domain is always "{slug}.{baseDomain}".
func PrimaryDomainFor(slug, baseDomain string) string {
	return slug + "." + Normalize(baseDomain)
}

// slugPattern matches URL-safe tenant slugs: lowercase alphanumeric plus
// hyphen, no leading or trailing hyphen.
var slugPattern = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]*[a-z0-9])?$`)

const (
	MinSlugLength = 3
	MaxSlugLength = 50
)

// ValidSlug reports whether s is an acceptable tenant slug.
func ValidSlug(s string) bool {
	if len(s) < MinSlugLength || len(s) > MaxSlugLength {
		return false
	}
	return slugPattern.MatchString(s)
}

// Provider resolves tenants from a persistent store by hostname.
//
// Both methods match a record whose primary domain equals hostname, whose
// custom-domain list contains hostname, or whose slug equals the derived
// slug (empty slug matches nothing on the slug branch). If several records
// could match, the first wins.
type Provider interface {
	// ResolveActive returns the matching tenant with status active.
	// Returns ErrTenantNotFound when no active tenant matches.
	ResolveActive(ctx context.Context, hostname, slug string) (*Tenant, error)

	// Resolve ignores status. Authentication uses it to distinguish a
	// missing tenant from an inactive one.
	Resolve(ctx context.Context, hostname, slug string) (*Tenant, error)
}
