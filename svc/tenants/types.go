package tenants

import (
	"time"

	"github.com/google/uuid"

	"github.com/rentora/rentora/pkg/plans"
	"github.com/rentora/rentora/pkg/tenant"
)

// Settings holds per-tenant operational preferences, created with defaults
// at provisioning and editable by tenant admins.
type Settings struct {
	TenantID     uuid.UUID `json:"tenant_id"`
	Currency     string    `json:"currency"`
	Timezone     string    `json:"timezone"`
	Locale       string    `json:"locale"`
	ContactEmail string    `json:"contact_email"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func defaultSettings(tenantID uuid.UUID, contactEmail string, now time.Time) *Settings {
	return &Settings{
		TenantID:     tenantID,
		Currency:     "EUR",
		Timezone:     "UTC",
		Locale:       "en",
		ContactEmail: contactEmail,
		UpdatedAt:    now,
	}
}

// ProvisionParams describes a new agency to onboard. An empty OwnerPassword
// leaves the owner with a generated placeholder until the invitation link is
// used.
type ProvisionParams struct {
	Name          string     `json:"name"`
	Slug          string     `json:"slug"`
	OwnerName     string     `json:"owner_name"`
	OwnerEmail    string     `json:"owner_email"`
	OwnerPassword string     `json:"owner_password,omitempty"`
	Plan          plans.Tier `json:"plan"`
	CustomDomains []string   `json:"custom_domains,omitempty"`
}

// UpdateParams carries a partial tenant update; nil fields are left as is.
type UpdateParams struct {
	Name          *string        `json:"name,omitempty"`
	Plan          *plans.Tier    `json:"plan,omitempty"`
	CustomDomains *[]string      `json:"custom_domains,omitempty"`
	Status        *tenant.Status `json:"status,omitempty"`
}

// Overview pairs a tenant with its current resource usage for admin listings.
type Overview struct {
	Tenant   tenant.Tenant `json:"tenant"`
	Users    int64         `json:"users"`
	Vehicles int64         `json:"vehicles"`
}

// Counts is the per-tenant resource usage snapshot.
type Counts struct {
	Users    int64
	Vehicles int64
}
