package tenants

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rentora/rentora/pkg/tenant"
)

// Store persists tenants and their settings. Soft-deleted tenants are
// invisible to every method except SoftDelete itself.
type Store interface {
	Create(ctx context.Context, t *tenant.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*tenant.Tenant, error)

	// FindByHost matches any-status tenants, soft-deleted ones included,
	// whose primary domain or one of whose custom domains equals hostname,
	// or whose slug equals slug when slug is non-empty. Live records win
	// over deleted ones.
	FindByHost(ctx context.Context, hostname, slug string) (*tenant.Tenant, error)

	List(ctx context.Context) ([]tenant.Tenant, error)
	Update(ctx context.Context, t *tenant.Tenant) error
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error

	// DomainTaken reports whether another tenant already claims the domain.
	DomainTaken(ctx context.Context, domain string, exclude uuid.UUID) (bool, error)

	Counts(ctx context.Context, tenantID uuid.UUID) (Counts, error)

	SaveSettings(ctx context.Context, s *Settings) error
	GetSettings(ctx context.Context, tenantID uuid.UUID) (*Settings, error)
}
