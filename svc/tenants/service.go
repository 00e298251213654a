package tenants

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rentora/rentora/pkg/email"
	"github.com/rentora/rentora/pkg/plans"
	"github.com/rentora/rentora/pkg/tenant"
)

// OwnerProvisioner creates the first admin account of a freshly provisioned
// tenant. Implemented by the auth service, which also rejects owner emails
// already registered as platform super admins.
type OwnerProvisioner interface {
	CreateOwner(ctx context.Context, tenantID uuid.UUID, name, emailAddr, password string) (uuid.UUID, error)
}

// Service implements the tenant lifecycle: onboarding, updates, soft
// deletion, and hostname validation for the edge.
type Service struct {
	store      Store
	provider   *Provider
	cache      tenant.ValidationCache
	cacheTTL   time.Duration
	catalog    *plans.Catalog
	owners     OwnerProvisioner
	mailer     email.Sender
	baseDomain string
	log        *slog.Logger
}

// Option configures optional service dependencies.
type Option func(*Service)

// WithCache sets the validation cache shared with the request gate.
func WithCache(cache tenant.ValidationCache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = cache
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithMailer enables owner invitation emails.
func WithMailer(mailer email.Sender) Option {
	return func(s *Service) { s.mailer = mailer }
}

// WithLogger sets the service logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// NewService wires the tenant service. The validation cache defaults to a
// no-op cache; pass WithCache to share the gate's cache so writes here
// invalidate the edge.
func NewService(store Store, catalog *plans.Catalog, owners OwnerProvisioner, baseDomain string, opts ...Option) *Service {
	s := &Service{
		store:      store,
		provider:   NewProvider(store),
		cache:      tenant.NoOpCache{},
		cacheTTL:   tenant.DefaultValidationTTL,
		catalog:    catalog,
		owners:     owners,
		baseDomain: tenant.Normalize(baseDomain),
		log:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Provider exposes the store-backed resolver for the request gate.
func (s *Service) Provider() tenant.Provider { return s.provider }

// Provision onboards a new agency: tenant record, default settings, owner
// account, and an invitation email. The invitation is best effort; a
// delivery failure does not roll back provisioning.
func (s *Service) Provision(ctx context.Context, params ProvisionParams) (*tenant.Tenant, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidSlug)
	}
	if !tenant.ValidSlug(params.Slug) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSlug, params.Slug)
	}
	if params.OwnerEmail == "" {
		return nil, ErrInvalidOwner
	}

	plan, err := s.catalog.Get(params.Plan)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlan, params.Plan)
	}

	if _, err := s.store.GetBySlug(ctx, params.Slug); err == nil {
		return nil, fmt.Errorf("%w: %q", ErrSlugTaken, params.Slug)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	primaryDomain := tenant.PrimaryDomainFor(params.Slug, s.baseDomain)
	customDomains := make([]string, 0, len(params.CustomDomains))
	for _, d := range params.CustomDomains {
		customDomains = append(customDomains, tenant.Normalize(d))
	}
	for _, domain := range append([]string{primaryDomain}, customDomains...) {
		taken, err := s.store.DomainTaken(ctx, domain, uuid.Nil)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: %q", ErrDomainTaken, domain)
		}
	}

	tenantID := uuid.New()
	ownerID, err := s.owners.CreateOwner(ctx, tenantID, params.OwnerName, params.OwnerEmail, params.OwnerPassword)
	if err != nil {
		return nil, errors.Join(ErrInvalidOwner, err)
	}

	now := time.Now().UTC()
	t := &tenant.Tenant{
		ID:            tenantID,
		Name:          params.Name,
		Slug:          params.Slug,
		PrimaryDomain: primaryDomain,
		CustomDomains: customDomains,
		OwnerID:       ownerID,
		Plan:          string(plan.ID),
		Limits:        plan.Limits,
		Status:        tenant.StatusActive,
		PeriodStart:   now,
		PeriodEnd:     now.AddDate(0, 1, 0),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.Create(ctx, t); err != nil {
		return nil, err
	}
	if err := s.store.SaveSettings(ctx, defaultSettings(tenantID, params.OwnerEmail, now)); err != nil {
		return nil, err
	}

	s.sendInvite(ctx, t, params.OwnerEmail)

	s.log.InfoContext(ctx, "tenant provisioned",
		slog.String("tenant_id", tenantID.String()),
		slog.String("slug", t.Slug),
		slog.String("plan", t.Plan),
	)
	return t, nil
}

func (s *Service) sendInvite(ctx context.Context, t *tenant.Tenant, to string) {
	if s.mailer == nil {
		return
	}

	msg := email.Message{
		To:      to,
		Subject: fmt.Sprintf("Your %s account is ready", t.Name),
		BodyHTML: fmt.Sprintf(
			"<p>Your rental platform for %s is live at <a href=%q>https://%s</a>.</p><p>Sign in with this email address to finish setting up your account.</p>",
			t.Name, "https://"+t.PrimaryDomain, t.PrimaryDomain,
		),
		Tag: "tenant-invite",
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.log.WarnContext(ctx, "failed to send owner invitation",
			slog.String("tenant_id", t.ID.String()),
			slog.Any("error", err),
		)
	}
}

// Get returns one tenant by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	return s.store.GetByID(ctx, id)
}

// GetOverview returns one tenant with its current usage counts.
func (s *Service) GetOverview(ctx context.Context, id uuid.UUID) (*Overview, error) {
	t, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	counts, err := s.store.Counts(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Overview{Tenant: *t, Users: counts.Users, Vehicles: counts.Vehicles}, nil
}

// Limits returns the plan ceilings currently applied to a tenant.
func (s *Service) Limits(ctx context.Context, id uuid.UUID) (tenant.Limits, error) {
	t, err := s.store.GetByID(ctx, id)
	if err != nil {
		return tenant.Limits{}, err
	}
	return t.Limits, nil
}

// List returns all live tenants with their current usage counts.
func (s *Service) List(ctx context.Context) ([]Overview, error) {
	ts, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Overview, 0, len(ts))
	for _, t := range ts {
		counts, err := s.store.Counts(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, Overview{Tenant: t, Users: counts.Users, Vehicles: counts.Vehicles})
	}
	return out, nil
}

// Update applies a partial update and synchronously invalidates every
// hostname that could have been cached for the tenant, old and new.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*tenant.Tenant, error) {
	t, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldDomains := t.Domains()

	if params.Name != nil {
		if *params.Name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidSlug)
		}
		t.Name = *params.Name
	}
	if params.Plan != nil {
		plan, err := s.catalog.Get(*params.Plan)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPlan, *params.Plan)
		}
		t.Plan = string(plan.ID)
		t.Limits = plan.Limits
	}
	if params.CustomDomains != nil {
		domains := make([]string, 0, len(*params.CustomDomains))
		for _, d := range *params.CustomDomains {
			domain := tenant.Normalize(d)
			taken, err := s.store.DomainTaken(ctx, domain, t.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, fmt.Errorf("%w: %q", ErrDomainTaken, domain)
			}
			domains = append(domains, domain)
		}
		t.CustomDomains = domains
	}
	if params.Status != nil {
		t.Status = *params.Status
	}
	t.UpdatedAt = time.Now().UTC()

	if err := s.store.Update(ctx, t); err != nil {
		return nil, err
	}

	s.invalidate(ctx, append(oldDomains, t.Domains()...))
	return t, nil
}

// SoftDelete retires a tenant. Its domains stop resolving immediately.
func (s *Service) SoftDelete(ctx context.Context, id uuid.UUID) error {
	t, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.SoftDelete(ctx, id, time.Now().UTC()); err != nil {
		return err
	}

	s.invalidate(ctx, t.Domains())
	s.log.InfoContext(ctx, "tenant soft-deleted", slog.String("tenant_id", id.String()))
	return nil
}

func (s *Service) invalidate(ctx context.Context, domains []string) {
	seen := make(map[string]struct{}, len(domains))
	unique := domains[:0]
	for _, d := range domains {
		d = tenant.Normalize(d)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		unique = append(unique, d)
	}
	s.cache.Invalidate(ctx, unique...)
}

// Settings returns a tenant's settings.
func (s *Service) Settings(ctx context.Context, tenantID uuid.UUID) (*Settings, error) {
	return s.store.GetSettings(ctx, tenantID)
}

// UpdateSettings stores new settings for the tenant.
func (s *Service) UpdateSettings(ctx context.Context, settings *Settings) error {
	settings.UpdatedAt = time.Now().UTC()
	return s.store.SaveSettings(ctx, settings)
}

// Validate resolves a hostname to its validation outcome for the edge
// endpoint. Outcomes, including negative ones, are cached; transient store
// failures are reported as status "error" and never cached.
func (s *Service) Validate(ctx context.Context, hostname string) tenant.Validation {
	host := tenant.Normalize(hostname)
	if tenant.IsMainDomain(host, s.baseDomain) {
		return tenant.Validation{Valid: true, Status: tenant.ValidationActive}
	}

	if v, ok := s.cache.Get(ctx, host); ok {
		return v
	}

	slug := tenant.Slug(host, s.baseDomain)
	t, err := s.provider.ResolveActive(ctx, host, slug)
	switch {
	case err == nil:
		v := tenant.Validation{Valid: true, Status: tenant.ValidationActive, TenantID: t.ID, Slug: t.Slug}
		s.cache.Set(ctx, host, v, s.cacheTTL)
		return v

	case errors.Is(err, tenant.ErrTenantNotFound):
		v := tenant.Validation{Valid: false, Status: tenant.ValidationNotFound}
		if existing, resolveErr := s.provider.Resolve(ctx, host, slug); resolveErr == nil {
			v = tenant.Validation{Valid: false, Status: tenant.ValidationInactive, TenantID: existing.ID, Slug: existing.Slug}
		} else if !errors.Is(resolveErr, tenant.ErrTenantNotFound) {
			s.log.ErrorContext(ctx, "tenant validation lookup failed",
				slog.String("hostname", host), slog.Any("error", resolveErr))
			return tenant.Validation{Valid: false, Status: tenant.ValidationError}
		}
		s.cache.Set(ctx, host, v, s.cacheTTL)
		return v

	default:
		s.log.ErrorContext(ctx, "tenant validation lookup failed",
			slog.String("hostname", host), slog.Any("error", err))
		return tenant.Validation{Valid: false, Status: tenant.ValidationError}
	}
}
