package tenants

import (
	"context"
	"errors"

	"github.com/rentora/rentora/pkg/tenant"
)

// Provider adapts a Store to the resolver interface the request gate uses.
type Provider struct {
	store Store
}

func NewProvider(store Store) *Provider {
	return &Provider{store: store}
}

func (p *Provider) ResolveActive(ctx context.Context, hostname, slug string) (*tenant.Tenant, error) {
	t, err := p.Resolve(ctx, hostname, slug)
	if err != nil {
		return nil, err
	}
	if !t.IsActive() {
		return nil, tenant.ErrTenantNotFound
	}
	return t, nil
}

func (p *Provider) Resolve(ctx context.Context, hostname, slug string) (*tenant.Tenant, error) {
	t, err := p.store.FindByHost(ctx, hostname, slug)
	if errors.Is(err, ErrNotFound) {
		return nil, tenant.ErrTenantNotFound
	}
	if err != nil {
		return nil, errors.Join(tenant.ErrLookupFailed, err)
	}
	return t, nil
}
