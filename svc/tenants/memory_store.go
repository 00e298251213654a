package tenants

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rentora/rentora/pkg/tenant"
)

// MemoryStore is an in-memory Store for tests and development.
type MemoryStore struct {
	mu       sync.RWMutex
	tenants  map[uuid.UUID]*tenant.Tenant
	settings map[uuid.UUID]*Settings
	counts   map[uuid.UUID]Counts
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tenants:  make(map[uuid.UUID]*tenant.Tenant),
		settings: make(map[uuid.UUID]*Settings),
		counts:   make(map[uuid.UUID]Counts),
	}
}

// SetCounts seeds usage numbers for listings in tests.
func (m *MemoryStore) SetCounts(tenantID uuid.UUID, c Counts) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[tenantID] = c
}

func (m *MemoryStore) Create(ctx context.Context, t *tenant.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := cloneTenant(t)
	m.tenants[t.ID] = cp
	return nil
}

func (m *MemoryStore) GetByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tenants[id]
	if !ok || t.DeletedAt != nil {
		return nil, ErrNotFound
	}
	return cloneTenant(t), nil
}

func (m *MemoryStore) GetBySlug(ctx context.Context, slug string) (*tenant.Tenant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, t := range m.tenants {
		if t.DeletedAt == nil && t.Slug == slug {
			return cloneTenant(t), nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) FindByHost(ctx context.Context, hostname, slug string) (*tenant.Tenant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Soft-deleted records still resolve so their domains render the
	// inactive page, but a live record always wins.
	var deleted *tenant.Tenant
	for _, t := range m.tenants {
		matches := t.PrimaryDomain == hostname ||
			slices.Contains(t.CustomDomains, hostname) ||
			(slug != "" && t.Slug == slug)
		if !matches {
			continue
		}
		if t.DeletedAt == nil {
			return cloneTenant(t), nil
		}
		if deleted == nil {
			deleted = t
		}
	}
	if deleted != nil {
		return cloneTenant(deleted), nil
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) List(ctx context.Context) ([]tenant.Tenant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]tenant.Tenant, 0, len(m.tenants))
	for _, t := range m.tenants {
		if t.DeletedAt == nil {
			out = append(out, *cloneTenant(t))
		}
	}
	slices.SortFunc(out, func(a, b tenant.Tenant) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out, nil
}

func (m *MemoryStore) Update(ctx context.Context, t *tenant.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.tenants[t.ID]
	if !ok || existing.DeletedAt != nil {
		return ErrNotFound
	}
	m.tenants[t.ID] = cloneTenant(t)
	return nil
}

func (m *MemoryStore) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tenants[id]
	if !ok || t.DeletedAt != nil {
		return ErrNotFound
	}
	t.DeletedAt = &at
	t.Status = tenant.StatusInactive
	t.UpdatedAt = at
	return nil
}

func (m *MemoryStore) DomainTaken(ctx context.Context, domain string, exclude uuid.UUID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, t := range m.tenants {
		if t.DeletedAt != nil || t.ID == exclude {
			continue
		}
		if t.PrimaryDomain == domain || slices.Contains(t.CustomDomains, domain) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) Counts(ctx context.Context, tenantID uuid.UUID) (Counts, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counts[tenantID], nil
}

func (m *MemoryStore) SaveSettings(ctx context.Context, s *Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *s
	m.settings[s.TenantID] = &cp
	return nil
}

func (m *MemoryStore) GetSettings(ctx context.Context, tenantID uuid.UUID) (*Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.settings[tenantID]
	if !ok {
		return nil, ErrSettingsNotFound
	}
	cp := *s
	return &cp, nil
}

func cloneTenant(t *tenant.Tenant) *tenant.Tenant {
	cp := *t
	cp.CustomDomains = slices.Clone(t.CustomDomains)
	if t.DeletedAt != nil {
		at := *t.DeletedAt
		cp.DeletedAt = &at
	}
	return &cp
}
