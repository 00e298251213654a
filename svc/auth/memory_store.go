package auth

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory UserStore for tests and development.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[uuid.UUID]*User)}
}

func (m *MemoryStore) Create(ctx context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if !strings.EqualFold(existing.Email, u.Email) {
			continue
		}
		if sameTenant(existing.TenantID, u.TenantID) {
			return ErrEmailTaken
		}
	}

	cp := cloneUser(u)
	m.users[u.ID] = cp
	return nil
}

func (m *MemoryStore) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (m *MemoryStore) GetTenantUser(ctx context.Context, tenantID uuid.UUID, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Role == RoleSuperAdmin {
			continue
		}
		if u.TenantID != nil && *u.TenantID == tenantID && strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *MemoryStore) GetSuperAdmin(ctx context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Role == RoleSuperAdmin && strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *MemoryStore) GetLegacyUser(ctx context.Context, email string, roles []Role) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) && slices.Contains(roles, u.Role) {
			return cloneUser(u), nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *MemoryStore) EmailTaken(ctx context.Context, tenantID *uuid.UUID, email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) && sameTenant(u.TenantID, tenantID) {
			return true, nil
		}
	}
	return false, nil
}

func sameTenant(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func cloneUser(u *User) *User {
	cp := *u
	if u.TenantID != nil {
		id := *u.TenantID
		cp.TenantID = &id
	}
	return &cp
}
