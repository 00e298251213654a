package fleet

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store for tests and development.
type MemoryStore struct {
	mu       sync.RWMutex
	vehicles map[uuid.UUID]*Vehicle
	bookings map[uuid.UUID]*Booking
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		vehicles: make(map[uuid.UUID]*Vehicle),
		bookings: make(map[uuid.UUID]*Booking),
	}
}

func (m *MemoryStore) CreateVehicle(ctx context.Context, v *Vehicle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *v
	m.vehicles[v.ID] = &cp
	return nil
}

func (m *MemoryStore) GetVehicle(ctx context.Context, tenantID, id uuid.UUID) (*Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.vehicles[id]
	if !ok || v.TenantID != tenantID {
		return nil, ErrVehicleNotFound
	}
	cp := *v
	return &cp, nil
}

func (m *MemoryStore) ListVehicles(ctx context.Context, tenantID uuid.UUID) ([]Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Vehicle, 0)
	for _, v := range m.vehicles {
		if v.TenantID == tenantID {
			out = append(out, *v)
		}
	}
	slices.SortFunc(out, func(a, b Vehicle) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out, nil
}

func (m *MemoryStore) UpdateVehicle(ctx context.Context, v *Vehicle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.vehicles[v.ID]
	if !ok || existing.TenantID != v.TenantID {
		return ErrVehicleNotFound
	}
	cp := *v
	m.vehicles[v.ID] = &cp
	return nil
}

func (m *MemoryStore) DeleteVehicle(ctx context.Context, tenantID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.vehicles[id]
	if !ok || v.TenantID != tenantID {
		return ErrVehicleNotFound
	}
	delete(m.vehicles, id)
	return nil
}

func (m *MemoryStore) CountVehicles(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var n int64
	for _, v := range m.vehicles {
		if v.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) CreateBooking(ctx context.Context, b *Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func (m *MemoryStore) GetBooking(ctx context.Context, tenantID, id uuid.UUID) (*Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.bookings[id]
	if !ok || b.TenantID != tenantID {
		return nil, ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *MemoryStore) ListBookings(ctx context.Context, tenantID uuid.UUID) ([]Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Booking, 0)
	for _, b := range m.bookings {
		if b.TenantID == tenantID {
			out = append(out, *b)
		}
	}
	slices.SortFunc(out, func(a, b Booking) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out, nil
}

func (m *MemoryStore) UpdateBooking(ctx context.Context, b *Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.bookings[b.ID]
	if !ok || existing.TenantID != b.TenantID {
		return ErrBookingNotFound
	}
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func (m *MemoryStore) HasBlockingBooking(ctx context.Context, tenantID, vehicleID uuid.UUID, start, end time.Time) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, b := range m.bookings {
		if b.TenantID != tenantID || b.VehicleID != vehicleID || !b.Status.blocking() {
			continue
		}
		if Overlaps(b.StartDate, b.EndDate, start, end) {
			return true, nil
		}
	}
	return false, nil
}
