package fleet

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store persists vehicles and bookings. Every method takes the owning
// tenant explicitly; implementations must guarantee no cross-tenant reads
// or writes.
type Store interface {
	CreateVehicle(ctx context.Context, v *Vehicle) error
	GetVehicle(ctx context.Context, tenantID, id uuid.UUID) (*Vehicle, error)
	ListVehicles(ctx context.Context, tenantID uuid.UUID) ([]Vehicle, error)
	UpdateVehicle(ctx context.Context, v *Vehicle) error
	DeleteVehicle(ctx context.Context, tenantID, id uuid.UUID) error
	CountVehicles(ctx context.Context, tenantID uuid.UUID) (int64, error)

	CreateBooking(ctx context.Context, b *Booking) error
	GetBooking(ctx context.Context, tenantID, id uuid.UUID) (*Booking, error)
	ListBookings(ctx context.Context, tenantID uuid.UUID) ([]Booking, error)
	UpdateBooking(ctx context.Context, b *Booking) error

	// HasBlockingBooking reports whether a pending or confirmed booking of
	// the vehicle intersects the half-open range [start, end).
	HasBlockingBooking(ctx context.Context, tenantID, vehicleID uuid.UUID, start, end time.Time) (bool, error)
}
