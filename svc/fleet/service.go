package fleet

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rentora/rentora/pkg/plans"
	"github.com/rentora/rentora/pkg/tenant"
)

// LimitsSource reports the plan ceilings of a tenant. Implemented by the
// tenants service.
type LimitsSource interface {
	Limits(ctx context.Context, tenantID uuid.UUID) (tenant.Limits, error)
}

// Service implements fleet and booking operations for one tenant at a time.
// The tenant is always explicit; handlers take it from the resolved request
// context.
type Service struct {
	store  Store
	limits LimitsSource
	log    *slog.Logger
}

// Option configures optional service dependencies.
type Option func(*Service)

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

func NewService(store Store, limits LimitsSource, opts ...Option) *Service {
	s := &Service{
		store:  store,
		limits: limits,
		log:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// VehicleParams describes a vehicle to add or update.
type VehicleParams struct {
	Brand       string        `json:"brand"`
	Model       string        `json:"model"`
	Year        int           `json:"year"`
	Plate       string        `json:"plate"`
	Seats       int           `json:"seats"`
	PricePerDay int64         `json:"price_per_day"`
	Status      VehicleStatus `json:"status,omitempty"`
}

func (p VehicleParams) validate() error {
	if p.Brand == "" || p.Model == "" {
		return fmt.Errorf("%w: brand and model are required", ErrInvalidVehicle)
	}
	if p.PricePerDay < 0 {
		return fmt.Errorf("%w: negative price", ErrInvalidVehicle)
	}
	return nil
}

// AddVehicle adds a car to the tenant's fleet, enforcing the plan's vehicle
// ceiling.
func (s *Service) AddVehicle(ctx context.Context, tenantID uuid.UUID, params VehicleParams) (*Vehicle, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	limits, err := s.limits.Limits(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	current, err := s.store.CountVehicles(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !plans.Allows(limits.Vehicles, current) {
		return nil, ErrVehicleCapReached
	}

	status := params.Status
	if status == "" {
		status = VehicleAvailable
	}

	now := time.Now().UTC()
	v := &Vehicle{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Brand:       params.Brand,
		Model:       params.Model,
		Year:        params.Year,
		Plate:       params.Plate,
		Seats:       params.Seats,
		PricePerDay: params.PricePerDay,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateVehicle(ctx, v); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "vehicle added",
		slog.String("tenant_id", tenantID.String()),
		slog.String("vehicle_id", v.ID.String()),
	)
	return v, nil
}

func (s *Service) GetVehicle(ctx context.Context, tenantID, id uuid.UUID) (*Vehicle, error) {
	return s.store.GetVehicle(ctx, tenantID, id)
}

func (s *Service) ListVehicles(ctx context.Context, tenantID uuid.UUID) ([]Vehicle, error) {
	return s.store.ListVehicles(ctx, tenantID)
}

func (s *Service) UpdateVehicle(ctx context.Context, tenantID, id uuid.UUID, params VehicleParams) (*Vehicle, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	v, err := s.store.GetVehicle(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	v.Brand = params.Brand
	v.Model = params.Model
	v.Year = params.Year
	v.Plate = params.Plate
	v.Seats = params.Seats
	v.PricePerDay = params.PricePerDay
	if params.Status != "" {
		v.Status = params.Status
	}
	v.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateVehicle(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Service) DeleteVehicle(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.store.DeleteVehicle(ctx, tenantID, id)
}

// BookingParams describes a reservation request. Dates form a half-open
// range; EndDate is the return day.
type BookingParams struct {
	VehicleID  uuid.UUID `json:"vehicle_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
}

// Book reserves a vehicle. The vehicle must be available and free of
// pending or confirmed bookings over the requested range; the total price
// is days times the vehicle's daily rate.
func (s *Service) Book(ctx context.Context, tenantID uuid.UUID, params BookingParams) (*Booking, error) {
	if !params.StartDate.Before(params.EndDate) {
		return nil, ErrInvalidDateRange
	}

	v, err := s.store.GetVehicle(ctx, tenantID, params.VehicleID)
	if err != nil {
		return nil, err
	}
	if v.Status != VehicleAvailable {
		return nil, ErrVehicleUnavailable
	}

	blocked, err := s.store.HasBlockingBooking(ctx, tenantID, v.ID, params.StartDate, params.EndDate)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, ErrVehicleUnavailable
	}

	now := time.Now().UTC()
	b := &Booking{
		ID:         uuid.New(),
		TenantID:   tenantID,
		VehicleID:  v.ID,
		CustomerID: params.CustomerID,
		StartDate:  params.StartDate,
		EndDate:    params.EndDate,
		TotalPrice: rentalDays(params.StartDate, params.EndDate) * v.PricePerDay,
		Status:     BookingPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.CreateBooking(ctx, b); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "booking created",
		slog.String("tenant_id", tenantID.String()),
		slog.String("booking_id", b.ID.String()),
		slog.String("vehicle_id", v.ID.String()),
	)
	return b, nil
}

func (s *Service) GetBooking(ctx context.Context, tenantID, id uuid.UUID) (*Booking, error) {
	return s.store.GetBooking(ctx, tenantID, id)
}

func (s *Service) ListBookings(ctx context.Context, tenantID uuid.UUID) ([]Booking, error) {
	return s.store.ListBookings(ctx, tenantID)
}

// Confirm moves a pending booking to confirmed.
func (s *Service) Confirm(ctx context.Context, tenantID, id uuid.UUID) (*Booking, error) {
	return s.transition(ctx, tenantID, id, BookingPending, BookingConfirmed)
}

// Cancel voids a pending or confirmed booking, freeing the vehicle's dates.
func (s *Service) Cancel(ctx context.Context, tenantID, id uuid.UUID) (*Booking, error) {
	b, err := s.store.GetBooking(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !b.Status.blocking() {
		return nil, ErrBookingNotPending
	}

	b.Status = BookingCancelled
	b.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) transition(ctx context.Context, tenantID, id uuid.UUID, from, to BookingStatus) (*Booking, error) {
	b, err := s.store.GetBooking(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if b.Status != from {
		return nil, ErrBookingNotPending
	}

	b.Status = to
	b.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}
