package fleet

import (
	"time"

	"github.com/google/uuid"
)

// VehicleStatus is the availability state of a vehicle.
type VehicleStatus string

const (
	VehicleAvailable   VehicleStatus = "available"
	VehicleMaintenance VehicleStatus = "maintenance"
	VehicleRetired     VehicleStatus = "retired"
)

// Vehicle is one car in a tenant's fleet. Prices are stored in minor
// currency units.
type Vehicle struct {
	ID          uuid.UUID     `json:"id"`
	TenantID    uuid.UUID     `json:"tenant_id"`
	Brand       string        `json:"brand"`
	Model       string        `json:"model"`
	Year        int           `json:"year"`
	Plate       string        `json:"plate"`
	Seats       int           `json:"seats"`
	PricePerDay int64         `json:"price_per_day"`
	Status      VehicleStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// blocking reports whether a booking in this status occupies the vehicle.
func (s BookingStatus) blocking() bool {
	return s == BookingPending || s == BookingConfirmed
}

// Booking reserves one vehicle for a date range. The end date is exclusive:
// a booking ending on a day and another starting that same day do not
// overlap.
type Booking struct {
	ID         uuid.UUID     `json:"id"`
	TenantID   uuid.UUID     `json:"tenant_id"`
	VehicleID  uuid.UUID     `json:"vehicle_id"`
	CustomerID uuid.UUID     `json:"customer_id"`
	StartDate  time.Time     `json:"start_date"`
	EndDate    time.Time     `json:"end_date"`
	TotalPrice int64         `json:"total_price"`
	Status     BookingStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// Overlaps reports whether two half-open date ranges [aStart, aEnd) and
// [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// rentalDays counts whole days in the half-open range, rounding partial
// days up.
func rentalDays(start, end time.Time) int64 {
	d := end.Sub(start)
	days := int64(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		days++
	}
	return days
}
