package fleet

import "errors"

var (
	ErrVehicleNotFound    = errors.New("fleet: vehicle not found")
	ErrBookingNotFound    = errors.New("fleet: booking not found")
	ErrVehicleUnavailable = errors.New("fleet: vehicle unavailable for the requested dates")
	ErrInvalidDateRange   = errors.New("fleet: invalid date range")
	ErrInvalidVehicle     = errors.New("fleet: invalid vehicle")
	ErrVehicleCapReached  = errors.New("fleet: vehicle limit for the current plan reached")
	ErrBookingNotPending  = errors.New("fleet: booking cannot be changed in its current status")
	ErrStoreFailure       = errors.New("fleet: store failure")
)
