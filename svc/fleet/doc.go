// Package fleet manages each tenant's vehicles and bookings. All storage
// access is tenant-scoped; plan limits cap fleet size and date-range checks
// prevent double booking.
package fleet
