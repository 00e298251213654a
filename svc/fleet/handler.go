package fleet

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rentora/rentora/pkg/tenant"
)

// Handler exposes fleet and booking endpoints. All routes require a
// resolved tenant on the request context; mutating routes additionally pass
// through the configured guards.
type Handler struct {
	svc          *Service
	vehicleGuard func(http.Handler) http.Handler
	bookingGuard func(http.Handler) http.Handler
}

// HandlerOption configures route guards.
type HandlerOption func(*Handler)

// WithVehicleGuard protects vehicle mutations, typically with an admin role
// requirement.
func WithVehicleGuard(mw func(http.Handler) http.Handler) HandlerOption {
	return func(h *Handler) {
		if mw != nil {
			h.vehicleGuard = mw
		}
	}
}

// WithBookingGuard protects booking mutations, typically with a session
// requirement.
func WithBookingGuard(mw func(http.Handler) http.Handler) HandlerOption {
	return func(h *Handler) {
		if mw != nil {
			h.bookingGuard = mw
		}
	}
}

func NewHandler(svc *Service, opts ...HandlerOption) *Handler {
	passthrough := func(next http.Handler) http.Handler { return next }
	h := &Handler{svc: svc, vehicleGuard: passthrough, bookingGuard: passthrough}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// VehicleRoutes mounts the fleet endpoints. Reads are open within the
// tenant; mutations go through the vehicle guard.
func (h *Handler) VehicleRoutes(r chi.Router) {
	r.Get("/", h.listVehicles)
	r.Get("/{id}", h.getVehicle)
	r.Group(func(r chi.Router) {
		r.Use(h.vehicleGuard)
		r.Post("/", h.addVehicle)
		r.Put("/{id}", h.updateVehicle)
		r.Delete("/{id}", h.deleteVehicle)
	})
}

// BookingRoutes mounts the booking endpoints. Mutations go through the
// booking guard.
func (h *Handler) BookingRoutes(r chi.Router) {
	r.Get("/", h.listBookings)
	r.Get("/{id}", h.getBooking)
	r.Group(func(r chi.Router) {
		r.Use(h.bookingGuard)
		r.Post("/", h.book)
		r.Post("/{id}/confirm", h.confirmBooking)
		r.Post("/{id}/cancel", h.cancelBooking)
	})
}

func tenantID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := tenant.IDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusBadRequest, "no tenant resolved for this request")
		return uuid.Nil, false
	}
	return id, true
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) addVehicle(w http.ResponseWriter, r *http.Request) {
	tid, ok := tenantID(w, r)
	if !ok {
		return
	}

	var params VehicleParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	v, err := h.svc.AddVehicle(r.Context(), tid, params)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, v)
}

func (h *Handler) listVehicles(w http.ResponseWriter, r *http.Request) {
	tid, ok := tenantID(w, r)
	if !ok {
		return
	}

	vehicles, err := h.svc.ListVehicles(r.Context(), tid)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, vehicles)
}

func (h *Handler) getVehicle(w http.ResponseWriter, r *http.Request) {
	tid, ok := tenantID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	v, err := h.svc.GetVehicle(r.Context(), tid, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, v)
}

func (h *Handler) updateVehicle(w http.ResponseWriter, r *http.Request) {
	tid, ok := tenantID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var params VehicleParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	v, err := h.svc.UpdateVehicle(r.Context(), tid, id, params)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, v)
}

func (h *Handler) deleteVehicle(w http.ResponseWriter, r *http.Request) {
	tid, ok := tenantID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteVehicle(r.Context(), tid, id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) book(w http.ResponseWriter, r *http.Request) {
	tid, ok := tenantID(w, r)
	if !ok {
		return
	}

	var params BookingParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := h.svc.Book(r.Context(), tid, params)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, b)
}

func (h *Handler) listBookings(w http.ResponseWriter, r *http.Request) {
	tid, ok := tenantID(w, r)
	if !ok {
		return
	}

	bookings, err := h.svc.ListBookings(r.Context(), tid)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, bookings)
}

func (h *Handler) getBooking(w http.ResponseWriter, r *http.Request) {
	tid, ok := tenantID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	b, err := h.svc.GetBooking(r.Context(), tid, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, b)
}

func (h *Handler) confirmBooking(w http.ResponseWriter, r *http.Request) {
	h.transitionBooking(w, r, h.svc.Confirm)
}

func (h *Handler) cancelBooking(w http.ResponseWriter, r *http.Request) {
	h.transitionBooking(w, r, h.svc.Cancel)
}

func (h *Handler) transitionBooking(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, tenantID, id uuid.UUID) (*Booking, error)) {
	tid, ok := tenantID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	b, err := fn(r.Context(), tid, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, b)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrVehicleNotFound), errors.Is(err, ErrBookingNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidVehicle), errors.Is(err, ErrInvalidDateRange):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrVehicleUnavailable), errors.Is(err, ErrBookingNotPending):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrVehicleCapReached):
		respondError(w, http.StatusPaymentRequired, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
