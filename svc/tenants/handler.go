package tenants

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rentora/rentora/pkg/tenant"
)

// validateCacheControl lets CDNs absorb validation traffic for the cache TTL
// and serve stale entries while revalidating.
const validateCacheControl = "public, max-age=300, stale-while-revalidate=600"

// Handler exposes the tenant service over HTTP.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// ValidateRoutes mounts the public validation endpoint.
func (h *Handler) ValidateRoutes(r chi.Router) {
	r.Get("/validate", h.validate)
}

// AdminRoutes mounts the platform-admin CRUD endpoints. The caller is
// responsible for restricting access to super admins.
func (h *Handler) AdminRoutes(r chi.Router) {
	r.Post("/", h.provision)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.softDelete)
}

// validate reports whether a hostname maps to a live tenant. Defaults to the
// request's own host so edge proxies can call it without parameters.
func (h *Handler) validate(w http.ResponseWriter, r *http.Request) {
	hostname := r.URL.Query().Get("hostname")
	if hostname == "" {
		hostname = r.Host
	}

	v := h.svc.Validate(r.Context(), hostname)
	if v.Status != tenant.ValidationError {
		w.Header().Set("Cache-Control", validateCacheControl)
	}
	respondJSON(w, http.StatusOK, v)
}

func (h *Handler) provision(w http.ResponseWriter, r *http.Request) {
	var params ProvisionParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.svc.Provision(r.Context(), params)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, t)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	overviews, err := h.svc.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, overviews)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid tenant id")
		return
	}

	overview, err := h.svc.GetOverview(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, overview)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid tenant id")
		return
	}

	var params UpdateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.svc.Update(r.Context(), id, params)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

func (h *Handler) softDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid tenant id")
		return
	}

	if err := h.svc.SoftDelete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
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
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrSettingsNotFound):
		respondError(w, http.StatusNotFound, "tenant not found")
	case errors.Is(err, ErrSlugTaken), errors.Is(err, ErrDomainTaken):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidSlug), errors.Is(err, ErrUnknownPlan), errors.Is(err, ErrInvalidOwner):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// ErrorPages serves the static tenant error pages the request gate redirects
// to. They sit on bypass paths so they render on any hostname.
func ErrorPages(r chi.Router) {
	r.Get("/tenant-not-found", func(w http.ResponseWriter, req *http.Request) {
		writeErrorPage(w, http.StatusNotFound, "Agency not found",
			"No rental agency is configured for this address. Check the web address or contact the agency.")
	})
	r.Get("/tenant-inactive", func(w http.ResponseWriter, req *http.Request) {
		writeErrorPage(w, http.StatusForbidden, "Agency unavailable",
			"This rental agency is currently unavailable. Please try again later or contact the agency.")
	})
}

func writeErrorPage(w http.ResponseWriter, status int, title, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, `<!doctype html><html><head><title>%s</title></head><body><h1>%s</h1><p>%s</p></body></html>`, title, title, body)
}
