package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rentora/rentora/pkg/session"
)

// Handler exposes login and logout over HTTP.
type Handler struct {
	svc      *Service
	sessions *session.Manager
}

func NewHandler(svc *Service, sessions *session.Manager) *Handler {
	return &Handler{svc: svc, sessions: sessions}
}

// Routes mounts the auth endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login authenticates against the namespace of the request's own hostname
// and issues a session bound to the user's tenant.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.svc.Authenticate(r.Context(), r.Host, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			respondError(w, http.StatusUnauthorized, "invalid email or password")
		case errors.Is(err, ErrUserInactive):
			respondError(w, http.StatusForbidden, "account is deactivated")
		case errors.Is(err, ErrDomainNotConfigured):
			respondError(w, http.StatusForbidden, "sign-in is not available on this domain")
		default:
			respondError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	if _, err := h.sessions.Issue(r.Context(), w, r, u.ID, u.TenantID, string(u.Role)); err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, u)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context(), w, r); err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
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
