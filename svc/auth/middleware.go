package auth

import (
	"net/http"
	"slices"

	"github.com/rentora/rentora/pkg/session"
	"github.com/rentora/rentora/pkg/tenant"
)

// RequireRole rejects requests whose session role is not in the allowed
// set. Anonymous requests get 401, authenticated but unauthorized ones 403.
// When a tenant is on the context, sessions bound to a different tenant are
// treated as anonymous.
func RequireRole(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := session.FromContext(r.Context())
			if !ok {
				respondError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if id, bound := tenant.IDFromContext(r.Context()); bound && !s.BelongsTo(id) {
				respondError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if !slices.Contains(roles, Role(s.Role)) {
				respondError(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
