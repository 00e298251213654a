package session

import (
	"net/http"

	"github.com/rentora/rentora/pkg/tenant"
)

// Middleware resolves the request's session and attaches it to the context.
// Requests without a live session pass through anonymously.
//
// A session issued for one tenant is not honored on another tenant's domain:
// when the request context carries a resolved tenant and the session is bound
// elsewhere, the request proceeds anonymously. Super admin sessions have no
// tenant binding and are honored everywhere.
func (m *Manager) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			s, err := m.Resolve(ctx, r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			if info, ok := tenant.FromContext(ctx); ok && !s.BelongsTo(info.ID) {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(ctx, s)))
		})
	}
}

// Info reports the request's role and authentication state for the request
// gate. It applies the same tenant binding rule as Middleware.
func (m *Manager) Info(r *http.Request) (string, bool) {
	ctx := r.Context()

	s, err := m.Resolve(ctx, r)
	if err != nil {
		return "", false
	}
	if info, ok := tenant.FromContext(ctx); ok && !s.BelongsTo(info.ID) {
		return "", false
	}
	return s.Role, true
}
