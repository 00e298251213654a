package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentora/rentora/pkg/session"
	"github.com/rentora/rentora/pkg/tenant"
	"github.com/rentora/rentora/svc/auth"
)

func newAuthRouter(t *testing.T) (*chi.Mux, *fixture, *session.Manager) {
	t.Helper()

	f := newFixture(t)

	store := session.NewMemoryStore(0)
	t.Cleanup(func() { _ = store.Close() })
	sessions := session.NewManager(store, session.NewCookieTransport("test_session", false), session.Config{
		CookieName: "test_session",
		TTL:        time.Hour,
	})

	r := chi.NewRouter()
	r.Route("/auth", auth.NewHandler(f.svc, sessions).Routes)
	return r, f, sessions
}

func postLogin(t *testing.T, router http.Handler, host, email, password string) *httptest.ResponseRecorder {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	r := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	r.Host = host
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestLoginHandler(t *testing.T) {
	t.Parallel()

	router, f, sessions := newAuthRouter(t)
	acmeID := f.provisionTenant(t, "acme")
	f.createUser(t, &acmeID, "driver@example.com", "correct-horse", auth.RoleClient)

	t.Run("issues tenant-bound session", func(t *testing.T) {
		w := postLogin(t, router, "acme.rentals.io", "driver@example.com", "correct-horse")
		require.Equal(t, http.StatusOK, w.Code)

		cookies := w.Result().Cookies()
		require.NotEmpty(t, cookies)

		r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		r.AddCookie(cookies[0])
		s, err := sessions.Resolve(r.Context(), r)
		require.NoError(t, err)
		assert.Equal(t, string(auth.RoleClient), s.Role)
		require.NotNil(t, s.TenantID)
		assert.Equal(t, acmeID, *s.TenantID)
	})

	t.Run("wrong password is 401", func(t *testing.T) {
		w := postLogin(t, router, "acme.rentals.io", "driver@example.com", "wrong")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unconfigured domain is 403", func(t *testing.T) {
		w := postLogin(t, router, "ghost.rentals.io", "driver@example.com", "correct-horse")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("logout clears the session", func(t *testing.T) {
		w := postLogin(t, router, "acme.rentals.io", "driver@example.com", "correct-horse")
		require.Equal(t, http.StatusOK, w.Code)
		cookie := w.Result().Cookies()[0]

		r := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		r.AddCookie(cookie)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, r)
		require.Equal(t, http.StatusNoContent, w.Code)

		r = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		r.AddCookie(cookie)
		_, err := sessions.Resolve(r.Context(), r)
		assert.Error(t, err)
	})
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	handler := auth.RequireRole(auth.RoleAdmin, auth.RoleSuperAdmin)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	serve := func(s *session.Session) int {
		r := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if s != nil {
			r = r.WithContext(session.WithSession(r.Context(), s))
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w.Code
	}

	assert.Equal(t, http.StatusUnauthorized, serve(nil))
	assert.Equal(t, http.StatusForbidden, serve(&session.Session{Role: string(auth.RoleClient)}))
	assert.Equal(t, http.StatusOK, serve(&session.Session{Role: string(auth.RoleAdmin)}))
	assert.Equal(t, http.StatusOK, serve(&session.Session{Role: string(auth.RoleSuperAdmin)}))
}

func TestRequireRoleTenantBinding(t *testing.T) {
	t.Parallel()

	handler := auth.RequireRole(auth.RoleAdmin, auth.RoleSuperAdmin)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	acmeID := uuid.New()
	otherID := uuid.New()

	serve := func(s *session.Session) int {
		r := httptest.NewRequest(http.MethodGet, "/api/vehicles/", nil)
		ctx := tenant.WithInfo(r.Context(), &tenant.Info{ID: acmeID, Slug: "acme", Hostname: "acme.rentals.io"})
		r = r.WithContext(session.WithSession(ctx, s))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w.Code
	}

	t.Run("session from another tenant is anonymous here", func(t *testing.T) {
		code := serve(&session.Session{Role: string(auth.RoleAdmin), TenantID: &otherID})
		assert.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("session bound to this tenant passes", func(t *testing.T) {
		code := serve(&session.Session{Role: string(auth.RoleAdmin), TenantID: &acmeID})
		assert.Equal(t, http.StatusOK, code)
	})

	t.Run("super admin session works on any tenant", func(t *testing.T) {
		code := serve(&session.Session{Role: string(auth.RoleSuperAdmin)})
		assert.Equal(t, http.StatusOK, code)
	})
}
