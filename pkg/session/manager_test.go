package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentora/rentora/pkg/session"
	"github.com/rentora/rentora/pkg/tenant"
)

func newManager(t *testing.T) *session.Manager {
	t.Helper()

	store := session.NewMemoryStore(0)
	t.Cleanup(func() { _ = store.Close() })

	return session.NewManager(store, session.NewCookieTransport("test_session", false), session.Config{
		CookieName: "test_session",
		TTL:        time.Hour,
	})
}

func issue(t *testing.T, m *session.Manager, tenantID *uuid.UUID, role string) *http.Cookie {
	t.Helper()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/auth/login", nil)

	_, err := m.Issue(context.Background(), w, r, uuid.New(), tenantID, role)
	require.NoError(t, err)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies[0]
}

func TestManagerIssueResolve(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	tenantID := uuid.New()
	cookie := issue(t, m, &tenantID, "admin")

	r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	r.AddCookie(cookie)

	s, err := m.Resolve(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, "admin", s.Role)
	require.NotNil(t, s.TenantID)
	assert.Equal(t, tenantID, *s.TenantID)
}

func TestManagerResolveNoToken(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)

	_, err := m.Resolve(context.Background(), r)
	assert.ErrorIs(t, err, session.ErrNoToken)
}

func TestManagerDestroy(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	tenantID := uuid.New()
	cookie := issue(t, m, &tenantID, "client")

	r := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	r.AddCookie(cookie)
	w := httptest.NewRecorder()
	require.NoError(t, m.Destroy(context.Background(), w, r))

	cleared := w.Result().Cookies()
	require.NotEmpty(t, cleared)
	assert.Negative(t, cleared[0].MaxAge)

	r = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	r.AddCookie(cookie)
	_, err := m.Resolve(context.Background(), r)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestManagerIssueRotatesToken(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	tenantID := uuid.New()
	first := issue(t, m, &tenantID, "client")

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	r.AddCookie(first)
	_, err := m.Issue(context.Background(), w, r, uuid.New(), &tenantID, "client")
	require.NoError(t, err)

	second := w.Result().Cookies()[0]
	assert.NotEqual(t, first.Value, second.Value)

	r = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	r.AddCookie(first)
	_, err = m.Resolve(context.Background(), r)
	assert.Error(t, err, "old token must be dead after re-login")
}

func TestSessionTenantBinding(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	acmeID := uuid.New()
	rivalID := uuid.New()
	cookie := issue(t, m, &acmeID, "admin")

	withTenant := func(r *http.Request, id uuid.UUID) *http.Request {
		ctx := tenant.WithInfo(r.Context(), &tenant.Info{ID: id, Slug: "x", Hostname: "x.rentals.io"})
		return r.WithContext(ctx)
	}

	t.Run("honored on own tenant", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		r.AddCookie(cookie)
		role, ok := m.Info(withTenant(r, acmeID))
		assert.True(t, ok)
		assert.Equal(t, "admin", role)
	})

	t.Run("anonymous on another tenant", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		r.AddCookie(cookie)
		_, ok := m.Info(withTenant(r, rivalID))
		assert.False(t, ok)
	})

	t.Run("super admin session valid everywhere", func(t *testing.T) {
		t.Parallel()

		superCookie := issue(t, m, nil, "super_admin")
		r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		r.AddCookie(superCookie)
		role, ok := m.Info(withTenant(r, rivalID))
		assert.True(t, ok)
		assert.Equal(t, "super_admin", role)
	})
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	tenantID := uuid.New()
	cookie := issue(t, m, &tenantID, "client")

	var got *session.Session
	handler := m.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = session.FromContext(r.Context())
	}))

	t.Run("attaches session", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		r.AddCookie(cookie)
		handler.ServeHTTP(httptest.NewRecorder(), r)
		require.NotNil(t, got)
		assert.Equal(t, "client", got.Role)
	})

	t.Run("anonymous without cookie", func(t *testing.T) {
		got = nil
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/dashboard", nil))
		assert.Nil(t, got)
	})
}

func TestMemoryStoreExpiry(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore(0)
	t.Cleanup(func() { _ = store.Close() })

	s := session.New("tok", uuid.New(), nil, "client", 10*time.Millisecond)
	require.NoError(t, store.Create(context.Background(), s))

	time.Sleep(20 * time.Millisecond)
	_, err := store.Get(context.Background(), "tok")
	assert.ErrorIs(t, err, session.ErrSessionExpired)
}

func TestMemoryStoreDeleteByUserID(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore(0)
	t.Cleanup(func() { _ = store.Close() })

	userID := uuid.New()
	require.NoError(t, store.Create(context.Background(), session.New("a", userID, nil, "client", time.Hour)))
	require.NoError(t, store.Create(context.Background(), session.New("b", userID, nil, "client", time.Hour)))
	require.NoError(t, store.Create(context.Background(), session.New("c", uuid.New(), nil, "client", time.Hour)))

	require.NoError(t, store.DeleteByUserID(context.Background(), userID))

	_, err := store.Get(context.Background(), "a")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
	_, err = store.Get(context.Background(), "b")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
	_, err = store.Get(context.Background(), "c")
	assert.NoError(t, err)
}
