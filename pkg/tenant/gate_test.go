package tenant_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentora/rentora/pkg/tenant"
)

// fakeProvider is an in-memory tenant.Provider with fault injection.
type fakeProvider struct {
	mu      sync.Mutex
	tenants []*tenant.Tenant
	err     error
	lookups int
}

func (f *fakeProvider) match(hostname, slug string) *tenant.Tenant {
	for _, t := range f.tenants {
		if t.PrimaryDomain == hostname || slices.Contains(t.CustomDomains, hostname) {
			return t
		}
		if slug != "" && t.Slug == slug {
			return t
		}
	}
	return nil
}

func (f *fakeProvider) ResolveActive(ctx context.Context, hostname, slug string) (*tenant.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	if t := f.match(hostname, slug); t != nil && t.IsActive() {
		return t, nil
	}
	return nil, tenant.ErrTenantNotFound
}

func (f *fakeProvider) Resolve(ctx context.Context, hostname, slug string) (*tenant.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if t := f.match(hostname, slug); t != nil {
		return t, nil
	}
	return nil, tenant.ErrTenantNotFound
}

func (f *fakeProvider) setStatus(slug string, status tenant.Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tenants {
		if t.Slug == slug {
			t.Status = status
		}
	}
}

func (f *fakeProvider) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeProvider) lookupCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lookups
}

func acmeTenant() *tenant.Tenant {
	return &tenant.Tenant{
		ID:            uuid.New(),
		Name:          "Acme Cars",
		Slug:          "acme",
		PrimaryDomain: "acme.rentals.io",
		CustomDomains: []string{"rent.acme-cars.com"},
		Status:        tenant.StatusActive,
	}
}

func serveThrough(g *tenant.Gate, host, path string) (*httptest.ResponseRecorder, *tenant.Info) {
	var captured *tenant.Info
	handler := g.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = tenant.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "http://"+host+path, nil)
	req.Host = host
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, captured
}

func TestGateTenantResolution(t *testing.T) {
	t.Parallel()

	t.Run("active tenant passes and is attached to context", func(t *testing.T) {
		t.Parallel()

		acme := acmeTenant()
		provider := &fakeProvider{tenants: []*tenant.Tenant{acme}}
		gate := tenant.NewGate("rentals.io", provider, tenant.WithPublicPrefixes("/"))

		rec, info := serveThrough(gate, "acme.rentals.io", "/browse")
		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, info)
		assert.Equal(t, acme.ID, info.ID)
		assert.Equal(t, "acme", info.Slug)
		assert.Equal(t, "acme.rentals.io", info.Hostname)
	})

	t.Run("custom domain resolves the same tenant", func(t *testing.T) {
		t.Parallel()

		acme := acmeTenant()
		provider := &fakeProvider{tenants: []*tenant.Tenant{acme}}
		gate := tenant.NewGate("rentals.io", provider, tenant.WithPublicPrefixes("/"))

		rec, info := serveThrough(gate, "rent.acme-cars.com", "/browse")
		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, info)
		assert.Equal(t, acme.ID, info.ID)
	})

	t.Run("unknown tenant redirects to not-found page", func(t *testing.T) {
		t.Parallel()

		provider := &fakeProvider{tenants: []*tenant.Tenant{acmeTenant()}}
		gate := tenant.NewGate("rentals.io", provider)

		rec, _ := serveThrough(gate, "ghost.rentals.io", "/browse")
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/tenant-not-found", rec.Header().Get("Location"))
	})

	t.Run("inactive tenant redirects to inactive page", func(t *testing.T) {
		t.Parallel()

		acme := acmeTenant()
		acme.Status = tenant.StatusSuspended
		provider := &fakeProvider{tenants: []*tenant.Tenant{acme}}
		gate := tenant.NewGate("rentals.io", provider)

		rec, _ := serveThrough(gate, "acme.rentals.io", "/browse")
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/tenant-inactive", rec.Header().Get("Location"))
	})

	t.Run("inactive tenant never exposes the login form", func(t *testing.T) {
		t.Parallel()

		acme := acmeTenant()
		acme.Status = tenant.StatusInactive
		provider := &fakeProvider{tenants: []*tenant.Tenant{acme}}
		gate := tenant.NewGate("rentals.io", provider)

		rec, _ := serveThrough(gate, "acme.rentals.io", "/login")
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/tenant-inactive", rec.Header().Get("Location"))
	})

	t.Run("main domain bypasses tenant gating entirely", func(t *testing.T) {
		t.Parallel()

		provider := &fakeProvider{} // no tenants at all
		gate := tenant.NewGate("rentals.io", provider, tenant.WithPublicPrefixes("/"))

		for _, host := range []string{"rentals.io", "www.rentals.io", "localhost:3000"} {
			rec, info := serveThrough(gate, host, "/browse")
			assert.Equal(t, http.StatusOK, rec.Code, "host %s", host)
			assert.Nil(t, info)
		}
		assert.Zero(t, provider.lookupCount())
	})

	t.Run("bypass paths skip gating regardless of tenant status", func(t *testing.T) {
		t.Parallel()

		provider := &fakeProvider{} // ghost host, would redirect if gated
		gate := tenant.NewGate("rentals.io", provider)

		for _, path := range []string{"/tenant-not-found", "/tenant-inactive", "/api/tenant/validate", "/api/vehicles", "/static/app.css", "/favicon.ico"} {
			rec, _ := serveThrough(gate, "ghost.rentals.io", path)
			assert.Equal(t, http.StatusOK, rec.Code, "path %s must bypass gating", path)
		}
	})
}

func TestGateFailClosed(t *testing.T) {
	t.Parallel()

	t.Run("store error redirects as not found", func(t *testing.T) {
		t.Parallel()

		provider := &fakeProvider{tenants: []*tenant.Tenant{acmeTenant()}}
		provider.setErr(errors.New("connection refused"))
		gate := tenant.NewGate("rentals.io", provider)

		rec, _ := serveThrough(gate, "acme.rentals.io", "/browse")
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/tenant-not-found", rec.Header().Get("Location"))
	})

	t.Run("transient failure is not cached", func(t *testing.T) {
		t.Parallel()

		provider := &fakeProvider{tenants: []*tenant.Tenant{acmeTenant()}}
		provider.setErr(errors.New("connection refused"))
		gate := tenant.NewGate("rentals.io", provider, tenant.WithPublicPrefixes("/"))

		rec, _ := serveThrough(gate, "acme.rentals.io", "/browse")
		assert.Equal(t, http.StatusFound, rec.Code)

		// Store recovers; the next request must succeed, not replay a
		// cached failure.
		provider.setErr(nil)
		rec, info := serveThrough(gate, "acme.rentals.io", "/browse")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotNil(t, info)
	})
}

func TestGateCaching(t *testing.T) {
	t.Parallel()

	t.Run("second request is served from cache", func(t *testing.T) {
		t.Parallel()

		provider := &fakeProvider{tenants: []*tenant.Tenant{acmeTenant()}}
		gate := tenant.NewGate("rentals.io", provider, tenant.WithPublicPrefixes("/"))

		serveThrough(gate, "acme.rentals.io", "/browse")
		serveThrough(gate, "acme.rentals.io", "/browse")

		assert.Equal(t, 1, provider.lookupCount())
	})

	t.Run("negative outcome is cached too", func(t *testing.T) {
		t.Parallel()

		provider := &fakeProvider{}
		gate := tenant.NewGate("rentals.io", provider)

		serveThrough(gate, "ghost.rentals.io", "/browse")
		serveThrough(gate, "ghost.rentals.io", "/browse")

		assert.Equal(t, 1, provider.lookupCount())
	})

	t.Run("invalidation takes effect on the very next request", func(t *testing.T) {
		t.Parallel()

		acme := acmeTenant()
		provider := &fakeProvider{tenants: []*tenant.Tenant{acme}}
		cache := tenant.NewMemoryCache()
		defer cache.Close()
		gate := tenant.NewGate("rentals.io", provider,
			tenant.WithCache(cache),
			tenant.WithPublicPrefixes("/"),
		)

		rec, _ := serveThrough(gate, "acme.rentals.io", "/browse")
		require.Equal(t, http.StatusOK, rec.Code)

		// Admin deactivates the tenant and invalidates every domain it
		// could be cached under.
		provider.setStatus("acme", tenant.StatusInactive)
		cache.Invalidate(context.Background(), acme.Domains()...)

		rec, _ = serveThrough(gate, "acme.rentals.io", "/browse")
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/tenant-inactive", rec.Header().Get("Location"))

		rec, _ = serveThrough(gate, "rent.acme-cars.com", "/browse")
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/tenant-inactive", rec.Header().Get("Location"))
	})

	t.Run("without invalidation staleness is bounded by the TTL", func(t *testing.T) {
		t.Parallel()

		acme := acmeTenant()
		provider := &fakeProvider{tenants: []*tenant.Tenant{acme}}
		gate := tenant.NewGate("rentals.io", provider,
			tenant.WithCacheTTL(20*time.Millisecond),
			tenant.WithPublicPrefixes("/"),
		)

		rec, _ := serveThrough(gate, "acme.rentals.io", "/browse")
		require.Equal(t, http.StatusOK, rec.Code)

		provider.setStatus("acme", tenant.StatusSuspended)

		// Still cached as valid until the TTL lapses.
		rec, _ = serveThrough(gate, "acme.rentals.io", "/browse")
		assert.Equal(t, http.StatusOK, rec.Code)

		time.Sleep(40 * time.Millisecond)

		rec, _ = serveThrough(gate, "acme.rentals.io", "/browse")
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/tenant-inactive", rec.Header().Get("Location"))
	})
}

func TestGateRoleGating(t *testing.T) {
	t.Parallel()

	withSession := func(role string, authed bool) tenant.GateOption {
		return tenant.WithSessionInfo(func(*http.Request) (string, bool) { return role, authed })
	}

	t.Run("super-admin area unreachable from tenant domain", func(t *testing.T) {
		t.Parallel()

		provider := &fakeProvider{tenants: []*tenant.Tenant{acmeTenant()}}
		gate := tenant.NewGate("rentals.io", provider, withSession("super_admin", true))

		rec, _ := serveThrough(gate, "acme.rentals.io", "/superadmin/tenants")
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
	})

	t.Run("unauthenticated super-admin area visit redirects to its login", func(t *testing.T) {
		t.Parallel()

		gate := tenant.NewGate("rentals.io", &fakeProvider{})

		rec, _ := serveThrough(gate, "rentals.io", "/superadmin/tenants")
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/superadmin/login", rec.Header().Get("Location"))
	})

	t.Run("non-super-admin session redirects to super-admin login", func(t *testing.T) {
		t.Parallel()

		gate := tenant.NewGate("rentals.io", &fakeProvider{}, withSession("admin", true))

		rec, _ := serveThrough(gate, "rentals.io", "/superadmin/tenants")
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/superadmin/login", rec.Header().Get("Location"))
	})

	t.Run("authenticated super-admin on login page goes into the area", func(t *testing.T) {
		t.Parallel()

		gate := tenant.NewGate("rentals.io", &fakeProvider{}, withSession("super_admin", true))

		rec, _ := serveThrough(gate, "rentals.io", "/superadmin/login")
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/superadmin", rec.Header().Get("Location"))
	})

	t.Run("super-admin login page reachable when signed out", func(t *testing.T) {
		t.Parallel()

		gate := tenant.NewGate("rentals.io", &fakeProvider{})

		rec, _ := serveThrough(gate, "rentals.io", "/superadmin/login")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("admin area requires admin role", func(t *testing.T) {
		t.Parallel()

		provider := &fakeProvider{tenants: []*tenant.Tenant{acmeTenant()}}

		gate := tenant.NewGate("rentals.io", provider, withSession("client", true))
		rec, _ := serveThrough(gate, "acme.rentals.io", "/admin/fleet")
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

		gate = tenant.NewGate("rentals.io", provider, withSession("admin", true))
		rec, _ = serveThrough(gate, "acme.rentals.io", "/admin/fleet")
		assert.Equal(t, http.StatusOK, rec.Code)

		gate = tenant.NewGate("rentals.io", provider, withSession("super_admin", true))
		rec, _ = serveThrough(gate, "acme.rentals.io", "/admin/fleet")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestGateAuthGating(t *testing.T) {
	t.Parallel()

	t.Run("public prefixes reachable without a session", func(t *testing.T) {
		t.Parallel()

		provider := &fakeProvider{tenants: []*tenant.Tenant{acmeTenant()}}
		gate := tenant.NewGate("rentals.io", provider)

		for _, path := range []string{"/", "/login", "/browse", "/pricing"} {
			rec, _ := serveThrough(gate, "acme.rentals.io", path)
			assert.Equal(t, http.StatusOK, rec.Code, "path %s should be public", path)
		}
	})

	t.Run("private path redirects to login without a session", func(t *testing.T) {
		t.Parallel()

		provider := &fakeProvider{tenants: []*tenant.Tenant{acmeTenant()}}
		gate := tenant.NewGate("rentals.io", provider)

		rec, _ := serveThrough(gate, "acme.rentals.io", "/dashboard")
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("authenticated session passes", func(t *testing.T) {
		t.Parallel()

		provider := &fakeProvider{tenants: []*tenant.Tenant{acmeTenant()}}
		gate := tenant.NewGate("rentals.io", provider,
			tenant.WithSessionInfo(func(*http.Request) (string, bool) { return "client", true }))

		rec, _ := serveThrough(gate, "acme.rentals.io", "/dashboard")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestGateRequireTenant(t *testing.T) {
	t.Parallel()

	serve := func(g *tenant.Gate, host string) (*httptest.ResponseRecorder, *tenant.Info) {
		var captured *tenant.Info
		handler := g.RequireTenant(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured, _ = tenant.FromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest("GET", "http://"+host+"/api/vehicles", nil)
		req.Host = host
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec, captured
	}

	t.Run("active tenant attached", func(t *testing.T) {
		t.Parallel()

		acme := acmeTenant()
		provider := &fakeProvider{tenants: []*tenant.Tenant{acme}}
		gate := tenant.NewGate("rentals.io", provider)

		rec, info := serve(gate, "acme.rentals.io")
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, info)
		assert.Equal(t, acme.ID, info.ID)
	})

	t.Run("main domain gets 400", func(t *testing.T) {
		t.Parallel()

		provider := &fakeProvider{tenants: []*tenant.Tenant{acmeTenant()}}
		gate := tenant.NewGate("rentals.io", provider)

		rec, _ := serve(gate, "www.rentals.io")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "tenant domain required")
	})

	t.Run("unknown tenant gets 404", func(t *testing.T) {
		t.Parallel()

		provider := &fakeProvider{}
		gate := tenant.NewGate("rentals.io", provider)

		rec, _ := serve(gate, "ghost.rentals.io")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("inactive tenant gets 403", func(t *testing.T) {
		t.Parallel()

		acme := acmeTenant()
		acme.Status = tenant.StatusSuspended
		provider := &fakeProvider{tenants: []*tenant.Tenant{acme}}
		gate := tenant.NewGate("rentals.io", provider)

		rec, _ := serve(gate, "acme.rentals.io")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestGateRequireMainDomain(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{tenants: []*tenant.Tenant{acmeTenant()}}
	gate := tenant.NewGate("rentals.io", provider)

	handler := gate.RequireMainDomain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	serve := func(host string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "http://"+host+"/api/admin/tenants", nil)
		req.Host = host
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, serve("rentals.io").Code)
	assert.Equal(t, http.StatusOK, serve("www.rentals.io").Code)
	assert.Equal(t, http.StatusNotFound, serve("acme.rentals.io").Code,
		"admin tree must be invisible on tenant domains")
	assert.Equal(t, http.StatusNotFound, serve("rent.acme-cars.com").Code)
}
