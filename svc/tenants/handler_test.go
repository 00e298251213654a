package tenants_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentora/rentora/pkg/plans"
	"github.com/rentora/rentora/pkg/tenant"
	"github.com/rentora/rentora/svc/tenants"
)

func newRouter(t *testing.T) (*chi.Mux, *tenants.Service, *tenants.MemoryStore) {
	t.Helper()

	svc, store, _ := newService(t)
	h := tenants.NewHandler(svc)

	r := chi.NewRouter()
	r.Route("/api/tenant", h.ValidateRoutes)
	r.Route("/api/admin/tenants", h.AdminRoutes)
	tenants.ErrorPages(r)
	return r, svc, store
}

func TestValidateEndpoint(t *testing.T) {
	t.Parallel()

	router, svc, _ := newRouter(t)
	created := provision(t, svc, "acme")

	t.Run("active tenant is cacheable", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tenant/validate?hostname=acme.rentals.io", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Cache-Control"), "max-age=300")
		assert.Contains(t, w.Header().Get("Cache-Control"), "stale-while-revalidate=600")

		var v tenant.Validation
		require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
		assert.True(t, v.Valid)
		assert.Equal(t, created.ID, v.TenantID)
	})

	t.Run("falls back to request host", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/api/tenant/validate", nil)
		r.Host = "acme.rentals.io"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		var v tenant.Validation
		require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
		assert.True(t, v.Valid)
	})

	t.Run("unknown hostname still 200", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tenant/validate?hostname=ghost.rentals.io", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var v tenant.Validation
		require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
		assert.False(t, v.Valid)
		assert.Equal(t, tenant.ValidationNotFound, v.Status)
	})
}

func TestAdminCRUD(t *testing.T) {
	t.Parallel()

	router, _, store := newRouter(t)

	body, _ := json.Marshal(tenants.ProvisionParams{
		Name:       "Acme Cars",
		Slug:       "acme",
		OwnerEmail: "owner@acme-cars.com",
		Plan:       plans.TierStarter,
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/admin/tenants/", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, w.Code)

	var created tenant.Tenant
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.Equal(t, "acme.rentals.io", created.PrimaryDomain)

	t.Run("get includes usage", func(t *testing.T) {
		store.SetCounts(created.ID, tenants.Counts{Users: 3, Vehicles: 7})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/tenants/"+created.ID.String(), nil))
		require.Equal(t, http.StatusOK, w.Code)

		var overview tenants.Overview
		require.NoError(t, json.NewDecoder(w.Body).Decode(&overview))
		assert.Equal(t, created.ID, overview.Tenant.ID)
		assert.Equal(t, int64(3), overview.Users)
		assert.Equal(t, int64(7), overview.Vehicles)
	})

	t.Run("list includes usage", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/tenants/", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var overviews []tenants.Overview
		require.NoError(t, json.NewDecoder(w.Body).Decode(&overviews))
		require.Len(t, overviews, 1)
		assert.Equal(t, created.ID, overviews[0].Tenant.ID)
	})

	t.Run("duplicate slug conflicts", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/admin/tenants/", bytes.NewReader(body)))
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("update", func(t *testing.T) {
		update, _ := json.Marshal(map[string]any{"name": "Acme Rentals"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/admin/tenants/"+created.ID.String(), bytes.NewReader(update)))
		require.Equal(t, http.StatusOK, w.Code)

		var updated tenant.Tenant
		require.NoError(t, json.NewDecoder(w.Body).Decode(&updated))
		assert.Equal(t, "Acme Rentals", updated.Name)
	})

	t.Run("delete then 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/admin/tenants/"+created.ID.String(), nil))
		require.Equal(t, http.StatusNoContent, w.Code)

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/tenants/"+created.ID.String(), nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/tenants/not-a-uuid", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestErrorPages(t *testing.T) {
	t.Parallel()

	router, _, _ := newRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tenant-not-found", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Agency not found")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tenant-inactive", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "unavailable")
}

func TestProviderAdapter(t *testing.T) {
	t.Parallel()

	store := tenants.NewMemoryStore()
	provider := tenants.NewProvider(store)

	svc := tenants.NewService(store, plans.MustCatalog(plans.Builtin()), newFakeOwners(), baseDomain)
	created := provision(t, svc, "acme")

	t.Run("resolves active by primary domain", func(t *testing.T) {
		got, err := provider.ResolveActive(context.Background(), "acme.rentals.io", "acme")
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("inactive hidden from ResolveActive but visible to Resolve", func(t *testing.T) {
		suspended := tenant.StatusSuspended
		_, err := svc.Update(context.Background(), created.ID, tenants.UpdateParams{Status: &suspended})
		require.NoError(t, err)

		_, err = provider.ResolveActive(context.Background(), "acme.rentals.io", "acme")
		assert.ErrorIs(t, err, tenant.ErrTenantNotFound)

		got, err := provider.Resolve(context.Background(), "acme.rentals.io", "acme")
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("missing tenant", func(t *testing.T) {
		t.Parallel()

		_, err := provider.Resolve(context.Background(), "ghost.rentals.io", "ghost")
		assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
	})
}
