// Package tenant implements the multi-tenant resolution and isolation core:
// hostname normalization, tenant lookup by domain or slug, a TTL'd validation
// cache, and the per-request gate that rejects requests for missing or
// inactive tenants before any business logic runs.
//
// # Request gate
//
// The gate evaluates a fixed stage sequence per request:
//
//  1. Bypass: error pages, the validation endpoint, API routes, and static
//     assets skip gating (API routes enforce their own tenant checks).
//  2. Classify: the hostname is either the main platform domain or a tenant
//     domain.
//  3. Tenant gate (tenant domains only): validation cache, then store lookup.
//     A missing tenant redirects to the not-found page, an inactive one to
//     the inactive page, and a store failure fails closed as not found.
//  4. Role gate: the super-admin area is main-domain only; the admin area
//     requires an admin or super-admin session.
//  5. Auth gate: everything outside the public allow-list requires a session.
//
// Tenant gating always runs before role and auth gating so an invalid tenant
// domain exposes nothing, not even a login form.
//
// # Caching
//
// Validation outcomes (positive and negative) are cached per hostname with a
// five-minute TTL. Admin mutations that change a tenant's status or domain
// list must invalidate every domain the tenant could have been cached under;
// the cache is an optimization, never a source of truth.
//
// # Usage
//
//	gate := tenant.NewGate(cfg.BaseDomain, store,
//		tenant.WithCache(cache),
//		tenant.WithLogger(log),
//		tenant.WithSessionInfo(sessionRole),
//	)
//	router.Use(gate.Middleware)
package tenant
