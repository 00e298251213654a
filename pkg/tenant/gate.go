package tenant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

// Decision is the outcome of one gate stage: either the request proceeds or
// it is redirected to a target path.
type Decision struct {
	Allow  bool
	Target string
}

var proceed = Decision{Allow: true}

func redirect(target string) Decision {
	return Decision{Target: target}
}

// SessionInfoFunc reports the session role and whether the request carries an
// authenticated session. The gate never inspects session internals itself.
type SessionInfoFunc func(r *http.Request) (role string, authenticated bool)

// Gate is the per-request tenant and access gate. Each inbound request passes
// through a fixed stage sequence: bypass, domain classification, tenant
// gating, role gating, auth gating. Tenant gating always runs before role and
// auth gating, so an inactive or nonexistent tenant never exposes even a
// login form.
type Gate struct {
	baseDomain string
	provider   Provider
	cfg        *gateConfig
}

// NewGate creates a request gate for the given base domain and tenant
// provider.
func NewGate(baseDomain string, provider Provider, opts ...GateOption) *Gate {
	cfg := defaultGateConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Gate{
		baseDomain: Normalize(baseDomain),
		provider:   provider,
		cfg:        cfg,
	}
}

// Middleware wires the gate into an HTTP middleware chain.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if g.Bypassed(path) {
			next.ServeHTTP(w, r)
			return
		}

		host := Normalize(r.Host)
		isMain := IsMainDomain(host, g.baseDomain)

		if !isMain {
			decision, info := g.TenantGate(r.Context(), host)
			if !decision.Allow {
				http.Redirect(w, r, decision.Target, http.StatusFound)
				return
			}
			r = r.WithContext(WithInfo(r.Context(), info))
		}

		role, authenticated := g.cfg.sessionInfo(r)

		if decision := g.RoleGate(path, isMain, role, authenticated); !decision.Allow {
			http.Redirect(w, r, decision.Target, http.StatusFound)
			return
		}

		if decision := g.AuthGate(path, authenticated); !decision.Allow {
			http.Redirect(w, r, decision.Target, http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireTenant resolves and attaches the tenant for API routes, which the
// redirect-based gating bypasses. Failures produce JSON errors: main-domain
// requests 400, unknown tenants 404, inactive ones 403.
func (g *Gate) RequireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := Normalize(r.Host)
		if IsMainDomain(host, g.baseDomain) {
			writeJSONError(w, http.StatusBadRequest, "tenant domain required")
			return
		}

		decision, info := g.TenantGate(r.Context(), host)
		if !decision.Allow {
			if decision.Target == g.cfg.inactivePath {
				writeJSONError(w, http.StatusForbidden, "tenant inactive")
			} else {
				writeJSONError(w, http.StatusNotFound, "tenant not found")
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(WithInfo(r.Context(), info)))
	})
}

// RequireMainDomain restricts an API tree to the platform's main domain.
// Requests arriving on tenant or unknown hostnames get 404, keeping the
// tree invisible outside the main domain.
func (g *Gate) RequireMainDomain(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsMainDomain(Normalize(r.Host), g.baseDomain) {
			writeJSONError(w, http.StatusNotFound, "not found")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, "{\"error\":%q}\n", message)
}

// Bypassed reports whether the path skips tenant gating entirely: error
// pages, the validation endpoint, API routes (which enforce their own tenant
// checks and return structured errors), and static assets.
func (g *Gate) Bypassed(path string) bool {
	for _, prefix := range g.cfg.bypassPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// TenantGate resolves and validates the tenant for a non-main hostname.
// Outcomes: valid-active proceeds with the tenant attached; not_found and
// inactive redirect to their error pages. A store failure fails closed as
// not_found and is never cached.
func (g *Gate) TenantGate(ctx context.Context, host string) (Decision, *Info) {
	host = Normalize(host)
	slug := Slug(host, g.baseDomain)

	if v, ok := g.cfg.cache.Get(ctx, host); ok {
		switch {
		case v.Valid:
			return proceed, &Info{ID: v.TenantID, Slug: v.Slug, Hostname: host}
		case v.Status == ValidationInactive:
			return redirect(g.cfg.inactivePath), nil
		default:
			return redirect(g.cfg.notFoundPath), nil
		}
	}

	t, err := g.provider.ResolveActive(ctx, host, slug)
	switch {
	case err == nil:
		g.cfg.cache.Set(ctx, host, Validation{
			Valid:    true,
			Status:   ValidationActive,
			TenantID: t.ID,
			Slug:     t.Slug,
		}, g.cfg.cacheTTL)
		return proceed, &Info{ID: t.ID, Slug: t.Slug, Hostname: host}

	case errors.Is(err, ErrTenantNotFound):
		// Distinguish a missing tenant from an inactive one.
		if _, anyErr := g.provider.Resolve(ctx, host, slug); anyErr == nil {
			g.cfg.cache.Set(ctx, host, Validation{Status: ValidationInactive}, g.cfg.cacheTTL)
			return redirect(g.cfg.inactivePath), nil
		} else if !errors.Is(anyErr, ErrTenantNotFound) {
			g.cfg.logger.ErrorContext(ctx, "tenant lookup failed, failing closed",
				slog.String("hostname", host), slog.Any("error", anyErr))
			return redirect(g.cfg.notFoundPath), nil
		}
		g.cfg.cache.Set(ctx, host, Validation{Status: ValidationNotFound}, g.cfg.cacheTTL)
		return redirect(g.cfg.notFoundPath), nil

	default:
		// Store unavailable. Fail closed, and do not cache the transient
		// failure as a durable not_found.
		g.cfg.logger.ErrorContext(ctx, "tenant lookup failed, failing closed",
			slog.String("hostname", host), slog.Any("error", err))
		return redirect(g.cfg.notFoundPath), nil
	}
}

// RoleGate guards the privileged sub-trees. The super-admin area is reachable
// only from the main domain; the admin area requires an admin or super-admin
// session.
func (g *Gate) RoleGate(path string, isMain bool, role string, authenticated bool) Decision {
	if strings.HasPrefix(path, g.cfg.superAdminPrefix) {
		if !isMain {
			return redirect(g.cfg.homePath)
		}
		if path == g.cfg.superAdminLoginPath {
			if authenticated && role == g.cfg.superAdminRole {
				return redirect(g.cfg.superAdminPrefix)
			}
			return proceed
		}
		if !authenticated || role != g.cfg.superAdminRole {
			return redirect(g.cfg.superAdminLoginPath)
		}
		return proceed
	}

	if strings.HasPrefix(path, g.cfg.adminPrefix) {
		for _, allowed := range g.cfg.adminRoles {
			if authenticated && role == allowed {
				return proceed
			}
		}
		return redirect(g.cfg.dashboardPath)
	}

	return proceed
}

// AuthGate requires a session for everything outside the public allow-list.
func (g *Gate) AuthGate(path string, authenticated bool) Decision {
	if authenticated || g.isPublic(path) {
		return proceed
	}
	return redirect(g.cfg.loginPath)
}

func (g *Gate) isPublic(path string) bool {
	if path == "/" {
		return true
	}
	for _, prefix := range g.cfg.publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
