package tenant

import (
	"log/slog"
	"net/http"
	"time"
)

type gateConfig struct {
	cache    ValidationCache
	cacheTTL time.Duration
	logger   *slog.Logger

	bypassPrefixes []string
	publicPrefixes []string

	notFoundPath string
	inactivePath string
	loginPath    string
	homePath     string

	superAdminPrefix    string
	superAdminLoginPath string
	superAdminRole      string
	adminPrefix         string
	adminRoles          []string
	dashboardPath       string

	sessionInfo SessionInfoFunc
}

func defaultGateConfig() *gateConfig {
	return &gateConfig{
		cache:    NewMemoryCache(),
		cacheTTL: DefaultValidationTTL,
		logger:   slog.New(slog.DiscardHandler),

		bypassPrefixes: []string{
			"/tenant-not-found",
			"/tenant-inactive",
			"/api/",
			"/health",
			"/static/",
			"/assets/",
			"/favicon.ico",
		},
		publicPrefixes: []string{
			"/login",
			"/signup",
			"/auth/",
			"/pricing",
			"/about",
			"/contact",
			"/browse",
			"/superadmin/login",
		},

		notFoundPath: "/tenant-not-found",
		inactivePath: "/tenant-inactive",
		loginPath:    "/login",
		homePath:     "/",

		superAdminPrefix:    "/superadmin",
		superAdminLoginPath: "/superadmin/login",
		superAdminRole:      "super_admin",
		adminPrefix:         "/admin",
		adminRoles:          []string{"admin", "super_admin"},
		dashboardPath:       "/dashboard",

		sessionInfo: func(*http.Request) (string, bool) { return "", false },
	}
}

// GateOption configures the request gate.
type GateOption func(*gateConfig)

// WithCache sets the validation cache implementation.
func WithCache(cache ValidationCache) GateOption {
	return func(c *gateConfig) {
		if cache != nil {
			c.cache = cache
		}
	}
}

// WithCacheTTL sets how long validation outcomes stay cached.
func WithCacheTTL(ttl time.Duration) GateOption {
	return func(c *gateConfig) {
		if ttl > 0 {
			c.cacheTTL = ttl
		}
	}
}

// WithLogger sets the logger for lookup failures.
func WithLogger(logger *slog.Logger) GateOption {
	return func(c *gateConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithBypassPrefixes replaces the path prefixes that skip tenant gating.
func WithBypassPrefixes(prefixes ...string) GateOption {
	return func(c *gateConfig) { c.bypassPrefixes = prefixes }
}

// WithPublicPrefixes replaces the path prefixes reachable without a session.
func WithPublicPrefixes(prefixes ...string) GateOption {
	return func(c *gateConfig) { c.publicPrefixes = prefixes }
}

// WithErrorPages sets the redirect targets for failed tenant resolution.
func WithErrorPages(notFound, inactive string) GateOption {
	return func(c *gateConfig) {
		c.notFoundPath = notFound
		c.inactivePath = inactive
	}
}

// WithSessionInfo wires the session layer into role and auth gating.
func WithSessionInfo(fn SessionInfoFunc) GateOption {
	return func(c *gateConfig) {
		if fn != nil {
			c.sessionInfo = fn
		}
	}
}
