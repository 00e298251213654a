package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rentora/rentora/pkg/config"
	"github.com/rentora/rentora/pkg/email"
	"github.com/rentora/rentora/pkg/httpserver"
	"github.com/rentora/rentora/pkg/logger"
	"github.com/rentora/rentora/pkg/mongo"
	"github.com/rentora/rentora/pkg/plans"
	"github.com/rentora/rentora/pkg/ratelimit"
	"github.com/rentora/rentora/pkg/redis"
	"github.com/rentora/rentora/pkg/requestid"
	"github.com/rentora/rentora/pkg/session"
	"github.com/rentora/rentora/pkg/tenant"
	"github.com/rentora/rentora/svc/auth"
	"github.com/rentora/rentora/svc/fleet"
	"github.com/rentora/rentora/svc/tenants"
)

type appConfig struct {
	Env       string `env:"APP_ENV" envDefault:"development"` // Env selects log format: "production" or "development".
	PlansFile string `env:"PLANS_FILE"`                       // PlansFile optionally overrides the built-in plan catalog.
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		appCfg     appConfig
		httpCfg    httpserver.Config
		mongoCfg   mongo.Config
		redisCfg   redis.Config
		sessionCfg session.Config
		emailCfg   email.Config
		authCfg    auth.Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&httpCfg)
	config.MustLoad(&mongoCfg)
	config.MustLoad(&redisCfg)
	config.MustLoad(&sessionCfg)
	config.MustLoad(&emailCfg)
	config.MustLoad(&authCfg)

	logOption := logger.WithDevelopment("rentora")
	if appCfg.Env == "production" {
		logOption = logger.WithProduction("rentora")
	}
	log := logger.New(
		logOption,
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			tenant.LoggerExtractor(),
			session.LoggerExtractor,
		),
	)
	slog.SetDefault(log)

	db, err := mongo.NewWithDatabase(ctx, mongoCfg, mongoCfg.Database)
	if err != nil {
		return fmt.Errorf("connect mongodb: %w", err)
	}
	defer func() { _ = db.Client().Disconnect(context.Background()) }()

	redisClient, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() { _ = redisClient.Close() }()

	tenantStore := tenants.NewMongoStore(db)
	userStore := auth.NewMongoStore(db)
	fleetStore := fleet.NewMongoStore(db)
	for _, idx := range []interface {
		EnsureIndexes(context.Context) error
	}{tenantStore, userStore, fleetStore} {
		if err := idx.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("ensure indexes: %w", err)
		}
	}

	catalog := plans.MustCatalog(plans.Builtin())
	if appCfg.PlansFile != "" {
		if catalog, err = plans.LoadFile(appCfg.PlansFile); err != nil {
			return fmt.Errorf("load plan catalog: %w", err)
		}
	}

	var mailer email.Sender
	if emailCfg.PostmarkServerToken != "" {
		if mailer, err = email.NewPostmarkSender(emailCfg); err != nil {
			return fmt.Errorf("configure mailer: %w", err)
		}
	} else {
		mailer = email.NewDevSender(emailCfg.DevOutputDir)
	}

	cache := tenant.NewRedisCache(redisClient, log)
	provider := tenants.NewProvider(tenantStore)
	sessions := session.NewManager(
		session.NewRedisStore(redisClient),
		session.NewCookieTransport(sessionCfg.CookieName, sessionCfg.SecureCookies),
		sessionCfg,
	)

	authSvc := auth.NewService(userStore, provider, authCfg,
		auth.WithLogger(log.With(logger.Component("auth"))))
	tenantSvc := tenants.NewService(tenantStore, catalog, authSvc, authCfg.BaseDomain,
		tenants.WithCache(cache, tenant.DefaultValidationTTL),
		tenants.WithMailer(mailer),
		tenants.WithLogger(log.With(logger.Component("tenants"))),
	)
	fleetSvc := fleet.NewService(fleetStore, tenantSvc,
		fleet.WithLogger(log.With(logger.Component("fleet"))))

	gate := tenant.NewGate(authCfg.BaseDomain, provider,
		tenant.WithCache(cache),
		tenant.WithSessionInfo(sessions.Info),
		tenant.WithLogger(log.With(logger.Component("gate"))),
	)

	tenantHandler := tenants.NewHandler(tenantSvc)
	authHandler := auth.NewHandler(authSvc, sessions)
	fleetHandler := fleet.NewHandler(fleetSvc,
		fleet.WithVehicleGuard(auth.RequireRole(auth.RoleAdmin, auth.RoleSuperAdmin)),
		fleet.WithBookingGuard(auth.RequireRole(auth.RoleAdmin, auth.RoleSuperAdmin, auth.RoleClient)),
	)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestid.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(gate.Middleware)
	r.Use(sessions.Middleware())

	loginLimiter, err := ratelimit.NewFixedWindow(
		ratelimit.NewRedisStore(redisClient),
		ratelimit.Config{Limit: 10, Window: time.Minute},
	)
	if err != nil {
		return fmt.Errorf("configure login limiter: %w", err)
	}

	r.With(ratelimit.Middleware(loginLimiter, ratelimit.ByHost)).
		Route("/auth", authHandler.Routes)
	r.Route("/api/tenant", tenantHandler.ValidateRoutes)
	r.With(gate.RequireMainDomain, auth.RequireRole(auth.RoleSuperAdmin)).
		Route("/api/admin/tenants", tenantHandler.AdminRoutes)
	r.With(gate.RequireTenant).Route("/api/vehicles", fleetHandler.VehicleRoutes)
	r.With(gate.RequireTenant).Route("/api/bookings", fleetHandler.BookingRoutes)
	tenants.ErrorPages(r)

	checks := map[string]func(context.Context) error{
		"mongodb": mongo.Healthcheck(db.Client()),
		"redis":   redis.Healthcheck(redisClient),
	}
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		for name, check := range checks {
			if err := check(req.Context()); err != nil {
				log.LogAttrs(req.Context(), slog.LevelError, "healthcheck failed",
					logger.Component(name), logger.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusNoContent)
	})

	return httpserver.New(httpCfg, log).Run(ctx, r)
}
