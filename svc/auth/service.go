package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rentora/rentora/pkg/tenant"
)

// Config holds authentication settings. SuperAdminHostname is the internal
// hostname reserved for platform operator sign-in; it never resolves to a
// tenant.
type Config struct {
	SuperAdminHostname string `env:"SUPER_ADMIN_HOSTNAME" envDefault:"admin.internal"`
	BaseDomain         string `env:"BASE_DOMAIN" envDefault:"rentals.io"`
}

// Service authenticates users. The hostname a login request arrives on
// decides which account namespace the email is looked up in.
type Service struct {
	store    UserStore
	provider tenant.Provider
	cfg      Config
	log      *slog.Logger
}

// Option configures optional service dependencies.
type Option func(*Service)

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

func NewService(store UserStore, provider tenant.Provider, cfg Config, opts ...Option) *Service {
	cfg.SuperAdminHostname = tenant.Normalize(cfg.SuperAdminHostname)
	cfg.BaseDomain = tenant.Normalize(cfg.BaseDomain)

	s := &Service{
		store:    store,
		provider: provider,
		cfg:      cfg,
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Authenticate verifies credentials within the namespace the hostname maps
// to:
//
//   - the reserved super admin hostname looks up platform super admins;
//   - a resolved tenant domain looks up that tenant's users only, so the
//     same email on two tenants can never cross over;
//   - the main marketing domain falls back to accounts predating tenant
//     scoping (admin and client roles);
//   - any other hostname is rejected outright.
//
// A missing user and a wrong password are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, hostname, email, password string) (*User, error) {
	host := tenant.Normalize(hostname)
	email = strings.TrimSpace(strings.ToLower(email))

	var (
		u   *User
		err error
	)
	switch {
	case host == s.cfg.SuperAdminHostname:
		u, err = s.store.GetSuperAdmin(ctx, email)

	case tenant.IsMainDomain(host, s.cfg.BaseDomain):
		u, err = s.store.GetLegacyUser(ctx, email, []Role{RoleAdmin, RoleClient})

	default:
		t, resolveErr := s.provider.ResolveActive(ctx, host, tenant.Slug(host, s.cfg.BaseDomain))
		if resolveErr != nil {
			if !errors.Is(resolveErr, tenant.ErrTenantNotFound) {
				s.log.ErrorContext(ctx, "tenant resolution failed during login",
					slog.String("hostname", host), slog.Any("error", resolveErr))
			}
			return nil, ErrDomainNotConfigured
		}
		u, err = s.store.GetTenantUser(ctx, t.ID, email)
	}

	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !VerifyPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if !u.Active {
		return nil, ErrUserInactive
	}

	s.log.InfoContext(ctx, "user authenticated",
		slog.String("user_id", u.ID.String()),
		slog.String("role", string(u.Role)),
		slog.String("hostname", host),
	)
	return u, nil
}

// CreateUserParams describes a new account.
type CreateUserParams struct {
	Email    string
	Password string
	Name     string
	Role     Role
	TenantID *uuid.UUID
}

// CreateUser registers an account. Super admins must not carry a tenant id;
// every other role must.
func (s *Service) CreateUser(ctx context.Context, params CreateUserParams) (*User, error) {
	if !params.Role.Valid() {
		return nil, ErrInvalidRole
	}
	if (params.Role == RoleSuperAdmin) != (params.TenantID == nil) {
		return nil, ErrInvalidRole
	}

	email := strings.TrimSpace(strings.ToLower(params.Email))
	taken, err := s.store.EmailTaken(ctx, params.TenantID, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         params.Name,
		Role:         params.Role,
		TenantID:     params.TenantID,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// CreateOwner provisions the first admin of a new tenant. An empty password
// gets a random placeholder the owner replaces through the invitation link.
// Emails already registered as platform super admins are rejected, so a
// tenant invite can never shadow a privileged account.
func (s *Service) CreateOwner(ctx context.Context, tenantID uuid.UUID, name, emailAddr, password string) (uuid.UUID, error) {
	if _, err := s.store.GetSuperAdmin(ctx, emailAddr); err == nil {
		return uuid.Nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return uuid.Nil, err
	}

	if password == "" {
		generated, err := generatePassword()
		if err != nil {
			return uuid.Nil, err
		}
		password = generated
	}

	u, err := s.CreateUser(ctx, CreateUserParams{
		Email:    emailAddr,
		Password: password,
		Name:     name,
		Role:     RoleAdmin,
		TenantID: &tenantID,
	})
	if err != nil {
		return uuid.Nil, err
	}
	return u.ID, nil
}
