package session

import "time"

// Config holds session manager settings.
type Config struct {
	CookieName      string        `env:"SESSION_COOKIE_NAME" envDefault:"rentora_session"`
	TTL             time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	SecureCookies   bool          `env:"SESSION_SECURE_COOKIES" envDefault:"true"`
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"10m"`
}
