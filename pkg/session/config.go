package session

import "time"

// Config holds session manager configuration.
type Config struct {
	// CookieName is the name of the session cookie.
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"auth_session"`

	// Duration is the full lifetime of a session. A session whose
	// remaining lifetime drops below half of this window gets its expiry
	// rotated on the next validation.
	Duration time.Duration `env:"SESSION_DURATION" envDefault:"504h"`

	// Development disables the Secure cookie flag and enables loud
	// misconfiguration errors.
	Development bool `env:"AUTH_DEV_MODE" envDefault:"false"`

	// CleanupInterval for the bundled memory store (0 disables the loop).
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"5m"`
}

// DefaultConfig returns the default session configuration: a three week
// session window and production cookie flags.
func DefaultConfig() Config {
	return Config{
		CookieName:      "auth_session",
		Duration:        504 * time.Hour,
		Development:     false,
		CleanupInterval: 5 * time.Minute,
	}
}
