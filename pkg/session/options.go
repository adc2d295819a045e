package session

import (
	"log/slog"
	"time"

	"github.com/authkit-go/authkit/pkg/cookie"
)

// Option is a functional option for configuring the Manager.
type Option func(*Manager)

// WithStore sets the session store.
func WithStore(store Store) Option {
	return func(m *Manager) {
		m.store = store
	}
}

// WithConfig sets the full configuration.
func WithConfig(config Config) Option {
	return func(m *Manager) {
		m.config = config
	}
}

// WithCookieName sets the session cookie name.
func WithCookieName(name string) Option {
	return func(m *Manager) {
		m.config.CookieName = name
	}
}

// WithDuration sets the session lifetime window.
func WithDuration(d time.Duration) Option {
	return func(m *Manager) {
		m.config.Duration = d
	}
}

// WithDevelopment toggles development mode (plain-HTTP cookies, loud
// misconfiguration errors).
func WithDevelopment(dev bool) Option {
	return func(m *Manager) {
		m.config.Development = dev
	}
}

// WithCookieManager sets the cookie manager used for session cookies.
func WithCookieManager(cookies *cookie.Manager) Option {
	return func(m *Manager) {
		m.cookies = cookies
	}
}

// WithLogger sets the logger. Defaults to a discard logger.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}
