package cookie

import (
	"errors"
	"net/http"
	"time"
)

// Manager bakes cookies with a set of default attributes applied to every
// cookie it produces. Per-call options override the defaults.
type Manager struct {
	defaults []Option
}

// New creates a cookie manager. Without options the defaults are
// Path=/, HttpOnly and SameSite=Lax.
func New(opts ...Option) *Manager {
	defaults := []Option{
		WithPath("/"),
		WithHTTPOnly(true),
		WithSameSite(http.SameSiteLaxMode),
	}
	return &Manager{defaults: append(defaults, opts...)}
}

// Bake builds a cookie without writing it to a response.
func (m *Manager) Bake(name, value string, opts ...Option) *http.Cookie {
	c := &http.Cookie{
		Name:  name,
		Value: value,
	}
	for _, opt := range m.defaults {
		opt(c)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Set writes a cookie to the response.
func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) {
	http.SetCookie(w, m.Bake(name, value, opts...))
}

// Get returns the value of the named request cookie.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return c.Value, nil
}

// Delete writes an expired blank cookie so the client drops the value.
func (m *Manager) Delete(w http.ResponseWriter, name string, opts ...Option) {
	opts = append(opts, WithMaxAge(-1), WithExpires(time.Unix(0, 0)))
	http.SetCookie(w, m.Bake(name, "", opts...))
}
