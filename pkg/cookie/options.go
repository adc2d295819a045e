package cookie

import (
	"net/http"
	"time"
)

// Option mutates a cookie under construction.
type Option func(*http.Cookie)

func WithPath(path string) Option {
	return func(c *http.Cookie) {
		c.Path = path
	}
}

func WithDomain(domain string) Option {
	return func(c *http.Cookie) {
		c.Domain = domain
	}
}

func WithMaxAge(seconds int) Option {
	return func(c *http.Cookie) {
		c.MaxAge = seconds
	}
}

func WithExpires(t time.Time) Option {
	return func(c *http.Cookie) {
		c.Expires = t
	}
}

func WithSecure(secure bool) Option {
	return func(c *http.Cookie) {
		c.Secure = secure
	}
}

func WithHTTPOnly(httpOnly bool) Option {
	return func(c *http.Cookie) {
		c.HttpOnly = httpOnly
	}
}

func WithSameSite(sameSite http.SameSite) Option {
	return func(c *http.Cookie) {
		c.SameSite = sameSite
	}
}
