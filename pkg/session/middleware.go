package session

import (
	"errors"
	"net/http"
	"net/url"
)

// Middleware resolves the session for every request and populates the
// request context with an Auth value. It must run first in the chain.
//
// For state-changing methods it verifies the Origin header against the
// request Host before anything else; a mismatch aborts the request with
// 403. Afterwards the session cookie is validated, a rotated cookie is
// written when the expiry was extended, and a blank cookie when the cookie
// named a dead session. The context is populated on every path.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isSafeMethod(r.Method) {
			if err := verifyRequestOrigin(r); err != nil {
				m.log.WarnContext(r.Context(), "request origin rejected",
					"origin", r.Header.Get("Origin"),
					"host", r.Host,
					"method", r.Method,
				)
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
		}

		sessionID, err := m.cookies.Get(r, m.config.CookieName)
		if err != nil {
			// No cookie at all: anonymous request, nothing to clear.
			ctx := WithAuth(r.Context(), Auth{})
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		s, u, err := m.Validate(r.Context(), sessionID)
		if err != nil {
			m.log.ErrorContext(r.Context(), "session validation failed", "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		if s != nil && s.Fresh {
			http.SetCookie(w, m.SessionCookie(s))
		}
		if s == nil {
			http.SetCookie(w, m.BlankCookie())
		}

		ctx := WithAuth(r.Context(), Auth{User: u, Session: s})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// isSafeMethod reports whether the method is a safe read that skips the
// origin check.
func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// verifyRequestOrigin checks that the Origin header names the same host the
// request was sent to. Both headers are required for unsafe methods; the
// check runs regardless of whether a session cookie is present.
func verifyRequestOrigin(r *http.Request) error {
	origin := r.Header.Get("Origin")
	if origin == "" || r.Host == "" {
		return ErrOriginMismatch
	}

	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return errors.Join(ErrOriginMismatch, err)
	}
	if u.Host != r.Host {
		return ErrOriginMismatch
	}

	return nil
}
