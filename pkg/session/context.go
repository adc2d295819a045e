package session

import "context"

// Auth is the per-request authentication context resolved by the middleware.
// Either both fields are set or both are nil; no partial state exists.
type Auth struct {
	User    *User
	Session *Session
}

// Authenticated reports whether the request carries a valid session.
// Checking the session alone is sufficient: the middleware never populates
// one field without the other.
func (a Auth) Authenticated() bool {
	return a.Session != nil
}

type authContextKey struct{}

// WithAuth returns a context carrying the resolved authentication state.
func WithAuth(ctx context.Context, a Auth) context.Context {
	return context.WithValue(ctx, authContextKey{}, a)
}

// FromContext retrieves the authentication state. ok is false only when the
// auth middleware never ran on this request, which handlers should treat as
// a configuration error rather than as "unauthenticated".
func FromContext(ctx context.Context) (Auth, bool) {
	a, ok := ctx.Value(authContextKey{}).(Auth)
	return a, ok
}

// RequireAuth returns the authenticated pair or an error suitable for a 401.
func RequireAuth(ctx context.Context) (Auth, error) {
	a, ok := FromContext(ctx)
	if !ok {
		return Auth{}, ErrMiddlewareNotInstalled
	}
	if !a.Authenticated() {
		return Auth{}, ErrUnauthenticated
	}
	return a, nil
}
