package session

import "errors"

var (
	// ErrSessionNotFound indicates no session exists for the given id.
	ErrSessionNotFound = errors.New("session: not found")

	// ErrUserNotFound indicates the session references a missing user.
	ErrUserNotFound = errors.New("session: user not found")

	// ErrStoreUnavailable indicates the store failed. It is propagated to
	// the caller as-is; retry policy belongs to the store, not this package.
	ErrStoreUnavailable = errors.New("session: store unavailable")

	// ErrTokenGeneration indicates the random source failed.
	ErrTokenGeneration = errors.New("session: token generation failed")

	// ErrMiddlewareNotInstalled indicates a handler that requires the auth
	// middleware ran on a request pipeline where it was never mounted.
	ErrMiddlewareNotInstalled = errors.New("session: auth middleware not installed")

	// ErrOriginMismatch indicates a state-changing request failed the
	// Origin/Host check.
	ErrOriginMismatch = errors.New("session: origin mismatch")

	// ErrUnauthenticated indicates no authenticated session in the request
	// context.
	ErrUnauthenticated = errors.New("session: unauthenticated")
)
