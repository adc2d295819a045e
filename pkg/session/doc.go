// Package session implements cookie-based session management for
// server-rendered web applications.
//
// The Manager is the lifecycle state machine: Validate resolves a session
// id to a (session, user) pair, lazily purging expired sessions and
// rotating the expiry once a session crosses the midpoint of its lifetime
// window; Create mints sessions on sign-in; Invalidate deletes them on
// sign-out. SessionCookie and BlankCookie produce the matching Set-Cookie
// directives.
//
// Manager.Middleware runs first on every request: it enforces an
// Origin/Host match on state-changing methods, validates the session
// cookie, writes rotation or clearing cookies, and populates the request
// context with an Auth value. The Auth pair is either fully set or fully
// nil, never partial, and handlers read it with FromContext or RequireAuth.
//
// Persistence goes through the Store interface. MemoryStore, PGStore and
// RedisStore are bundled; a deployment owning its own schema implements
// Store against it. Store failures propagate wrapped in
// ErrStoreUnavailable and are never retried here.
//
// Minimal wiring:
//
//	manager := session.New(
//		session.WithStore(store),
//		session.WithLogger(log),
//	)
//
//	r := chi.NewRouter()
//	r.Use(manager.Middleware)
package session
