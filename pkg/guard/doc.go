// Package guard decides whether a navigation is allowed given the current
// authentication state and a per-route configuration: protected by default,
// opt-out per route, guest-only routes that bounce signed-in users, a 404
// bypass, and protection against self-redirect loops.
//
// Decide is a pure function usable from any routing layer; Middleware
// adapts it to server-side HTTP navigation.
package guard
