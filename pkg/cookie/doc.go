// Package cookie provides a small cookie manager with secure-by-default
// attributes (Path=/, HttpOnly, SameSite=Lax) and functional options for
// overriding them per cookie.
//
// Values are stored as-is. The session and OAuth packages only ever put
// high-entropy random tokens into cookies, so no signing or encryption
// layer is applied here.
package cookie
