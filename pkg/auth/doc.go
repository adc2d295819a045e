// Package auth provides the sign-in flows on top of the session package:
// password sign-in/sign-up and OAuth (Google, GitHub) authorization-code
// flows with state and PKCE protection.
//
// Both flows delegate identity decisions to an integrator-supplied
// Authorize callback: the password flow hands it the raw request (the
// application owns hash comparison; HashPassword/VerifyPassword are
// provided), the OAuth flow hands it the provider profile and a normalized
// Account record (the application owns find-or-create and account linking).
// On success the callback names a user id, and the flow mints a session and
// sets its cookie.
//
// Failure behavior is deliberately uninformative: invalid credentials
// produce a redirect with an error=credentials marker (form submissions)
// or a generic bad request, and an OAuth Authorize returning nil redirects
// home with no error at all, so responses never reveal whether an account
// exists.
//
// Router assembles the flows together with the GET/DELETE /session
// endpoints into a chi router for mounting under /api/auth.
package auth
