package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/authkit-go/authkit/pkg/session"
)

// RouterOptions configures which sign-in flows to mount. Each handler is
// optional and only mounted when provided.
type RouterOptions struct {
	Manager *session.Manager

	// SignIn and SignUp are password handlers built with auth.Password.
	SignIn http.Handler
	SignUp http.Handler

	// Google and GitHub are OAuth handlers built with auth.OAuth.
	Google http.Handler
	GitHub http.Handler

	Logger *slog.Logger
}

// Router builds the authentication sub-router. Mount it under /api/auth on
// a router where Manager.Middleware already runs:
//
//	r := chi.NewRouter()
//	r.Use(manager.Middleware)
//	r.Mount("/api/auth", auth.Router(auth.RouterOptions{
//		Manager: manager,
//		SignIn:  auth.Password(manager, signInCfg),
//		Google:  auth.OAuth(manager, googleAdapter, oauthCfg),
//	}))
func Router(opts RouterOptions) chi.Router {
	var handlerOpts []HandlerOption
	if opts.Logger != nil {
		handlerOpts = append(handlerOpts, WithLogger(opts.Logger))
	}

	r := chi.NewRouter()

	r.Method(http.MethodGet, "/session", SessionHandler())
	r.Method(http.MethodDelete, "/session", SessionDeleteHandler(opts.Manager, handlerOpts...))

	if opts.SignIn != nil {
		r.Handle("/login", opts.SignIn)
	}
	if opts.SignUp != nil {
		r.Handle("/signup", opts.SignUp)
	}
	if opts.Google != nil {
		r.Handle("/google", opts.Google)
	}
	if opts.GitHub != nil {
		r.Handle("/github", opts.GitHub)
	}

	return r
}
