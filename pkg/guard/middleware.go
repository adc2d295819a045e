package guard

import (
	"net/http"

	"github.com/authkit-go/authkit/pkg/session"
)

// RouteResolver maps an incoming request to the route being navigated and
// its auth configuration. Returning a nil RouteConfig applies the default
// (authentication required).
type RouteResolver func(r *http.Request) (Route, *RouteConfig)

// Middleware applies the guard to server-side navigations. It expects the
// session middleware to have run earlier in the chain; without it every
// request is treated as unauthenticated.
func (g *Guard) Middleware(resolve RouteResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, rc := resolve(r)

			a, _ := session.FromContext(r.Context())
			decision := g.Decide(a.User, route, rc)

			if decision.Allow {
				next.ServeHTTP(w, r)
				return
			}

			http.Redirect(w, r, decision.RedirectTo, http.StatusFound)
		})
	}
}
