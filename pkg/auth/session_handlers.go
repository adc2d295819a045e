package auth

import (
	"encoding/json"
	"net/http"

	"github.com/authkit-go/authkit/pkg/session"
)

// SessionHandler serves the current user as JSON, or 401 when the request
// carries no valid session. Client-side synchronizers poll this endpoint
// exactly once per navigation lifecycle.
func SessionHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a, ok := session.FromContext(r.Context())
		if !ok || !a.Authenticated() {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(a.User)
	})
}

// SessionDeleteHandler signs the user out: it invalidates the session,
// clears the cookie, and answers 204 (or redirects back for form
// submissions).
func SessionDeleteHandler(manager *session.Manager, opts ...HandlerOption) http.Handler {
	o := defaultHandlerOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a, ok := session.FromContext(r.Context())
		if !ok || !a.Authenticated() {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		if err := manager.Invalidate(r.Context(), a.Session.ID); err != nil {
			o.log.ErrorContext(r.Context(), "session invalidate failed", "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		http.SetCookie(w, manager.BlankCookie())

		if isFormSubmit(r) {
			target := r.Referer()
			if target == "" {
				target = "/"
			}
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}
