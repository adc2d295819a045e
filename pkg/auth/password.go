package auth

import (
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/authkit-go/authkit/pkg/session"
)

// PasswordConfig configures a password sign-in (or sign-up) handler.
type PasswordConfig struct {
	// Authorize owns credential verification against the application's
	// store: for sign-in it compares the submitted password against the
	// stored hash, for sign-up it creates the account. Returning nil with
	// a nil error means the credentials were rejected.
	Authorize func(r *http.Request) (*Authorized, error)
}

type passwordHandler struct {
	manager *session.Manager
	cfg     PasswordConfig
	opts    handlerOptions
}

// Password returns a handler implementing the password sign-in flow. The
// same handler serves sign-up: mount it twice with an Authorize callback
// that creates the account instead of verifying it.
//
// The auth middleware must already have run on the request; a missing
// context value is a configuration error surfaced loudly in development
// and as an opaque bad request in production.
func Password(manager *session.Manager, cfg PasswordConfig, opts ...HandlerOption) http.Handler {
	h := &passwordHandler{
		manager: manager,
		cfg:     cfg,
		opts:    defaultHandlerOptions(),
	}
	for _, opt := range opts {
		opt(&h.opts)
	}
	return h
}

func (h *passwordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	if _, ok := session.FromContext(r.Context()); !ok {
		respondNotInstalled(w, h.opts.log, h.manager.Config().Development, "auth.Password")
		return
	}

	// Send the user back where they came from unless told otherwise.
	defaultRedirect := r.Referer()
	if defaultRedirect == "" {
		defaultRedirect = "/"
	}

	authorized, err := h.cfg.Authorize(r)
	if err != nil {
		h.opts.log.DebugContext(r.Context(), "password authorize rejected", "error", err)
		respondCredentialFailure(w, r, err, defaultRedirect)
		return
	}
	if authorized == nil {
		respondCredentialFailure(w, r, ErrInvalidCredentials, defaultRedirect)
		return
	}

	sess, err := h.manager.Create(r.Context(), authorized.UserID, nil)
	if err != nil {
		h.opts.log.ErrorContext(r.Context(), "session create failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, h.manager.SessionCookie(sess))

	target := authorized.Redirect
	if target == "" {
		target = defaultRedirect
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// respondCredentialFailure applies the invalid-credentials policy: form
// submissions get redirected back with an error marker, classified errors
// keep their status, everything else becomes a generic bad request. The
// response never distinguishes "unknown user" from "wrong password".
func respondCredentialFailure(w http.ResponseWriter, r *http.Request, err error, redirect string) {
	if isFormSubmit(r) {
		http.Redirect(w, r, withErrorParam(redirect, "credentials"), http.StatusSeeOther)
		return
	}

	var httpErr *Error
	if errors.As(err, &httpErr) {
		http.Error(w, httpErr.Message, httpErr.Status)
		return
	}

	http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
}

// HashPassword hashes a password with bcrypt at the default cost.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// VerifyPassword compares a bcrypt hash against a candidate password in
// constant time. A mismatch yields ErrInvalidCredentials.
func VerifyPassword(hash []byte, password string) error {
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return errors.Join(ErrInvalidCredentials, err)
	}
	return nil
}
