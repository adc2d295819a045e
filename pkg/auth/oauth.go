package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"

	"github.com/authkit-go/authkit/pkg/cookie"
	"github.com/authkit-go/authkit/pkg/session"
)

// Transient cookie names used between the authorization redirect and the
// callback. Both live for ten minutes and are consumed on the callback.
const (
	stateCookieName    = "oauth_state"
	verifierCookieName = "oauth_code_verifier"

	transientCookieMaxAge = 600
)

// ProviderAdapter is the capability interface an OAuth provider implements.
// Adapters own URL construction, the code-for-token exchange and the
// profile fetch; the flow handler owns the state machine around them.
type ProviderAdapter interface {
	// ProviderID returns the provider identifier ("google", "github").
	ProviderID() string

	// UsesPKCE reports whether the provider flow carries a PKCE verifier.
	UsesPKCE() bool

	// Scopes returns the scopes requested from the provider.
	Scopes() []string

	// AuthCodeURL builds the authorization URL for the given state token
	// and, for PKCE providers, verifier.
	AuthCodeURL(state, verifier string) string

	// Exchange trades the authorization code for tokens.
	Exchange(ctx context.Context, code, verifier string) (*oauth2.Token, error)

	// FetchProfile retrieves the provider's user profile with the access
	// token.
	FetchProfile(ctx context.Context, token *oauth2.Token) (*Profile, error)
}

// OAuthConfig configures an OAuth sign-in handler.
type OAuthConfig struct {
	// Authorize receives the provider profile, the normalized account
	// record and the raw tokens, and owns find-or-create of the local
	// user plus linking the external account. Returning nil authenticates
	// nobody; the flow still redirects home without surfacing an error.
	Authorize func(ctx context.Context, r *http.Request, profile *Profile, account Account, token *oauth2.Token) (*Authorized, error)

	// AuthorizationParams are extra query parameters appended to the
	// authorization URL.
	AuthorizationParams map[string]string
}

type oauthHandler struct {
	manager *session.Manager
	adapter ProviderAdapter
	cfg     OAuthConfig
	cookies *cookie.Manager
	opts    handlerOptions
}

// OAuth returns a handler implementing the two-phase redirect flow for the
// given provider adapter: without a code query parameter it stores state
// (and PKCE verifier) cookies and redirects to the provider; with one it
// verifies the state, exchanges the code, fetches the profile and hands the
// result to the Authorize callback.
func OAuth(manager *session.Manager, adapter ProviderAdapter, cfg OAuthConfig, opts ...HandlerOption) http.Handler {
	h := &oauthHandler{
		manager: manager,
		adapter: adapter,
		cfg:     cfg,
		cookies: cookie.New(),
		opts:    defaultHandlerOptions(),
	}
	for _, opt := range opts {
		opt(&h.opts)
	}
	return h
}

func (h *oauthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, ok := session.FromContext(r.Context()); !ok {
		respondNotInstalled(w, h.opts.log, h.manager.Config().Development, "auth.OAuth")
		return
	}

	if r.URL.Query().Get("code") == "" {
		h.beginFlow(w, r)
		return
	}
	h.finishFlow(w, r)
}

// beginFlow is phase one: generate the one-time tokens, park them in
// short-lived cookies and send the user-agent to the provider.
func (h *oauthHandler) beginFlow(w http.ResponseWriter, r *http.Request) {
	state, err := generateFlowToken()
	if err != nil {
		h.opts.log.ErrorContext(r.Context(), "oauth state generation failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	secure := !h.manager.Config().Development

	h.cookies.Set(w, stateCookieName, state,
		cookie.WithMaxAge(transientCookieMaxAge),
		cookie.WithSecure(secure),
	)

	var verifier string
	if h.adapter.UsesPKCE() {
		verifier = oauth2.GenerateVerifier()
		// The verifier is consumed same-origin only, so no SameSite
		// restriction is needed.
		h.cookies.Set(w, verifierCookieName, verifier,
			cookie.WithMaxAge(transientCookieMaxAge),
			cookie.WithSecure(secure),
			cookie.WithSameSite(http.SameSiteDefaultMode),
		)
	}

	target := h.adapter.AuthCodeURL(state, verifier)
	if len(h.cfg.AuthorizationParams) > 0 {
		target = withQueryParams(target, h.cfg.AuthorizationParams)
	}

	http.Redirect(w, r, target, http.StatusFound)
}

// finishFlow is phase two: verify the state against the stored cookie,
// exchange the code, fetch the profile and let the integrator decide who
// the user is.
func (h *oauthHandler) finishFlow(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	state := query.Get("state")
	storedState, err := h.cookies.Get(r, stateCookieName)
	if state == "" || err != nil || state != storedState {
		h.opts.log.WarnContext(r.Context(), "oauth callback rejected",
			"provider", h.adapter.ProviderID(), "error", ErrStateMismatch)
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	var verifier string
	if h.adapter.UsesPKCE() {
		verifier, err = h.cookies.Get(r, verifierCookieName)
		if err != nil || verifier == "" {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
	}

	// One-time use: the tokens are dead from here on, even on failure.
	h.cookies.Delete(w, stateCookieName)
	if h.adapter.UsesPKCE() {
		h.cookies.Delete(w, verifierCookieName)
	}

	token, err := h.adapter.Exchange(r.Context(), query.Get("code"), verifier)
	if err != nil {
		h.opts.log.WarnContext(r.Context(), "oauth code exchange failed",
			"provider", h.adapter.ProviderID(), "error", err)
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	profile, err := h.adapter.FetchProfile(r.Context(), token)
	if err != nil {
		h.opts.log.ErrorContext(r.Context(), "oauth profile fetch failed",
			"provider", h.adapter.ProviderID(), "error", err)
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}

	idToken, _ := token.Extra("id_token").(string)
	account := Account{
		Type:                 AccountTypeOIDC,
		ProviderID:           h.adapter.ProviderID(),
		ProviderAccountID:    profile.ProviderAccountID,
		AccessToken:          token.AccessToken,
		RefreshToken:         token.RefreshToken,
		AccessTokenExpiresAt: token.Expiry,
		IDToken:              idToken,
		Scope:                strings.Join(h.adapter.Scopes(), " "),
		SessionState:         storedState,
	}

	var authorized *Authorized
	if h.cfg.Authorize != nil {
		authorized, err = h.cfg.Authorize(r.Context(), r, profile, account, token)
		if err != nil {
			h.opts.log.ErrorContext(r.Context(), "oauth authorize failed",
				"provider", h.adapter.ProviderID(), "error", err)

			var httpErr *Error
			if errors.As(err, &httpErr) {
				http.Error(w, httpErr.Message, httpErr.Status)
				return
			}
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
	}

	if authorized != nil {
		sess, err := h.manager.Create(r.Context(), authorized.UserID, nil)
		if err != nil {
			h.opts.log.ErrorContext(r.Context(), "session create failed", "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		http.SetCookie(w, h.manager.SessionCookie(sess))
	}

	// A nil authorize result redirects home without authenticating and
	// without an error marker, so callers cannot probe whether an account
	// exists.
	http.Redirect(w, r, "/", http.StatusFound)
}

// generateFlowToken creates the random state token for one flow.
func generateFlowToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// withQueryParams appends extra query parameters to a URL.
func withQueryParams(target string, params map[string]string) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
