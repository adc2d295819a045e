package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/authkit-go/authkit/pkg/auth"
)

// fakeAdapter is a scriptable provider for flow tests.
type fakeAdapter struct {
	pkce        bool
	exchangeErr error
	profileErr  error

	gotCode     string
	gotVerifier string
}

func (f *fakeAdapter) ProviderID() string { return "fake" }
func (f *fakeAdapter) UsesPKCE() bool     { return f.pkce }
func (f *fakeAdapter) Scopes() []string   { return []string{"email", "profile"} }

func (f *fakeAdapter) AuthCodeURL(state, verifier string) string {
	return "https://provider.example/authorize?state=" + state
}

func (f *fakeAdapter) Exchange(ctx context.Context, code, verifier string) (*oauth2.Token, error) {
	f.gotCode = code
	f.gotVerifier = verifier
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return &oauth2.Token{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		Expiry:       time.Now().Add(time.Hour),
	}, nil
}

func (f *fakeAdapter) FetchProfile(ctx context.Context, token *oauth2.Token) (*auth.Profile, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return &auth.Profile{
		ProviderAccountID: "acct-42",
		Name:              "Ada",
		Email:             "ada@example.com",
		EmailVerified:     true,
	}, nil
}

func callbackRequest(state, cookieState string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/google?code=the-code&state="+url.QueryEscape(state), nil)
	if cookieState != "" {
		req.AddCookie(&http.Cookie{Name: "oauth_state", Value: cookieState})
	}
	return withAuthContext(req)
}

func TestOAuthBeginFlow(t *testing.T) {
	t.Parallel()

	t.Run("redirects to the provider with state parked in a cookie", func(t *testing.T) {
		t.Parallel()

		m, _ := newTestManager(t)
		h := auth.OAuth(m, &fakeAdapter{}, auth.OAuthConfig{})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, withAuthContext(httptest.NewRequest(http.MethodGet, "/google", nil)))

		require.Equal(t, http.StatusFound, rec.Code)

		target, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		state := target.Query().Get("state")
		require.NotEmpty(t, state)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "oauth_state", cookies[0].Name)
		assert.Equal(t, state, cookies[0].Value)
		assert.Equal(t, 600, cookies[0].MaxAge)
	})

	t.Run("pkce providers also park a verifier", func(t *testing.T) {
		t.Parallel()

		m, _ := newTestManager(t)
		h := auth.OAuth(m, &fakeAdapter{pkce: true}, auth.OAuthConfig{})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, withAuthContext(httptest.NewRequest(http.MethodGet, "/google", nil)))

		names := map[string]bool{}
		for _, c := range rec.Result().Cookies() {
			names[c.Name] = true
		}
		assert.True(t, names["oauth_state"])
		assert.True(t, names["oauth_code_verifier"])
	})

	t.Run("extra authorization params are appended", func(t *testing.T) {
		t.Parallel()

		m, _ := newTestManager(t)
		h := auth.OAuth(m, &fakeAdapter{}, auth.OAuthConfig{
			AuthorizationParams: map[string]string{"prompt": "consent"},
		})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, withAuthContext(httptest.NewRequest(http.MethodGet, "/google", nil)))

		target, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "consent", target.Query().Get("prompt"))
	})
}

func TestOAuthFinishFlow(t *testing.T) {
	t.Parallel()

	t.Run("state mismatch is a 400", func(t *testing.T) {
		t.Parallel()

		m, _ := newTestManager(t)
		adapter := &fakeAdapter{}
		h := auth.OAuth(m, adapter, auth.OAuthConfig{})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, callbackRequest("tampered", "original"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, adapter.gotCode, "code must not be exchanged")
	})

	t.Run("missing state cookie is a 400", func(t *testing.T) {
		t.Parallel()

		m, _ := newTestManager(t)
		h := auth.OAuth(m, &fakeAdapter{}, auth.OAuthConfig{})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, callbackRequest("some-state", ""))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("pkce callback without verifier cookie is a 400", func(t *testing.T) {
		t.Parallel()

		m, _ := newTestManager(t)
		h := auth.OAuth(m, &fakeAdapter{pkce: true}, auth.OAuthConfig{})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, callbackRequest("st", "st"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("exchange failure is a 400", func(t *testing.T) {
		t.Parallel()

		m, _ := newTestManager(t)
		h := auth.OAuth(m, &fakeAdapter{exchangeErr: auth.ErrInvalidCode}, auth.OAuthConfig{})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, callbackRequest("st", "st"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("profile failure is a 502", func(t *testing.T) {
		t.Parallel()

		m, _ := newTestManager(t)
		h := auth.OAuth(m, &fakeAdapter{profileErr: errors.New("provider down")}, auth.OAuthConfig{})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, callbackRequest("st", "st"))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("success mints a session and consumes the state", func(t *testing.T) {
		t.Parallel()

		m, store := newTestManager(t)
		adapter := &fakeAdapter{}
		userID := uuid.New()

		var gotAccount auth.Account
		h := auth.OAuth(m, adapter, auth.OAuthConfig{
			Authorize: func(ctx context.Context, r *http.Request, profile *auth.Profile, account auth.Account, token *oauth2.Token) (*auth.Authorized, error) {
				assert.Equal(t, "acct-42", profile.ProviderAccountID)
				assert.Equal(t, "access-token", token.AccessToken)
				gotAccount = account
				return &auth.Authorized{UserID: userID}, nil
			},
		})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, callbackRequest("st", "st"))

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
		assert.Equal(t, "the-code", adapter.gotCode)

		assert.Equal(t, "fake", gotAccount.ProviderID)
		assert.Equal(t, "acct-42", gotAccount.ProviderAccountID)
		assert.Equal(t, "email profile", gotAccount.Scope)

		var sessionValue string
		for _, c := range rec.Result().Cookies() {
			switch c.Name {
			case "oauth_state":
				assert.Negative(t, c.MaxAge, "state cookie must be consumed")
			case "auth_session":
				sessionValue = c.Value
			}
		}
		require.NotEmpty(t, sessionValue)

		got, err := store.GetSession(context.Background(), sessionValue)
		require.NoError(t, err)
		assert.Equal(t, userID, got.UserID)
	})

	t.Run("nil authorize result redirects home without a session", func(t *testing.T) {
		t.Parallel()

		m, _ := newTestManager(t)
		h := auth.OAuth(m, &fakeAdapter{}, auth.OAuthConfig{
			Authorize: func(ctx context.Context, r *http.Request, profile *auth.Profile, account auth.Account, token *oauth2.Token) (*auth.Authorized, error) {
				return nil, nil
			},
		})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, callbackRequest("st", "st"))

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
		for _, c := range rec.Result().Cookies() {
			assert.NotEqual(t, "auth_session", c.Name)
		}
	})

	t.Run("authorize error keeps classified status", func(t *testing.T) {
		t.Parallel()

		m, _ := newTestManager(t)
		h := auth.OAuth(m, &fakeAdapter{}, auth.OAuthConfig{
			Authorize: func(ctx context.Context, r *http.Request, profile *auth.Profile, account auth.Account, token *oauth2.Token) (*auth.Authorized, error) {
				return nil, auth.NewError(http.StatusConflict, "account already linked")
			},
		})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, callbackRequest("st", "st"))

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "account already linked")
	})
}
