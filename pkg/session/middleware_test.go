package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authkit-go/authkit/pkg/session"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("no cookie is anonymous", func(t *testing.T) {
		t.Parallel()

		m, _ := newTestManager(t)

		var seen session.Auth
		var ok bool
		h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, ok = session.FromContext(r.Context())
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.True(t, ok)
		assert.Nil(t, seen.Session)
		assert.Nil(t, seen.User)
		assert.False(t, seen.Authenticated())
		assert.Empty(t, rec.Result().Cookies(), "anonymous requests get no Set-Cookie")
	})

	t.Run("valid cookie populates both fields", func(t *testing.T) {
		t.Parallel()

		m, store := newTestManager(t)
		user := seedUser(t, store)
		s, err := m.Create(ctx, user.ID, nil)
		require.NoError(t, err)

		var seen session.Auth
		h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = session.FromContext(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(m.SessionCookie(s))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.NotNil(t, seen.Session)
		require.NotNil(t, seen.User)
		assert.True(t, seen.Authenticated())
		assert.Equal(t, s.ID, seen.Session.ID)
		assert.Equal(t, user.ID, seen.User.ID)
		assert.Empty(t, rec.Result().Cookies(), "no rotation, no Set-Cookie")
	})

	t.Run("dead cookie clears and stays anonymous", func(t *testing.T) {
		t.Parallel()

		m, _ := newTestManager(t)

		var seen session.Auth
		h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = session.FromContext(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: m.Config().CookieName, Value: "stale"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Nil(t, seen.Session)
		assert.Nil(t, seen.User)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Empty(t, cookies[0].Value)
		assert.Negative(t, cookies[0].MaxAge)
	})

	t.Run("rotation emits a fresh cookie", func(t *testing.T) {
		t.Parallel()

		m, store := newTestManager(t)
		user := seedUser(t, store)

		stale := &session.Session{
			ID:        "rotating-id",
			UserID:    user.ID,
			ExpiresAt: time.Now().Add(10 * time.Minute),
			CreatedAt: time.Now().Add(-50 * time.Minute),
		}
		require.NoError(t, store.CreateSession(ctx, stale))

		h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: m.Config().CookieName, Value: stale.ID})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, stale.ID, cookies[0].Value)
		assert.InDelta(t, 3600, cookies[0].MaxAge, 10)
	})

	t.Run("store failure is a 500", func(t *testing.T) {
		t.Parallel()

		m := session.New(session.WithStore(failingStore{}))
		h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler must not run")
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: m.Config().CookieName, Value: "any"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestMiddlewareOriginCheck(t *testing.T) {
	t.Parallel()

	newHandler := func(t *testing.T) (http.Handler, *bool) {
		t.Helper()
		m, _ := newTestManager(t)
		called := false
		h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		return h, &called
	}

	t.Run("post without origin is rejected", func(t *testing.T) {
		t.Parallel()

		h, called := newHandler(t)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.False(t, *called)
	})

	t.Run("post with foreign origin is rejected", func(t *testing.T) {
		t.Parallel()

		h, called := newHandler(t)
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.False(t, *called)
	})

	t.Run("post with matching origin passes", func(t *testing.T) {
		t.Parallel()

		h, called := newHandler(t)
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Origin", "http://"+req.Host)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, *called)
	})

	t.Run("get skips the check", func(t *testing.T) {
		t.Parallel()

		h, called := newHandler(t)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, *called)
	})
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	t.Run("missing middleware", func(t *testing.T) {
		t.Parallel()

		_, err := session.RequireAuth(context.Background())
		assert.ErrorIs(t, err, session.ErrMiddlewareNotInstalled)
	})

	t.Run("anonymous", func(t *testing.T) {
		t.Parallel()

		ctx := session.WithAuth(context.Background(), session.Auth{})
		_, err := session.RequireAuth(ctx)
		assert.ErrorIs(t, err, session.ErrUnauthenticated)
	})

	t.Run("authenticated", func(t *testing.T) {
		t.Parallel()

		a := session.Auth{User: &session.User{}, Session: &session.Session{ID: "sid"}}
		ctx := session.WithAuth(context.Background(), a)

		got, err := session.RequireAuth(ctx)
		require.NoError(t, err)
		assert.Equal(t, "sid", got.Session.ID)
	})
}
