package guard_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/authkit-go/authkit/pkg/guard"
	"github.com/authkit-go/authkit/pkg/session"
)

func TestDecide(t *testing.T) {
	t.Parallel()

	g := guard.New(guard.DefaultConfig())
	user := &session.User{ID: uuid.New()}
	matched := func(path string) guard.Route {
		return guard.Route{Path: path, FullPath: path, Matched: true}
	}

	tests := []struct {
		name  string
		user  *session.User
		route guard.Route
		rc    *guard.RouteConfig
		want  guard.Decision
	}{
		{
			name:  "default requires auth",
			route: matched("/dashboard"),
			want:  guard.Decision{RedirectTo: "/login"},
		},
		{
			name:  "authenticated passes by default",
			user:  user,
			route: matched("/dashboard"),
			want:  guard.Decision{Allow: true},
		},
		{
			name:  "disabled skips the guard",
			route: matched("/public"),
			rc:    &guard.RouteConfig{Disabled: true},
			want:  guard.Decision{Allow: true},
		},
		{
			name:  "guest-only allows guests",
			route: matched("/login"),
			rc:    &guard.RouteConfig{UnauthenticatedOnly: true},
			want:  guard.Decision{Allow: true},
		},
		{
			name:  "guest-only bounces authenticated users home",
			user:  user,
			route: matched("/login"),
			rc:    &guard.RouteConfig{UnauthenticatedOnly: true},
			want:  guard.Decision{RedirectTo: "/"},
		},
		{
			name:  "guest-only bounce honors the override",
			user:  user,
			route: matched("/login"),
			rc:    &guard.RouteConfig{UnauthenticatedOnly: true, NavigateAuthenticatedTo: "/dashboard"},
			want:  guard.Decision{RedirectTo: "/dashboard"},
		},
		{
			name:  "unauthenticated redirect honors the override",
			route: matched("/billing"),
			rc:    &guard.RouteConfig{NavigateUnauthenticatedTo: "/signin"},
			want:  guard.Decision{RedirectTo: "/signin"},
		},
		{
			name:  "unmatched route passes without auth",
			route: guard.Route{Path: "/no-such-page", FullPath: "/no-such-page", Matched: false},
			want:  guard.Decision{Allow: true},
		},
		{
			name:  "redirect to the current path is suppressed",
			route: matched("/login"),
			rc:    &guard.RouteConfig{NavigateUnauthenticatedTo: "/login"},
			want:  guard.Decision{Allow: true},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, g.Decide(tt.user, tt.route, tt.rc))
		})
	}
}

func TestDecideWithoutNotFoundBypass(t *testing.T) {
	t.Parallel()

	g := guard.New(guard.Config{LoginPath: "/login", Allow404WithoutAuth: false})

	got := g.Decide(nil, guard.Route{Path: "/missing", Matched: false}, nil)
	assert.Equal(t, guard.Decision{RedirectTo: "/login"}, got)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	g := guard.New(guard.DefaultConfig())

	resolve := func(r *http.Request) (guard.Route, *guard.RouteConfig) {
		route := guard.Route{Path: r.URL.Path, FullPath: r.URL.Path, Matched: true}
		if r.URL.Path == "/login" {
			return route, &guard.RouteConfig{UnauthenticatedOnly: true}
		}
		return route, nil
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := g.Middleware(resolve)(next)

	t.Run("guest on a protected route is redirected", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req = req.WithContext(session.WithAuth(req.Context(), session.Auth{}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("authenticated user passes", func(t *testing.T) {
		t.Parallel()

		a := session.Auth{User: &session.User{ID: uuid.New()}, Session: &session.Session{ID: "sid"}}
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req = req.WithContext(session.WithAuth(req.Context(), a))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("authenticated user is bounced off guest-only routes", func(t *testing.T) {
		t.Parallel()

		a := session.Auth{User: &session.User{ID: uuid.New()}, Session: &session.Session{ID: "sid"}}
		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		req = req.WithContext(session.WithAuth(req.Context(), a))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
	})

	t.Run("missing session middleware means unauthenticated", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

		assert.Equal(t, http.StatusFound, rec.Code)
	})
}
