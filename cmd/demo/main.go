// Command demo runs a minimal server-rendered app wired with the full
// authentication stack: password and OAuth sign-in, session middleware,
// route guarding and a pluggable session store.
//
// Select the store with AUTH_STORE=memory|postgres|redis. OAuth providers
// are mounted only when their credentials are present in the environment.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/authkit-go/authkit/pkg/auth"
	"github.com/authkit-go/authkit/pkg/config"
	"github.com/authkit-go/authkit/pkg/guard"
	"github.com/authkit-go/authkit/pkg/httpserver"
	"github.com/authkit-go/authkit/pkg/logger"
	"github.com/authkit-go/authkit/pkg/pg"
	"github.com/authkit-go/authkit/pkg/redis"
	"github.com/authkit-go/authkit/pkg/session"
)

type appConfig struct {
	Addr  string `env:"HTTP_ADDR" envDefault:":8080"`
	Store string `env:"AUTH_STORE" envDefault:"memory"`

	Session session.Config
	Guard   guard.Config
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}

	logOpts := []logger.Option{logger.WithAttr(slog.String("service", "authkit-demo"))}
	if cfg.Session.Development {
		logOpts = []logger.Option{logger.WithDevelopment("authkit-demo")}
	}
	log := logger.New(logOpts...)

	store, cleanup, err := newStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	manager := session.New(
		session.WithStore(store),
		session.WithConfig(cfg.Session),
		session.WithLogger(log),
	)

	users := newUserRegistry(store)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(manager.Middleware)

	r.Mount("/api/auth", auth.Router(authRoutes(manager, users, log)))

	g := guard.New(cfg.Guard, guard.WithLogger(log))
	r.Group(func(r chi.Router) {
		r.Use(g.Middleware(resolveRoute))
		r.Get("/", pageHandler("home"))
		r.Get("/login", pageHandler("login"))
		r.Get("/signup", pageHandler("signup"))
		r.Get("/dashboard", pageHandler("dashboard"))
	})

	srv := httpserver.New(
		httpserver.WithAddr(cfg.Addr),
		httpserver.WithLogger(log),
	)
	return srv.Run(ctx, r)
}

// newStore builds the configured session store and returns a cleanup
// function closing whatever connection backs it.
func newStore(ctx context.Context, cfg appConfig, log *slog.Logger) (session.Store, func(), error) {
	switch cfg.Store {
	case "postgres":
		var pgCfg pg.Config
		if err := config.Load(&pgCfg); err != nil {
			return nil, nil, err
		}
		pool, err := pg.Connect(ctx, pgCfg)
		if err != nil {
			return nil, nil, err
		}
		if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return session.NewPGStore(pool), pool.Close, nil

	case "redis":
		var rdCfg redis.Config
		if err := config.Load(&rdCfg); err != nil {
			return nil, nil, err
		}
		client, err := redis.Connect(ctx, rdCfg)
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisStore(client), func() { _ = client.Close() }, nil

	default:
		ms := session.NewMemoryStore(cfg.Session.CleanupInterval)
		return ms, ms.Close, nil
	}
}

// authRoutes assembles the auth sub-router: password sign-in and sign-up
// always, OAuth providers only when configured.
func authRoutes(manager *session.Manager, users *userRegistry, log *slog.Logger) auth.RouterOptions {
	opts := auth.RouterOptions{
		Manager: manager,
		SignIn: auth.Password(manager, auth.PasswordConfig{
			Authorize: users.signIn,
		}, auth.WithLogger(log)),
		SignUp: auth.Password(manager, auth.PasswordConfig{
			Authorize: users.signUp,
		}, auth.WithLogger(log)),
		Logger: log,
	}

	var googleCfg auth.GoogleConfig
	if err := config.Load(&googleCfg); err == nil {
		opts.Google = auth.OAuth(manager, auth.NewGoogleAdapter(googleCfg), auth.OAuthConfig{
			Authorize: users.fromOAuth,
		}, auth.WithLogger(log))
	}

	var githubCfg auth.GitHubConfig
	if err := config.Load(&githubCfg); err == nil {
		opts.GitHub = auth.OAuth(manager, auth.NewGitHubAdapter(githubCfg), auth.OAuthConfig{
			Authorize: users.fromOAuth,
		}, auth.WithLogger(log))
	}

	return opts
}

// resolveRoute maps request paths onto the demo's route table.
func resolveRoute(r *http.Request) (guard.Route, *guard.RouteConfig) {
	route := guard.Route{Path: r.URL.Path, FullPath: r.URL.RequestURI(), Matched: true}

	switch r.URL.Path {
	case "/":
		return route, &guard.RouteConfig{Disabled: true}
	case "/login", "/signup":
		return route, &guard.RouteConfig{UnauthenticatedOnly: true}
	case "/dashboard":
		return route, nil
	default:
		route.Matched = false
		return route, nil
	}
}

func pageHandler(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, _ := session.FromContext(r.Context())
		if a.Authenticated() {
			fmt.Fprintf(w, "%s: signed in as %s\n", name, a.User.Email)
			return
		}
		fmt.Fprintf(w, "%s: signed out\n", name)
	}
}

// userRegistry is the demo's credential backend: an in-memory email index
// over users persisted in the session store.
type userRegistry struct {
	users session.UserWriter

	mu      sync.Mutex
	byEmail map[string]credential
}

type credential struct {
	userID uuid.UUID
	hash   []byte
}

func newUserRegistry(store session.Store) *userRegistry {
	writer, _ := store.(session.UserWriter)
	return &userRegistry{
		users:   writer,
		byEmail: make(map[string]credential),
	}
}

func (reg *userRegistry) signIn(r *http.Request) (*auth.Authorized, error) {
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	reg.mu.Lock()
	cred, ok := reg.byEmail[email]
	reg.mu.Unlock()
	if !ok {
		return nil, auth.ErrInvalidCredentials
	}
	if err := auth.VerifyPassword(cred.hash, password); err != nil {
		return nil, err
	}
	return &auth.Authorized{UserID: cred.userID, Redirect: "/dashboard"}, nil
}

func (reg *userRegistry) signUp(r *http.Request) (*auth.Authorized, error) {
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		return nil, auth.NewError(http.StatusUnprocessableEntity, "email and password are required")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	reg.mu.Lock()
	if _, exists := reg.byEmail[email]; exists {
		reg.mu.Unlock()
		return nil, auth.ErrInvalidCredentials
	}
	id := uuid.New()
	reg.byEmail[email] = credential{userID: id, hash: hash}
	reg.mu.Unlock()

	if reg.users != nil {
		u := &session.User{ID: id, Name: email, Email: email}
		if err := reg.users.PutUser(r.Context(), u); err != nil {
			return nil, err
		}
	}

	return &auth.Authorized{UserID: id, Redirect: "/dashboard"}, nil
}

func (reg *userRegistry) fromOAuth(ctx context.Context, _ *http.Request, profile *auth.Profile, _ auth.Account, _ *oauth2.Token) (*auth.Authorized, error) {
	reg.mu.Lock()
	cred, ok := reg.byEmail[profile.Email]
	if !ok {
		cred = credential{userID: uuid.New()}
		reg.byEmail[profile.Email] = cred
	}
	reg.mu.Unlock()

	if reg.users != nil {
		u := &session.User{
			ID:        cred.userID,
			Name:      profile.Name,
			Email:     profile.Email,
			AvatarURL: profile.AvatarURL,
		}
		if err := reg.users.PutUser(ctx, u); err != nil {
			return nil, err
		}
	}

	return &auth.Authorized{UserID: cred.userID, Redirect: "/dashboard"}, nil
}
