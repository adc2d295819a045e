package guard

import (
	"io"
	"log/slog"

	"github.com/authkit-go/authkit/pkg/session"
)

// Config holds the global guard configuration.
type Config struct {
	// LoginPath is where unauthenticated users are sent when a protected
	// route has no per-route override.
	LoginPath string `env:"AUTH_LOGIN_PATH" envDefault:"/login"`

	// Allow404WithoutAuth lets unmatched routes through so the 404 page
	// renders without a login round-trip.
	Allow404WithoutAuth bool `env:"AUTH_ALLOW_404_WITHOUT_AUTH" envDefault:"true"`
}

// DefaultConfig returns the default guard configuration.
func DefaultConfig() Config {
	return Config{
		LoginPath:           "/login",
		Allow404WithoutAuth: true,
	}
}

// RouteConfig is the per-route authentication override. A nil RouteConfig
// means the default: authentication required.
type RouteConfig struct {
	// Disabled turns the guard off for this route entirely.
	Disabled bool

	// UnauthenticatedOnly marks guest-only routes (login, signup).
	// Authenticated users are redirected away from them.
	UnauthenticatedOnly bool

	// NavigateAuthenticatedTo overrides where authenticated users are
	// sent away from a guest-only route. Defaults to "/".
	NavigateAuthenticatedTo string

	// NavigateUnauthenticatedTo overrides where unauthenticated users are
	// sent from this protected route. Defaults to Config.LoginPath.
	NavigateUnauthenticatedTo string
}

// Route describes the navigation target being guarded.
type Route struct {
	// Path is the normalized route path used for loop detection.
	Path string

	// FullPath includes query and fragment, used only for logging.
	FullPath string

	// Matched reports whether the router resolved the path to a route.
	Matched bool
}

// Decision is the guard verdict: allow the navigation, or redirect it.
type Decision struct {
	Allow      bool
	RedirectTo string
}

func allow() Decision {
	return Decision{Allow: true}
}

func redirect(to string) Decision {
	return Decision{RedirectTo: to}
}

// Guard decides whether navigations are allowed given the current
// authentication state.
type Guard struct {
	cfg Config
	log *slog.Logger
}

// Option configures a Guard.
type Option func(*Guard)

// WithLogger sets the logger used for guard warnings.
func WithLogger(log *slog.Logger) Option {
	return func(g *Guard) {
		if log != nil {
			g.log = log
		}
	}
}

// New creates a guard with the given configuration.
func New(cfg Config, opts ...Option) *Guard {
	g := &Guard{
		cfg: cfg,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Decide is a pure function of the current user and the route's auth
// configuration. It never issues a redirect whose target equals the
// current path; such a misconfiguration is logged and the navigation
// allowed, breaking the loop.
func (g *Guard) Decide(user *session.User, route Route, rc *RouteConfig) Decision {
	if rc != nil && rc.Disabled {
		return allow()
	}

	guestOnly := rc != nil && rc.UnauthenticatedOnly

	if guestOnly && user == nil {
		return allow()
	}

	if user != nil {
		if guestOnly {
			target := rc.NavigateAuthenticatedTo
			if target == "" {
				target = "/"
			}
			return redirect(target)
		}
		return allow()
	}

	// Unauthenticated from here on.
	if g.cfg.Allow404WithoutAuth && !route.Matched {
		return allow()
	}

	target := g.cfg.LoginPath
	if rc != nil && rc.NavigateUnauthenticatedTo != "" {
		target = rc.NavigateUnauthenticatedTo
	}

	if route.Path == target {
		g.log.Warn("guard redirect target equals current path, allowing navigation to avoid a loop",
			"path", route.FullPath, "target", target)
		return allow()
	}

	g.log.Warn("guest navigation to protected route", "path", route.FullPath)
	return redirect(target)
}
