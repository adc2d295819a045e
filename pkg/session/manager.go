package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/authkit-go/authkit/pkg/cookie"
)

// Manager is the session lifecycle state machine: it validates ids coming
// out of cookies, rotates expiries, mints and invalidates sessions, and
// produces the matching cookie directives.
type Manager struct {
	store   Store
	cookies *cookie.Manager
	config  Config
	log     *slog.Logger
}

// New creates a session manager. Without a WithStore option a memory store
// is used, which is only suitable for tests and single-process deployments.
func New(opts ...Option) *Manager {
	m := &Manager{
		config: DefaultConfig(),
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.store == nil {
		m.store = NewMemoryStore(m.config.CleanupInterval)
	}
	if m.cookies == nil {
		m.cookies = cookie.New()
	}

	return m
}

// Config returns the manager configuration.
func (m *Manager) Config() Config {
	return m.config
}

// Validate looks up a session id and resolves it to a (session, user) pair.
//
// Unknown or malformed ids yield (nil, nil, nil). An expired session is
// purged from the store as a side effect and also yields the nil pair. A
// valid session past the midpoint of its expiry window gets its expiry
// extended in the store and is returned with Fresh set, signalling the
// caller to emit a rotated cookie.
func (m *Manager) Validate(ctx context.Context, sessionID string) (*Session, *User, error) {
	if sessionID == "" {
		return nil, nil, nil
	}

	s, err := m.store.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, nil, nil
		}
		return nil, nil, errors.Join(ErrStoreUnavailable, err)
	}

	now := time.Now()
	if !now.Before(s.ExpiresAt) {
		// Lazy expiry: the session is purged on the validation that
		// discovers it is dead.
		if err := m.store.DeleteSession(ctx, s.ID); err != nil {
			return nil, nil, errors.Join(ErrStoreUnavailable, err)
		}
		return nil, nil, nil
	}

	u, err := m.store.GetUser(ctx, s.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// A session pointing at a deleted user is dead.
			if err := m.store.DeleteSession(ctx, s.ID); err != nil {
				return nil, nil, errors.Join(ErrStoreUnavailable, err)
			}
			return nil, nil, nil
		}
		return nil, nil, errors.Join(ErrStoreUnavailable, err)
	}

	// Rotate once the remaining lifetime falls below half the window.
	if !now.Before(s.ExpiresAt.Add(-m.config.Duration / 2)) {
		s.ExpiresAt = now.Add(m.config.Duration)
		if err := m.store.UpdateSessionExpiry(ctx, s.ID, s.ExpiresAt); err != nil {
			return nil, nil, errors.Join(ErrStoreUnavailable, err)
		}
		s.Fresh = true
	}

	return s, u, nil
}

// Create mints a new session for the user and persists it.
func (m *Manager) Create(ctx context.Context, userID uuid.UUID, data map[string]any) (*Session, error) {
	id, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	s := &Session{
		ID:        id,
		UserID:    userID,
		ExpiresAt: now.Add(m.config.Duration),
		CreatedAt: now,
		Data:      data,
	}

	if err := m.store.CreateSession(ctx, s); err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	return s, nil
}

// Invalidate deletes the session. Invalidating an unknown id is not an error.
func (m *Manager) Invalidate(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := m.store.DeleteSession(ctx, sessionID); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// SessionCookie produces the Set-Cookie directive carrying the session id.
// Max-Age matches the remaining session lifetime.
func (m *Manager) SessionCookie(s *Session) *http.Cookie {
	return m.cookies.Bake(m.config.CookieName, s.ID,
		cookie.WithMaxAge(int(time.Until(s.ExpiresAt).Seconds())),
		cookie.WithSecure(!m.config.Development),
	)
}

// BlankCookie produces the expiring directive that clears a stale session
// cookie on the client.
func (m *Manager) BlankCookie() *http.Cookie {
	return m.cookies.Bake(m.config.CookieName, "",
		cookie.WithMaxAge(-1),
		cookie.WithExpires(time.Unix(0, 0)),
		cookie.WithSecure(!m.config.Development),
	)
}

// generateSessionID creates a 256-bit URL-safe random id.
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
