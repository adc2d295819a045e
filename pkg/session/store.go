package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store is the persistence boundary for sessions and users. Implementations
// must be safe for concurrent use. All writes are single-record operations;
// the manager assumes they are atomic at the store level and adds no locking
// of its own.
type Store interface {
	// GetSession retrieves a session by id. Returns ErrSessionNotFound
	// when no session exists for the id.
	GetSession(ctx context.Context, id string) (*Session, error)

	// GetUser retrieves the user referenced by a session. Returns
	// ErrUserNotFound when the user does not exist.
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)

	// CreateSession persists a new session.
	CreateSession(ctx context.Context, s *Session) error

	// UpdateSessionExpiry writes a new expiry for the session.
	UpdateSessionExpiry(ctx context.Context, id string, expiresAt time.Time) error

	// DeleteSession removes a session. Deleting a non-existent id is not
	// an error.
	DeleteSession(ctx context.Context, id string) error
}

// UserWriter is an optional interface for stores that can persist user
// records. The bundled stores implement it so sign-up flows and tests have
// somewhere to put users; production deployments typically own the users
// table themselves.
type UserWriter interface {
	PutUser(ctx context.Context, u *User) error
}
