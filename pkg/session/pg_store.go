package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore implements Store on top of a pgx connection pool. The schema is
// provided by the bundled goose migrations (auth_users, auth_sessions).
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a Postgres-backed session store.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) GetSession(ctx context.Context, id string) (*Session, error) {
	var (
		sess Session
		data []byte
	)

	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, expires_at, created_at, data FROM auth_sessions WHERE id = $1`,
		id,
	).Scan(&sess.ID, &sess.UserID, &sess.ExpiresAt, &sess.CreatedAt, &data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("pg: get session: %w", err)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &sess.Data); err != nil {
			return nil, fmt.Errorf("pg: decode session data: %w", err)
		}
	}

	return &sess, nil
}

func (s *PGStore) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User

	err := s.pool.QueryRow(ctx,
		`SELECT id, name, email, avatar_url FROM auth_users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.AvatarURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("pg: get user: %w", err)
	}

	return &u, nil
}

func (s *PGStore) CreateSession(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess.Data)
	if err != nil {
		return fmt.Errorf("pg: encode session data: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO auth_sessions (id, user_id, expires_at, created_at, data) VALUES ($1, $2, $3, $4, $5)`,
		sess.ID, sess.UserID, sess.ExpiresAt, sess.CreatedAt, data,
	)
	if err != nil {
		return fmt.Errorf("pg: create session: %w", err)
	}
	return nil
}

func (s *PGStore) UpdateSessionExpiry(ctx context.Context, id string, expiresAt time.Time) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE auth_sessions SET expires_at = $2 WHERE id = $1`,
		id, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("pg: update session expiry: %w", err)
	}
	return nil
}

func (s *PGStore) DeleteSession(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM auth_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pg: delete session: %w", err)
	}
	return nil
}

// DeleteExpired purges all expired sessions. Expiry is otherwise lazy; run
// this periodically to keep the table from accumulating dead rows.
func (s *PGStore) DeleteExpired(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM auth_sessions WHERE expires_at < now()`)
	if err != nil {
		return fmt.Errorf("pg: delete expired sessions: %w", err)
	}
	return nil
}

// PutUser upserts a user record keyed by id.
func (s *PGStore) PutUser(ctx context.Context, u *User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO auth_users (id, name, email, avatar_url) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET name = $2, email = $3, avatar_url = $4`,
		u.ID, u.Name, u.Email, u.AvatarURL,
	)
	if err != nil {
		return fmt.Errorf("pg: put user: %w", err)
	}
	return nil
}

var (
	_ Store      = (*PGStore)(nil)
	_ UserWriter = (*PGStore)(nil)
)
