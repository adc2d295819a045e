package session

import (
	"time"

	"github.com/google/uuid"
)

// User is the public slice of a user record. The package only ever reads
// users through the Store; creating and mutating them belongs to the
// integrating application.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
}

// Session is a server-held proof of authentication referenced by an opaque
// id stored in a cookie.
type Session struct {
	ID        string         `json:"id"`
	UserID    uuid.UUID      `json:"user_id"`
	ExpiresAt time.Time      `json:"expires_at"`
	CreatedAt time.Time      `json:"created_at"`
	Data      map[string]any `json:"data,omitempty"`

	// Fresh signals that this Validate call rotated the expiry and the
	// caller must emit a new cookie. It is never persisted.
	Fresh bool `json:"-"`
}

// IsExpired reports whether the session expiry has passed.
func (s *Session) IsExpired() bool {
	return s != nil && !time.Now().Before(s.ExpiresAt)
}

// Get retrieves a value from session data.
func (s *Session) Get(key string) (any, bool) {
	if s == nil || s.Data == nil {
		return nil, false
	}
	val, ok := s.Data[key]
	return val, ok
}

// GetString retrieves a string value from session data.
func (s *Session) GetString(key string) (string, bool) {
	val, ok := s.Get(key)
	if !ok {
		return "", false
	}
	str, ok := val.(string)
	return str, ok
}
