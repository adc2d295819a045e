package session

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore implements Store with in-process maps. It is intended for
// tests and single-process deployments.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	users    map[uuid.UUID]*User
	ticker   *time.Ticker
	done     chan struct{}
}

// NewMemoryStore creates an in-memory store. A positive cleanupInterval
// starts a background loop that purges expired sessions.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]*Session),
		users:    make(map[uuid.UUID]*User),
		done:     make(chan struct{}),
	}

	if cleanupInterval > 0 {
		s.ticker = time.NewTicker(cleanupInterval)
		go s.cleanupLoop()
	}

	return s
}

func (m *MemoryStore) GetSession(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}

	cp := *s
	if s.Data != nil {
		cp.Data = make(map[string]any, len(s.Data))
		maps.Copy(cp.Data, s.Data)
	}
	return &cp, nil
}

func (m *MemoryStore) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	m.mu.RLock()
	u, ok := m.users[id]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrUserNotFound
	}

	cp := *u
	return &cp, nil
}

func (m *MemoryStore) CreateSession(ctx context.Context, s *Session) error {
	if s == nil || s.ID == "" {
		return ErrSessionNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *s
	if s.Data != nil {
		cp.Data = make(map[string]any, len(s.Data))
		maps.Copy(cp.Data, s.Data)
	}
	cp.Fresh = false

	m.sessions[s.ID] = &cp
	return nil
}

func (m *MemoryStore) UpdateSessionExpiry(ctx context.Context, id string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	s.ExpiresAt = expiresAt
	return nil
}

func (m *MemoryStore) DeleteSession(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

// PutUser stores a user record so sessions can resolve it.
func (m *MemoryStore) PutUser(ctx context.Context, u *User) error {
	if u == nil {
		return ErrUserNotFound
	}

	m.mu.Lock()
	cp := *u
	m.users[u.ID] = &cp
	m.mu.Unlock()
	return nil
}

// Close stops the cleanup loop.
func (m *MemoryStore) Close() {
	select {
	case <-m.done:
	default:
		close(m.done)
		if m.ticker != nil {
			m.ticker.Stop()
		}
	}
}

func (m *MemoryStore) cleanupLoop() {
	for {
		select {
		case <-m.ticker.C:
			now := time.Now()
			m.mu.Lock()
			for id, s := range m.sessions {
				if !now.Before(s.ExpiresAt) {
					delete(m.sessions, id)
				}
			}
			m.mu.Unlock()
		case <-m.done:
			return
		}
	}
}

var (
	_ Store      = (*MemoryStore)(nil)
	_ UserWriter = (*MemoryStore)(nil)
)
