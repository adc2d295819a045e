package client

import (
	"sync"

	"github.com/authkit-go/authkit/pkg/session"
)

// State is the lifecycle of the client-visible user snapshot. The
// three-way split matters: Uninitialized means the session has never been
// resolved on this side, Anonymous means it was resolved to "no user".
// Collapsing the two would either trigger redundant fetches or let guards
// run against state that was never loaded.
type State int

const (
	// StateUninitialized means no server render or fetch has supplied the
	// session yet.
	StateUninitialized State = iota

	// StateAnonymous means the session was resolved and there is no user.
	StateAnonymous

	// StateAuthenticated means the session was resolved to a user.
	StateAuthenticated
)

// Snapshot is the client-visible session state. It is safe for concurrent
// use.
type Snapshot struct {
	mu    sync.RWMutex
	state State
	user  *session.User
}

// NewSnapshot returns a snapshot in the Uninitialized state.
func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

// State returns the current lifecycle state.
func (s *Snapshot) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User returns the current user, or nil unless authenticated.
func (s *Snapshot) User() *session.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Set resolves the snapshot. A nil user resolves to Anonymous; the snapshot
// never returns to Uninitialized.
func (s *Snapshot) Set(user *session.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user == nil {
		s.state = StateAnonymous
		s.user = nil
		return
	}
	s.state = StateAuthenticated
	s.user = user
}
