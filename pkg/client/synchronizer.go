package client

import (
	"context"
	"io"
	"log/slog"

	"github.com/authkit-go/authkit/pkg/session"
)

// RenderSource tells the synchronizer where the current navigation is
// executing.
type RenderSource int

const (
	// SourcePrerender is a static prerender with no real request behind it.
	SourcePrerender RenderSource = iota

	// SourceServer is a server render where the auth middleware already
	// resolved the session.
	SourceServer

	// SourceClient is client-only execution with no server-supplied state.
	SourceClient
)

// SessionFetcher retrieves the current user from the session endpoint.
// A nil user with a nil error means the server answered "unauthenticated".
type SessionFetcher interface {
	FetchSession(ctx context.Context) (*session.User, error)
}

// Synchronizer reconciles the client session snapshot with the server.
// It performs at most one network round-trip per navigation lifecycle and
// never leaves the snapshot Uninitialized once Sync has run.
type Synchronizer struct {
	snapshot *Snapshot
	fetcher  SessionFetcher
	log      *slog.Logger
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithLogger sets the logger for fetch-failure diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(s *Synchronizer) {
		if log != nil {
			s.log = log
		}
	}
}

// NewSynchronizer creates a synchronizer writing into the given snapshot.
func NewSynchronizer(snapshot *Snapshot, fetcher SessionFetcher, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		snapshot: snapshot,
		fetcher:  fetcher,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync resolves the snapshot for the current navigation.
//
// Prerenders are left untouched. Server renders copy the server-resolved
// user without any network call. Client-only execution fetches the session
// endpoint once, and only if no server render supplied the state already;
// a fetch failure resolves to Anonymous rather than crashing or retrying,
// so page load stays deterministic and bounded to one attempt.
func (s *Synchronizer) Sync(ctx context.Context, source RenderSource, serverUser *session.User) {
	switch source {
	case SourcePrerender:
		return

	case SourceServer:
		s.snapshot.Set(serverUser)

	case SourceClient:
		if s.snapshot.State() != StateUninitialized {
			return
		}

		user, err := s.fetcher.FetchSession(ctx)
		if err != nil {
			s.log.DebugContext(ctx, "session fetch failed, treating as unauthenticated", "error", err)
			s.snapshot.Set(nil)
			return
		}
		s.snapshot.Set(user)
	}
}
