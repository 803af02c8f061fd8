// Package session holds per-session UI state for the CLI.
//
// A [Session] carries "shown at most once" flags for the nudges printed after
// an export (share prompt, feedback request). The session is passed
// explicitly to the export pipeline; there is no package-level state.
//
// # Usage
//
//	store, err := session.NewFileStore("")
//	sess, err := session.Current(ctx, store, session.DefaultTTL)
//	if sess.Once(session.FlagShare) {
//	    // print the share prompt
//	}
//	store.Set(ctx, sess)
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Flag names a one-time nudge.
type Flag string

// Known nudges.
const (
	FlagShare    Flag = "share"
	FlagFeedback Flag = "feedback"
)

// Nudges lists every flag in display order.
var Nudges = []Flag{FlagShare, FlagFeedback}

// DefaultTTL is how long a CLI session lasts.
const DefaultTTL = 24 * time.Hour

// Session stores once-per-session flags.
type Session struct {
	ID        string             `json:"id"`
	Flags     map[Flag]time.Time `json:"flags,omitempty"`
	ExpiresAt time.Time          `json:"expires_at"`
	CreatedAt time.Time          `json:"created_at"`

	mu  sync.Mutex
	now func() time.Time
}

// New creates a session that expires after ttl.
func New(ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Flags:     map[Flag]time.Time{},
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}

func (s *Session) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return s.clock().After(s.ExpiresAt)
}

// Once reports whether f has not fired yet in this session and marks it as
// fired. A nil session never fires.
func (s *Session) Once(f Flag) bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Flags[f]; ok {
		return false
	}
	if s.Flags == nil {
		s.Flags = map[Flag]time.Time{}
	}
	s.Flags[f] = s.clock()
	return true
}

// Seen reports whether f has fired.
func (s *Session) Seen(f Flag) bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.Flags[f]
	return ok
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions.
	Cleanup(ctx context.Context) error
}

// CurrentID is the ID under which the CLI keeps its session.
const CurrentID = "cli"

// Current loads the CLI session from store, starting a new one when none is
// live.
func Current(ctx context.Context, store Store, ttl time.Duration) (*Session, error) {
	sess, err := store.Get(ctx, CurrentID)
	if err != nil {
		return nil, err
	}
	if sess != nil {
		return sess, nil
	}
	sess = New(ttl)
	sess.ID = CurrentID
	return sess, nil
}
