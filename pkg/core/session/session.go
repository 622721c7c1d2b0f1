// Package session implements the process-wide login gate. At most one
// actor, patient or caregiver, is authenticated at a time.
package session

import (
	"errors"

	"github.com/openclinic/vaxsched/pkg/core/model"
)

var (
	// ErrNotLoggedIn is returned by gated operations when no session is active.
	ErrNotLoggedIn = errors.New("no active session")

	// ErrAlreadyLoggedIn is returned by Login while any session is active,
	// regardless of the kind of the existing session.
	ErrAlreadyLoggedIn = errors.New("a session is already active")

	// ErrWrongKind is returned when the active session's actor kind does not
	// match the kind an operation requires.
	ErrWrongKind = errors.New("wrong actor kind for this operation")
)

// Session holds the currently authenticated actor. The zero value is a
// logged-out session. Commands run one at a time, so no locking is needed.
type Session struct {
	username string
	kind     model.ActorKind
	active   bool
}

// New returns an empty, logged-out session.
func New() *Session {
	return &Session{}
}

// Login binds the session to an actor. It fails if any session is active,
// leaving the existing session untouched.
func (s *Session) Login(kind model.ActorKind, username string) error {
	if s.active {
		return ErrAlreadyLoggedIn
	}
	s.username = username
	s.kind = kind
	s.active = true
	return nil
}

// Logout clears the session.
func (s *Session) Logout() error {
	if !s.active {
		return ErrNotLoggedIn
	}
	*s = Session{}
	return nil
}

// Current returns the active actor's kind and username.
// ok is false when nobody is logged in.
func (s *Session) Current() (kind model.ActorKind, username string, ok bool) {
	if !s.active {
		return "", "", false
	}
	return s.kind, s.username, true
}

// Require returns the active username if an actor of the given kind is
// logged in. It distinguishes no-session from wrong-kind failures.
func (s *Session) Require(kind model.ActorKind) (string, error) {
	current, username, ok := s.Current()
	if !ok {
		return "", ErrNotLoggedIn
	}
	if current != kind {
		return "", ErrWrongKind
	}
	return username, nil
}

// RequireAny returns the active actor for operations open to both kinds.
func (s *Session) RequireAny() (model.ActorKind, string, error) {
	kind, username, ok := s.Current()
	if !ok {
		return "", "", ErrNotLoggedIn
	}
	return kind, username, nil
}
