package ui

import (
	"storefront/pkg/domain"
	"sync"
)

// Sessions owns the State of every live session.
type Sessions struct {
	mu     sync.Mutex
	states map[domain.SessionID]*State
}

// NewSessions returns an empty registry.
func NewSessions() *Sessions {
	return &Sessions{states: map[domain.SessionID]*State{}}
}

// Get returns the State of the session, creating a closed one on first use.
// Every call with the same ID returns the same State.
func (s *Sessions) Get(id domain.SessionID) *State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[id]
	if !ok {
		st = NewState()
		s.states[id] = st
	}

	return st
}

// Lookup returns the State of the session without creating it.
func (s *Sessions) Lookup(id domain.SessionID) (*State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[id]

	return st, ok
}

// Forget drops the session. Holders of its State keep a working but detached copy.
// It reports whether the session existed.
func (s *Sessions) Forget(id domain.SessionID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.states[id]
	delete(s.states, id)

	return ok
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.states)
}
