// Package ui holds client-side UI state shared by every view of a session.
//
// A State is the single owner of the mini-cart visibility flag for one session.
// Views read it on every render and change it only through SetMiniCartOpen;
// subscribers are told about every real change so they can re-render.
// Sessions hands out exactly one State per session ID, and Use retrieves the
// State a request or view was bound to.
package ui

import (
	"context"
	"sync"
)

// Snapshot is the serializable view of a State.
type Snapshot struct {
	MiniCartOpen bool `json:"miniCartOpen"`
}

type subscriber struct {
	id uint64
	fn func(open bool)
}

// State is the shared UI state of one session. The zero value is a closed
// mini-cart with no subscribers and is ready to use.
type State struct {
	mu           sync.RWMutex
	miniCartOpen bool
	subs         []subscriber
	nextID       uint64
}

// NewState returns a State with the mini-cart closed.
func NewState() *State {
	return &State{}
}

// MiniCartOpen reports whether the mini-cart panel is open.
func (s *State) MiniCartOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.miniCartOpen
}

// SetMiniCartOpen opens or closes the mini-cart. Setting the current value again
// is a no-op and notifies nobody.
func (s *State) SetMiniCartOpen(next bool) {
	s.mu.Lock()
	if s.miniCartOpen == next {
		s.mu.Unlock()

		return
	}
	s.miniCartOpen = next
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	// called outside the lock so subscribers may read the state
	for _, sub := range subs {
		sub.fn(next)
	}
}

// Snapshot returns the current values.
func (s *State) Snapshot() Snapshot {
	return Snapshot{MiniCartOpen: s.MiniCartOpen()}
}

// Subscribe registers fn to be called with the new value after every change, in
// registration order. The returned function removes the subscription and is safe
// to call more than once.
func (s *State) Subscribe(fn func(open bool)) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()

			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)

					break
				}
			}
		})
	}
}

// Changes returns a channel receiving the new value after every change and a
// function that stops delivery and closes the channel. A slow reader misses
// intermediate values but always sees the latest one.
func (s *State) Changes() (<-chan bool, func()) {
	ch := make(chan bool, 1)
	var mu sync.Mutex
	closed := false

	unsubscribe := s.Subscribe(func(open bool) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		// keep only the latest value
		select {
		case <-ch:
		default:
		}
		ch <- open
	})

	return ch, func() {
		unsubscribe()
		mu.Lock()
		defer mu.Unlock()
		if !closed {
			closed = true
			close(ch)
		}
	}
}

type key struct{}

// WithState returns a context carrying st for Use.
func WithState(ctx context.Context, st *State) context.Context {
	return context.WithValue(ctx, key{}, st)
}

// Use returns the State bound to ctx by WithState.
func Use(ctx context.Context) (*State, bool) {
	st, ok := ctx.Value(key{}).(*State)

	return st, ok && st != nil
}
