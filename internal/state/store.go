package state

import (
	"sync"
)

// Store coordinates concurrent access to the current State.
type Store struct {
	mu    sync.RWMutex
	state State
}

// Dispatch reduces an action against the stored state. When the transition
// is rejected the stored state is left untouched and the error returned.
func (s *Store) Dispatch(a Action) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Reduce(s.state, a)
	if err != nil {
		return s.state.Clone(), err
	}
	s.state = next
	return next.Clone(), nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state.Clone()
}
