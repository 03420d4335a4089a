package state

import (
	"sync"
)

// Listener receives a snapshot after every dispatch.
type Listener func(State)

// Store holds the authoritative State. The zero value is ready to use.
type Store struct {
	mu    sync.RWMutex
	state State

	subMu     sync.Mutex
	nextSubID int
	subs      map[int]Listener
}

// NewStore returns a Store starting from initial.
func NewStore(initial State) *Store {
	return &Store{state: initial.clone()}
}

// Dispatch applies cmd atomically and returns the resulting snapshot.
// Listeners run after the lock is released, on the dispatching goroutine.
func (s *Store) Dispatch(cmd Command) State {
	s.mu.Lock()
	s.state = Apply(s.state, cmd)
	snap := s.state.clone()
	s.mu.Unlock()

	s.notify(snap)
	return snap
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Subscribe registers fn for every future dispatch. The returned function
// removes the subscription.
func (s *Store) Subscribe(fn Listener) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if s.subs == nil {
		s.subs = make(map[int]Listener)
	}
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) notify(snap State) {
	s.subMu.Lock()
	listeners := make([]Listener, 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.subMu.Unlock()

	for _, fn := range listeners {
		// Each listener gets its own copy.
		fn(snap.clone())
	}
}
