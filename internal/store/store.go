// Package store aggregates domain slices behind a single dispatch entry point.
//
// Every action reaches every registered slice; slices ignore actions outside
// their own domain. Dispatch is the only way to change state, and it is
// serialized, so interleaved asynchronous completions never race on a slice.
package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/bft-labs/actionbridge/internal/domain"
)

// Slice is one named fragment of the aggregate state.
type Slice interface {
	// Domain returns the namespace the slice owns.
	Domain() domain.Domain

	// Initial returns the state the slice starts with.
	Initial() any

	// Reduce returns the next state for a. Slices return state unchanged for
	// actions they do not recognize.
	Reduce(state any, a domain.Action) any
}

// Listener is called after every dispatch with the new aggregate state.
type Listener func(State, domain.Action)

// State is a snapshot of every slice, keyed by domain.
type State map[domain.Domain]any

// Select returns the state of domain d as S.
func Select[S any](st State, d domain.Domain) (S, bool) {
	v, ok := st[d].(S)
	return v, ok
}

// Store aggregates slices. The zero value is not usable; use New.
type Store struct {
	mu     sync.Mutex
	slices []Slice
	state  State

	lmu       sync.Mutex
	listeners map[int]Listener
	nextID    int
}

// New creates a store with the given slices.
// It panics if two slices claim the same domain.
func New(slices ...Slice) *Store {
	s := &Store{
		state:     make(State),
		listeners: make(map[int]Listener),
	}
	for _, sl := range slices {
		if err := s.Register(sl); err != nil {
			panic(err)
		}
	}
	return s
}

// Register adds a slice initialized with its default state.
func (s *Store) Register(sl Slice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state[sl.Domain()]; ok {
		return fmt.Errorf("store: domain %q already registered", sl.Domain())
	}
	s.slices = append(s.slices, sl)
	s.state[sl.Domain()] = sl.Initial()
	return nil
}

// Dispatch routes a to every slice and notifies listeners.
func (s *Store) Dispatch(a domain.Action) {
	s.mu.Lock()
	next := make(State, len(s.state))
	for _, sl := range s.slices {
		next[sl.Domain()] = sl.Reduce(s.state[sl.Domain()], a)
	}
	s.state = next
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	for _, l := range s.currentListeners() {
		l(snapshot, a)
	}
}

// State returns a snapshot of the aggregate state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// HasDomain reports whether a slice is registered for d.
func (s *Store) HasDomain(d domain.Domain) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.state[d]
	return ok
}

// Domains returns the registered domains in sorted order.
func (s *Store) Domains() []domain.Domain {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Domain, 0, len(s.state))
	for d := range s.state {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() {
		s.lmu.Lock()
		defer s.lmu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) currentListeners() []Listener {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]Listener, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.listeners[id])
	}
	return out
}

func (s *Store) snapshotLocked() State {
	out := make(State, len(s.state))
	for d, v := range s.state {
		out[d] = v
	}
	return out
}
