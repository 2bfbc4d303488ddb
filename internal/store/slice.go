package store

import "github.com/bft-labs/actionbridge/internal/domain"

// Reducer computes the next state of a typed slice.
type Reducer[S any] func(state S, a domain.Action) S

// TypedSlice adapts a typed reducer to Slice.
type TypedSlice[S any] struct {
	domain  domain.Domain
	initial S
	reduce  Reducer[S]
}

// NewSlice creates a slice for domain d. The reducer only sees actions whose
// qualified type belongs to d.
func NewSlice[S any](d domain.Domain, initial S, reduce Reducer[S]) *TypedSlice[S] {
	return &TypedSlice[S]{domain: d, initial: initial, reduce: reduce}
}

// Domain returns the slice's namespace.
func (t *TypedSlice[S]) Domain() domain.Domain {
	return t.domain
}

// Initial returns the default state.
func (t *TypedSlice[S]) Initial() any {
	return t.initial
}

// Reduce filters by domain and applies the typed reducer.
func (t *TypedSlice[S]) Reduce(state any, a domain.Action) any {
	s, ok := state.(S)
	if !ok {
		s = t.initial
	}
	if a.Domain() != t.domain {
		return s
	}
	return t.reduce(s, a)
}
