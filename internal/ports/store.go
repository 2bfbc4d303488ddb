package ports

import "github.com/bft-labs/actionbridge/internal/domain"

// Store is the single write path into the client state.
type Store interface {
	// Dispatch routes the action to every slice.
	Dispatch(a domain.Action)

	// HasDomain reports whether a slice is registered for d.
	HasDomain(d domain.Domain) bool
}
