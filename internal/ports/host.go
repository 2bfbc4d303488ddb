package ports

import (
	"context"

	"github.com/bft-labs/actionbridge/internal/domain"
)

// Host is the receiving side of the ipc_message call.
type Host interface {
	// Call handles one named call. Rejections are returned as errors
	// wrapping domain.ErrHostRejected.
	Call(ctx context.Context, name string, message domain.Envelope) (domain.Envelope, error)
}
