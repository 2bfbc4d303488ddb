package ports

import (
	"context"

	"github.com/bft-labs/actionbridge/internal/domain"
)

// CallName is the only call name the bridge uses on the host.
const CallName = "ipc_message"

// Channel carries one envelope to the host and returns its reply.
// A single Channel multiplexes every domain; implementations are stateless
// and safe for concurrent use. Correlating replies is the caller's job.
type Channel interface {
	// Send transmits the request and waits for the host's reply.
	// Errors wrap domain.ErrChannelUnavailable, domain.ErrHostRejected,
	// domain.ErrTimeout or domain.ErrProtocolViolation.
	Send(ctx context.Context, req Request) (Reply, error)
}

// Request is one outgoing ipc_message call.
type Request struct {
	CorrelationID string
	Envelope      domain.Envelope
}

// Reply is the host's answer to a Request.
// CorrelationID echoes the request's id.
type Reply struct {
	CorrelationID string
	Envelope      domain.Envelope
}
