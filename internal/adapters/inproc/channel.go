// Package inproc provides a Channel that calls a host in the same process.
package inproc

import (
	"context"
	"fmt"

	"github.com/bft-labs/actionbridge/internal/domain"
	"github.com/bft-labs/actionbridge/internal/ports"
)

// Channel implements ports.Channel by calling a ports.Host directly.
type Channel struct {
	host ports.Host
}

// NewChannel creates a channel bound to h.
func NewChannel(h ports.Host) *Channel {
	return &Channel{host: h}
}

// Send calls the host on its own goroutine so ctx can bound the wait.
func (c *Channel) Send(ctx context.Context, req ports.Request) (ports.Reply, error) {
	type outcome struct {
		env domain.Envelope
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		env, err := c.host.Call(ctx, ports.CallName, req.Envelope)
		done <- outcome{env: env, err: err}
	}()

	select {
	case o := <-done:
		if o.err != nil {
			return ports.Reply{}, o.err
		}
		return ports.Reply{CorrelationID: req.CorrelationID, Envelope: o.env}, nil
	case <-ctx.Done():
		return ports.Reply{}, fmt.Errorf("%w: %w", domain.ErrTimeout, ctx.Err())
	}
}
