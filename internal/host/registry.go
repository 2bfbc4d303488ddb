// Package host models the external process the bridge talks to.
//
// A Registry routes each ipc_message envelope to the Handler registered for
// its domain and wraps the handler's answer in a reply envelope. Handlers may
// answer with a different local type than the request, e.g. a confirmation.
package host

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bft-labs/actionbridge/internal/domain"
	"github.com/bft-labs/actionbridge/internal/ports"
)

// Rejection codes.
const (
	CodeUnknownCall   = "UNKNOWN_CALL"
	CodeUnknownDomain = "UNKNOWN_DOMAIN"
	CodeUnknownAction = "UNKNOWN_ACTION"
	CodeInvalid       = "INVALID_PAYLOAD"
	CodeInternal      = "INTERNAL"
)

// Handler performs the work for one domain.
type Handler interface {
	Handle(ctx context.Context, action domain.EnvelopeAction) (domain.EnvelopeAction, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, action domain.EnvelopeAction) (domain.EnvelopeAction, error)

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, action domain.EnvelopeAction) (domain.EnvelopeAction, error) {
	return f(ctx, action)
}

// Reject creates a ports.RejectError.
func Reject(code, format string, args ...any) *ports.RejectError {
	return &ports.RejectError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Registry dispatches envelopes to per-domain handlers.
// It implements ports.Host.
type Registry struct {
	mu       sync.RWMutex
	handlers map[domain.Domain]Handler
	logger   ports.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger ports.Logger) *Registry {
	return &Registry{
		handlers: make(map[domain.Domain]Handler),
		logger:   logger,
	}
}

// Register sets the handler for domain d.
func (r *Registry) Register(d domain.Domain, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[d] = h
}

// Call handles one named call. Only ports.CallName is accepted.
func (r *Registry) Call(ctx context.Context, name string, message domain.Envelope) (domain.Envelope, error) {
	if name != ports.CallName {
		return domain.Envelope{}, Reject(CodeUnknownCall, "unknown call %q", name)
	}

	r.mu.RLock()
	h, ok := r.handlers[message.Domain]
	r.mu.RUnlock()
	if !ok {
		r.logger.Warn("no handler for domain", ports.String("domain", message.Domain.String()))
		return domain.Envelope{}, Reject(CodeUnknownDomain, "no handler for domain %q", message.Domain)
	}

	reply, err := h.Handle(ctx, message.Action)
	if err != nil {
		var rej *ports.RejectError
		if !errors.As(err, &rej) {
			r.logger.Error("handler failed",
				ports.String("domain", message.Domain.String()),
				ports.String("type", message.Action.Type),
				ports.Err(err),
			)
			return domain.Envelope{}, Reject(CodeInternal, "%s/%s failed", message.Domain, message.Action.Type)
		}
		r.logger.Info("action rejected",
			ports.String("domain", message.Domain.String()),
			ports.String("type", message.Action.Type),
			ports.String("code", rej.Code),
		)
		return domain.Envelope{}, rej
	}

	r.logger.Debug("action handled",
		ports.String("domain", message.Domain.String()),
		ports.String("type", message.Action.Type),
		ports.String("reply", reply.Type),
	)
	return domain.Envelope{Domain: message.Domain, Action: reply}, nil
}
