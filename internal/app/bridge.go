package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/bft-labs/actionbridge/internal/domain"
	"github.com/bft-labs/actionbridge/internal/ports"
)

// DefaultTimeout bounds a single round trip to the host.
const DefaultTimeout = 10 * time.Second

// RequestFailedType is the local type of the generic failure action injected
// for domains that registered no RollbackFunc.
const RequestFailedType = "requestFailed"

// RollbackFunc builds the action that undoes the optimistic effect of req
// after its round trip failed with cause. The bridge attaches the
// correlation id and rollback marker itself.
type RollbackFunc func(req domain.Action, cause error) domain.Action

// FailurePayload is the payload of the generic requestFailed action.
type FailurePayload struct {
	Type    string `json:"type"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Result describes how a submitted action was resolved.
type Result struct {
	// CorrelationID identifies the round trip.
	CorrelationID string

	// Action is what the bridge injected into the store: the decoded reply
	// on success, the rollback action on failure.
	Action domain.Action

	// Err is the transport or protocol failure, nil on success.
	// It has already been resolved by injecting Action.
	Err error
}

// BridgeConfig contains configuration for the dispatch bridge.
type BridgeConfig struct {
	Timeout time.Duration
}

// BridgeOption configures optional behavior of a Bridge.
type BridgeOption func(*Bridge)

// WithIDGenerator replaces the correlation id generator.
func WithIDGenerator(next func() string) BridgeOption {
	return func(b *Bridge) {
		b.newID = next
	}
}

// WithClock replaces the clock used to stamp pending requests.
func WithClock(now func() time.Time) BridgeOption {
	return func(b *Bridge) {
		b.now = now
	}
}

// Bridge sends commit actions to the host and injects the replies.
// It is the only component that talks to the Channel and the only one that
// injects actions not caused by a UI event.
type Bridge struct {
	channel ports.Channel
	store   ports.Store
	logger  ports.Logger
	timeout atomic.Int64
	newID   func() string
	now     func() time.Time

	mu        sync.Mutex
	pending   map[string]*inflight
	rollbacks map[domain.Domain]RollbackFunc
}

// inflight is the bridge's record of one pending round trip.
type inflight struct {
	req    domain.PendingRequest
	action domain.Action
	done   chan struct{}
	result Result
}

// NewBridge creates a bridge dispatching into store over channel.
func NewBridge(cfg BridgeConfig, channel ports.Channel, store ports.Store, logger ports.Logger, opts ...BridgeOption) *Bridge {
	b := &Bridge{
		channel:   channel,
		store:     store,
		logger:    logger,
		newID:     uuid.NewString,
		now:       time.Now,
		pending:   make(map[string]*inflight),
		rollbacks: make(map[domain.Domain]RollbackFunc),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.SetTimeout(cfg.Timeout)
	return b
}

// RegisterRollback sets the rollback builder for domain d.
func (b *Bridge) RegisterRollback(d domain.Domain, fn RollbackFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollbacks[d] = fn
}

// SetTimeout changes the timeout for round trips started afterwards.
// Non-positive values reset it to DefaultTimeout.
func (b *Bridge) SetTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultTimeout
	}
	b.timeout.Store(int64(d))
}

// Timeout returns the current round trip timeout.
func (b *Bridge) Timeout() time.Duration {
	return time.Duration(b.timeout.Load())
}

// Pending returns the round trips still waiting for a reply, oldest first.
func (b *Bridge) Pending() []domain.PendingRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.PendingRequest, 0, len(b.pending))
	for _, p := range b.pending {
		out = append(out, p.req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IssuedAt.Before(out[j].IssuedAt) })
	return out
}

// Submit dispatches a commit action to the store, sends it to the host and
// blocks until the round trip is resolved.
//
// A malformed qualified type is returned as an error before anything is
// dispatched or sent. Every other failure is resolved by injecting a
// rollback action and is reported in Result.Err.
func (b *Bridge) Submit(ctx context.Context, a domain.Action) (Result, error) {
	env, err := domain.ToEnvelope(a)
	if err != nil {
		b.logger.Error("refusing to send action",
			ports.String("type", a.Type),
			ports.String("kind", Kind(err)),
			ports.Err(err),
		)
		return Result{}, err
	}

	id := b.newID()
	p := &inflight{
		req: domain.PendingRequest{
			CorrelationID: id,
			QualifiedType: a.Type,
			IssuedAt:      b.now(),
		},
		action: a,
		done:   make(chan struct{}),
	}

	b.mu.Lock()
	b.pending[id] = p
	b.mu.Unlock()

	// Optimistic local effect, tagged so the slice knows which reply is current.
	b.store.Dispatch(a.WithMeta(domain.Meta{CorrelationID: id}))

	timeout := b.Timeout()
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	b.logger.Debug("sending action",
		ports.String("type", a.Type),
		ports.String("correlation_id", id),
	)

	go func() {
		reply, err := b.channel.Send(callCtx, ports.Request{CorrelationID: id, Envelope: env})
		b.complete(id, reply, err)
	}()

	select {
	case <-p.done:
	case <-callCtx.Done():
		cause := fmt.Errorf("%w: %s after %s: %v", domain.ErrTimeout, a.Type, timeout, callCtx.Err())
		if !b.expire(id, cause) {
			// The reply claimed the request first; wait for it to be injected.
			<-p.done
		}
	}
	return p.result, nil
}

// Go is the asynchronous form of Submit. Malformed actions are rejected
// synchronously; otherwise done, if non-nil, is called with the result.
func (b *Bridge) Go(ctx context.Context, a domain.Action, done func(Result)) error {
	if _, err := domain.ToEnvelope(a); err != nil {
		return err
	}
	go func() {
		res, err := b.Submit(ctx, a)
		if err == nil && done != nil {
			done(res)
		}
	}()
	return nil
}

// take removes and returns the pending request for id, or nil if it is gone.
func (b *Bridge) take(id string) *inflight {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.pending[id]
	if !ok {
		return nil
	}
	delete(b.pending, id)
	return p
}

// complete resolves a round trip when the channel returns.
func (b *Bridge) complete(id string, reply ports.Reply, sendErr error) {
	p := b.take(id)
	if p == nil {
		b.logger.Warn("discarded late reply",
			ports.String("correlation_id", id),
			ports.String("reply_domain", reply.Envelope.Domain.String()),
			ports.String("reply_type", reply.Envelope.Action.Type),
		)
		return
	}
	defer close(p.done)

	if sendErr != nil {
		b.rollback(p, classify(sendErr))
		return
	}

	act, err := b.decodeReply(id, reply)
	if err != nil {
		b.rollback(p, err)
		return
	}

	act.Meta = domain.Meta{CorrelationID: id}
	b.store.Dispatch(act)
	p.result = Result{CorrelationID: id, Action: act}

	b.logger.Debug("reply injected",
		ports.String("type", act.Type),
		ports.String("correlation_id", id),
		ports.Duration("elapsed", p.req.Age(b.now())),
	)
}

// expire resolves a round trip that ran out of time.
// It returns false if the reply already claimed the request.
func (b *Bridge) expire(id string, cause error) bool {
	p := b.take(id)
	if p == nil {
		return false
	}
	defer close(p.done)
	b.rollback(p, cause)
	return true
}

func (b *Bridge) decodeReply(id string, reply ports.Reply) (domain.Action, error) {
	if reply.CorrelationID != id {
		return domain.Action{}, fmt.Errorf("%w: reply for %q answered request %q",
			domain.ErrProtocolViolation, reply.CorrelationID, id)
	}
	act, err := domain.FromEnvelope(reply.Envelope)
	if err != nil {
		return domain.Action{}, fmt.Errorf("%w: %w", domain.ErrProtocolViolation, err)
	}
	if !b.store.HasDomain(act.Domain()) {
		return domain.Action{}, fmt.Errorf("%w: %w %q", domain.ErrProtocolViolation, domain.ErrUnknownDomain, act.Domain())
	}
	return act, nil
}

// rollback injects the failure action for p.
func (b *Bridge) rollback(p *inflight, cause error) {
	kind := Kind(cause)
	fields := []ports.Field{
		ports.String("type", p.req.QualifiedType),
		ports.String("correlation_id", p.req.CorrelationID),
		ports.String("kind", kind),
		ports.Err(cause),
	}
	if errors.Is(cause, domain.ErrProtocolViolation) {
		b.logger.Error("protocol violation, rolling back", fields...)
	} else {
		b.logger.Warn("round trip failed, rolling back", fields...)
	}

	act := b.rollbackAction(p.action, cause)
	act.Meta = domain.Meta{
		CorrelationID: p.req.CorrelationID,
		Rollback:      true,
		Err:           cause,
	}
	b.store.Dispatch(act)
	p.result = Result{CorrelationID: p.req.CorrelationID, Action: act, Err: cause}
}

func (b *Bridge) rollbackAction(req domain.Action, cause error) domain.Action {
	d := req.Domain()

	b.mu.Lock()
	fn := b.rollbacks[d]
	b.mu.Unlock()

	if fn != nil {
		return fn(req, cause)
	}
	// FailurePayload always encodes.
	return domain.MustAction(domain.JoinType(d, RequestFailedType), FailurePayload{
		Type:    req.Type,
		Kind:    Kind(cause),
		Message: cause.Error(),
	})
}

// classify maps channel errors onto the failure taxonomy.
// Errors that carry none of the sentinels count as an unreachable host.
func classify(err error) error {
	switch {
	case errors.Is(err, domain.ErrChannelUnavailable),
		errors.Is(err, domain.ErrHostRejected),
		errors.Is(err, domain.ErrTimeout),
		errors.Is(err, domain.ErrProtocolViolation):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	default:
		return fmt.Errorf("%w: %w", domain.ErrChannelUnavailable, err)
	}
}

// Kind returns a stable label for err, used in logs and failure payloads.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrMalformedActionType):
		return "malformed_action_type"
	case errors.Is(err, domain.ErrProtocolViolation):
		return "protocol_violation"
	case errors.Is(err, domain.ErrHostRejected):
		return "host_rejected"
	case errors.Is(err, domain.ErrTimeout):
		return "timeout"
	case errors.Is(err, domain.ErrChannelUnavailable):
		return "channel_unavailable"
	default:
		return "unknown"
	}
}
