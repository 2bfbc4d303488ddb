package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Separator joins the domain and local type of a qualified action type.
const Separator = "/"

// Domain names the subsystem of the host an action belongs to (e.g. "classifier").
type Domain string

// String returns the domain name.
func (d Domain) String() string {
	return string(d)
}

// Action is a client action as seen by the store.
type Action struct {
	// Type is the qualified type, "domain/localType".
	Type string

	// Payload is the JSON encoded payload. Nil means no payload.
	Payload json.RawMessage

	// Meta is local bookkeeping attached by the bridge. It never crosses the wire.
	Meta Meta
}

// Meta carries bridge bookkeeping for an action dispatched to the store.
type Meta struct {
	// CorrelationID ties commit-intents and their replies together.
	CorrelationID string

	// Rollback marks an action synthesized by the bridge after a failed round trip.
	Rollback bool

	// Err is the failure that caused a rollback.
	Err error
}

// NewAction builds an action with payload encoded as JSON.
// A nil payload produces an action without payload.
func NewAction(qualifiedType string, payload any) (Action, error) {
	a := Action{Type: qualifiedType}
	if payload == nil {
		return a, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Action{}, fmt.Errorf("marshal payload for %s: %w", qualifiedType, err)
	}
	a.Payload = raw
	return a, nil
}

// MustAction is like NewAction but panics on an unencodable payload.
// Use it only with payload types known to be encodable.
func MustAction(qualifiedType string, payload any) Action {
	a, err := NewAction(qualifiedType, payload)
	if err != nil {
		panic(err)
	}
	return a
}

// Domain returns the domain segment of the qualified type, or "" if there is none.
func (a Action) Domain() Domain {
	d, _, ok := strings.Cut(a.Type, Separator)
	if !ok {
		return ""
	}
	return Domain(d)
}

// LocalType returns everything after the first separator, or "" if there is none.
func (a Action) LocalType() string {
	_, t, _ := strings.Cut(a.Type, Separator)
	return t
}

// Decode unmarshals the payload into v.
func (a Action) Decode(v any) error {
	if len(a.Payload) == 0 {
		return fmt.Errorf("%s: empty payload", a.Type)
	}
	if err := json.Unmarshal(a.Payload, v); err != nil {
		return fmt.Errorf("%s: decode payload: %w", a.Type, err)
	}
	return nil
}

// WithMeta returns a copy of the action carrying m.
func (a Action) WithMeta(m Meta) Action {
	a.Meta = m
	return a
}
