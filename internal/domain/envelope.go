package domain

import "encoding/json"

// Envelope is the wire form of an action:
//
//	{ "domain": string, "action": { "type": string, "payload": any } }
type Envelope struct {
	Domain Domain         `json:"domain"`
	Action EnvelopeAction `json:"action"`
}

// EnvelopeAction is the domain-local part of an envelope.
type EnvelopeAction struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Decode unmarshals the payload into v.
func (a EnvelopeAction) Decode(v any) error {
	return Action{Type: a.Type, Payload: a.Payload}.Decode(v)
}

// NewEnvelopeAction builds an envelope action with payload encoded as JSON.
func NewEnvelopeAction(localType string, payload any) (EnvelopeAction, error) {
	a, err := NewAction(localType, payload)
	if err != nil {
		return EnvelopeAction{}, err
	}
	return EnvelopeAction{Type: localType, Payload: a.Payload}, nil
}
