package domain

import (
	"bytes"
	"fmt"
	"strings"
)

// SplitType splits a qualified type on the first Separator.
// Everything after the first separator is the local type, verbatim.
func SplitType(qualifiedType string) (Domain, string, error) {
	d, t, ok := strings.Cut(qualifiedType, Separator)
	if !ok {
		return "", "", fmt.Errorf("%w: %q has no %q separator", ErrMalformedActionType, qualifiedType, Separator)
	}
	if d == "" || t == "" {
		return "", "", fmt.Errorf("%w: %q has an empty segment", ErrMalformedActionType, qualifiedType)
	}
	return Domain(d), t, nil
}

// JoinType builds a qualified type from a domain and local type.
func JoinType(d Domain, localType string) string {
	return string(d) + Separator + localType
}

// ToEnvelope converts an action into its wire envelope. Meta is dropped.
func ToEnvelope(a Action) (Envelope, error) {
	d, t, err := SplitType(a.Type)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		Domain: d,
		Action: EnvelopeAction{Type: t, Payload: clonePayload(a.Payload)},
	}, nil
}

// FromEnvelope converts a wire envelope back into an action.
// The domain must not contain the separator, otherwise the resulting
// qualified type would split differently than it was built.
func FromEnvelope(e Envelope) (Action, error) {
	if e.Domain == "" || e.Action.Type == "" {
		return Action{}, fmt.Errorf("%w: envelope without domain or type", ErrMalformedActionType)
	}
	if strings.Contains(string(e.Domain), Separator) {
		return Action{}, fmt.Errorf("%w: domain %q contains %q", ErrMalformedActionType, e.Domain, Separator)
	}
	return Action{
		Type:    JoinType(e.Domain, e.Action.Type),
		Payload: clonePayload(e.Action.Payload),
	}, nil
}

// Equal reports whether two actions have the same type and payload bytes.
// Meta is not compared.
func Equal(a, b Action) bool {
	return a.Type == b.Type && bytes.Equal(a.Payload, b.Payload)
}

func clonePayload(p []byte) []byte {
	if p == nil {
		return nil
	}
	return append([]byte(nil), p...)
}
