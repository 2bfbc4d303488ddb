package domain

import "errors"

// Domain errors represent the failure taxonomy of the action bridge.
// They are wrapped with additional context and can be checked with errors.Is.
var (
	// ErrMalformedActionType is returned when a qualified type does not have
	// a non-empty domain and local type separated by Separator.
	// It is a programmer error and is reported before any transport call.
	ErrMalformedActionType = errors.New("actionbridge: malformed action type")

	// ErrChannelUnavailable is returned when the host process cannot be reached.
	ErrChannelUnavailable = errors.New("actionbridge: channel unavailable")

	// ErrHostRejected is returned when the host understood the envelope but declined it.
	ErrHostRejected = errors.New("actionbridge: host rejected")

	// ErrTimeout is returned when no reply arrived within the request timeout.
	ErrTimeout = errors.New("actionbridge: timeout")

	// ErrProtocolViolation is returned when a reply cannot be decoded or
	// addresses a domain no slice is registered for.
	ErrProtocolViolation = errors.New("actionbridge: protocol violation")

	// ErrUnknownDomain is returned when a domain is not known to the receiver.
	ErrUnknownDomain = errors.New("actionbridge: unknown domain")
)
