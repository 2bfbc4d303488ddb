package ports

import "github.com/bft-labs/actionbridge/internal/domain"

// CallPathPrefix is the URL prefix of named calls: POST /ipc/{name}.
const CallPathPrefix = "/ipc/"

// CorrelationHeader carries the caller's correlation id; the host echoes it.
const CorrelationHeader = "X-Correlation-Id"

// CallArgs is the request body of a named call.
type CallArgs struct {
	Message domain.Envelope `json:"message"`
}

// ErrorBody is the response body of a rejected call.
type ErrorBody struct {
	Error *RejectError `json:"error"`
}

// RejectError is an application-level refusal of one envelope.
type RejectError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements error.
func (e *RejectError) Error() string {
	return e.Code + ": " + e.Message
}

// Unwrap makes every rejection match domain.ErrHostRejected.
func (e *RejectError) Unwrap() error {
	return domain.ErrHostRejected
}
