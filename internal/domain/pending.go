package domain

import "time"

// PendingRequest is a commit the bridge sent and has not resolved yet.
// It is created when the envelope is handed to the channel and destroyed
// when the matching reply arrives, the call fails, or it times out.
type PendingRequest struct {
	CorrelationID string
	QualifiedType string
	IssuedAt      time.Time
}

// Age returns how long the request has been pending at now.
func (p PendingRequest) Age(now time.Time) time.Duration {
	return now.Sub(p.IssuedAt)
}
