package inproc

import (
	"github.com/bft-labs/actionbridge/internal/domain"
	"github.com/bft-labs/actionbridge/internal/ports"
)

func portsRequest(id string) ports.Request {
	return ports.Request{
		CorrelationID: id,
		Envelope:      domain.Envelope{Domain: "classifier", Action: domain.EnvelopeAction{Type: "renameClassifier"}},
	}
}
