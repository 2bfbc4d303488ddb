package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bft-labs/actionbridge/internal/domain"
	"github.com/bft-labs/actionbridge/internal/ports"
)

const maxReplyBytes = 1 << 20

// Channel implements ports.Channel over HTTP: every request is one
// POST {baseURL}/ipc/ipc_message.
type Channel struct {
	client  ports.HTTPClient
	baseURL string
	logger  ports.Logger
}

// NewChannel creates a channel talking to the host at baseURL.
func NewChannel(client ports.HTTPClient, baseURL string, logger ports.Logger) *Channel {
	return &Channel{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Send transmits the envelope and decodes the reply envelope.
func (c *Channel) Send(ctx context.Context, req ports.Request) (ports.Reply, error) {
	body, err := json.Marshal(ports.CallArgs{Message: req.Envelope})
	if err != nil {
		return ports.Reply{}, fmt.Errorf("marshal call args: %w", err)
	}

	url := c.baseURL + ports.CallPathPrefix + ports.CallName
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return ports.Reply{}, fmt.Errorf("%w: create request: %w", domain.ErrChannelUnavailable, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(ports.CorrelationHeader, req.CorrelationID)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ports.Reply{}, fmt.Errorf("%w: %w", domain.ErrTimeout, err)
		}
		return ports.Reply{}, fmt.Errorf("%w: %w", domain.ErrChannelUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return ports.Reply{}, fmt.Errorf("%w: read reply: %w", domain.ErrChannelUnavailable, err)
	}

	switch {
	case resp.StatusCode/100 == 2:
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return ports.Reply{}, rejection(respBody)
	default:
		return ports.Reply{}, fmt.Errorf("%w: host returned %d: %s",
			domain.ErrChannelUnavailable, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var env domain.Envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		c.logger.Error("undecodable reply",
			ports.String("correlation_id", req.CorrelationID),
			ports.Err(err),
		)
		return ports.Reply{}, fmt.Errorf("%w: decode reply: %w", domain.ErrProtocolViolation, err)
	}

	return ports.Reply{
		CorrelationID: resp.Header.Get(ports.CorrelationHeader),
		Envelope:      env,
	}, nil
}

// rejection turns a 422 body into an error wrapping domain.ErrHostRejected.
func rejection(body []byte) error {
	var eb ports.ErrorBody
	if err := json.Unmarshal(body, &eb); err != nil || eb.Error == nil {
		return fmt.Errorf("%w: %s", domain.ErrHostRejected, strings.TrimSpace(string(body)))
	}
	return eb.Error
}
