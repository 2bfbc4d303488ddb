package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bft-labs/actionbridge"
	logAdapter "github.com/bft-labs/actionbridge/internal/adapters/log"
	"github.com/bft-labs/actionbridge/internal/app"
	"github.com/bft-labs/actionbridge/internal/domain"
	"github.com/bft-labs/actionbridge/internal/slices/classifier"
	"github.com/bft-labs/actionbridge/internal/store"
)

func (c *cli) sendCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "send <qualified-type> [payload-json]",
		Short: "Send one action to the host and print the reply",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(cmd); err != nil {
				return err
			}
			a, err := parseSendArgs(args)
			if err != nil {
				return err
			}

			logger := logAdapter.NewZerologAdapterWithLogger(c.log)
			client, err := actionbridge.New(actionbridge.Config{HostURL: c.cfg.HostURL, Timeout: c.cfg.Timeout},
				actionbridge.WithLogger(logger),
			)
			if err != nil {
				return err
			}
			if err := client.Use(classifier.Register); err != nil {
				return err
			}
			return send(cmd.Context(), client, a, cmd.OutOrStdout())
		},
	}
}

// parseSendArgs builds an action from a qualified type and optional JSON payload.
func parseSendArgs(args []string) (domain.Action, error) {
	a := domain.Action{Type: args[0]}
	if _, _, err := domain.SplitType(a.Type); err != nil {
		return domain.Action{}, err
	}
	if len(args) > 1 && args[1] != "" {
		if !json.Valid([]byte(args[1])) {
			return domain.Action{}, fmt.Errorf("payload is not valid JSON: %s", args[1])
		}
		a.Payload = json.RawMessage(args[1])
	}
	return a, nil
}

// rawSlice keeps the last payload seen for a domain no typed slice handles,
// so replies to it are accepted.
func rawSlice(d domain.Domain) store.Slice {
	return store.NewSlice(d, json.RawMessage(nil), func(_ json.RawMessage, a domain.Action) json.RawMessage {
		return a.Payload
	})
}

// sendOutput is what send prints.
type sendOutput struct {
	CorrelationID string          `json:"correlationId"`
	Type          string          `json:"type"`
	Payload       json.RawMessage `json:"payload,omitempty"`
	Error         string          `json:"error,omitempty"`
	Kind          string          `json:"kind"`
}

func send(ctx context.Context, client *actionbridge.Client, a domain.Action, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if d := a.Domain(); !client.Store().HasDomain(d) {
		if err := client.Register(rawSlice(d)); err != nil {
			return err
		}
	}

	res, err := client.Submit(ctx, a)
	if err != nil {
		return err
	}

	o := sendOutput{
		CorrelationID: res.CorrelationID,
		Type:          res.Action.Type,
		Payload:       res.Action.Payload,
		Kind:          app.Kind(res.Err),
	}
	if res.Err != nil {
		o.Error = res.Err.Error()
	}
	if err := json.NewEncoder(out).Encode(o); err != nil {
		return err
	}
	if res.Err != nil {
		return fmt.Errorf("round trip failed: %w", res.Err)
	}
	return nil
}
