package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bft-labs/actionbridge"
	logAdapter "github.com/bft-labs/actionbridge/internal/adapters/log"
	"github.com/bft-labs/actionbridge/internal/domain"
	"github.com/bft-labs/actionbridge/internal/host"
	"github.com/bft-labs/actionbridge/internal/slices/classifier"
)

func TestParseSendArgs(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantType    string
		wantPayload string
		wantErr     error
	}{
		{name: "type only", args: []string{"classifier/cancelClassifierRename"}, wantType: "classifier/cancelClassifierRename"},
		{name: "with payload", args: []string{"classifier/renameClassifier", `{"newName":"A"}`}, wantType: "classifier/renameClassifier", wantPayload: `{"newName":"A"}`},
		{name: "empty payload", args: []string{"a/b", ""}, wantType: "a/b"},
		{name: "malformed type", args: []string{"renameClassifier"}, wantErr: domain.ErrMalformedActionType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := parseSendArgs(tt.args)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if a.Type != tt.wantType || string(a.Payload) != tt.wantPayload {
				t.Errorf("action = %q %s", a.Type, a.Payload)
			}
		})
	}

	if _, err := parseSendArgs([]string{"a/b", "{not json"}); err == nil {
		t.Error("expected error for invalid payload")
	}
}

func newSendClient(t *testing.T, reg *host.Registry) *actionbridge.Client {
	t.Helper()
	logger := logAdapter.NewNoopLogger()
	srv := httptest.NewServer(actionbridge.NewHTTPHandler(reg, logger))
	t.Cleanup(srv.Close)

	client, err := actionbridge.New(actionbridge.Config{HostURL: srv.URL, Timeout: time.Second},
		actionbridge.WithHTTPClient(srv.Client()),
		actionbridge.WithLogger(logger),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := client.Use(classifier.Register); err != nil {
		t.Fatal(err)
	}
	return client
}

func TestSend_Classifier(t *testing.T) {
	logger := logAdapter.NewNoopLogger()
	client := newSendClient(t, actionbridge.NewClassifierHost(host.NewMemoryRepository(), logger))

	a, err := parseSendArgs([]string{"classifier/renameClassifier", `{"newName":"Alice"}`})
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := send(context.Background(), client, a, &out); err != nil {
		t.Fatalf("send() error = %v", err)
	}

	var got sendOutput
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if got.Type != "classifier/classifierRenamed" || got.Kind != "ok" || got.CorrelationID == "" {
		t.Errorf("output = %+v", got)
	}
	if string(got.Payload) != `{"newName":"Alice"}` {
		t.Errorf("payload = %s", got.Payload)
	}
}

func TestSend_OtherDomain(t *testing.T) {
	logger := logAdapter.NewNoopLogger()
	reg := host.NewRegistry(logger)
	reg.Register("echo", host.HandlerFunc(func(ctx context.Context, a domain.EnvelopeAction) (domain.EnvelopeAction, error) {
		return domain.EnvelopeAction{Type: "echoed", Payload: a.Payload}, nil
	}))
	client := newSendClient(t, reg)

	a, err := parseSendArgs([]string{"echo/say", `[1,2]`})
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := send(context.Background(), client, a, &out); err != nil {
		t.Fatalf("send() error = %v", err)
	}
	var got sendOutput
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Type != "echo/echoed" || string(got.Payload) != `[1,2]` {
		t.Errorf("output = %+v", got)
	}
}

func TestSend_Rejected(t *testing.T) {
	logger := logAdapter.NewNoopLogger()
	client := newSendClient(t, actionbridge.NewClassifierHost(host.NewMemoryRepository(), logger))

	a, err := parseSendArgs([]string{"classifier/frobnicate"})
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	err = send(context.Background(), client, a, &out)
	if !errors.Is(err, domain.ErrHostRejected) {
		t.Fatalf("send() error = %v, want ErrHostRejected", err)
	}
	var got sendOutput
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Kind != "host_rejected" || got.Error == "" {
		t.Errorf("output = %+v", got)
	}
}
