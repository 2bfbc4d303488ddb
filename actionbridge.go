// Package actionbridge connects a client-side action store to a host
// process through the single ipc_message call.
//
// Example usage:
//
//	c, err := actionbridge.New(actionbridge.Config{HostURL: "http://127.0.0.1:7411"},
//	    actionbridge.WithLogger(logger),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := c.Use(classifier.Register); err != nil {
//	    log.Fatal(err)
//	}
//	res, err := c.Submit(ctx, classifier.Rename("Alice"))
package actionbridge

import (
	"context"
	"errors"
	"net/http"
	"time"

	httpAdapter "github.com/bft-labs/actionbridge/internal/adapters/http"
	"github.com/bft-labs/actionbridge/internal/adapters/inproc"
	logAdapter "github.com/bft-labs/actionbridge/internal/adapters/log"
	"github.com/bft-labs/actionbridge/internal/app"
	"github.com/bft-labs/actionbridge/internal/domain"
	"github.com/bft-labs/actionbridge/internal/host"
	"github.com/bft-labs/actionbridge/internal/ports"
	"github.com/bft-labs/actionbridge/internal/slices/classifier"
	"github.com/bft-labs/actionbridge/internal/store"
)

type (
	// Action is a namespaced client action.
	Action = domain.Action

	// Domain names one state slice and its host handler.
	Domain = domain.Domain

	// Result reports how one round trip ended.
	Result = app.Result

	// PendingRequest describes a round trip awaiting its reply.
	PendingRequest = domain.PendingRequest

	// Slice is one domain's reducer registered in the store.
	Slice = store.Slice

	// State is an aggregate snapshot of every slice.
	State = store.State

	// Listener observes every dispatched action.
	Listener = store.Listener

	// RollbackFunc builds the action injected when a round trip fails.
	RollbackFunc = app.RollbackFunc

	// Logger is the interface for structured logging.
	Logger = ports.Logger

	// HTTPClient is the interface for making HTTP requests.
	// *http.Client satisfies this interface.
	HTTPClient = ports.HTTPClient

	// Host is the external process an embedded client talks to in-process.
	Host = ports.Host
)

// DefaultTimeout bounds one round trip unless Config.Timeout is set.
const DefaultTimeout = app.DefaultTimeout

// Config holds the configuration for a Client.
type Config struct {
	// HostURL is the base URL of the host. Ignored when WithHost is used.
	HostURL string

	// Timeout bounds one round trip. Default: DefaultTimeout
	Timeout time.Duration
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if c.Timeout < 0 {
		return errors.New("actionbridge: timeout must not be negative")
	}
	return nil
}

// Option configures optional behavior of a Client.
type Option func(*options)

type options struct {
	httpClient ports.HTTPClient
	logger     ports.Logger
	host       ports.Host
}

// WithHTTPClient sets the HTTP client used to reach the host.
func WithHTTPClient(client HTTPClient) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithHost calls h in-process instead of over HTTP.
func WithHost(h Host) Option {
	return func(o *options) {
		o.host = h
	}
}

// Client owns a store and the bridge that feeds it.
type Client struct {
	store  *store.Store
	bridge *app.Bridge
	logger ports.Logger
}

// New creates a Client. Register slices with Register or Use before submitting.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{logger: logAdapter.NewNoopLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	var ch ports.Channel
	switch {
	case o.host != nil:
		ch = inproc.NewChannel(o.host)
	case cfg.HostURL != "":
		client := o.httpClient
		if client == nil {
			client = &http.Client{}
		}
		ch = httpAdapter.NewChannel(client, cfg.HostURL, o.logger)
	default:
		return nil, errors.New("actionbridge: host URL is required without an embedded host")
	}

	st := store.New()
	return &Client{
		store:  st,
		bridge: app.NewBridge(app.BridgeConfig{Timeout: cfg.Timeout}, ch, st, o.logger),
		logger: o.logger,
	}, nil
}

// Register adds a slice to the store.
func (c *Client) Register(s Slice) error {
	return c.store.Register(s)
}

// RegisterRollback sets the rollback for one domain.
func (c *Client) RegisterRollback(d Domain, fn RollbackFunc) {
	c.bridge.RegisterRollback(d, fn)
}

// Use runs a slice package's registration function, such as classifier.Register.
func (c *Client) Use(register func(*store.Store, *app.Bridge) error) error {
	return register(c.store, c.bridge)
}

// Dispatch applies a local action without contacting the host.
func (c *Client) Dispatch(a Action) {
	c.store.Dispatch(a)
}

// State returns a snapshot of every slice.
func (c *Client) State() State {
	return c.store.State()
}

// Subscribe registers l and returns a function that removes it.
func (c *Client) Subscribe(l Listener) func() {
	return c.store.Subscribe(l)
}

// Submit sends a commit-intent and waits for its confirmation or rollback.
func (c *Client) Submit(ctx context.Context, a Action) (Result, error) {
	return c.bridge.Submit(ctx, a)
}

// Go is the asynchronous form of Submit.
func (c *Client) Go(ctx context.Context, a Action, done func(Result)) error {
	return c.bridge.Go(ctx, a, done)
}

// SetTimeout changes the round trip timeout for later submissions.
func (c *Client) SetTimeout(d time.Duration) {
	c.bridge.SetTimeout(d)
}

// Pending lists round trips awaiting a reply, oldest first.
func (c *Client) Pending() []PendingRequest {
	return c.bridge.Pending()
}

// Store returns the underlying store.
func (c *Client) Store() *store.Store {
	return c.store
}

// Bridge returns the underlying bridge.
func (c *Client) Bridge() *app.Bridge {
	return c.bridge
}

// NewClassifierHost returns a host serving the classifier domain,
// persisting the name through repo.
func NewClassifierHost(repo ports.ClassifierRepository, logger Logger) *host.Registry {
	reg := host.NewRegistry(logger)
	reg.Register(classifier.Domain, host.NewClassifierService(repo))
	return reg
}

// NewHTTPHandler serves h over HTTP at /ipc/{name}.
func NewHTTPHandler(h Host, logger Logger) http.Handler {
	return host.NewHTTPHandler(h, logger)
}
