package host

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/bft-labs/actionbridge/internal/ports"
)

// ShutdownTimeout is the maximum time to wait for in-flight calls on Stop.
const ShutdownTimeout = 5 * time.Second

// Server serves a ports.Host over HTTP and tracks its lifecycle.
type Server struct {
	addr    string
	handler http.Handler
	logger  ports.Logger
	life    *lifecycle
	listen  func(network, addr string) (net.Listener, error)

	mu   sync.Mutex
	srv  *http.Server
	ln   net.Listener
	done chan struct{}
	err  error
}

// NewServer creates a stopped server for h on addr.
func NewServer(addr string, h ports.Host, logger ports.Logger) *Server {
	return &Server{
		addr:    addr,
		handler: NewHTTPHandler(h, logger),
		logger:  logger,
		life:    newLifecycle(logger),
		listen:  net.Listen,
	}
}

// Start binds the listen address and serves in the background.
func (s *Server) Start() error {
	if err := s.life.transitionTo(StateStarting, "start requested"); err != nil {
		return err
	}

	ln, err := s.listen("tcp", s.addr)
	if err != nil {
		_ = s.life.transitionTo(StateCrashed, err.Error())
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}

	srv := &http.Server{Handler: s.handler, ReadHeaderTimeout: 5 * time.Second}
	done := make(chan struct{})

	s.mu.Lock()
	s.srv, s.ln, s.done, s.err = srv, ln, done, nil
	s.mu.Unlock()

	// Serve may crash at once, so be Running before it starts.
	if err := s.life.transitionTo(StateRunning, "listening on "+ln.Addr().String()); err != nil {
		_ = ln.Close()
		close(done)
		return err
	}

	go func() {
		defer close(done)
		err := srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			return
		}
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		s.logger.Error("host server failed", ports.Err(err))
		_ = s.life.transitionTo(StateCrashed, err.Error())
	}()
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Status returns the current lifecycle state.
func (s *Server) Status() State {
	return s.life.State()
}

// Done is closed when the server stops serving.
func (s *Server) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Err returns the error that crashed the server, if any.
func (s *Server) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Stop shuts the server down, waiting up to ShutdownTimeout for in-flight calls.
func (s *Server) Stop() error {
	if err := s.life.transitionTo(StateStopping, "stop requested"); err != nil {
		return err
	}

	s.mu.Lock()
	srv, done := s.srv, s.done
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.logger.Warn("shutdown timeout, forcing exit", ports.Duration("timeout", ShutdownTimeout))
		_ = srv.Close()
	}
	<-done

	return s.life.transitionTo(StateStopped, "shutdown complete")
}
