package host

import (
	"errors"
	"sync"

	"github.com/bft-labs/actionbridge/internal/ports"
)

var (
	// ErrServerRunning is returned when Start is called on a running server.
	ErrServerRunning = errors.New("host: server already running")

	// ErrServerStopped is returned when Stop is called on a stopped server.
	ErrServerStopped = errors.New("host: server not running")
)

// State represents the lifecycle state of a Server.
type State int

const (
	StateStopped State = iota
	StateStarting
	StateRunning
	StateStopping
	StateCrashed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateStarting:
		return "Starting"
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	case StateCrashed:
		return "Crashed"
	default:
		return "Unknown"
	}
}

// lifecycle is the state machine behind Server.
type lifecycle struct {
	mu     sync.RWMutex
	state  State
	logger ports.Logger
}

func newLifecycle(logger ports.Logger) *lifecycle {
	return &lifecycle{state: StateStopped, logger: logger}
}

func (l *lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// transitionTo moves to next or reports why it cannot.
func (l *lifecycle) transitionTo(next State, reason string) error {
	l.mu.Lock()
	prev := l.state

	switch prev {
	case StateStopped, StateCrashed:
		if next != StateStarting {
			l.mu.Unlock()
			return ErrServerStopped
		}
	case StateStarting:
		if next != StateRunning && next != StateCrashed {
			l.mu.Unlock()
			return ErrServerRunning
		}
	case StateRunning:
		if next != StateStopping && next != StateCrashed {
			l.mu.Unlock()
			return ErrServerRunning
		}
	case StateStopping:
		if next != StateStopped && next != StateCrashed {
			l.mu.Unlock()
			return ErrServerRunning
		}
	}

	l.state = next
	l.mu.Unlock()

	l.logger.Info("state transition",
		ports.String("from", prev.String()),
		ports.String("to", next.String()),
		ports.String("reason", reason),
	)
	return nil
}
