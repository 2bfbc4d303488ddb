package host

import (
	"errors"
	"sync"
	"testing"

	logAdapter "github.com/bft-labs/actionbridge/internal/adapters/log"
)

func TestNewLifecycle(t *testing.T) {
	l := newLifecycle(logAdapter.NewNoopLogger())
	if l.State() != StateStopped {
		t.Errorf("initial state = %v, want StateStopped", l.State())
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateStopped, "Stopped"},
		{StateStarting, "Starting"},
		{StateRunning, "Running"},
		{StateStopping, "Stopping"},
		{StateCrashed, "Crashed"},
		{State(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestLifecycle_ValidTransitions(t *testing.T) {
	tests := []struct {
		name string
		path []State
	}{
		{"normal start and stop", []State{StateStarting, StateRunning, StateStopping, StateStopped}},
		{"crash while starting", []State{StateStarting, StateCrashed, StateStarting}},
		{"crash while running", []State{StateStarting, StateRunning, StateCrashed}},
		{"crash while stopping", []State{StateStarting, StateRunning, StateStopping, StateCrashed}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLifecycle(logAdapter.NewNoopLogger())
			for _, s := range tt.path {
				if err := l.transitionTo(s, "test"); err != nil {
					t.Fatalf("transition to %v: %v", s, err)
				}
			}
			if got := l.State(); got != tt.path[len(tt.path)-1] {
				t.Errorf("state = %v", got)
			}
		})
	}
}

func TestLifecycle_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name    string
		setup   []State
		next    State
		wantErr error
	}{
		{"stop when stopped", nil, StateStopping, ErrServerStopped},
		{"run when stopped", nil, StateRunning, ErrServerStopped},
		{"start when starting", []State{StateStarting}, StateStarting, ErrServerRunning},
		{"start when running", []State{StateStarting, StateRunning}, StateStarting, ErrServerRunning},
		{"stop twice", []State{StateStarting, StateRunning, StateStopping}, StateStopping, ErrServerRunning},
		{"stop when crashed", []State{StateStarting, StateCrashed}, StateStopping, ErrServerStopped},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLifecycle(logAdapter.NewNoopLogger())
			for _, s := range tt.setup {
				if err := l.transitionTo(s, "setup"); err != nil {
					t.Fatalf("setup transition to %v: %v", s, err)
				}
			}
			before := l.State()
			if err := l.transitionTo(tt.next, "test"); !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if l.State() != before {
				t.Errorf("state changed to %v on rejected transition", l.State())
			}
		})
	}
}

func TestLifecycle_Concurrency(t *testing.T) {
	l := newLifecycle(logAdapter.NewNoopLogger())

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.transitionTo(StateStarting, "race") == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("%d goroutines started the server, want 1", wins)
	}
}
