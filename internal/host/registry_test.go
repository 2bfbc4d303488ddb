package host

import (
	"context"
	"errors"
	"testing"

	logAdapter "github.com/bft-labs/actionbridge/internal/adapters/log"
	"github.com/bft-labs/actionbridge/internal/domain"
	"github.com/bft-labs/actionbridge/internal/ports"
	"github.com/bft-labs/actionbridge/internal/slices/classifier"
)

func newClassifierRegistry(repo ports.ClassifierRepository) *Registry {
	r := NewRegistry(logAdapter.NewNoopLogger())
	r.Register(classifier.Domain, NewClassifierService(repo))
	return r
}

func envelope(t *testing.T, a domain.Action) domain.Envelope {
	t.Helper()
	env, err := domain.ToEnvelope(a)
	if err != nil {
		t.Fatalf("ToEnvelope() error = %v", err)
	}
	return env
}

func TestRegistry_Rename(t *testing.T) {
	repo := NewMemoryRepository()
	r := newClassifierRegistry(repo)

	reply, err := r.Call(context.Background(), ports.CallName, envelope(t, classifier.Rename("Alice")))
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if reply.Domain != classifier.Domain || reply.Action.Type != classifier.ClassifierRenamed {
		t.Fatalf("reply = %+v", reply)
	}
	var dto classifier.EditNameDTO
	if err := reply.Action.Decode(&dto); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if dto.NewName != "Alice" {
		t.Errorf("NewName = %q, want Alice", dto.NewName)
	}
	if name, _ := repo.Load(context.Background()); name != "Alice" {
		t.Errorf("stored name = %q, want Alice", name)
	}
}

func TestRegistry_Cancel(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		want   string
	}{
		{"default name", "", classifier.DefaultName},
		{"stored name", "Bob", "Bob"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewMemoryRepository()
			_ = repo.Save(context.Background(), tt.stored)
			r := newClassifierRegistry(repo)

			reply, err := r.Call(context.Background(), ports.CallName, envelope(t, classifier.CancelRename()))
			if err != nil {
				t.Fatalf("Call() error = %v", err)
			}
			if reply.Action.Type != classifier.ClassifierRenameCanceled {
				t.Fatalf("reply type = %q", reply.Action.Type)
			}
			var dto classifier.EditNameDTO
			if err := reply.Action.Decode(&dto); err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if dto.NewName != tt.want {
				t.Errorf("NewName = %q, want %q", dto.NewName, tt.want)
			}
		})
	}
}

func TestRegistry_Rejections(t *testing.T) {
	r := newClassifierRegistry(NewMemoryRepository())

	tests := []struct {
		name     string
		call     string
		env      domain.Envelope
		wantCode string
	}{
		{"unknown call", "greet", envelope(t, classifier.Rename("A")), CodeUnknownCall},
		{"unknown domain", ports.CallName, domain.Envelope{Domain: "diagram", Action: domain.EnvelopeAction{Type: "move"}}, CodeUnknownDomain},
		{"unknown action", ports.CallName, domain.Envelope{Domain: classifier.Domain, Action: domain.EnvelopeAction{Type: "explode"}}, CodeUnknownAction},
		{"empty name", ports.CallName, envelope(t, classifier.Rename("  ")), CodeInvalid},
		{"missing payload", ports.CallName, domain.Envelope{Domain: classifier.Domain, Action: domain.EnvelopeAction{Type: classifier.RenameClassifier}}, CodeInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Call(context.Background(), tt.call, tt.env)
			if !errors.Is(err, domain.ErrHostRejected) {
				t.Fatalf("Call() error = %v, want ErrHostRejected", err)
			}
			var rej *ports.RejectError
			if !errors.As(err, &rej) || rej.Code != tt.wantCode {
				t.Errorf("rejection = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

type failingRepo struct{}

func (failingRepo) Load(ctx context.Context) (string, error) { return "", errors.New("disk gone") }
func (failingRepo) Save(ctx context.Context, name string) error {
	return errors.New("disk gone")
}

func TestRegistry_HandlerFailureIsInternalRejection(t *testing.T) {
	r := newClassifierRegistry(failingRepo{})

	_, err := r.Call(context.Background(), ports.CallName, envelope(t, classifier.Rename("Alice")))
	var rej *ports.RejectError
	if !errors.As(err, &rej) || rej.Code != CodeInternal {
		t.Fatalf("Call() error = %v, want %s rejection", err, CodeInternal)
	}
}

func TestRegistry_HandlerFunc(t *testing.T) {
	r := NewRegistry(logAdapter.NewNoopLogger())
	r.Register("ping", HandlerFunc(func(ctx context.Context, a domain.EnvelopeAction) (domain.EnvelopeAction, error) {
		return domain.EnvelopeAction{Type: "pong"}, nil
	}))

	reply, err := r.Call(context.Background(), ports.CallName, domain.Envelope{Domain: "ping", Action: domain.EnvelopeAction{Type: "ping"}})
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if reply.Domain != "ping" || reply.Action.Type != "pong" {
		t.Errorf("reply = %+v", reply)
	}
}
