package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bft-labs/actionbridge/internal/adapters/inproc"
	logAdapter "github.com/bft-labs/actionbridge/internal/adapters/log"
	"github.com/bft-labs/actionbridge/internal/app"
	"github.com/bft-labs/actionbridge/internal/domain"
	"github.com/bft-labs/actionbridge/internal/host"
	"github.com/bft-labs/actionbridge/internal/ports"
	"github.com/bft-labs/actionbridge/internal/slices/classifier"
	"github.com/bft-labs/actionbridge/internal/store"
)

type downChannel struct{}

func (downChannel) Send(ctx context.Context, req ports.Request) (ports.Reply, error) {
	return ports.Reply{}, errors.New("connection refused")
}

func newTestModel(t *testing.T, ch ports.Channel) Model {
	t.Helper()
	logger := logAdapter.NewNoopLogger()
	if ch == nil {
		reg := host.NewRegistry(logger)
		reg.Register(classifier.Domain, host.NewClassifierService(host.NewMemoryRepository()))
		ch = inproc.NewChannel(reg)
	}
	st := store.New()
	b := app.NewBridge(app.BridgeConfig{Timeout: time.Second}, ch, st, logger)
	if err := classifier.Register(st, b); err != nil {
		t.Fatal(err)
	}
	return New(st, b)
}

func key(k string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func apply(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	got, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	for i := 0; cmd != nil && i < 8; i++ {
		out := cmd()
		if out == nil {
			break
		}
		if _, quit := out.(tea.QuitMsg); quit {
			break
		}
		next, cmd = got.Update(out)
		got = next.(Model)
	}
	return got
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m = apply(t, m, key(string(r)))
	}
	return m
}

func TestModel_TypingIsProvisional(t *testing.T) {
	m := newTestModel(t, downChannel{})

	m = apply(t, m, tea.KeyMsg{Type: tea.KeyCtrlU})
	m = typeText(t, m, "Alice")

	if got := m.State(); got.Name != "Alice" || got.Phase != classifier.PhaseEditing {
		t.Errorf("state = %+v", got)
	}
	if got := m.State().Confirmed; got != classifier.DefaultName {
		t.Errorf("Confirmed = %q", got)
	}

	m = apply(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	if got := m.State().Name; got != "Alic" {
		t.Errorf("after backspace Name = %q, want Alic", got)
	}
}

func TestModel_EnterSaves(t *testing.T) {
	m := newTestModel(t, nil)

	m = apply(t, m, tea.KeyMsg{Type: tea.KeyCtrlU})
	m = typeText(t, m, "Bob")
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	got := m.State()
	if got.Name != "Bob" || got.Confirmed != "Bob" || got.Phase != classifier.PhaseIdle {
		t.Errorf("state = %+v", got)
	}
	if m.Status() != "saved" {
		t.Errorf("Status = %q, want saved", m.Status())
	}
}

func TestModel_EscCancels(t *testing.T) {
	m := newTestModel(t, nil)

	m = typeText(t, m, "zzz")
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if got := m.State(); got.Name != classifier.DefaultName || got.Phase != classifier.PhaseIdle {
		t.Errorf("state = %+v", got)
	}
	if m.Status() != "edit canceled" {
		t.Errorf("Status = %q", m.Status())
	}
}

func TestModel_FailureRollsBack(t *testing.T) {
	m := newTestModel(t, downChannel{})

	m = apply(t, m, tea.KeyMsg{Type: tea.KeyCtrlU})
	m = typeText(t, m, "Carol")
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	got := m.State()
	if got.Name != classifier.DefaultName || got.LastError == "" {
		t.Errorf("state = %+v, want rollback", got)
	}
	if m.Status() != "rolled back (channel_unavailable)" {
		t.Errorf("Status = %q", m.Status())
	}
	if view := m.View(); !strings.Contains(view, "rolled back") {
		t.Errorf("View() missing status:\n%s", view)
	}
}

func TestModel_CtrlCQuits(t *testing.T) {
	m := newTestModel(t, nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c did not quit")
	}
}

func TestModel_RefreshReadsStore(t *testing.T) {
	m := newTestModel(t, nil)
	m.store.Dispatch(classifier.Renaming("external"))

	if m.State().Name == "external" {
		t.Fatal("model updated before refresh")
	}
	m = apply(t, m, refreshMsg{})
	if m.State().Name != "external" {
		t.Errorf("Name = %q after refresh", m.State().Name)
	}
}

func TestModel_MalformedSubmit(t *testing.T) {
	m := newTestModel(t, nil)
	next, cmd := m.submit(domain.Action{Type: "nodomain"})
	m = apply(t, next.(Model), cmd())
	if !strings.HasPrefix(m.Status(), "not sent") {
		t.Errorf("Status = %q", m.Status())
	}
}

func TestView(t *testing.T) {
	m := newTestModel(t, nil)
	view := m.View()
	for _, want := range []string{"Classifier", classifier.DefaultName, "Idle", "enter save"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}

	m = apply(t, m, tea.WindowSizeMsg{Width: 12})
	m = typeText(t, m, "-and-a-much-longer-name")
	if view := m.View(); !strings.Contains(view, "…") || !strings.Contains(view, "Editing") {
		t.Errorf("View() did not elide a long draft:\n%s", view)
	}
}

func TestModel_StatusCountsPending(t *testing.T) {
	m := newTestModel(t, nil)

	next, first := m.submit(classifier.Rename("one"))
	m = next.(Model)
	if got := m.Status(); got != "saving..." {
		t.Errorf("one in flight: Status = %q, want saving...", got)
	}
	next, second := m.submit(classifier.Rename("two"))
	m = next.(Model)
	if got := m.Status(); got != "saving (2)..." {
		t.Errorf("two in flight: Status = %q, want saving (2)...", got)
	}
	if view := m.View(); !strings.Contains(view, "saving (2)...") {
		t.Errorf("View() missing pending count:\n%s", view)
	}

	m = apply(t, m, first())
	if got := m.Status(); got != "saved · saving..." {
		t.Errorf("one left: Status = %q", got)
	}
	m = apply(t, m, second())
	if got := m.Status(); got != "saved" {
		t.Errorf("all done: Status = %q, want saved", got)
	}
}
