// Package tui is the terminal client: one classifier name field with
// edit and cancel, driven through the store and the bridge.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bft-labs/actionbridge/internal/app"
	"github.com/bft-labs/actionbridge/internal/domain"
	"github.com/bft-labs/actionbridge/internal/slices/classifier"
	"github.com/bft-labs/actionbridge/internal/store"
)

// Submitter sends commit-intents to the host. *app.Bridge satisfies it.
type Submitter interface {
	Submit(ctx context.Context, a domain.Action) (app.Result, error)
}

// refreshMsg tells the model the store changed.
type refreshMsg struct{}

// resultMsg carries the outcome of one round trip.
type resultMsg struct {
	res app.Result
	err error
}

// Model is the bubbletea model of the classifier editor.
type Model struct {
	store  *store.Store
	bridge Submitter

	state classifier.State
	// status is the outcome of the last finished round trip.
	status string
	// pending counts round trips still in flight.
	pending int
	width   int
}

// New returns a model reading from st and submitting through b.
func New(st *store.Store, b Submitter) Model {
	return Model{
		store:  st,
		bridge: b,
		state:  classifier.Select(st.State()),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case refreshMsg:
		m.refresh()
		return m, nil

	case resultMsg:
		if m.pending > 0 {
			m.pending--
		}
		m.status = describe(msg.res, msg.err)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		return m.submit(classifier.Rename(m.state.Name))
	case "esc":
		return m.submit(classifier.CancelRename())
	case "ctrl+u":
		return m.edit("")
	case "backspace":
		r := []rune(m.state.Name)
		if len(r) == 0 {
			return m, nil
		}
		return m.edit(string(r[:len(r)-1]))
	}

	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace:
		return m.edit(m.state.Name + string(msg.Runes))
	}
	return m, nil
}

// edit dispatches a provisional rename; nothing leaves the process.
func (m Model) edit(name string) (tea.Model, tea.Cmd) {
	m.store.Dispatch(classifier.Renaming(name))
	m.refresh()
	return m, nil
}

func (m Model) submit(a domain.Action) (tea.Model, tea.Cmd) {
	m.pending++
	m.status = ""
	b := m.bridge
	return m, func() tea.Msg {
		res, err := b.Submit(context.Background(), a)
		return resultMsg{res: res, err: err}
	}
}

func (m *Model) refresh() {
	m.state = classifier.Select(m.store.State())
}

// State returns the classifier state the model last rendered.
func (m Model) State() classifier.State {
	return m.state
}

// Status returns the status line: the last outcome, followed by the
// number of saves still in flight.
func (m Model) Status() string {
	if m.pending == 0 {
		return m.status
	}
	saving := "saving..."
	if m.pending > 1 {
		saving = fmt.Sprintf("saving (%d)...", m.pending)
	}
	if m.status == "" {
		return saving
	}
	return m.status + " · " + saving
}

func describe(res app.Result, err error) string {
	switch {
	case err != nil:
		return "not sent: " + err.Error()
	case res.Err != nil:
		return "rolled back (" + app.Kind(res.Err) + ")"
	case res.Action.LocalType() == classifier.ClassifierRenameCanceled:
		return "edit canceled"
	default:
		return "saved"
	}
}

// Run starts the program and blocks until the user quits.
// Store changes made outside Update, such as replies, reach the model
// through a subscription.
func Run(ctx context.Context, st *store.Store, b Submitter, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(New(st, b), opts...)

	unsubscribe := st.Subscribe(func(store.State, domain.Action) {
		// Send blocks while Update runs, and Update may be the dispatcher.
		go p.Send(refreshMsg{})
	})
	defer unsubscribe()

	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
