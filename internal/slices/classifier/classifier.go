package classifier

import (
	"github.com/bft-labs/actionbridge/internal/app"
	"github.com/bft-labs/actionbridge/internal/domain"
	"github.com/bft-labs/actionbridge/internal/store"
)

// Phase is the edit state of the classifier name.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseEditing
	PhaseAwaitingConfirmation
)

// String returns a human-readable representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseEditing:
		return "Editing"
	case PhaseAwaitingConfirmation:
		return "AwaitingConfirmation"
	default:
		return "Unknown"
	}
}

// State is the classifier slice.
type State struct {
	// Name is what the UI shows: the draft, the optimistic value or the
	// confirmed value, depending on Phase.
	Name string

	// Confirmed is the last name the host settled on.
	Confirmed string

	Phase Phase

	// InFlight is the correlation id of the latest commit-intent, "" when Idle.
	InFlight string

	// LastError describes the last rolled back round trip.
	LastError string
}

// InitialState returns the state before any edit.
func InitialState() State {
	return State{Name: DefaultName, Confirmed: DefaultName, Phase: PhaseIdle}
}

// NewSlice returns the store slice for the classifier domain.
func NewSlice() *store.TypedSlice[State] {
	return store.NewSlice(Domain, InitialState(), Reduce)
}

// Reduce applies one classifier action.
func Reduce(s State, a domain.Action) State {
	switch a.LocalType() {
	case RenamingClassifier:
		var dto EditNameDTO
		if err := a.Decode(&dto); err != nil {
			return s
		}
		s.Name = dto.NewName
		s.Phase = PhaseEditing

	case RenameClassifier:
		var dto EditNameDTO
		if err := a.Decode(&dto); err != nil {
			return s
		}
		s.Name = dto.NewName
		s.Phase = PhaseAwaitingConfirmation
		s.InFlight = a.Meta.CorrelationID
		s.LastError = ""

	case CancelClassifierRename:
		s.Name = s.Confirmed
		s.Phase = PhaseAwaitingConfirmation
		s.InFlight = a.Meta.CorrelationID
		s.LastError = ""

	case ClassifierRenamed, ClassifierRenameCanceled:
		if a.Meta.CorrelationID == "" || a.Meta.CorrelationID != s.InFlight {
			return s
		}
		s.InFlight = ""
		var dto EditNameDTO
		if err := a.Decode(&dto); err != nil || dto.NewName == "" {
			// Settle on the last good name rather than wait for a reply
			// that will never come.
			s.LastError = "invalid confirmation payload: " + string(a.Payload)
		} else {
			s.Confirmed = dto.NewName
			if a.Meta.Rollback && a.Meta.Err != nil {
				s.LastError = a.Meta.Err.Error()
			}
		}
		if s.Phase == PhaseEditing {
			// The user started typing again; keep the draft.
			return s
		}
		s.Name = s.Confirmed
		s.Phase = PhaseIdle
	}
	return s
}

// Rollback returns the bridge rollback for classifier commits: a
// confirmation carrying the last name the host confirmed.
func Rollback(st *store.Store) app.RollbackFunc {
	return func(req domain.Action, cause error) domain.Action {
		s, ok := store.Select[State](st.State(), Domain)
		if !ok {
			s = InitialState()
		}
		return Renamed(s.Confirmed)
	}
}

// Register adds the classifier slice to st and its rollback to b.
func Register(st *store.Store, b *app.Bridge) error {
	if err := st.Register(NewSlice()); err != nil {
		return err
	}
	b.RegisterRollback(Domain, Rollback(st))
	return nil
}

// Select returns the classifier state from an aggregate snapshot.
func Select(st store.State) State {
	s, ok := store.Select[State](st, Domain)
	if !ok {
		return InitialState()
	}
	return s
}
