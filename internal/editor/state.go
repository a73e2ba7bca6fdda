package editor

import "github.com/five82/smartmix/internal/mix"

// Phase is the lifecycle of the dialog.
type Phase int

const (
	PhaseClosed Phase = iota
	PhaseLoading
	PhaseOpen
	PhaseSaving
)

func (p Phase) String() string {
	switch p {
	case PhaseClosed:
		return "closed"
	case PhaseLoading:
		return "loading"
	case PhaseOpen:
		return "open"
	case PhaseSaving:
		return "saving"
	default:
		return "unknown"
	}
}

// State is a point-in-time copy of the dialog for rendering.
type State struct {
	Phase      Phase
	Running    bool
	Title      string
	Name       string
	Ranges     []mix.RangeFilter
	Attributes []mix.Attribute
	Vocabulary []string
	Selected   []string
}

// Visible reports whether the dialog is shown.
func (s State) Visible() bool {
	return s.Phase == PhaseOpen || s.Phase == PhaseSaving
}

// IsSelected reports whether genre is part of the selection.
func (s State) IsSelected(genre string) bool {
	return contains(s.Selected, genre)
}

// AllSelected reports whether the whole, non-empty vocabulary is selected.
func (s State) AllSelected() bool {
	return len(s.Vocabulary) > 0 && len(s.Selected) == len(s.Vocabulary)
}

// Snapshot returns a copy of the current dialog state.
func (e *Editor) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	c := e.criteriaLocked()
	return State{
		Phase:      e.phase,
		Running:    e.running,
		Title:      e.title,
		Name:       e.name,
		Ranges:     c.Ranges,
		Attributes: c.Attributes,
		Vocabulary: append([]string(nil), e.vocabulary...),
		Selected:   c.Genres,
	}
}
