// Package dialog holds the single dialog state a page can be in. A page
// is never in two dialogs at once, and the entity a dialog acts on travels
// with the state instead of living in a separate field.
package dialog

// Kind identifies which dialog is open
type Kind int

const (
	Closed Kind = iota
	Creating
	Editing
	Deleting
	Viewing
)

func (k Kind) String() string {
	switch k {
	case Closed:
		return "closed"
	case Creating:
		return "creating"
	case Editing:
		return "editing"
	case Deleting:
		return "deleting"
	case Viewing:
		return "viewing"
	default:
		return "unknown"
	}
}

// State is a tagged dialog variant over the entity type T
type State[T any] struct {
	kind   Kind
	target T
}

// Close returns the closed state
func Close[T any]() State[T] {
	return State[T]{}
}

// Create opens the creation dialog, which has no target
func Create[T any]() State[T] {
	return State[T]{kind: Creating}
}

// Edit opens the edit dialog for target
func Edit[T any](target T) State[T] {
	return State[T]{kind: Editing, target: target}
}

// Delete opens the delete confirmation for target
func Delete[T any](target T) State[T] {
	return State[T]{kind: Deleting, target: target}
}

// View opens the detail dialog for target
func View[T any](target T) State[T] {
	return State[T]{kind: Viewing, target: target}
}

func (s State[T]) Kind() Kind { return s.kind }

func (s State[T]) Is(kind Kind) bool { return s.kind == kind }

// Open reports whether any dialog is showing
func (s State[T]) Open() bool { return s.kind != Closed }

// Target returns the entity the dialog acts on. The second result is
// false for the closed and creating states.
func (s State[T]) Target() (T, bool) {
	switch s.kind {
	case Editing, Deleting, Viewing:
		return s.target, true
	default:
		var zero T
		return zero, false
	}
}

// WithTarget replaces the target while keeping the dialog kind. It is a
// no-op on states that carry no target.
func (s State[T]) WithTarget(target T) State[T] {
	if _, ok := s.Target(); !ok {
		return s
	}
	s.target = target
	return s
}
