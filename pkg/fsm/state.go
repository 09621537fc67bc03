package fsm

import "context"

// StateID is the identity of a state. Two states with the same ID are the same
// state as far as the graph is concerned.
type StateID string

// State is one stage of a machine operating on data of type D.
//
// Implementations must be value types: the graph derives the identity of a
// state type by calling ID on its zero value.
type State[D any] interface {
	// ID returns the identity of the state. It must not depend on field values.
	ID() StateID

	// Advance performs exactly one externally visible unit of work against data
	// and reports what happens next. Previously recorded data must not be
	// erased. A returned error is fatal to the step; no Transition is used.
	Advance(ctx context.Context, data *D) (Transition[D], error)
}

// Transition is the result of a single Advance.
// The zero value is invalid; build one with Edge.Next or Complete.
type Transition[D any] struct {
	next     State[D]
	complete bool

	// Set by Edge.Next.
	graph *Graph[D]
	from  StateID
}

// Complete reports that the machine has finished.
func Complete[D any]() Transition[D] {
	return Transition[D]{complete: true}
}

// IsComplete reports whether the transition ends the machine.
func (t Transition[D]) IsComplete() bool {
	return t.complete
}

// Successor returns the next state, or nil for a completing transition.
func (t Transition[D]) Successor() State[D] {
	return t.next
}

func (t Transition[D]) valid() bool {
	return t.complete != (t.next != nil)
}
