/*
Package fsm is a small, generic finite-state-machine engine that advances one
state at a time.

A machine is defined by a closed transition graph over a finite set of state
identities. The graph is declared once, at package initialisation, and sealed;
after sealing it never changes. Successor states can only be produced through
typed edges obtained from the graph, so a state cannot hand control to a state
it was not connected to. Edges are also checked when taken: a machine fails
the step if the edge starts elsewhere or belongs to another graph.

# Key Concepts

  - State: one stage's behaviour. Advance performs exactly one unit of external
    work against the shared data and returns a Transition.
  - Transition: either Next(successor) or Complete.
  - Graph: the allowed (from, to) pairs. Exactly one state is terminal.
  - Machine: holds the current state and a lock flag. Step advances once.

# Usage

	type data struct{ n int }

	type first struct{}
	type last struct{}

	var (
		graph       = fsm.NewGraph[data]("first")
		firstToLast = fsm.Connect[data, first, last](graph)
		_           = graph.MustSeal()
	)

	func (first) ID() fsm.StateID { return "first" }
	func (s first) Advance(ctx context.Context, d *data) (fsm.Transition[data], error) {
		d.n++
		return firstToLast.Next(s, last{}), nil
	}

	func (last) ID() fsm.StateID { return "last" }
	func (last) Advance(ctx context.Context, d *data) (fsm.Transition[data], error) {
		d.n++
		return fsm.Complete[data](), nil
	}

The machine is not safe for concurrent use.
*/
package fsm
