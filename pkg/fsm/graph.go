package fsm

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidGraph is wrapped by every graph validation failure.
var ErrInvalidGraph = errors.New("invalid transition graph")

// GraphError describes why a graph failed validation.
type GraphError struct {
	State  StateID
	Reason string
}

func (e *GraphError) Error() string {
	if e.State == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidGraph, e.Reason)
	}
	return fmt.Sprintf("%s: state %q: %s", ErrInvalidGraph, e.State, e.Reason)
}

func (e *GraphError) Unwrap() error {
	return ErrInvalidGraph
}

// Graph is the closed set of legal state-to-state moves for data of type D.
// Edges are added with Connect before Seal; a sealed graph is immutable.
type Graph[D any] struct {
	start    StateID
	order    []StateID
	edges    map[StateID][]StateID
	terminal StateID
	maxSteps int
	sealed   bool
}

// NewGraph creates an empty graph whose machines begin at start.
func NewGraph[D any](start StateID) *Graph[D] {
	return &Graph[D]{
		start: start,
		edges: make(map[StateID][]StateID),
	}
}

// Edge is the proof that the graph allows moving from F to T.
// It is the only way to build a Next transition. The transition it builds
// remembers the edge's graph and source, and a machine rejects it unless both
// match the machine's graph and current state.
type Edge[D any, F State[D], T State[D]] struct {
	graph *Graph[D]
	from  StateID
	to    StateID
}

// Connect declares the move F -> T and returns the edge used to take it.
// It panics if the graph is already sealed: graphs are fixed at definition time.
func Connect[D any, F State[D], T State[D]](g *Graph[D]) Edge[D, F, T] {
	var (
		from F
		to   T
	)
	if g.sealed {
		panic(fmt.Sprintf("fsm: connect %s -> %s on a sealed graph", from.ID(), to.ID()))
	}

	g.addState(from.ID())
	g.addState(to.ID())
	if !slices.Contains(g.edges[from.ID()], to.ID()) {
		g.edges[from.ID()] = append(g.edges[from.ID()], to.ID())
	}

	return Edge[D, F, T]{graph: g, from: from.ID(), to: to.ID()}
}

// Next builds the transition handing control from the current state to its
// successor. The from argument pins the caller's type; the machine checks the
// edge against the state actually running.
func (e Edge[D, F, T]) Next(from F, to T) Transition[D] {
	return Transition[D]{next: to, graph: e.graph, from: e.from}
}

// From returns the source state of the edge.
func (e Edge[D, F, T]) From() StateID { return e.from }

// To returns the target state of the edge.
func (e Edge[D, F, T]) To() StateID { return e.to }

func (g *Graph[D]) addState(id StateID) {
	if _, ok := g.edges[id]; ok {
		return
	}
	g.edges[id] = nil
	g.order = append(g.order, id)
}

// Seal validates the graph and freezes it. A valid graph has a known start
// state, no cycles, every state reachable from the start, and exactly one
// terminal state (one without outgoing edges).
func (g *Graph[D]) Seal() error {
	if g.sealed {
		return nil
	}
	if g.start == "" {
		return &GraphError{Reason: "empty start state"}
	}
	if len(g.order) == 0 {
		// A single-state machine: the start state is its own terminal.
		g.addState(g.start)
	}
	if _, ok := g.edges[g.start]; !ok {
		return &GraphError{State: g.start, Reason: "start state has no edges declared"}
	}

	var terminals []StateID
	for _, id := range g.order {
		if len(g.edges[id]) == 0 {
			terminals = append(terminals, id)
		}
	}
	if len(terminals) != 1 {
		return &GraphError{Reason: fmt.Sprintf("expected exactly one terminal state, found %d %v", len(terminals), terminals)}
	}

	depth, err := g.longestPaths()
	if err != nil {
		return err
	}
	for _, id := range g.order {
		if _, ok := depth[id]; !ok {
			return &GraphError{State: id, Reason: "unreachable from start"}
		}
	}

	g.terminal = terminals[0]
	g.maxSteps = depth[g.start]
	g.sealed = true
	return nil
}

// MustSeal is like Seal but panics on an invalid graph. It is meant for
// package-level graph definitions.
func (g *Graph[D]) MustSeal() *Graph[D] {
	if err := g.Seal(); err != nil {
		panic(err)
	}
	return g
}

// longestPaths walks the graph from the start and returns, for every reachable
// state, the number of states on the longest path from it to the terminal.
func (g *Graph[D]) longestPaths() (map[StateID]int, error) {
	const (
		visiting = 1
		done     = 2
	)
	mark := make(map[StateID]int)
	depth := make(map[StateID]int)

	var visit func(id StateID) error
	visit = func(id StateID) error {
		switch mark[id] {
		case visiting:
			return &GraphError{State: id, Reason: "cycle detected"}
		case done:
			return nil
		}
		mark[id] = visiting
		best := 0
		for _, next := range g.edges[id] {
			if err := visit(next); err != nil {
				return err
			}
			best = max(best, depth[next])
		}
		depth[id] = best + 1
		mark[id] = done
		return nil
	}

	if err := visit(g.start); err != nil {
		return nil, err
	}
	return depth, nil
}

// Sealed reports whether the graph has been validated and frozen.
func (g *Graph[D]) Sealed() bool { return g.sealed }

// Start returns the entry state.
func (g *Graph[D]) Start() StateID { return g.start }

// Terminal returns the single state without successors. Empty until sealed.
func (g *Graph[D]) Terminal() StateID { return g.terminal }

// MaxSteps is the number of advances needed to walk the longest path, which
// bounds how many steps any machine on this graph can take. Zero until sealed.
func (g *Graph[D]) MaxSteps() int { return g.maxSteps }

// States returns the state identities in declaration order.
func (g *Graph[D]) States() []StateID {
	return slices.Clone(g.order)
}

// Successors returns the states reachable from id in one move.
func (g *Graph[D]) Successors(id StateID) []StateID {
	return slices.Clone(g.edges[id])
}

// Allows reports whether from -> to is a declared move.
func (g *Graph[D]) Allows(from, to StateID) bool {
	return slices.Contains(g.edges[from], to)
}

// EdgeInfo is an untyped view of a declared move, for introspection.
type EdgeInfo struct {
	From StateID `json:"from"`
	To   StateID `json:"to"`
}

// Edges lists every declared move in declaration order.
func (g *Graph[D]) Edges() []EdgeInfo {
	var out []EdgeInfo
	for _, from := range g.order {
		for _, to := range g.edges[from] {
			out = append(out, EdgeInfo{From: from, To: to})
		}
	}
	return out
}
