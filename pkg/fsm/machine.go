package fsm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// ErrUnsealedGraph is returned when a machine is built on a graph that was
// never sealed.
var ErrUnsealedGraph = errors.New("graph is not sealed")

// ErrIllegalTransition is returned by Step when a state hands over through an
// edge that does not start at it or belongs to another graph.
var ErrIllegalTransition = errors.New("illegal transition")

// StepError wraps the failure of a single Advance with the state it came from.
type StepError struct {
	State StateID
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("state %s: %v", e.State, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// StepEvent describes one completed call to Step.
type StepEvent struct {
	From     StateID
	To       StateID // empty when the step completed the machine or failed
	Complete bool
	Err      error
	Duration time.Duration
}

// Hooks are optional callbacks invoked synchronously by the machine.
type Hooks struct {
	OnStep func(context.Context, StepEvent)
}

// Machine drives a State graph one step at a time.
// It is not safe for concurrent use.
type Machine[D any] struct {
	graph   *Graph[D]
	current State[D]
	locked  bool
	steps   int
	hooks   Hooks
	logger  *slog.Logger
}

// MachineOption configures a Machine.
type MachineOption func(*machineConfig)

type machineConfig struct {
	hooks  Hooks
	logger *slog.Logger
}

// WithHooks registers step callbacks.
func WithHooks(hooks Hooks) MachineOption {
	return func(c *machineConfig) {
		c.hooks = hooks
	}
}

// WithLogger sets the structured logger. Nil keeps the no-op default.
func WithLogger(logger *slog.Logger) MachineOption {
	return func(c *machineConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewMachine creates an unlocked machine positioned at start.
// The graph must be sealed and start must be the graph's entry state.
func NewMachine[D any](graph *Graph[D], start State[D], opts ...MachineOption) (*Machine[D], error) {
	if graph == nil || !graph.Sealed() {
		return nil, ErrUnsealedGraph
	}
	if start == nil {
		return nil, &GraphError{State: graph.Start(), Reason: "nil start state"}
	}
	if start.ID() != graph.Start() {
		return nil, &GraphError{State: start.ID(), Reason: fmt.Sprintf("machine must start at %q", graph.Start())}
	}

	cfg := machineConfig{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Machine[D]{
		graph:   graph,
		current: start,
		hooks:   cfg.hooks,
		logger:  cfg.logger,
	}, nil
}

// Step advances the machine by exactly one state. It does nothing when the
// machine is locked. A Complete result locks the machine. An Advance error
// also locks it: failures are fatal and never retried.
func (m *Machine[D]) Step(ctx context.Context, data *D) error {
	if m.locked {
		return nil
	}

	from := m.current.ID()
	started := time.Now()
	m.logger.Debug("advancing state", "state", from)

	tr, err := m.current.Advance(ctx, data)
	m.steps++
	ev := StepEvent{From: from, Duration: time.Since(started)}

	switch {
	case err != nil:
		m.locked = true
		ev.Err = &StepError{State: from, Err: err}
		m.logger.Debug("state failed", "state", from)
	case !tr.valid():
		m.locked = true
		ev.Err = &StepError{State: from, Err: errors.New("advance returned an empty transition")}
	case tr.IsComplete():
		m.locked = true
		ev.Complete = true
		m.logger.Debug("machine complete", "state", from, "steps", m.steps)
	case !m.legal(from, tr):
		m.locked = true
		ev.Err = &StepError{State: from, Err: fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, tr.Successor().ID())}
		m.logger.Debug("state failed", "state", from)
	default:
		m.current = tr.Successor()
		ev.To = m.current.ID()
		m.logger.Debug("state advanced", "from", from, "to", ev.To)
	}

	if m.hooks.OnStep != nil {
		m.hooks.OnStep(ctx, ev)
	}
	return ev.Err
}

func (m *Machine[D]) legal(from StateID, tr Transition[D]) bool {
	return tr.graph == m.graph && tr.from == from && m.graph.Allows(from, tr.next.ID())
}

// Lock stops the machine permanently.
func (m *Machine[D]) Lock() {
	m.locked = true
}

// Locked reports whether the machine refuses further steps.
func (m *Machine[D]) Locked() bool {
	return m.locked
}

// Current returns the identity of the state the next Step would run.
func (m *Machine[D]) Current() StateID {
	return m.current.ID()
}

// Steps returns how many times Advance has been called.
func (m *Machine[D]) Steps() int {
	return m.steps
}

// Graph returns the graph the machine runs on.
func (m *Machine[D]) Graph() *Graph[D] {
	return m.graph
}
