package fsm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/lazyfetch/pkg/fsm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	visits []fsm.StateID
}

type stateA struct{}
type stateB struct{}
type stateC struct{}
type stateD struct{}

func (stateA) ID() fsm.StateID { return "a" }
func (stateB) ID() fsm.StateID { return "b" }
func (stateC) ID() fsm.StateID { return "c" }
func (stateD) ID() fsm.StateID { return "d" }

func (stateA) Advance(context.Context, *counter) (fsm.Transition[counter], error) {
	return fsm.Complete[counter](), nil
}
func (stateB) Advance(context.Context, *counter) (fsm.Transition[counter], error) {
	return fsm.Complete[counter](), nil
}
func (stateC) Advance(context.Context, *counter) (fsm.Transition[counter], error) {
	return fsm.Complete[counter](), nil
}
func (stateD) Advance(context.Context, *counter) (fsm.Transition[counter], error) {
	return fsm.Complete[counter](), nil
}

func TestGraph_Seal(t *testing.T) {
	tests := []struct {
		name      string
		build     func() *fsm.Graph[counter]
		wantErr   string
		wantSteps int
		terminal  fsm.StateID
	}{
		{
			name: "Linear chain",
			build: func() *fsm.Graph[counter] {
				g := fsm.NewGraph[counter]("a")
				fsm.Connect[counter, stateA, stateB](g)
				fsm.Connect[counter, stateB, stateC](g)
				return g
			},
			wantSteps: 3,
			terminal:  "c",
		},
		{
			name: "Diamond uses the longest branch",
			build: func() *fsm.Graph[counter] {
				g := fsm.NewGraph[counter]("a")
				fsm.Connect[counter, stateA, stateB](g)
				fsm.Connect[counter, stateA, stateD](g)
				fsm.Connect[counter, stateB, stateC](g)
				fsm.Connect[counter, stateC, stateD](g)
				return g
			},
			wantSteps: 4,
			terminal:  "d",
		},
		{
			name: "Single state",
			build: func() *fsm.Graph[counter] {
				return fsm.NewGraph[counter]("a")
			},
			wantSteps: 1,
			terminal:  "a",
		},
		{
			name: "Cycle",
			build: func() *fsm.Graph[counter] {
				g := fsm.NewGraph[counter]("a")
				fsm.Connect[counter, stateA, stateB](g)
				fsm.Connect[counter, stateB, stateA](g)
				fsm.Connect[counter, stateB, stateC](g)
				return g
			},
			wantErr: "cycle detected",
		},
		{
			name: "Two terminals",
			build: func() *fsm.Graph[counter] {
				g := fsm.NewGraph[counter]("a")
				fsm.Connect[counter, stateA, stateB](g)
				fsm.Connect[counter, stateA, stateC](g)
				return g
			},
			wantErr: "exactly one terminal",
		},
		{
			name: "Unreachable state",
			build: func() *fsm.Graph[counter] {
				g := fsm.NewGraph[counter]("a")
				fsm.Connect[counter, stateA, stateB](g)
				fsm.Connect[counter, stateC, stateB](g)
				return g
			},
			wantErr: "unreachable from start",
		},
		{
			name: "Start not declared",
			build: func() *fsm.Graph[counter] {
				g := fsm.NewGraph[counter]("a")
				fsm.Connect[counter, stateB, stateC](g)
				return g
			},
			wantErr: "start state has no edges declared",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := tt.build()
			err := g.Seal()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, fsm.ErrInvalidGraph)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.False(t, g.Sealed())
				return
			}
			require.NoError(t, err)
			assert.True(t, g.Sealed())
			assert.Equal(t, tt.wantSteps, g.MaxSteps())
			assert.Equal(t, tt.terminal, g.Terminal())
		})
	}
}

func TestGraph_ConnectAfterSealPanics(t *testing.T) {
	g := fsm.NewGraph[counter]("a")
	fsm.Connect[counter, stateA, stateB](g)
	g.MustSeal()

	assert.Panics(t, func() {
		fsm.Connect[counter, stateB, stateC](g)
	})
}

func TestGraph_MustSealPanicsOnInvalidGraph(t *testing.T) {
	g := fsm.NewGraph[counter]("a")
	fsm.Connect[counter, stateA, stateB](g)
	fsm.Connect[counter, stateB, stateA](g)

	assert.Panics(t, func() { g.MustSeal() })
}

func TestGraph_Introspection(t *testing.T) {
	g := fsm.NewGraph[counter]("a")
	ab := fsm.Connect[counter, stateA, stateB](g)
	fsm.Connect[counter, stateA, stateB](g) // duplicate declarations collapse
	g.MustSeal()

	assert.Equal(t, fsm.StateID("a"), ab.From())
	assert.Equal(t, fsm.StateID("b"), ab.To())
	assert.Equal(t, []fsm.StateID{"a", "b"}, g.States())
	assert.Equal(t, []fsm.StateID{"b"}, g.Successors("a"))
	assert.Empty(t, g.Successors("b"))
	assert.True(t, g.Allows("a", "b"))
	assert.False(t, g.Allows("b", "a"))
	assert.Equal(t, []fsm.EdgeInfo{{From: "a", To: "b"}}, g.Edges())
}

func TestGraphError_Is(t *testing.T) {
	var err error = &fsm.GraphError{State: "x", Reason: "broken"}
	assert.True(t, errors.Is(err, fsm.ErrInvalidGraph))
	assert.Equal(t, `invalid transition graph: state "x": broken`, err.Error())
}
