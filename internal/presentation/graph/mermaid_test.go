package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/lazyfetch/internal/presentation/graph"
	"github.com/aretw0/lazyfetch/internal/runtime"
	"github.com/aretw0/lazyfetch/pkg/domain"
	"github.com/aretw0/lazyfetch/pkg/fsm"
	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	s := graph.Describe(runtime.Graph())

	assert.Equal(t, runtime.StateProbe, s.Start)
	assert.Equal(t, runtime.StateFullFetch, s.Terminal)
	assert.Equal(t, 2, s.MaxSteps)
	assert.Equal(t, []fsm.EdgeInfo{{From: runtime.StateProbe, To: runtime.StateFullFetch}}, s.Edges)
}

func TestGenerateMermaid(t *testing.T) {
	shape := graph.Shape{
		Start:    "probe",
		Terminal: "full-fetch",
		States:   []fsm.StateID{"probe", "full-fetch"},
		Edges:    []fsm.EdgeInfo{{From: "probe", To: "full-fetch"}},
	}

	tests := []struct {
		name        string
		overlay     *graph.Overlay
		contains    []string
		notContains []string
	}{
		{
			name: "Shapes and edges",
			contains: []string{
				"graph TD",
				`probe(("probe"))`,
				`full_fetch((("full-fetch")))`,
				"probe --> full_fetch",
				`full_fetch -- "complete" --> done([locked])`,
			},
			notContains: []string{"classDef"},
		},
		{
			name:    "Current state overlay",
			overlay: &graph.Overlay{Visited: []fsm.StateID{"probe", "probe"}, Current: "full-fetch"},
			contains: []string{
				"class probe visited;",
				"class full_fetch current;",
			},
		},
		{
			name:     "Locked overlay",
			overlay:  &graph.Overlay{Visited: []fsm.StateID{"probe"}, Current: "full-fetch", Locked: true},
			contains: []string{"class done current;"},
			notContains: []string{
				"class full_fetch current;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := graph.GenerateMermaid(shape, tt.overlay)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			for _, unwanted := range tt.notContains {
				assert.NotContains(t, out, unwanted)
			}
			if tt.overlay != nil {
				assert.Equal(t, 1, strings.Count(out, "class probe visited;"), "visited states are deduplicated")
			}
		})
	}
}

func TestOverlayOf(t *testing.T) {
	idx := 0
	tests := []struct {
		name   string
		events []domain.Event
		want   graph.Overlay
	}{
		{
			name: "Completed",
			events: []domain.Event{
				{EventBase: domain.EventBase{Type: domain.EventAdvance}, From: "probe", To: "full_fetch"},
				{EventBase: domain.EventBase{Type: domain.EventComplete}, From: "full_fetch"},
			},
			want: graph.Overlay{Visited: []fsm.StateID{"probe", "full_fetch"}, Current: "full_fetch", Locked: true},
		},
		{
			name: "Interrupted after probe",
			events: []domain.Event{
				{EventBase: domain.EventBase{Type: domain.EventAdvance}, From: "probe", To: "full_fetch"},
				{EventBase: domain.EventBase{Type: domain.EventInterrupt}, From: "full_fetch", Condition: &idx},
			},
			want: graph.Overlay{Visited: []fsm.StateID{"probe"}, Current: "full_fetch", Locked: true},
		},
		{
			name: "Still running",
			events: []domain.Event{
				{EventBase: domain.EventBase{Type: domain.EventAdvance}, From: "probe", To: "full_fetch"},
			},
			want: graph.Overlay{Visited: []fsm.StateID{"probe"}, Current: "full_fetch"},
		},
		{
			name: "Failed probe",
			events: []domain.Event{
				{EventBase: domain.EventBase{Type: domain.EventFailure}, From: "probe", Error: "refused"},
			},
			want: graph.Overlay{Visited: []fsm.StateID{"probe"}, Current: "probe", Locked: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, *graph.OverlayOf(tt.events))
		})
	}
}

func TestGenerateMermaid_TrailOverlay(t *testing.T) {
	events := []domain.Event{
		{EventBase: domain.EventBase{Type: domain.EventAdvance}, From: "probe", To: "full_fetch"},
	}
	out := graph.GenerateMermaid(graph.Describe(runtime.Graph()), graph.OverlayOf(events))

	assert.Contains(t, out, "class probe visited;")
	assert.Contains(t, out, "class full_fetch current;")
	assert.False(t, strings.Contains(out, "class done current;"))
}
