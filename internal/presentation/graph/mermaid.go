package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/lazyfetch/pkg/domain"
	"github.com/aretw0/lazyfetch/pkg/fsm"
)

// Shape is an untyped description of a sealed state graph.
type Shape struct {
	Start    fsm.StateID    `json:"start"`
	Terminal fsm.StateID    `json:"terminal"`
	MaxSteps int            `json:"max_steps"`
	States   []fsm.StateID  `json:"states"`
	Edges    []fsm.EdgeInfo `json:"edges"`
}

// Describe captures the shape of g.
func Describe[D any](g *fsm.Graph[D]) Shape {
	return Shape{
		Start:    g.Start(),
		Terminal: g.Terminal(),
		MaxSteps: g.MaxSteps(),
		States:   g.States(),
		Edges:    g.Edges(),
	}
}

// Overlay contains the progress of one cache to visualize on the graph.
type Overlay struct {
	Visited []fsm.StateID
	Current fsm.StateID
	Locked  bool
}

// OverlayOf replays a journal trail. States that ran are visited; a
// complete, interrupt or failure event locks the overlay.
func OverlayOf(events []domain.Event) *Overlay {
	o := &Overlay{}
	for _, ev := range events {
		from := fsm.StateID(ev.From)
		switch ev.Type {
		case domain.EventAdvance:
			o.Visited = append(o.Visited, from)
			o.Current = fsm.StateID(ev.To)
		case domain.EventComplete, domain.EventFailure:
			o.Visited = append(o.Visited, from)
			o.Current = from
			o.Locked = true
		case domain.EventInterrupt:
			o.Current = from
			o.Locked = true
		}
	}
	return o
}

// GenerateMermaid produces a Mermaid flowchart syntax string for s.
// It applies semantic styling:
// - Start: ((Circle))
// - Terminal: (((Double circle))), completing into a final marker
// - Default: [Rectangle]
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(s Shape, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, id := range s.States {
		safeID := sanitizeMermaidID(string(id))

		opener, closer := "[", "]"
		switch id {
		case s.Start:
			opener, closer = "((", "))"
		case s.Terminal:
			opener, closer = "(((", ")))"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, id, closer))
	}

	for _, e := range s.Edges {
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", sanitizeMermaidID(string(e.From)), sanitizeMermaidID(string(e.To))))
	}
	if s.Terminal != "" {
		sb.WriteString(fmt.Sprintf("    %s -- \"complete\" --> done([locked])\n", sanitizeMermaidID(string(s.Terminal))))
	}

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.Visited {
			safeID := sanitizeMermaidID(string(id))
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}

		switch {
		case overlay.Locked:
			sb.WriteString("    class done current;\n")
		case overlay.Current != "":
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(string(overlay.Current))))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
