package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/lazyfetch/internal/presentation/graph"
	"github.com/aretw0/lazyfetch/internal/runtime"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the resolution graph",
	Long: `Outputs the sealed resolution graph as a Mermaid diagram (graph TD) or as JSON.
With --trail, the recorded progress of that trail is drawn over the diagram.
Trails outlive the process only with a Redis journal configured.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		trail, _ := cmd.Flags().GetString("trail")
		shape := graph.Describe(runtime.Graph())

		var overlay *graph.Overlay
		if trail != "" {
			if format != "mermaid" {
				return fmt.Errorf("--trail needs --format mermaid")
			}
			o, err := loadOverlay(cmd, trail)
			if err != nil {
				return err
			}
			overlay = o
		}

		switch format {
		case "mermaid":
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(shape, overlay))
			return nil
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(shape)
		default:
			return fmt.Errorf("unknown format %q (want mermaid or json)", format)
		}
	},
}

func loadOverlay(cmd *cobra.Command, trail string) (*graph.Overlay, error) {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	journal, closeJournal, err := openJournal(cfg, logger)
	if err != nil {
		return nil, err
	}
	defer closeJournal()

	events, err := journal.Load(context.Background(), trail)
	if err != nil {
		return nil, fmt.Errorf("load trail: %w", err)
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("trail %q not found", trail)
	}
	return graph.OverlayOf(events), nil
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("format", "f", "mermaid", "Output format: mermaid or json")
	graphCmd.Flags().String("trail", "", "Journal trail to draw over the graph")
}
