package main

import (
	"fmt"
	"sync"

	"github.com/aretw0/picograph"
	"github.com/aretw0/picograph/internal/presentation/graph"
	"github.com/aretw0/picograph/pkg/domain"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [graph-file]",
	Short: "Export the node graph as a Mermaid diagram",
	Long: `Outputs a Mermaid flowchart (graph LR) of the document. With --overlay the
graph is compiled first and the visited nodes, or the failing node, are
highlighted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		withOverlay, _ := cmd.Flags().GetBool("overlay")

		var (
			mu      sync.Mutex
			emitted []string
			seen    = make(map[string]bool)
		)
		hooks := domain.LifecycleHooks{
			OnNodeEmit: func(ev *domain.NodeEvent) {
				mu.Lock()
				defer mu.Unlock()
				if !seen[ev.NodeID] {
					seen[ev.NodeID] = true
					emitted = append(emitted, ev.NodeID)
				}
			},
		}

		// Cache hits skip emission, so the overlay always compiles fresh.
		a, err := newApp(cmd, picograph.WithLifecycleHooks(hooks), picograph.WithCache(nil))
		if err != nil {
			return err
		}
		defer a.Close()

		g, err := readGraph(cmd, args)
		if err != nil {
			return err
		}

		var overlay *graph.Overlay
		if withOverlay {
			_, err := a.engine.Compile(cmd.Context(), g)
			overlay = &graph.Overlay{Emitted: emitted, Failed: graph.FailedNode(err)}
			if err != nil {
				a.logger.Warn("compile failed", "kind", domain.ErrorKind(err), "error", err)
			}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(g, a.engine.Catalogue(), overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("overlay", false, "Compile the graph and highlight emitted and failing nodes")
}
