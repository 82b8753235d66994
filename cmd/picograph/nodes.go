package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/picograph/internal/presentation/tui"
	"github.com/aretw0/picograph/pkg/domain"
	"github.com/spf13/cobra"
)

var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "List the node catalogue",
	Long:  `Prints every node definition the compiler knows, grouped by category.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		modules := a.engine.Catalogue().List()
		defs := make([]domain.NodeDefinition, 0, len(modules))
		for _, m := range modules {
			defs = append(defs, m.Definition)
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(defs)
		}

		md := tui.CatalogueMarkdown(defs)
		if f, ok := out.(*os.File); ok && tui.IsTerminal(f) {
			rendered, err := tui.NewRenderer()(md)
			if err == nil {
				md = rendered
			}
		}
		fmt.Fprint(out, md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(nodesCmd)
	nodesCmd.Flags().Bool("json", false, "Print definitions as JSON")
}
