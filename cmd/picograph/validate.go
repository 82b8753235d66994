package main

import (
	"fmt"

	"github.com/aretw0/picograph/pkg/domain"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [graph-file]",
	Short: "Check the graph for consistency",
	Long: `Checks node definitions, connections and entry points without emitting code.
With --strict the graph is also compiled, which catches cycles, dangling
value reads and invalid properties.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		strict, _ := cmd.Flags().GetBool("strict")

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		g, err := readGraph(cmd, args)
		if err != nil {
			return err
		}

		if err := a.engine.Validate(g); err != nil {
			reportStatus(cmd, false, domain.ErrorKind(err))
			return fmt.Errorf("validation failed: %w", err)
		}
		if strict {
			if _, err := a.engine.Compile(cmd.Context(), g); err != nil {
				reportStatus(cmd, false, domain.ErrorKind(err))
				return fmt.Errorf("validation failed: %w", err)
			}
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Graph is valid! ✅")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("strict", false, "Also compile the graph to catch emission errors")
}
