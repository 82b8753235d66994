package main

import (
	"fmt"
	"os"

	"github.com/aretw0/picograph/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "picograph",
	Short: "picograph compiles PICO-8 node graphs to Lua",
	Long: `picograph turns visual node graphs (JSON or YAML documents) into
PICO-8 Lua programs, one function per event entry point.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Path to the picograph config file (yaml or json)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().Bool("verify", false, "Parse the generated Lua before returning it (overrides config)")
	rootCmd.PersistentFlags().String("indent", "", "Indent unit for generated code (overrides config)")
	rootCmd.PersistentFlags().Int("max-depth", 0, "Maximum emission nesting depth (overrides config)")
}
