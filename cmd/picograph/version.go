package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/picograph"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of picograph",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "picograph version %s\n", strings.TrimSpace(picograph.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
