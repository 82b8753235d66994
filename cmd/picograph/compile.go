package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/picograph/internal/cartridge"
	"github.com/aretw0/picograph/internal/presentation/tui"
	"github.com/aretw0/picograph/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile [graph-file]",
	Short: "Compile a node graph to PICO-8 Lua",
	Long: `Reads a graph document (JSON or YAML) from the given file or stdin and
writes the generated Lua program. With --cart the program is wrapped in a
.p8 cartridge; --merge replaces the code section of an existing cartridge
and keeps its assets.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		cart, _ := cmd.Flags().GetBool("cart")
		merge, _ := cmd.Flags().GetString("merge")

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		g, err := readGraph(cmd, args)
		if err != nil {
			return err
		}

		src, err := a.engine.Compile(cmd.Context(), g)
		if err != nil {
			reportStatus(cmd, false, fmt.Sprintf("%s: %v", domain.ErrorKind(err), err))
			return err
		}

		payload := []byte(src)
		switch {
		case merge != "":
			existing, err := os.ReadFile(merge)
			if err != nil {
				return fmt.Errorf("failed to read cartridge: %w", err)
			}
			if payload, err = cartridge.Merge(existing, src); err != nil {
				return err
			}
			if out == "" {
				out = merge
			}
		case cart:
			var buf bytes.Buffer
			if _, err := cartridge.New(src).WriteTo(&buf); err != nil {
				return err
			}
			payload = buf.Bytes()
		}

		if err := writeOutput(cmd.OutOrStdout(), out, payload); err != nil {
			return err
		}
		reportStatus(cmd, true, fmt.Sprintf("compiled %d bytes of lua", len(src)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringP("out", "o", "", "Write the result to this file instead of stdout")
	compileCmd.Flags().Bool("cart", false, "Wrap the program in a .p8 cartridge")
	compileCmd.Flags().String("merge", "", "Replace the Lua section of this existing .p8 cartridge")
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// reportStatus prints a coloured one-liner when stderr is a terminal.
func reportStatus(cmd *cobra.Command, ok bool, msg string) {
	f, tty := stderrTTY(cmd)
	if !tty {
		return
	}
	fmt.Fprintln(f, tui.Status(termenv.ColorProfile(), ok, msg))
}
