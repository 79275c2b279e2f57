package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"pgwarp/internal/vars"
)

// expandCmd runs the pre-execution gate from the command line: validate a
// query's placeholders against the store, print the expanded text.
var expandCmd = &cobra.Command{
	Use:   "expand [file]",
	Short: "Expand {{placeholders}} in a query (stdin with no file)",
	Long: `Reads SQL text, substitutes every {{name}} placeholder with its saved
value and writes the result to stdout. Undefined placeholders are reported
on stderr and the command exits nonzero without printing anything, the same
gate the interactive editor applies before execution.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		if len(args) == 1 {
			data, err = os.ReadFile(args[0])
		} else {
			data, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			return err
		}

		store, _, err := openStore()
		if err != nil {
			return err
		}

		result := vars.Prepare(string(data), store)
		if !result.OK() {
			for _, name := range result.Missing {
				fmt.Fprintf(os.Stderr, "undefined variable: {{%s}}\n", name)
			}
			return fmt.Errorf("%d undefined variable(s)", len(result.Missing))
		}
		fmt.Print(result.Text)
		return nil
	},
}
