package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// printResult renders v on the command's stdout per the global format
// flag: indented JSON, or the provided text function.
func printResult(cmd *cobra.Command, opts *RootOptions, v any, text func() string) error {
	if opts.Format == "json" {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal output: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), text())
	return nil
}
