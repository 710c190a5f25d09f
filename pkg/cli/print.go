package cli

import (
	"github.com/spf13/cobra"

	"github.com/getmockd/crudcontract/pkg/cli/internal/output"
)

// printResult outputs a command result.
//
// When --json is active, ONLY the JSON encoding of data is written to stdout.
// textFn is called only in text mode.
func (g *globalFlags) printResult(cmd *cobra.Command, data any, textFn func()) error {
	if g.jsonOutput {
		return output.JSON(cmd.OutOrStdout(), data)
	}
	textFn()
	return nil
}
