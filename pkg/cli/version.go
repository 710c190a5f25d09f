package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCommand(g *globalFlags, info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			type versionResult struct {
				BuildInfo
				GoVersion string `json:"goVersion"`
				Platform  string `json:"platform"`
			}
			res := versionResult{
				BuildInfo: info,
				GoVersion: runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			}
			return g.printResult(cmd, res, func() {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "crudcontract %s\n", info.Version)
				fmt.Fprintf(out, "  commit:  %s\n", info.Commit)
				fmt.Fprintf(out, "  built:   %s\n", info.BuildDate)
				fmt.Fprintf(out, "  go:      %s\n", res.GoVersion)
				fmt.Fprintf(out, "  platform: %s\n", res.Platform)
			})
		},
	}
}
