package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/getmockd/crudcontract/pkg/cli/internal/output"
	"github.com/getmockd/crudcontract/pkg/engine"
)

type checkFlags struct {
	lifecycleStubs bool
}

func newCheckCommand(g *globalFlags) *cobra.Command {
	f := &checkFlags{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check the configured stubs and print each scenario's transition table",
		Long: `Load the configuration and its stub files, register every stub in a fresh
engine and print the transition table of each scenario. Invalid or duplicate
stubs fail the check; states no transition leads to are reported as warnings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := g.load(cmd)
			if err != nil {
				return err
			}
			stubs, err := configuredStubs(cfg, f.lifecycleStubs)
			if err != nil {
				return err
			}

			e := newEngine(cfg, log)
			if _, err := e.RegisterStubs(stubs); err != nil {
				return err
			}

			var tables []engine.TransitionList
			for _, snap := range e.Scenarios() {
				table, err := e.Table(snap.Name)
				if err != nil {
					return fmt.Errorf("scenario %q: %w", snap.Name, err)
				}
				tables = append(tables, engine.TransitionList{
					Scenario:    snap.Name,
					States:      table.States(),
					Transitions: table.Transitions(),
					Unreachable: table.Unreachable(),
				})
			}

			return g.printResult(cmd, tables, func() {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%d stubs, %d scenarios\n", len(stubs), len(tables))
				for _, t := range tables {
					fmt.Fprintf(out, "\nScenario %q\n", t.Scenario)
					tw := output.Table(out)
					fmt.Fprintln(tw, "  FROM\tREQUEST\tSTUB\tTO")
					for _, r := range t.Transitions {
						to := string(r.To)
						if to == "" {
							to = "-"
						}
						fmt.Fprintf(tw, "  %s\t%s %s\t%s\t%s\n", r.From, r.Method, r.Path, r.StubID, to)
					}
					_ = tw.Flush()
					if len(t.Unreachable) > 0 {
						names := make([]string, len(t.Unreachable))
						for i, s := range t.Unreachable {
							names[i] = string(s)
						}
						output.Warn(out, "unreachable states: %s", strings.Join(names, ", "))
					}
				}
			})
		},
	}

	cmd.Flags().BoolVar(&f.lifecycleStubs, "lifecycle-stubs", true, "Include the Users lifecycle stubs")
	return cmd
}
