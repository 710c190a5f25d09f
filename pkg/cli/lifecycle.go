package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/getmockd/crudcontract/pkg/engine"
	"github.com/getmockd/crudcontract/pkg/lifecycle"
	"github.com/getmockd/crudcontract/pkg/transport"
)

type lifecycleFlags struct {
	overHTTP bool
}

func newLifecycleCommand(g *globalFlags) *cobra.Command {
	f := &lifecycleFlags{}
	cmd := &cobra.Command{
		Use:   "lifecycle",
		Short: "Run the Users create/read/update/delete lifecycle against the mock",
		Long: `Register the Users lifecycle stubs, then create, read, update, delete and
re-read user ` + "`lifecycle.userId`" + ` in order, checking every response and the scenario
state after each step. Stubs from the configuration are registered alongside.

With --http the calls go over a loopback HTTP server; otherwise they are
dispatched to the engine in process.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := g.load(cmd)
			if err != nil {
				return err
			}

			plan := lifecycle.UsersPlan(usersFixture(cfg))
			extra, err := configuredStubs(cfg, false)
			if err != nil {
				return err
			}
			plan.Stubs = append(plan.Stubs, extra...)

			e := newEngine(cfg, log)
			opts := []lifecycle.Option{lifecycle.WithLogger(log)}

			if f.overHTTP {
				srv := engine.NewServer(e, engine.WithServerLogger(log))
				if err := srv.Start(0); err != nil {
					return err
				}
				defer stopServer(srv, log)

				httpTransport := &http.Transport{}
				defer httpTransport.CloseIdleConnections()
				tr, err := transport.NewHTTP(srv.URL(),
					transport.WithHTTPClient(&http.Client{Transport: httpTransport, Timeout: 30 * time.Second}),
					transport.WithLogger(log),
				)
				if err != nil {
					return err
				}
				opts = append(opts, lifecycle.WithTransport(tr))
			}

			report, runErr := lifecycle.NewDriver(e, opts...).Run(cmd.Context(), plan)
			if err := g.printResult(cmd, report, func() {
				fmt.Fprint(cmd.OutOrStdout(), report.Summary())
			}); err != nil {
				return err
			}
			if runErr != nil {
				return fmt.Errorf("lifecycle failed: %w", runErr)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&f.overHTTP, "http", false, "Drive the lifecycle over a loopback HTTP server")
	return cmd
}
