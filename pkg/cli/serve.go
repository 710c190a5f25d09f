package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/getmockd/crudcontract/pkg/cli/internal/ports"
	"github.com/getmockd/crudcontract/pkg/engine"
)

type serveFlags struct {
	port           int
	lifecycleStubs bool
}

func newServeCommand(g *globalFlags) *cobra.Command {
	f := &serveFlags{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the stateful mock server",
		Long: `Run the stateful mock server on 127.0.0.1.

The Users lifecycle stubs are registered unless --lifecycle-stubs=false, followed
by the inline stubs and stub files of the configuration. The admin API is
served under /__admin.`,
		Example: `  # Serve the Users lifecycle on port 8080
  crudcontract serve

  # Serve only the stubs from a config file on a random port
  crudcontract serve -c crudcontract.yaml --lifecycle-stubs=false --port 0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := g.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = f.port
			}
			if err := ports.Check(cfg.Server.Port); err != nil {
				return err
			}

			srv, err := buildServer(cfg, log, f.lifecycleStubs)
			if err != nil {
				return err
			}
			if err := srv.Start(cfg.Server.Port); err != nil {
				return err
			}
			defer stopServer(srv, log)

			fmt.Fprintf(cmd.OutOrStdout(), "Serving %d stubs on %s (admin API at %s%s)\n",
				len(srv.Engine().Stubs()), srv.URL(), srv.URL(), engine.AdminPrefix)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()
			log.Info("shutting down")
			return nil
		},
	}

	cmd.Flags().IntVarP(&f.port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().BoolVar(&f.lifecycleStubs, "lifecycle-stubs", true, "Register the Users lifecycle stubs")
	return cmd
}
