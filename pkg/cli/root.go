package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/getmockd/crudcontract/pkg/config"
	"github.com/getmockd/crudcontract/pkg/logging"
)

// BuildInfo is injected by the binary at build time.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"buildDate"`
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configFile string
	jsonOutput bool
	logLevel   string
	logFormat  string
}

// NewRootCommand builds the crudcontract command tree.
func NewRootCommand(info BuildInfo) *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "crudcontract",
		Short: "Contract and lifecycle harness for a Users CRUD API",
		Long: `crudcontract drives the create, read, update and delete lifecycle of a Users
API against a stateful mock, and validates the real API's read-all response
against a schema.

Configuration is read from --config (YAML or JSON) and overridden by
CRUDCONTRACT_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&g.configFile, "config", "c", "", "Config file path")
	pf.BoolVar(&g.jsonOutput, "json", false, "Output command results in JSON format")
	pf.StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&g.logFormat, "log-format", "", "Log format (text, json)")

	root.AddCommand(
		newServeCommand(g),
		newLifecycleCommand(g),
		newValidateCommand(g),
		newCheckCommand(g),
		newVersionCommand(g, info),
	)
	return root
}

// Execute runs the command tree and returns the process exit code.
func Execute(ctx context.Context, info BuildInfo, args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand(info)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// load reads the configuration and builds the logger every command uses.
// Logs go to the command's error stream so --json output stays clean.
func (g *globalFlags) load(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg := config.Default()
	if g.configFile != "" {
		var err error
		if cfg, err = config.Load(g.configFile); err != nil {
			return nil, nil, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, nil, err
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if g.logFormat != "" {
		cfg.Log.Format = g.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration:\n%w", err)
	}
	return cfg, logging.New(cfg.Logging(cmd.ErrOrStderr())), nil
}
