package cli

import (
	"log/slog"

	"github.com/getmockd/crudcontract/pkg/config"
	"github.com/getmockd/crudcontract/pkg/engine"
)

// buildServer creates a server with every configured stub registered.
// The server is not started.
func buildServer(cfg *config.Config, log *slog.Logger, withLifecycle bool) (*engine.Server, error) {
	stubs, err := configuredStubs(cfg, withLifecycle)
	if err != nil {
		return nil, err
	}

	e := newEngine(cfg, log)
	if _, err := e.RegisterStubs(stubs); err != nil {
		return nil, err
	}

	return engine.NewServer(e,
		engine.WithServerLogger(log),
		engine.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout),
	), nil
}

type stopper interface {
	Stop() error
}

// stopServer stops srv, logging a failed shutdown.
func stopServer(srv stopper, log *slog.Logger) {
	if err := srv.Stop(); err != nil {
		log.Warn("failed to stop mock server", "error", err)
	}
}
