package cli

import (
	"fmt"
	"log/slog"

	"github.com/getmockd/crudcontract/pkg/config"
	"github.com/getmockd/crudcontract/pkg/engine"
	"github.com/getmockd/crudcontract/pkg/lifecycle"
	"github.com/getmockd/crudcontract/pkg/stub"
	"github.com/getmockd/crudcontract/pkg/users"
)

// newEngine builds an engine from the configuration.
func newEngine(cfg *config.Config, log *slog.Logger) *engine.Engine {
	opts := []engine.Option{
		engine.WithLogger(log),
		engine.WithFallback(cfg.Engine.Fallback.Status, cfg.Engine.Fallback.Headers, []byte(cfg.Engine.Fallback.Body)),
		engine.WithMaxJournalEntries(cfg.Engine.MaxJournalEntries),
		engine.WithNearMisses(cfg.Engine.NearMisses),
	}
	if cfg.Engine.StrictAmbiguity {
		opts = append(opts, engine.WithStrictAmbiguity())
	}
	return engine.New(opts...)
}

// usersFixture converts the configured lifecycle fixture.
func usersFixture(cfg *config.Config) lifecycle.UsersFixture {
	lc := cfg.Lifecycle
	return lifecycle.UsersFixture{
		ID:           lc.UserID,
		User:         users.New(lc.Email, lc.Username, lc.Password),
		UpdatedEmail: lc.UpdatedEmail,
	}
}

// configuredStubs returns the stubs to register: the built-in Users lifecycle
// stubs when withLifecycle is set, then the configured ones.
func configuredStubs(cfg *config.Config, withLifecycle bool) ([]*stub.Stub, error) {
	var stubs []*stub.Stub
	if withLifecycle {
		stubs = append(stubs, lifecycle.UsersPlan(usersFixture(cfg)).Stubs...)
	}
	loaded, err := cfg.LoadStubs()
	if err != nil {
		return nil, fmt.Errorf("failed to load stubs: %w", err)
	}
	return append(stubs, loaded...), nil
}
