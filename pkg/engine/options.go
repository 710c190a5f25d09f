package engine

import (
	"log/slog"

	"github.com/getmockd/crudcontract/internal/storage"
	"github.com/getmockd/crudcontract/pkg/requestlog"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithFallback sets the response sent when no stub matches.
// Status 0 keeps the default 404.
func WithFallback(status int, headers map[string]string, body []byte) Option {
	return func(e *Engine) {
		if status == 0 {
			status = DefaultFallback().Status
		}
		e.fallback = Fallback{Status: status, Headers: headers, Body: body}
	}
}

// WithStrictAmbiguity records every ambiguous match so that tests can fail
// on it through Ambiguities.
func WithStrictAmbiguity() Option {
	return func(e *Engine) {
		e.strict = true
	}
}

// WithJournal replaces the transaction journal.
func WithJournal(journal requestlog.ExtendedStore) Option {
	return func(e *Engine) {
		if journal != nil {
			e.journal = journal
		}
	}
}

// WithMaxJournalEntries bounds the default in-memory journal.
func WithMaxJournalEntries(n int) Option {
	return func(e *Engine) {
		e.journal = requestlog.NewMemoryStore(n)
	}
}

// WithStore replaces the stub repository.
func WithStore(store storage.StubStore) Option {
	return func(e *Engine) {
		if store != nil {
			e.store = store
		}
	}
}

// WithNearMisses sets how many near-miss candidates are recorded for an
// unmatched request. Zero disables the analysis.
func WithNearMisses(n int) Option {
	return func(e *Engine) {
		e.nearMisses = n
	}
}
