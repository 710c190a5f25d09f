// Package requestlog records the transactions of the mock engine for
// inspection and debugging.
//
// Every request the engine handles produces exactly one Entry: the request
// itself, the stub that answered it (if any), and the scenario state before
// and after. Unmatched requests additionally carry a snapshot of every
// scenario's state, the number of live stubs and near-miss diagnostics, so a
// deliberate 404 stub and a missing stub can be told apart in a failure
// report even though both look the same on the wire.
//
// This is distinct from operational logging, which uses log/slog.
//
//	store := requestlog.NewMemoryStore(1000)
//	store.Log(&requestlog.Entry{Method: "GET", Path: "/users/123", Status: 200})
//	recent := store.List(&requestlog.Filter{Limit: 10})
//
// This is a leaf package apart from the scenario state type.
package requestlog
