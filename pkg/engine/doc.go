// Package engine provides the stateful request-matching engine.
//
// # Matching
//
// An Engine holds a stub repository, a scenario state machine and a
// transaction journal. For every request it collects the unscoped stubs and,
// for each declared scenario, the stubs whose required state equals that
// scenario's current state; it then picks the most specific candidate (exact
// path over {param} segments over wildcards, earliest registration on a tie).
//
// If the chosen stub declares a next state, the scenario moves there before
// the response is returned. Matching, the transition and building the
// response run under one lock, so two racing requests can never both observe
// the state from before the transition.
//
// When no stub matches, the fallback response (404 with an empty body unless
// configured with WithFallback) is returned and no scenario changes. The
// journal entry for such a request carries every scenario's state and
// near-miss diagnostics.
//
// A HEAD request with no HEAD stub is answered by the matching GET stub
// without its transition.
//
// # Serving
//
// Engine implements http.Handler. Router adds the admin API under
// /__admin (mappings, scenarios, request journal, metrics and health), and
// Server runs the router on a local port:
//
//	srv := engine.NewServer(engine.New())
//	if err := srv.Start(0); err != nil {
//	    return err
//	}
//	defer srv.Stop()
//
//	srv.RegisterStub(&stub.Stub{
//	    Scenario:    "User C.R.U.D. Lifecycle",
//	    Method:      stub.MethodPost,
//	    PathPattern: "/users",
//	    NextState:   "User has been created",
//	    Response:    stub.Response{Status: 201, JSONBody: map[string]any{"id": 123}},
//	})
package engine
