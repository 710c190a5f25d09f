package testing

import (
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/getmockd/crudcontract/pkg/engine"
	"github.com/getmockd/crudcontract/pkg/requestlog"
	"github.com/getmockd/crudcontract/pkg/scenario"
	"github.com/getmockd/crudcontract/pkg/stub"
	"github.com/getmockd/crudcontract/pkg/transport"
	"github.com/getmockd/crudcontract/pkg/users"
)

// Harness is a stateful mock for one test. It resets and shuts down when the
// test completes, and fails the test if any request matched more than one
// stub equally well.
type Harness struct {
	t      testing.TB
	engine *engine.Engine

	mu            sync.Mutex
	server        *engine.Server
	httpTransport *http.Transport
}

// New creates a harness whose cleanup is registered on t.
// Options are passed to the engine; strict ambiguity detection is always on.
func New(t testing.TB, opts ...engine.Option) *Harness {
	t.Helper()
	h := &Harness{
		t:      t,
		engine: engine.New(append(opts, engine.WithStrictAmbiguity())...),
	}
	t.Cleanup(h.cleanup)
	return h
}

func (h *Harness) cleanup() {
	h.t.Helper()
	for _, a := range h.engine.Ambiguities() {
		h.t.Errorf("ambiguous stub match: %s", a)
	}
	h.engine.ResetAll()

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.httpTransport != nil {
		h.httpTransport.CloseIdleConnections()
	}
	if h.server != nil {
		if err := h.server.Stop(); err != nil {
			h.t.Errorf("failed to stop mock server: %v", err)
		}
		h.server = nil
	}
}

// Engine returns the underlying engine for advanced use cases.
func (h *Harness) Engine() *engine.Engine {
	return h.engine
}

// Stub starts a stub for method and path. Call Register to add it.
//
//	h.Stub("POST", "/users").
//	    InScenario("User C.R.U.D. Lifecycle").
//	    WillSetStateTo("User has been created").
//	    WithStatus(201).
//	    WithJSON(map[string]any{"id": 123}).
//	    Register()
func (h *Harness) Stub(method, path string) *StubBuilder {
	return &StubBuilder{
		h: h,
		stub: &stub.Stub{
			Method:      stub.Method(strings.ToUpper(method)),
			PathPattern: path,
			Response:    stub.Response{Status: http.StatusOK},
		},
	}
}

// Transport dispatches requests to the engine in process.
func (h *Harness) Transport() transport.Transport {
	return transport.NewHandler(h.engine.Router())
}

// Users returns a Users API client bound to the engine in process.
func (h *Harness) Users() *users.Client {
	return users.NewClient(h.Transport())
}

// URL starts a loopback server on first use and returns its base URL.
func (h *Harness) URL() string {
	h.t.Helper()
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.server == nil {
		srv := engine.NewServer(h.engine)
		if err := srv.Start(0); err != nil {
			h.t.Fatalf("failed to start mock server: %v", err)
			return ""
		}
		h.server = srv
	}
	return h.server.URL()
}

// Client returns an http.Client whose idle connections are closed on cleanup.
func (h *Harness) Client() *http.Client {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.httpTransport == nil {
		h.httpTransport = &http.Transport{}
	}
	return &http.Client{Transport: h.httpTransport}
}

// Reset removes every stub, scenario and journal entry.
func (h *Harness) Reset() {
	h.engine.ResetAll()
}

// ResetScenarios moves every scenario back to Started, keeping stubs.
func (h *Harness) ResetScenarios() {
	h.engine.ResetScenarios()
}

// State returns the current state of a scenario, failing the test when the
// scenario does not exist.
func (h *Harness) State(name string) scenario.State {
	h.t.Helper()
	state, ok := h.engine.ScenarioState(name)
	if !ok {
		h.t.Fatalf("scenario %q does not exist", name)
	}
	return state
}

// SetState forces a scenario into state.
func (h *Harness) SetState(name string, state scenario.State) {
	h.t.Helper()
	if err := h.engine.SetScenarioState(name, state); err != nil {
		h.t.Fatalf("failed to set scenario state: %v", err)
	}
}

// Calls returns every journaled request, oldest first.
func (h *Harness) Calls() []Call {
	entries := h.engine.Journal().Chronological()
	calls := make([]Call, len(entries))
	for i, e := range entries {
		calls[i] = Call{Entry: e}
	}
	return calls
}

// CallsTo returns the journaled requests for method and path, oldest first.
// path may contain {name} segments.
func (h *Harness) CallsTo(method, path string) []Call {
	var out []Call
	for _, c := range h.Calls() {
		if strings.EqualFold(c.Method, method) && matchesPath(c.Path, path) {
			out = append(out, c)
		}
	}
	return out
}

// Unmatched returns the requests answered by the fallback, oldest first.
func (h *Harness) Unmatched() []*requestlog.Entry {
	return h.engine.Unmatched()
}

// matchesPath reports whether a request path matches a pattern with optional
// {name} segments.
func matchesPath(actual, pattern string) bool {
	if actual == pattern {
		return true
	}
	actualParts := strings.Split(actual, "/")
	patternParts := strings.Split(pattern, "/")
	if len(actualParts) != len(patternParts) {
		return false
	}
	for i, p := range patternParts {
		if strings.HasPrefix(p, "{") && strings.HasSuffix(p, "}") {
			continue
		}
		if p != actualParts[i] {
			return false
		}
	}
	return true
}
