package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/getmockd/crudcontract/internal/matching"
	"github.com/getmockd/crudcontract/internal/storage"
	"github.com/getmockd/crudcontract/pkg/logging"
	"github.com/getmockd/crudcontract/pkg/requestlog"
	"github.com/getmockd/crudcontract/pkg/scenario"
	"github.com/getmockd/crudcontract/pkg/stub"
	"github.com/getmockd/crudcontract/pkg/util"
)

// maxLoggedBody bounds the request body kept in the journal.
const maxLoggedBody = util.MaxLogBodySize

// Ambiguity records a request that more than one stub answered equally well.
type Ambiguity struct {
	Method string
	Path   string
	Chosen string
	Tied   []string
}

func (a Ambiguity) String() string {
	return fmt.Sprintf("%s %s matched %s and %s with equal specificity", a.Method, a.Path, a.Chosen, strings.Join(a.Tied, ", "))
}

// Engine matches requests against registered stubs and drives scenario
// state. It is safe for concurrent use; matching, the scenario transition and
// building the response happen atomically with respect to other requests.
type Engine struct {
	mu sync.Mutex

	store   storage.StubStore
	machine *scenario.Machine
	journal requestlog.ExtendedStore
	metrics *Metrics
	log     *slog.Logger

	fallback    Fallback
	strict      bool
	nearMisses  int
	ambiguities []Ambiguity
}

// New creates an Engine with an in-memory repository and journal.
func New(opts ...Option) *Engine {
	e := &Engine{
		store:      storage.NewInMemoryStubStore(),
		machine:    scenario.NewMachine(),
		journal:    requestlog.NewMemoryStore(requestlog.DefaultMaxEntries),
		metrics:    newMetrics(),
		log:        logging.Nop(),
		fallback:   DefaultFallback(),
		nearMisses: 3,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = logging.Component(e.log, "engine")
	return e
}

// RegisterStub normalizes, validates and registers a stub and declares its
// scenario. It returns the stored stub.
func (e *Engine) RegisterStub(s *stub.Stub) (*stub.Stub, error) {
	if s == nil {
		return nil, &stub.InvalidStubError{Message: "stub is nil"}
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	c := s.Clone()
	c.Normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := e.store.Register(c); err != nil {
		return nil, err
	}
	e.declareLocked(c)
	e.metrics.stubs.Set(float64(e.store.Count()))

	e.log.Debug("stub registered", "id", c.ID, "key", c.Key().String())
	return e.store.Get(c.ID), nil
}

// RegisterStubs registers a batch of stubs. Either all are registered or,
// on the first error, none are.
func (e *Engine) RegisterStubs(stubs []*stub.Stub) ([]*stub.Stub, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	prepared := make([]*stub.Stub, 0, len(stubs))
	keys := make(map[stub.Key]string, len(stubs))
	for _, s := range stubs {
		if s == nil {
			return nil, &stub.InvalidStubError{Message: "stub is nil"}
		}
		c := s.Clone()
		c.Normalize()
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if existing, dup := keys[c.Key()]; dup {
			return nil, &stub.DuplicateStubError{Key: c.Key(), ExistingID: existing, NewID: c.ID}
		}
		keys[c.Key()] = c.ID
		prepared = append(prepared, c)
	}

	registered := make([]*stub.Stub, 0, len(prepared))
	for _, c := range prepared {
		if err := e.store.Register(c); err != nil {
			for _, r := range registered {
				e.store.Remove(r.ID)
			}
			return nil, err
		}
		registered = append(registered, c)
	}
	for i, c := range registered {
		e.declareLocked(c)
		registered[i] = e.store.Get(c.ID)
	}
	e.metrics.stubs.Set(float64(e.store.Count()))
	return registered, nil
}

// RemoveStub deletes a stub. Its scenario keeps its current state.
func (e *Engine) RemoveStub(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	ok := e.store.Remove(id)
	e.metrics.stubs.Set(float64(e.store.Count()))
	return ok
}

func (e *Engine) declareLocked(s *stub.Stub) {
	if s.Scenario == "" {
		return
	}
	e.machine.Declare(s.Scenario, s.RequiredState, s.NextState)
}

// ResetAll removes every stub, scenario, journal entry and recorded
// ambiguity, returning the engine to its freshly constructed state.
func (e *Engine) ResetAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store.Clear()
	e.machine.Clear()
	e.journal.Clear()
	e.ambiguities = nil
	e.metrics.stubs.Set(0)
	e.log.Debug("engine reset")
}

// ClearStubs removes every stub and scenario, keeping the journal.
func (e *Engine) ClearStubs() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store.Clear()
	e.machine.Clear()
	e.metrics.stubs.Set(0)
}

// ResetScenarios returns every scenario to Started, keeping stubs.
func (e *Engine) ResetScenarios() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.machine.Reset()
}

// SetScenarioState forces a scenario into a state declared by its stubs.
func (e *Engine) SetScenarioState(name string, state scenario.State) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.Set(name, state)
}

// ScenarioState returns the current state of a scenario.
func (e *Engine) ScenarioState(name string) (scenario.State, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.Current(name)
}

// Stubs returns the registered stubs in registration order.
func (e *Engine) Stubs() []*stub.Stub {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.List()
}

// Stub returns a registered stub by ID.
func (e *Engine) Stub(id string) *stub.Stub {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Get(id)
}

// Scenarios returns every declared scenario, sorted by name.
func (e *Engine) Scenarios() []scenario.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.Snapshot()
}

// Table builds the transition table of a scenario from its stubs.
func (e *Engine) Table(name string) (*scenario.Table, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.machine.Has(name) {
		return nil, &scenario.UnknownScenarioError{Name: name}
	}
	return storage.NewScenarioView(e.store, name).Table()
}

// Journal returns the transaction journal.
func (e *Engine) Journal() requestlog.ExtendedStore {
	return e.journal
}

// Unmatched returns the journal entries answered by the fallback, oldest first.
func (e *Engine) Unmatched() []*requestlog.Entry {
	var out []*requestlog.Entry
	for _, entry := range e.journal.Chronological() {
		if entry.Unmatched {
			out = append(out, entry)
		}
	}
	return out
}

// Ambiguities returns the ambiguous matches recorded in strict mode.
func (e *Engine) Ambiguities() []Ambiguity {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Ambiguity(nil), e.ambiguities...)
}

// Metrics returns the engine's Prometheus collectors.
func (e *Engine) Metrics() *Metrics {
	return e.metrics
}

// Handle answers a request. It never returns nil: when no stub matches, the
// fallback response is returned and no scenario changes state.
func (e *Engine) Handle(ctx context.Context, req *Request) *Response {
	start := time.Now()
	method := strings.ToUpper(req.Method)
	path := requestPath(req.Path)

	e.mu.Lock()
	defer e.mu.Unlock()

	entry := &requestlog.Entry{
		Timestamp: start,
		Method:    method,
		Path:      path,
		Body:      util.TruncateBody(string(req.Body), maxLoggedBody),
		LiveStubs: e.store.Count(),
	}

	candidates := e.candidatesLocked(method, path)
	commit := true
	if len(candidates) == 0 && method == "HEAD" {
		// HEAD answered by a GET stub never moves its scenario.
		candidates = e.candidatesLocked("GET", path)
		commit = false
	}

	var resp *Response
	if len(candidates) == 0 {
		resp = e.unmatchedLocked(ctx, entry)
	} else {
		resp = e.respondLocked(ctx, entry, candidates, commit)
	}

	if method == "HEAD" {
		resp.Body = nil
	}
	entry.Status = resp.Status
	entry.DurationMs = int(time.Since(start).Milliseconds())
	e.journal.Log(entry)
	return resp
}

// candidatesLocked collects the unscoped candidates and those of every
// scenario in its current state, most specific first, then in registration
// order.
func (e *Engine) candidatesLocked(method, path string) []storage.Candidate {
	out := e.store.FindCandidates(method, path, "", "")
	for name, state := range e.machine.States() {
		out = append(out, e.store.FindCandidates(method, path, name, state)...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Seq < out[j].Seq
	})
	return out
}

// respondLocked answers with the best candidate. With commit false the
// stub's transition is not applied.
func (e *Engine) respondLocked(ctx context.Context, entry *requestlog.Entry, candidates []storage.Candidate, commit bool) *Response {
	best := candidates[0]
	s := best.Stub

	var tied []string
	for _, c := range candidates[1:] {
		if c.Score != best.Score {
			break
		}
		tied = append(tied, c.Stub.ID)
	}
	if len(tied) > 0 {
		entry.Ambiguous = tied
		e.metrics.ambiguous.Inc()
		e.log.WarnContext(ctx, "ambiguous stub match",
			"method", entry.Method,
			"path", entry.Path,
			"chosen", s.ID,
			"tied", tied,
		)
		if e.strict {
			e.ambiguities = append(e.ambiguities, Ambiguity{
				Method: entry.Method,
				Path:   entry.Path,
				Chosen: s.ID,
				Tied:   tied,
			})
		}
	}

	entry.StubID = s.ID
	entry.StubName = s.Name
	entry.Scenario = s.Scenario

	if s.Scenario != "" {
		before, _ := e.machine.Current(s.Scenario)
		entry.StateBefore = before
		entry.StateAfter = before
		if s.HasTransition() && commit {
			// The transition commits before the response is released.
			if err := e.machine.Transition(s.Scenario, before, s.NextState); err != nil {
				e.log.ErrorContext(ctx, "scenario transition failed", "stub", s.ID, "error", err)
				return &Response{Status: 500, Headers: map[string]string{}, StubID: s.ID}
			}
			entry.StateAfter = s.NextState
			entry.Transitioned = true
			e.metrics.transitions.WithLabelValues(s.Scenario, string(before), string(s.NextState)).Inc()
		}
	}
	e.metrics.matched.WithLabelValues(scenarioLabel(s.Scenario)).Inc()

	body, err := s.Response.Bytes()
	if err != nil {
		// Validated at registration; only reachable with a custom store.
		e.log.ErrorContext(ctx, "failed to render stub body", "stub", s.ID, "error", err)
		return &Response{Status: 500, Headers: map[string]string{}, StubID: s.ID}
	}

	e.log.DebugContext(ctx, "request matched",
		"method", entry.Method,
		"path", entry.Path,
		"stub", s.ID,
		"score", best.Score,
		"state_before", entry.StateBefore,
		"state_after", entry.StateAfter,
	)

	return &Response{
		Status:  s.Response.Status,
		Headers: s.Response.Header(),
		Body:    body,
		StubID:  s.ID,
	}
}

func (e *Engine) unmatchedLocked(ctx context.Context, entry *requestlog.Entry) *Response {
	states := e.machine.States()
	entry.Unmatched = true
	entry.States = states

	if e.nearMisses > 0 {
		for _, nm := range matching.CollectNearMisses(e.store.List(), entry.Method, entry.Path, states, e.nearMisses) {
			entry.NearMisses = append(entry.NearMisses, requestlog.NearMissInfo{
				StubID:          nm.StubID,
				StubName:        nm.StubName,
				MatchPercentage: nm.MatchPercentage,
				Reason:          nm.Reason,
			})
		}
	}
	e.metrics.unmatched.Inc()

	e.log.InfoContext(ctx, "no stub matched",
		"method", entry.Method,
		"path", entry.Path,
		"live_stubs", entry.LiveStubs,
		"near_misses", len(entry.NearMisses),
	)
	return e.fallback.response()
}

// IsConfigError reports whether err is a stub configuration error.
func IsConfigError(err error) bool {
	var dup *stub.DuplicateStubError
	var invalid *stub.InvalidStubError
	return errors.As(err, &dup) || errors.As(err, &invalid)
}

