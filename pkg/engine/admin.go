package engine

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/getmockd/crudcontract/pkg/httputil"
	"github.com/getmockd/crudcontract/pkg/requestlog"
	"github.com/getmockd/crudcontract/pkg/scenario"
	"github.com/getmockd/crudcontract/pkg/stub"
)

// AdminPrefix is the path prefix of the admin API.
const AdminPrefix = "/__admin"

// maxAdminBody bounds admin request bodies (1MB).
const maxAdminBody = 1 << 20

// Router returns a handler serving the admin API under AdminPrefix and
// passing every other request to the engine.
func (e *Engine) Router() http.Handler {
	r := chi.NewRouter()
	r.Mount(AdminPrefix, e.adminRoutes())
	r.NotFound(e.ServeHTTP)
	r.MethodNotAllowed(e.ServeHTTP)
	return r
}

func (e *Engine) adminRoutes() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", e.handleHealth)
	r.Method(http.MethodGet, "/metrics", e.metrics.Handler())
	r.Post("/reset", e.handleReset)

	r.Route("/mappings", func(r chi.Router) {
		r.Get("/", e.handleListMappings)
		r.Post("/", e.handleCreateMapping)
		r.Delete("/", e.handleDeleteMappings)
		r.Get("/{id}", e.handleGetMapping)
		r.Delete("/{id}", e.handleDeleteMapping)
	})

	r.Route("/scenarios", func(r chi.Router) {
		r.Get("/", e.handleListScenarios)
		r.Post("/reset", e.handleResetScenarios)
		r.Put("/{name}/state", e.handleSetScenarioState)
		r.Get("/{name}/transitions", e.handleScenarioTransitions)
	})

	r.Route("/requests", func(r chi.Router) {
		r.Get("/", e.handleListRequests)
		r.Delete("/", e.handleClearRequests)
		r.Get("/unmatched", e.handleListUnmatched)
		r.Get("/{id}", e.handleGetRequest)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteNotFound(w, "not_found", "unknown admin endpoint "+r.URL.Path)
	})
	return r
}

func (e *Engine) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteOK(w, map[string]any{
		"status": "ok",
		"stubs":  len(e.Stubs()),
	})
}

func (e *Engine) handleReset(w http.ResponseWriter, _ *http.Request) {
	e.ResetAll()
	httputil.WriteNoContent(w)
}

// MappingList is the body of GET /__admin/mappings.
type MappingList struct {
	Mappings []*stub.Stub `json:"mappings"`
	Total    int          `json:"total"`
}

func (e *Engine) handleListMappings(w http.ResponseWriter, _ *http.Request) {
	stubs := e.Stubs()
	httputil.WriteOK(w, MappingList{Mappings: stubs, Total: len(stubs)})
}

func (e *Engine) handleCreateMapping(w http.ResponseWriter, r *http.Request) {
	var s stub.Stub
	if err := httputil.DecodeJSON(r, &s, maxAdminBody); err != nil {
		httputil.WriteBadRequest(w, "invalid_body", err.Error())
		return
	}
	stored, err := e.RegisterStub(&s)
	if err != nil {
		httputil.WriteTypedError(w, "register_failed", err)
		return
	}
	httputil.WriteCreated(w, stored)
}

func (e *Engine) handleDeleteMappings(w http.ResponseWriter, _ *http.Request) {
	e.ClearStubs()
	httputil.WriteNoContent(w)
}

func (e *Engine) handleGetMapping(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s := e.Stub(id)
	if s == nil {
		httputil.WriteNotFound(w, "stub_not_found", "no stub with id "+strconv.Quote(id))
		return
	}
	httputil.WriteOK(w, s)
}

func (e *Engine) handleDeleteMapping(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !e.RemoveStub(id) {
		httputil.WriteNotFound(w, "stub_not_found", "no stub with id "+strconv.Quote(id))
		return
	}
	httputil.WriteNoContent(w)
}

// ScenarioList is the body of GET /__admin/scenarios.
type ScenarioList struct {
	Scenarios []scenario.Snapshot `json:"scenarios"`
}

func (e *Engine) handleListScenarios(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteOK(w, ScenarioList{Scenarios: e.Scenarios()})
}

func (e *Engine) handleResetScenarios(w http.ResponseWriter, _ *http.Request) {
	e.ResetScenarios()
	httputil.WriteNoContent(w)
}

// StateChange is the body of PUT /__admin/scenarios/{name}/state.
type StateChange struct {
	State scenario.State `json:"state"`
}

func (e *Engine) handleSetScenarioState(w http.ResponseWriter, r *http.Request) {
	name := scenarioParam(r)
	var req StateChange
	if err := httputil.DecodeJSON(r, &req, maxAdminBody); err != nil {
		httputil.WriteBadRequest(w, "invalid_body", err.Error())
		return
	}
	if err := e.SetScenarioState(name, req.State); err != nil {
		httputil.WriteTypedError(w, "set_state_failed", err)
		return
	}
	httputil.WriteNoContent(w)
}

// TransitionList is the body of GET /__admin/scenarios/{name}/transitions.
type TransitionList struct {
	Scenario    string           `json:"scenario"`
	States      []scenario.State `json:"states"`
	Transitions []scenario.Rule  `json:"transitions"`
	Unreachable []scenario.State `json:"unreachable,omitempty"`
}

func (e *Engine) handleScenarioTransitions(w http.ResponseWriter, r *http.Request) {
	name := scenarioParam(r)
	table, err := e.Table(name)
	if err != nil {
		httputil.WriteTypedError(w, "table_failed", err)
		return
	}
	httputil.WriteOK(w, TransitionList{
		Scenario:    name,
		States:      table.States(),
		Transitions: table.Transitions(),
		Unreachable: table.Unreachable(),
	})
}

// RequestList is the body of the GET /__admin/requests endpoints.
type RequestList struct {
	Requests []*requestlog.Entry `json:"requests"`
	Total    int                 `json:"total"`
}

func (e *Engine) handleListRequests(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		httputil.WriteBadRequest(w, "invalid_filter", err.Error())
		return
	}
	entries := e.journal.List(filter)
	httputil.WriteOK(w, RequestList{Requests: entries, Total: e.journal.Count()})
}

func (e *Engine) handleListUnmatched(w http.ResponseWriter, _ *http.Request) {
	entries := e.Unmatched()
	if entries == nil {
		entries = []*requestlog.Entry{}
	}
	httputil.WriteOK(w, RequestList{Requests: entries, Total: len(entries)})
}

func (e *Engine) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	entry := e.journal.Get(id)
	if entry == nil {
		httputil.WriteNotFound(w, "request_not_found", "no request with id "+strconv.Quote(id))
		return
	}
	httputil.WriteOK(w, entry)
}

func (e *Engine) handleClearRequests(w http.ResponseWriter, _ *http.Request) {
	e.journal.Clear()
	httputil.WriteNoContent(w)
}

func parseFilter(q url.Values) (*requestlog.Filter, error) {
	f := &requestlog.Filter{
		Method:   q.Get("method"),
		Path:     q.Get("path"),
		StubID:   q.Get("stubId"),
		Scenario: q.Get("scenario"),
	}
	for name, dst := range map[string]*int{"status": &f.Status, "limit": &f.Limit, "offset": &f.Offset} {
		if v := q.Get(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("invalid %s %q: %w", name, v, err)
			}
			*dst = n
		}
	}
	if v := q.Get("unmatched"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid unmatched %q: %w", v, err)
		}
		f.Unmatched = &b
	}
	return f, nil
}

func scenarioParam(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}
