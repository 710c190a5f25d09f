package engine

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/crudcontract/pkg/scenario"
	"github.com/getmockd/crudcontract/pkg/stub"
)

func adminRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func TestAdmin_Health(t *testing.T) {
	h := New().Router()
	rec := adminRequest(t, h, http.MethodGet, "/__admin/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "ok", body["status"])
}

func TestAdmin_CreateAndListMappings(t *testing.T) {
	e := New()
	h := e.Router()

	rec := adminRequest(t, h, http.MethodPost, "/__admin/mappings", `{
		"id": "create",
		"scenario": "User C.R.U.D. Lifecycle",
		"method": "post",
		"path": "/users",
		"nextState": "User has been created",
		"response": {"status": 201, "jsonBody": {"id": 123}}
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[stub.Stub](t, rec)
	assert.Equal(t, stub.MethodPost, created.Method)
	assert.Equal(t, scenario.Started, created.RequiredState)

	rec = adminRequest(t, h, http.MethodGet, "/__admin/mappings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[MappingList](t, rec)
	assert.Equal(t, 1, list.Total)

	rec = adminRequest(t, h, http.MethodGet, "/__admin/mappings/create", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	// The registered stub is served by the same router.
	rec = adminRequest(t, h, http.MethodPost, "/users", `{}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":123}`, rec.Body.String())
}

func TestAdmin_CreateMappingErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"empty body", "", http.StatusBadRequest, "invalid_body"},
		{"unknown field", `{"method":"GET","path":"/users","colour":"red"}`, http.StatusBadRequest, "invalid_body"},
		{"invalid method", `{"method":"BREW","path":"/users"}`, http.StatusBadRequest, "register_failed"},
		{"duplicate", `{"method":"GET","path":"/existing"}`, http.StatusConflict, "register_failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New()
			_, err := e.RegisterStub(&stub.Stub{Method: stub.MethodGet, PathPattern: "/existing"})
			require.NoError(t, err)

			rec := adminRequest(t, e.Router(), http.MethodPost, "/__admin/mappings", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			body := decode[map[string]any](t, rec)
			assert.Equal(t, tt.wantCode, body["error"])
		})
	}
}

func TestAdmin_DeleteMapping(t *testing.T) {
	e := New()
	_, err := e.RegisterStub(&stub.Stub{ID: "a", Method: stub.MethodGet, PathPattern: "/users"})
	require.NoError(t, err)
	h := e.Router()

	assert.Equal(t, http.StatusNoContent, adminRequest(t, h, http.MethodDelete, "/__admin/mappings/a", "").Code)
	assert.Equal(t, http.StatusNotFound, adminRequest(t, h, http.MethodDelete, "/__admin/mappings/a", "").Code)
	assert.Equal(t, http.StatusNotFound, adminRequest(t, h, http.MethodGet, "/__admin/mappings/a", "").Code)
}

func TestAdmin_Scenarios(t *testing.T) {
	e := newLifecycleEngine(t)
	h := e.Router()
	escaped := "/__admin/scenarios/" + url.PathEscape(lifecycle)

	rec := adminRequest(t, h, http.MethodPut, escaped+"/state", `{"state":"User has been updated"}`)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
	assert.Equal(t, updated, state(t, e))

	rec = adminRequest(t, h, http.MethodGet, "/__admin/scenarios", "")
	list := decode[ScenarioList](t, rec)
	require.Len(t, list.Scenarios, 1)
	assert.Equal(t, updated, list.Scenarios[0].State)

	rec = adminRequest(t, h, http.MethodPut, escaped+"/state", `{"state":"User is on holiday"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[map[string]any](t, rec), "hint")

	rec = adminRequest(t, h, http.MethodPut, "/__admin/scenarios/nope/state", `{"state":"Started"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = adminRequest(t, h, http.MethodPost, "/__admin/scenarios/reset", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, scenario.Started, state(t, e))
}

func TestAdmin_ScenarioTransitions(t *testing.T) {
	h := newLifecycleEngine(t).Router()

	rec := adminRequest(t, h, http.MethodGet, "/__admin/scenarios/"+url.PathEscape(lifecycle)+"/transitions", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	list := decode[TransitionList](t, rec)
	assert.Equal(t, lifecycle, list.Scenario)
	assert.Equal(t, []scenario.State{scenario.Started, created, updated, deleted}, list.States)
	assert.Len(t, list.Transitions, 6)
	assert.Empty(t, list.Unreachable)
}

func TestAdmin_Requests(t *testing.T) {
	e := newLifecycleEngine(t)
	h := e.Router()

	adminRequest(t, h, http.MethodPost, "/users", `{}`)
	adminRequest(t, h, http.MethodGet, "/nothing", "")

	rec := adminRequest(t, h, http.MethodGet, "/__admin/requests", "")
	list := decode[RequestList](t, rec)
	assert.Equal(t, 2, list.Total)
	require.Len(t, list.Requests, 2)
	assert.Equal(t, "/nothing", list.Requests[0].Path, "newest first")

	rec = adminRequest(t, h, http.MethodGet, "/__admin/requests?unmatched=false", "")
	list = decode[RequestList](t, rec)
	require.Len(t, list.Requests, 1)
	assert.Equal(t, "create", list.Requests[0].StubID)

	id := list.Requests[0].ID
	rec = adminRequest(t, h, http.MethodGet, "/__admin/requests/"+id, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = adminRequest(t, h, http.MethodGet, "/__admin/requests/unmatched", "")
	list = decode[RequestList](t, rec)
	require.Len(t, list.Requests, 1)
	assert.Equal(t, "/nothing", list.Requests[0].Path)

	rec = adminRequest(t, h, http.MethodGet, "/__admin/requests?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, http.StatusNoContent, adminRequest(t, h, http.MethodDelete, "/__admin/requests", "").Code)
	assert.Equal(t, 0, e.Journal().Count())
}

func TestAdmin_Reset(t *testing.T) {
	e := newLifecycleEngine(t)
	rec := adminRequest(t, e.Router(), http.MethodPost, "/__admin/reset", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, e.Stubs())
}

func TestAdmin_Metrics(t *testing.T) {
	e := newLifecycleEngine(t)
	h := e.Router()
	adminRequest(t, h, http.MethodPost, "/users", "")

	rec := adminRequest(t, h, http.MethodGet, "/__admin/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "crudcontract_requests_matched_total")
	assert.Contains(t, rec.Body.String(), "crudcontract_stubs_registered 6")
}

func TestAdmin_UnknownEndpoint(t *testing.T) {
	rec := adminRequest(t, New().Router(), http.MethodGet, "/__admin/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode[map[string]any](t, rec)["error"])
}

func TestRouter_MockedMethodsPassThrough(t *testing.T) {
	e := New()
	_, err := e.RegisterStub(&stub.Stub{Method: stub.MethodDelete, PathPattern: "/users/{id}", Response: stub.Response{Status: 204}})
	require.NoError(t, err)

	rec := adminRequest(t, e.Router(), http.MethodDelete, "/users/9", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
