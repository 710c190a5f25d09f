package testing

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/ohler55/ojg/jp"

	"github.com/getmockd/crudcontract/pkg/requestlog"
	"github.com/getmockd/crudcontract/pkg/scenario"
)

// Call is a journaled request, for assertions.
type Call struct {
	*requestlog.Entry
}

// AssertCalled asserts that method and path were called at least once.
func (h *Harness) AssertCalled(t testing.TB, method, path string) {
	t.Helper()
	if len(h.CallsTo(method, path)) == 0 {
		t.Errorf("expected %s %s to be called, but it was not called", method, path)
	}
}

// AssertCalledTimes asserts that method and path were called exactly n times.
func (h *Harness) AssertCalledTimes(t testing.TB, method, path string, times int) {
	t.Helper()
	if n := len(h.CallsTo(method, path)); n != times {
		t.Errorf("expected %s %s to be called %d times, but was called %d times", method, path, times, n)
	}
}

// AssertNotCalled asserts that method and path were not called.
func (h *Harness) AssertNotCalled(t testing.TB, method, path string) {
	t.Helper()
	if n := len(h.CallsTo(method, path)); n > 0 {
		t.Errorf("expected %s %s to not be called, but it was called %d times", method, path, n)
	}
}

// AssertStubCalledTimes asserts that the stub with id answered exactly n requests.
func (h *Harness) AssertStubCalledTimes(t testing.TB, id string, times int) {
	t.Helper()
	if n := h.engine.Journal().CountByStubID(id); n != times {
		t.Errorf("expected stub %q to answer %d requests, but it answered %d", id, times, n)
	}
}

// AssertState asserts the current state of a scenario.
func (h *Harness) AssertState(t testing.TB, name string, want scenario.State) {
	t.Helper()
	got, ok := h.engine.ScenarioState(name)
	if !ok {
		t.Errorf("scenario %q does not exist", name)
		return
	}
	if got != want {
		t.Errorf("scenario %q state mismatch\nexpected: %q\nactual: %q", name, want, got)
	}
}

// AssertNoUnmatched asserts that every request was answered by a stub.
// Unmatched requests are listed with each scenario's state at the time.
func (h *Harness) AssertNoUnmatched(t testing.TB) {
	t.Helper()
	for _, e := range h.engine.Unmatched() {
		t.Errorf("unmatched request %s %s (states %v, %d live stubs)", e.Method, e.Path, e.States, e.LiveStubs)
		for _, nm := range e.NearMisses {
			t.Errorf("  near miss: %+v", nm)
		}
	}
}

// AssertStub asserts that the call was answered by the stub with id.
func (c Call) AssertStub(t testing.TB, id string) {
	t.Helper()
	if c.Unmatched {
		t.Errorf("%s %s was not matched, expected stub %q", c.Method, c.Path, id)
		return
	}
	if c.StubID != id {
		t.Errorf("%s %s matched stub %q, expected %q", c.Method, c.Path, c.StubID, id)
	}
}

// AssertTransition asserts that the call moved its scenario from one state to another.
func (c Call) AssertTransition(t testing.TB, from, to scenario.State) {
	t.Helper()
	if !c.Transitioned {
		t.Errorf("%s %s did not transition its scenario (state %q)", c.Method, c.Path, c.StateBefore)
		return
	}
	if c.StateBefore != from || c.StateAfter != to {
		t.Errorf("%s %s transition mismatch\nexpected: %q -> %q\nactual: %q -> %q",
			c.Method, c.Path, from, to, c.StateBefore, c.StateAfter)
	}
}

// AssertStatus asserts the status the call was answered with.
func (c Call) AssertStatus(t testing.TB, want int) {
	t.Helper()
	if c.Status != want {
		t.Errorf("%s %s status mismatch\nexpected: %d\nactual: %d", c.Method, c.Path, want, c.Status)
	}
}

// AssertBodyContains asserts that the request body contains substr.
func (c Call) AssertBodyContains(t testing.TB, substr string) {
	t.Helper()
	if !strings.Contains(c.Body, substr) {
		t.Errorf("request body does not contain %q\nbody: %s", substr, c.Body)
	}
}

// AssertJSONBody asserts that the request body is JSON equal to expected.
// expected may be a JSON string, []byte, or any value that encodes to JSON.
func (c Call) AssertJSONBody(t testing.TB, expected any) {
	t.Helper()

	want, err := normalize(expected)
	if err != nil {
		t.Errorf("failed to parse expected JSON: %v", err)
		return
	}
	var got any
	if err := json.Unmarshal([]byte(c.Body), &got); err != nil {
		t.Errorf("request body is not valid JSON: %v\nbody: %s", err, c.Body)
		return
	}
	if !reflect.DeepEqual(got, want) {
		wantJSON, _ := json.MarshalIndent(want, "", "  ")
		gotJSON, _ := json.MarshalIndent(got, "", "  ")
		t.Errorf("request body does not match expected JSON\nexpected:\n%s\nactual:\n%s", wantJSON, gotJSON)
	}
}

// AssertJSONField asserts the value at a JSONPath expression in the request
// body, e.g. "$.email".
func (c Call) AssertJSONField(t testing.TB, path string, expected any) {
	t.Helper()

	x, err := jp.ParseString(path)
	if err != nil {
		t.Errorf("invalid JSONPath %q: %v", path, err)
		return
	}
	var doc any
	if err := json.Unmarshal([]byte(c.Body), &doc); err != nil {
		t.Errorf("request body is not valid JSON: %v\nbody: %s", err, c.Body)
		return
	}
	data, err := json.Marshal(expected)
	if err != nil {
		t.Errorf("failed to encode expected value: %v", err)
		return
	}
	want, _ := normalize(data)

	got := x.Get(doc)
	if len(got) == 0 {
		t.Errorf("JSON field %q not found in request body: %s", path, c.Body)
		return
	}
	if !reflect.DeepEqual(got[0], want) {
		t.Errorf("JSON field %q mismatch\nexpected: %v (%T)\nactual: %v (%T)", path, want, want, got[0], got[0])
	}
}

// normalize converts v to the form encoding/json decodes into an any.
func normalize(v any) (any, error) {
	var data []byte
	switch t := v.(type) {
	case string:
		data = []byte(t)
	case []byte:
		data = t
	default:
		var err error
		if data, err = json.Marshal(v); err != nil {
			return nil, err
		}
	}
	var out any
	err := json.Unmarshal(data, &out)
	return out, err
}
