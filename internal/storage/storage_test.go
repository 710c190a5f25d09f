package storage

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/getmockd/crudcontract/internal/matching"
	"github.com/getmockd/crudcontract/pkg/scenario"
	"github.com/getmockd/crudcontract/pkg/stub"
)

const lifecycle = "User C.R.U.D. Lifecycle"

// --- Helper ---

func newStub(id string, method stub.Method, path string, required, next scenario.State) *stub.Stub {
	s := &stub.Stub{
		ID:            id,
		Method:        method,
		PathPattern:   path,
		RequiredState: required,
		NextState:     next,
		Response:      stub.Response{Status: 200},
	}
	if required != "" || next != "" {
		s.Scenario = lifecycle
	}
	s.Normalize()
	return s
}

func mustRegister(t *testing.T, store StubStore, stubs ...*stub.Stub) {
	t.Helper()
	for _, s := range stubs {
		if err := store.Register(s); err != nil {
			t.Fatalf("Register(%s) error = %v", s.ID, err)
		}
	}
}

func ids(cands []Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Stub.ID
	}
	return out
}

// --- InMemoryStubStore Tests ---

func TestNewInMemoryStubStore(t *testing.T) {
	store := NewInMemoryStubStore()
	if store.Count() != 0 {
		t.Errorf("new store Count() = %d, want 0", store.Count())
	}
}

func TestInMemory_RegisterAndGet(t *testing.T) {
	store := NewInMemoryStubStore()
	s := newStub("create", stub.MethodPost, "/users", scenario.Started, "User has been created")
	mustRegister(t, store, s)

	got := store.Get("create")
	if got == nil {
		t.Fatal("Get() returned nil")
	}
	if got == s {
		t.Error("Register() stored the caller's pointer, want a copy")
	}
	if got.NextState != "User has been created" {
		t.Errorf("Get().NextState = %q", got.NextState)
	}
	if store.Get("missing") != nil {
		t.Error("Get(missing) != nil")
	}
}

func TestInMemory_RegisterNil(t *testing.T) {
	store := NewInMemoryStubStore()
	var invalid *stub.InvalidStubError
	if err := store.Register(nil); !errors.As(err, &invalid) {
		t.Errorf("Register(nil) error = %v, want *InvalidStubError", err)
	}
}

func TestInMemory_RegisterDuplicateKey(t *testing.T) {
	store := NewInMemoryStubStore()
	first := newStub("get-created", stub.MethodGet, "/users/123", "User has been created", "")
	second := newStub("get-created-again", stub.MethodGet, "/users/123", "User has been created", "")
	mustRegister(t, store, first)

	err := store.Register(second)
	var dup *stub.DuplicateStubError
	if !errors.As(err, &dup) {
		t.Fatalf("Register() error = %v, want *DuplicateStubError", err)
	}
	if dup.ExistingID != "get-created" {
		t.Errorf("ExistingID = %q, want get-created", dup.ExistingID)
	}
	if store.Count() != 1 {
		t.Errorf("Count() = %d, want 1", store.Count())
	}
}

func TestInMemory_RegisterDuplicateID(t *testing.T) {
	store := NewInMemoryStubStore()
	mustRegister(t, store, newStub("x", stub.MethodGet, "/users/1", "", ""))

	var dup *stub.DuplicateStubError
	if err := store.Register(newStub("x", stub.MethodGet, "/users/2", "", "")); !errors.As(err, &dup) {
		t.Errorf("Register() error = %v, want *DuplicateStubError", err)
	}
}

func TestInMemory_SamePathDifferentStates(t *testing.T) {
	store := NewInMemoryStubStore()
	mustRegister(t, store,
		newStub("get-created", stub.MethodGet, "/users/123", "User has been created", ""),
		newStub("get-updated", stub.MethodGet, "/users/123", "User has been updated", ""),
		newStub("get-deleted", stub.MethodGet, "/users/123", "User has been deleted", ""),
	)
	if store.Count() != 3 {
		t.Errorf("Count() = %d, want 3", store.Count())
	}
}

func TestInMemory_Remove(t *testing.T) {
	store := NewInMemoryStubStore()
	s := newStub("a", stub.MethodGet, "/users", "", "")
	mustRegister(t, store, s)

	if !store.Remove("a") {
		t.Error("Remove() = false, want true")
	}
	if store.Remove("a") {
		t.Error("second Remove() = true, want false")
	}
	// The key is free again.
	mustRegister(t, store, newStub("b", stub.MethodGet, "/users", "", ""))
}

func TestInMemory_ListRegistrationOrder(t *testing.T) {
	store := NewInMemoryStubStore()
	for i := range 10 {
		mustRegister(t, store, newStub(fmt.Sprintf("s%d", i), stub.MethodGet, fmt.Sprintf("/users/%d", i), "", ""))
	}
	list := store.List()
	for i, s := range list {
		if want := fmt.Sprintf("s%d", i); s.ID != want {
			t.Errorf("List()[%d].ID = %q, want %q", i, s.ID, want)
		}
	}
}

func TestInMemory_Clear(t *testing.T) {
	store := NewInMemoryStubStore()
	s := newStub("a", stub.MethodGet, "/users", "", "")
	mustRegister(t, store, s)
	store.Clear()

	if store.Count() != 0 {
		t.Errorf("Count() after Clear() = %d, want 0", store.Count())
	}
	mustRegister(t, store, s)
}

func TestInMemory_FindCandidates_Specificity(t *testing.T) {
	store := NewInMemoryStubStore()
	mustRegister(t, store,
		newStub("wild", stub.MethodGet, "/users/*", "", ""),
		newStub("param", stub.MethodGet, "/users/{id}", "", ""),
		newStub("exact", stub.MethodGet, "/users/123", "", ""),
	)

	got := store.FindCandidates("GET", "/users/123", "", "")
	want := []string{"exact", "param", "wild"}
	if fmt.Sprint(ids(got)) != fmt.Sprint(want) {
		t.Fatalf("FindCandidates() = %v, want %v", ids(got), want)
	}
	if got[0].Score != matching.ScoreMethod+matching.ScorePathExact {
		t.Errorf("Score = %d", got[0].Score)
	}
	if got[1].PathParams["id"] != "123" {
		t.Errorf("PathParams = %v, want id=123", got[1].PathParams)
	}
}

func TestInMemory_FindCandidates_TiesKeepRegistrationOrder(t *testing.T) {
	store := NewInMemoryStubStore()
	mustRegister(t, store,
		newStub("first", stub.MethodGet, "/users/{id}", "", ""),
		newStub("second", stub.MethodGet, "/users/{userId}", "", ""),
	)
	got := ids(store.FindCandidates("GET", "/users/9", "", ""))
	if fmt.Sprint(got) != "[first second]" {
		t.Errorf("FindCandidates() = %v, want [first second]", got)
	}
}

func TestInMemory_FindCandidates_State(t *testing.T) {
	store := NewInMemoryStubStore()
	mustRegister(t, store,
		newStub("get-created", stub.MethodGet, "/users/123", "User has been created", ""),
		newStub("get-updated", stub.MethodGet, "/users/123", "User has been updated", ""),
		newStub("health", stub.MethodGet, "/users/123", "", ""),
	)

	tests := []struct {
		state scenario.State
		want  string
	}{
		{scenario.Started, "[]"},
		{"User has been created", "[get-created]"},
		{"User has been updated", "[get-updated]"},
	}
	for _, tt := range tests {
		got := ids(store.FindCandidates("GET", "/users/123", lifecycle, tt.state))
		if fmt.Sprint(got) != tt.want {
			t.Errorf("FindCandidates(state %q) = %v, want %v", tt.state, got, tt.want)
		}
	}

	if got := ids(store.FindCandidates("GET", "/users/123", "", "")); fmt.Sprint(got) != "[health]" {
		t.Errorf("unscoped FindCandidates() = %v, want [health]", got)
	}
}

func TestInMemory_FindCandidates_Empty(t *testing.T) {
	store := NewInMemoryStubStore()
	mustRegister(t, store, newStub("a", stub.MethodGet, "/users", "", ""))
	if got := store.FindCandidates("POST", "/users", "", ""); len(got) != 0 {
		t.Errorf("FindCandidates() = %v, want empty", ids(got))
	}
}

func TestInMemory_Scenarios(t *testing.T) {
	store := NewInMemoryStubStore()
	mustRegister(t, store,
		newStub("create", stub.MethodPost, "/users", scenario.Started, "User has been created"),
		newStub("update", stub.MethodPut, "/users/123", "User has been created", "User has been updated"),
		newStub("health", stub.MethodGet, "/health", "", ""),
	)

	got := store.Scenarios()
	if len(got) != 1 {
		t.Fatalf("len(Scenarios()) = %d, want 1", len(got))
	}
	want := "[Started User has been created User has been updated]"
	if fmt.Sprint(got[lifecycle]) != want {
		t.Errorf("Scenarios()[%q] = %v, want %v", lifecycle, got[lifecycle], want)
	}
}

func TestInMemory_Concurrent(t *testing.T) {
	store := NewInMemoryStubStore()
	var wg sync.WaitGroup

	for i := range 50 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Register(newStub(fmt.Sprintf("s%d", n), stub.MethodGet, fmt.Sprintf("/users/%d", n), "", ""))
			store.FindCandidates("GET", fmt.Sprintf("/users/%d", n), "", "")
			store.List()
		}(i)
	}
	wg.Wait()

	if store.Count() != 50 {
		t.Errorf("Count() = %d, want 50", store.Count())
	}
}

func TestInMemory_ConcurrentDuplicateRegistersOnce(t *testing.T) {
	store := NewInMemoryStubStore()
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := range 20 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			err := store.Register(newStub(fmt.Sprintf("s%d", n), stub.MethodGet, "/users/123", "", ""))
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if succeeded != 1 {
		t.Errorf("successful registrations = %d, want 1", succeeded)
	}
}

// --- ScenarioView Tests ---

func TestScenarioView(t *testing.T) {
	store := NewInMemoryStubStore()
	mustRegister(t, store,
		newStub("create", stub.MethodPost, "/users", scenario.Started, "User has been created"),
		newStub("health", stub.MethodGet, "/health", "", ""),
	)
	view := NewScenarioView(store, lifecycle)

	if view.Count() != 1 {
		t.Errorf("Count() = %d, want 1", view.Count())
	}
	if view.Get("health") != nil {
		t.Error("Get(health) returned a stub from another scenario")
	}
	if view.Get("create") == nil {
		t.Error("Get(create) = nil")
	}

	// Live view.
	mustRegister(t, store, newStub("read", stub.MethodGet, "/users/123", "User has been created", ""))
	if view.Count() != 2 {
		t.Errorf("Count() after register = %d, want 2", view.Count())
	}
	if got := ids(view.FindCandidates("GET", "/users/123", "User has been created")); fmt.Sprint(got) != "[read]" {
		t.Errorf("FindCandidates() = %v, want [read]", got)
	}
}

func TestScenarioView_Table(t *testing.T) {
	store := NewInMemoryStubStore()
	mustRegister(t, store,
		newStub("create", stub.MethodPost, "/users", scenario.Started, "User has been created"),
		newStub("delete", stub.MethodDelete, "/users/123", "User has been created", "User has been deleted"),
	)
	table, err := NewScenarioView(store, lifecycle).Table()
	if err != nil {
		t.Fatalf("Table() error = %v", err)
	}
	rule, ok := table.Lookup("User has been created", "DELETE", "/users/123")
	if !ok || rule.StubID != "delete" {
		t.Errorf("Lookup() = %+v, %v", rule, ok)
	}
	if got := fmt.Sprint(table.States()); got != "[Started User has been created User has been deleted]" {
		t.Errorf("States() = %s", got)
	}
}
