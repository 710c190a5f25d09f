package scenario

import (
	"errors"
	"sync"
	"testing"
)

const lifecycle = "User C.R.U.D. Lifecycle"

var (
	created State = "User has been created"
	updated State = "User has been updated"
	deleted State = "User has been deleted"
)

func newLifecycleMachine() *Machine {
	m := NewMachine()
	m.Declare(lifecycle, created, updated, deleted)
	return m
}

// --- Machine ---

func TestMachine_DeclareStartsInStarted(t *testing.T) {
	m := newLifecycleMachine()

	got, ok := m.Current(lifecycle)
	if !ok {
		t.Fatal("Current() ok = false after Declare")
	}
	if got != Started {
		t.Errorf("Current() = %q, want %q", got, Started)
	}
}

func TestMachine_RedeclareKeepsState(t *testing.T) {
	m := newLifecycleMachine()
	if err := m.Transition(lifecycle, Started, created); err != nil {
		t.Fatalf("Transition() error = %v", err)
	}

	m.Declare(lifecycle, "extra")

	got, _ := m.Current(lifecycle)
	if got != created {
		t.Errorf("Current() after redeclare = %q, want %q", got, created)
	}
	if err := m.Set(lifecycle, "extra"); err != nil {
		t.Errorf("Set(extra) error = %v, want nil after redeclare", err)
	}
}

func TestMachine_CurrentUnknown(t *testing.T) {
	m := NewMachine()
	if _, ok := m.Current("missing"); ok {
		t.Error("Current(missing) ok = true, want false")
	}
}

func TestMachine_Transition(t *testing.T) {
	m := newLifecycleMachine()

	steps := []struct{ from, to State }{
		{Started, created},
		{created, updated},
		{updated, deleted},
	}
	for _, s := range steps {
		if err := m.Transition(lifecycle, s.from, s.to); err != nil {
			t.Fatalf("Transition(%q -> %q) error = %v", s.from, s.to, err)
		}
		if got, _ := m.Current(lifecycle); got != s.to {
			t.Fatalf("Current() = %q, want %q", got, s.to)
		}
	}
}

func TestMachine_TransitionConflict(t *testing.T) {
	m := newLifecycleMachine()

	err := m.Transition(lifecycle, created, updated)
	var conflict *StateConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Transition() error = %v, want *StateConflictError", err)
	}
	if conflict.Actual != Started || conflict.Expected != created {
		t.Errorf("conflict = %+v, want actual Started expected %q", conflict, created)
	}
	if got, _ := m.Current(lifecycle); got != Started {
		t.Errorf("state changed on conflict: %q", got)
	}
}

func TestMachine_TransitionUnknownScenario(t *testing.T) {
	m := NewMachine()
	var unknown *UnknownScenarioError
	if err := m.Transition("nope", Started, created); !errors.As(err, &unknown) {
		t.Errorf("Transition() error = %v, want *UnknownScenarioError", err)
	}
}

func TestMachine_SetRejectsUndeclaredState(t *testing.T) {
	m := newLifecycleMachine()

	err := m.Set(lifecycle, "User has been archived")
	var unknown *UnknownStateError
	if !errors.As(err, &unknown) {
		t.Fatalf("Set() error = %v, want *UnknownStateError", err)
	}
	if len(unknown.Known) != 4 || unknown.Known[0] != Started {
		t.Errorf("Known = %v, want 4 states starting with Started", unknown.Known)
	}
}

func TestMachine_ResetAndClear(t *testing.T) {
	m := newLifecycleMachine()
	_ = m.Transition(lifecycle, Started, created)

	m.Reset()
	if got, _ := m.Current(lifecycle); got != Started {
		t.Errorf("Current() after Reset = %q, want Started", got)
	}
	if !m.Has(lifecycle) {
		t.Error("Reset() discarded the scenario")
	}

	m.Clear()
	if m.Has(lifecycle) {
		t.Error("Clear() kept the scenario")
	}
	if len(m.Snapshot()) != 0 {
		t.Errorf("Snapshot() after Clear = %v, want empty", m.Snapshot())
	}
}

func TestMachine_Snapshot(t *testing.T) {
	m := newLifecycleMachine()
	m.Declare("another")

	snap := m.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("Snapshot() length = %d, want 2", len(snap))
	}
	if snap[0].Name != lifecycle || snap[1].Name != "another" {
		// sorted by name: "User..." sorts before "another" (uppercase first)
		t.Errorf("Snapshot() order = [%q, %q]", snap[0].Name, snap[1].Name)
	}
}

func TestMachine_ConcurrentTransitionsCommitOnce(t *testing.T) {
	m := newLifecycleMachine()

	const workers = 32
	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := m.Transition(lifecycle, Started, created); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Errorf("successful transitions = %d, want exactly 1", successes)
	}
}

// --- Table ---

func lifecycleRules() []Rule {
	return []Rule{
		{StubID: "create", Method: "POST", Path: "/users", From: Started, To: created},
		{StubID: "read-created", Method: "GET", Path: "/users/123", From: created},
		{StubID: "update", Method: "PUT", Path: "/users/123", From: created, To: updated},
		{StubID: "read-updated", Method: "GET", Path: "/users/123", From: updated},
		{StubID: "delete", Method: "DELETE", Path: "/users/123", From: updated, To: deleted},
		{StubID: "read-deleted", Method: "GET", Path: "/users/123", From: deleted},
	}
}

func TestBuildTable_Lookup(t *testing.T) {
	table, err := BuildTable(lifecycle, lifecycleRules())
	if err != nil {
		t.Fatalf("BuildTable() error = %v", err)
	}

	r, ok := table.Lookup(created, "put", "/users/123")
	if !ok {
		t.Fatal("Lookup(created, PUT) not found")
	}
	if r.StubID != "update" || r.To != updated {
		t.Errorf("Lookup() = %+v, want update -> %q", r, updated)
	}

	if _, ok := table.Lookup(Started, "GET", "/users/123"); ok {
		t.Error("Lookup(Started, GET) found a rule, want none")
	}
}

func TestBuildTable_Duplicate(t *testing.T) {
	rules := append(lifecycleRules(), Rule{StubID: "dup", Method: "GET", Path: "/users/123", From: created})

	_, err := BuildTable(lifecycle, rules)
	var dup *DuplicateRuleError
	if !errors.As(err, &dup) {
		t.Fatalf("BuildTable() error = %v, want *DuplicateRuleError", err)
	}
	if len(dup.StubIDs) != 2 || dup.StubIDs[1] != "dup" {
		t.Errorf("StubIDs = %v", dup.StubIDs)
	}
}

func TestTable_StatesInChainOrder(t *testing.T) {
	table, _ := BuildTable(lifecycle, lifecycleRules())

	want := []State{Started, created, updated, deleted}
	got := table.States()
	if len(got) != len(want) {
		t.Fatalf("States() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("States()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if u := table.Unreachable(); len(u) != 0 {
		t.Errorf("Unreachable() = %v, want none", u)
	}
}

func TestTable_Unreachable(t *testing.T) {
	rules := []Rule{
		{StubID: "a", Method: "GET", Path: "/x", From: Started},
		{StubID: "b", Method: "GET", Path: "/y", From: "orphan"},
	}
	table, err := BuildTable("s", rules)
	if err != nil {
		t.Fatalf("BuildTable() error = %v", err)
	}
	u := table.Unreachable()
	if len(u) != 1 || u[0] != "orphan" {
		t.Errorf("Unreachable() = %v, want [orphan]", u)
	}
}

func TestState_OrStarted(t *testing.T) {
	if got := State("").OrStarted(); got != Started {
		t.Errorf(`State("").OrStarted() = %q, want Started`, got)
	}
	if got := created.OrStarted(); got != created {
		t.Errorf("OrStarted() = %q, want %q", got, created)
	}
}
