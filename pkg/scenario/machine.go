package scenario

import (
	"sort"
	"sync"
)

// Snapshot is a point-in-time view of one scenario.
type Snapshot struct {
	Name   string  `json:"name"`
	State  State   `json:"state"`
	States []State `json:"possibleStates"`
}

type instance struct {
	current State
	states  map[State]struct{}
}

// Machine tracks the current state of every declared scenario.
// All methods are safe for concurrent use; transitions of a scenario are serialized.
type Machine struct {
	mu        sync.Mutex
	scenarios map[string]*instance
}

// NewMachine creates an empty Machine.
func NewMachine() *Machine {
	return &Machine{scenarios: make(map[string]*instance)}
}

// Declare creates the scenario on first use and records the states it may take.
// A new scenario starts in Started. Declaring an existing scenario only adds states.
func (m *Machine) Declare(name string, states ...State) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inst, ok := m.scenarios[name]
	if !ok {
		inst = &instance{
			current: Started,
			states:  map[State]struct{}{Started: {}},
		}
		m.scenarios[name] = inst
	}
	for _, s := range states {
		if !s.IsZero() {
			inst.states[s] = struct{}{}
		}
	}
}

// Has reports whether the scenario has been declared.
func (m *Machine) Has(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.scenarios[name]
	return ok
}

// Current returns the current state of a scenario.
func (m *Machine) Current(name string) (State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inst, ok := m.scenarios[name]
	if !ok {
		return "", false
	}
	return inst.current, true
}

// Transition moves a scenario from one state to another.
// It is a compare-and-set: if the scenario is not in from, nothing changes and
// a *StateConflictError is returned.
func (m *Machine) Transition(name string, from, to State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	inst, ok := m.scenarios[name]
	if !ok {
		return &UnknownScenarioError{Name: name}
	}
	if inst.current != from {
		return &StateConflictError{Scenario: name, Expected: from, Actual: inst.current}
	}
	if _, known := inst.states[to]; !known {
		return &UnknownStateError{Scenario: name, State: to, Known: sortedStates(inst.states)}
	}
	inst.current = to
	return nil
}

// Set forces a scenario into a declared state.
func (m *Machine) Set(name string, to State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	inst, ok := m.scenarios[name]
	if !ok {
		return &UnknownScenarioError{Name: name}
	}
	if _, known := inst.states[to]; !known {
		return &UnknownStateError{Scenario: name, State: to, Known: sortedStates(inst.states)}
	}
	inst.current = to
	return nil
}

// Reset returns every scenario to Started, keeping declarations.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inst := range m.scenarios {
		inst.current = Started
	}
}

// Clear discards all scenarios.
func (m *Machine) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scenarios = make(map[string]*instance)
}

// Names returns the declared scenario names in sorted order.
func (m *Machine) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.scenarios))
	for name := range m.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns every scenario sorted by name.
func (m *Machine) Snapshot() []Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]Snapshot, 0, len(m.scenarios))
	for name, inst := range m.scenarios {
		result = append(result, Snapshot{
			Name:   name,
			State:  inst.current,
			States: sortedStates(inst.states),
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// States returns the current state of every scenario keyed by name.
func (m *Machine) States() map[string]State {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]State, len(m.scenarios))
	for name, inst := range m.scenarios {
		out[name] = inst.current
	}
	return out
}

// sortedStates returns Started first, then the remaining states alphabetically.
func sortedStates(set map[State]struct{}) []State {
	out := make([]State, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i] == Started || out[j] == Started {
			return out[i] == Started && out[j] != Started
		}
		return out[i] < out[j]
	})
	return out
}
