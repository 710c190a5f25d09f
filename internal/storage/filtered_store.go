package storage

import (
	"github.com/getmockd/crudcontract/pkg/scenario"
	"github.com/getmockd/crudcontract/pkg/stub"
)

// ScenarioView wraps a StubStore and filters it to one scenario.
// It is a live view: stubs registered on the underlying store after the view
// was created are visible through it.
type ScenarioView struct {
	underlying StubStore
	name       string
}

// NewScenarioView creates a view of the stubs bound to scenario name.
func NewScenarioView(store StubStore, name string) *ScenarioView {
	return &ScenarioView{underlying: store, name: name}
}

// Get retrieves a stub by ID, only if it belongs to this scenario.
func (v *ScenarioView) Get(id string) *stub.Stub {
	s := v.underlying.Get(id)
	if s == nil || s.Scenario != v.name {
		return nil
	}
	return s
}

// List returns the scenario's stubs in registration order.
func (v *ScenarioView) List() []*stub.Stub {
	all := v.underlying.List()
	filtered := make([]*stub.Stub, 0)
	for _, s := range all {
		if s.Scenario == v.name {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// Count returns the number of stubs in this scenario.
func (v *ScenarioView) Count() int {
	return len(v.List())
}

// FindCandidates returns the scenario's stubs active in state that match the request.
func (v *ScenarioView) FindCandidates(method, path string, state scenario.State) []Candidate {
	return v.underlying.FindCandidates(method, path, v.name, state)
}

// Rules returns the transition rows of the scenario's stubs.
func (v *ScenarioView) Rules() []scenario.Rule {
	stubs := v.List()
	rules := make([]scenario.Rule, len(stubs))
	for i, s := range stubs {
		rules[i] = s.Rule()
	}
	return rules
}

// Table builds the scenario's transition table.
func (v *ScenarioView) Table() (*scenario.Table, error) {
	return scenario.BuildTable(v.name, v.Rules())
}

// Scenario returns the scenario name this view is filtered to.
func (v *ScenarioView) Scenario() string {
	return v.name
}
