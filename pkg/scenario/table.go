package scenario

import (
	"fmt"
	"sort"
	"strings"
)

// Rule is one row of a scenario's transition table: in state From, a request
// with Method and Path fires StubID and moves the scenario to To.
// An empty To means the stub does not transition.
type Rule struct {
	StubID string `json:"stubId"`
	Method string `json:"method"`
	Path   string `json:"path"`
	From   State  `json:"from"`
	To     State  `json:"to,omitempty"`
}

// TableKey identifies a row of the transition table.
type TableKey struct {
	State  State
	Method string
	Path   string
}

func (k TableKey) String() string {
	return fmt.Sprintf("%s %s in %q", k.Method, k.Path, k.State)
}

// DuplicateRuleError is returned when two rules share a TableKey.
type DuplicateRuleError struct {
	Scenario string
	Key      TableKey
	StubIDs  []string
}

func (e *DuplicateRuleError) Error() string {
	return fmt.Sprintf("scenario %q: %s is handled by more than one stub (%s)",
		e.Scenario, e.Key, strings.Join(e.StubIDs, ", "))
}

// Table is the explicit transition table of a scenario:
// (state, method, path) -> (stub, next state).
type Table struct {
	Scenario string
	rules    map[TableKey]Rule
}

// BuildTable builds the transition table of a scenario from its rules.
func BuildTable(scenario string, rules []Rule) (*Table, error) {
	t := &Table{
		Scenario: scenario,
		rules:    make(map[TableKey]Rule, len(rules)),
	}
	for _, r := range rules {
		r.From = r.From.OrStarted()
		key := TableKey{State: r.From, Method: strings.ToUpper(r.Method), Path: r.Path}
		if existing, dup := t.rules[key]; dup {
			return nil, &DuplicateRuleError{Scenario: scenario, Key: key, StubIDs: []string{existing.StubID, r.StubID}}
		}
		t.rules[key] = r
	}
	return t, nil
}

// Lookup returns the rule for a state, method and path pattern.
func (t *Table) Lookup(state State, method, path string) (Rule, bool) {
	r, ok := t.rules[TableKey{State: state, Method: strings.ToUpper(method), Path: path}]
	return r, ok
}

// Transitions returns all rules ordered by source state, method and path.
func (t *Table) Transitions() []Rule {
	out := make([]Rule, 0, len(t.rules))
	for _, r := range t.rules {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		if out[i].Method != out[j].Method {
			return out[i].Method < out[j].Method
		}
		return out[i].Path < out[j].Path
	})
	return out
}

// States returns every state mentioned by the table, in breadth-first order
// from Started, followed by unreachable states alphabetically.
func (t *Table) States() []State {
	reachable := t.reachable()
	seen := make(map[State]bool, len(reachable))
	out := make([]State, 0, len(reachable))
	for _, s := range reachable {
		seen[s] = true
		out = append(out, s)
	}
	var rest []State
	for _, r := range t.rules {
		for _, s := range []State{r.From, r.To} {
			if !s.IsZero() && !seen[s] {
				seen[s] = true
				rest = append(rest, s)
			}
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	return append(out, rest...)
}

// Unreachable returns states that have rules but can never be entered from Started.
func (t *Table) Unreachable() []State {
	reach := make(map[State]bool)
	for _, s := range t.reachable() {
		reach[s] = true
	}
	seen := make(map[State]bool)
	var out []State
	for _, r := range t.rules {
		if !reach[r.From] && !seen[r.From] {
			seen[r.From] = true
			out = append(out, r.From)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (t *Table) reachable() []State {
	edges := make(map[State][]State)
	for _, r := range t.Transitions() {
		if !r.To.IsZero() {
			edges[r.From] = append(edges[r.From], r.To)
		}
	}
	visited := map[State]bool{Started: true}
	order := []State{Started}
	for i := 0; i < len(order); i++ {
		for _, next := range edges[order[i]] {
			if !visited[next] {
				visited[next] = true
				order = append(order, next)
			}
		}
	}
	return order
}
