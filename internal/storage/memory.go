package storage

import (
	"sort"
	"sync"

	"github.com/getmockd/crudcontract/internal/matching"
	"github.com/getmockd/crudcontract/pkg/scenario"
	"github.com/getmockd/crudcontract/pkg/stub"
)

type entry struct {
	stub *stub.Stub
	seq  uint64
}

// InMemoryStubStore is a thread-safe in-memory implementation of StubStore.
type InMemoryStubStore struct {
	mu      sync.RWMutex
	stubs   map[string]*entry
	keys    map[stub.Key]string
	nextSeq uint64
}

// NewInMemoryStubStore creates a new InMemoryStubStore.
func NewInMemoryStubStore() *InMemoryStubStore {
	return &InMemoryStubStore{
		stubs: make(map[string]*entry),
		keys:  make(map[stub.Key]string),
	}
}

// Register stores a copy of s.
func (r *InMemoryStubStore) Register(s *stub.Stub) error {
	if s == nil {
		return &stub.InvalidStubError{Message: "stub is nil"}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := s.Key()
	if existing, ok := r.keys[key]; ok {
		return &stub.DuplicateStubError{Key: key, ExistingID: existing, NewID: s.ID}
	}
	if e, ok := r.stubs[s.ID]; ok {
		return &stub.DuplicateStubError{Key: e.stub.Key(), ExistingID: s.ID, NewID: s.ID}
	}

	r.nextSeq++
	r.stubs[s.ID] = &entry{stub: s.Clone(), seq: r.nextSeq}
	r.keys[key] = s.ID
	return nil
}

// Get retrieves a stub by ID. Returns nil if not found.
func (r *InMemoryStubStore) Get(id string) *stub.Stub {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.stubs[id]; ok {
		return e.stub
	}
	return nil
}

// Remove deletes a stub by ID.
func (r *InMemoryStubStore) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.stubs[id]
	if !ok {
		return false
	}
	delete(r.keys, e.stub.Key())
	delete(r.stubs, id)
	return true
}

// List returns all stubs in registration order.
func (r *InMemoryStubStore) List() []*stub.Stub {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.sortedLocked()
	result := make([]*stub.Stub, len(entries))
	for i, e := range entries {
		result[i] = e.stub
	}
	return result
}

// Count returns the number of stored stubs.
func (r *InMemoryStubStore) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.stubs)
}

// Clear removes all stored stubs.
func (r *InMemoryStubStore) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stubs = make(map[string]*entry)
	r.keys = make(map[stub.Key]string)
}

// FindCandidates returns the matching stubs ordered by specificity.
func (r *InMemoryStubStore) FindCandidates(method, path, scenarioName string, state scenario.State) []Candidate {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Candidate
	for _, e := range r.sortedLocked() {
		s := e.stub
		if s.Scenario != scenarioName || !matching.StateMatches(s, state) {
			continue
		}
		score := matching.Score(s, method, path)
		if score == 0 {
			continue
		}
		result = append(result, Candidate{
			Stub:       s,
			Score:      score,
			PathParams: matching.MatchPathVariable(s.PathPattern, path),
			Seq:        e.seq,
		})
	}

	// Entries are already in registration order; a stable sort keeps it for ties.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Score > result[j].Score
	})
	return result
}

// Scenarios returns every scenario with its referenced states, Started first
// and the rest in order of first appearance.
func (r *InMemoryStubStore) Scenarios() map[string][]scenario.State {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string][]scenario.State)
	seen := make(map[string]map[scenario.State]bool)
	add := func(name string, st scenario.State) {
		if st.IsZero() || seen[name][st] {
			return
		}
		seen[name][st] = true
		result[name] = append(result[name], st)
	}
	for _, e := range r.sortedLocked() {
		s := e.stub
		if s.Scenario == "" {
			continue
		}
		if _, ok := seen[s.Scenario]; !ok {
			seen[s.Scenario] = make(map[scenario.State]bool)
			add(s.Scenario, scenario.Started)
		}
		add(s.Scenario, s.RequiredState)
		add(s.Scenario, s.NextState)
	}
	return result
}

func (r *InMemoryStubStore) sortedLocked() []*entry {
	entries := make([]*entry, 0, len(r.stubs))
	for _, e := range r.stubs {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].seq < entries[j].seq
	})
	return entries
}

// Ensure InMemoryStubStore implements StubStore.
var _ StubStore = (*InMemoryStubStore)(nil)
