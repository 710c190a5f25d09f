// Package storage provides the stub repository used by the mock engine.
package storage

import (
	"github.com/getmockd/crudcontract/pkg/scenario"
	"github.com/getmockd/crudcontract/pkg/stub"
)

// Candidate is a stub that satisfies a request, with its specificity score
// and the path variables captured by its pattern.
type Candidate struct {
	Stub       *stub.Stub
	Score      int
	PathParams map[string]string

	// Seq is the stub's registration sequence number. Lower registered earlier.
	Seq uint64
}

// StubStore defines the interface for storing and querying stubs.
type StubStore interface {
	// Register stores a stub. It returns *stub.DuplicateStubError when a stub
	// with the same key or ID already exists; existing stubs are never replaced.
	Register(s *stub.Stub) error

	// Get retrieves a stub by ID. Returns nil if not found.
	Get(id string) *stub.Stub

	// Remove deletes a stub by ID. Returns true if deleted, false if not found.
	Remove(id string) bool

	// List returns all stubs in registration order.
	List() []*stub.Stub

	// Count returns the number of stored stubs.
	Count() int

	// Clear removes all stored stubs.
	Clear()

	// FindCandidates returns the stubs of scenarioName active in state whose
	// method and path pattern satisfy the request, most specific first and
	// then in registration order. An empty scenarioName selects unscoped stubs.
	FindCandidates(method, path, scenarioName string, state scenario.State) []Candidate

	// Scenarios returns every scenario referenced by a stub together with the
	// states its stubs require or move to.
	Scenarios() map[string][]scenario.State
}
