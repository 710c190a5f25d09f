// Package storage provides the stub repository used by the mock engine.
//
// Key types:
//
//   - StubStore: Interface for registering, querying and clearing stubs
//   - InMemoryStubStore: Thread-safe in-memory implementation of StubStore
//   - ScenarioView: Live view of a store filtered to one scenario
//
// Stubs are unique by (scenario, method, path pattern, required state).
// Registering a second stub with the same key fails with
// *stub.DuplicateStubError instead of overwriting the first, so at most one
// stub can answer a given request in a given state. FindCandidates orders
// its result by specificity (exact path, then {param} segments, then
// wildcards) and then by registration order.
package storage
