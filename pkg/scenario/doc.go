// Package scenario implements the named state machines that order stub firing.
//
// A scenario is created implicitly when the first stub referencing it is
// registered and starts in Started. Stubs bound to a scenario are only active
// while the scenario is in their required state; a stub that declares a next
// state moves the scenario there when it fires.
//
// Core Types:
//
//   - State: a named state; Started is the designated initial state
//   - Machine: current state per scenario with compare-and-set transitions
//   - Table: the explicit (state, method, path) -> (stub, next state) table of a scenario
//
// Thread Safety:
//
// Machine serializes every operation with a mutex. Transition is a
// compare-and-set, so two requests that both observed the same state cannot
// both commit a transition out of it.
package scenario
