package scenario

import (
	"fmt"
	"net/http"
)

// UnknownScenarioError is returned when a scenario has not been declared by any stub.
type UnknownScenarioError struct {
	Name string
}

func (e *UnknownScenarioError) Error() string {
	return fmt.Sprintf("scenario %q not found", e.Name)
}

// StatusCode returns the HTTP status code for this error.
func (e *UnknownScenarioError) StatusCode() int {
	return http.StatusNotFound
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *UnknownScenarioError) Hint() string {
	return fmt.Sprintf("Register at least one stub in scenario %q before addressing it.", e.Name)
}

// UnknownStateError is returned when a state is not declared by any stub of the scenario.
type UnknownStateError struct {
	Scenario string
	State    State
	Known    []State
}

func (e *UnknownStateError) Error() string {
	return fmt.Sprintf("scenario %q has no state %q", e.Scenario, e.State)
}

// StatusCode returns the HTTP status code for this error.
func (e *UnknownStateError) StatusCode() int {
	return http.StatusBadRequest
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *UnknownStateError) Hint() string {
	return fmt.Sprintf("Known states for %q: %v", e.Scenario, e.Known)
}

// StateConflictError is returned by a compare-and-set transition when the
// scenario is no longer in the expected state.
type StateConflictError struct {
	Scenario string
	Expected State
	Actual   State
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("scenario %q is in state %q, expected %q", e.Scenario, e.Actual, e.Expected)
}

// StatusCode returns the HTTP status code for this error.
func (e *StateConflictError) StatusCode() int {
	return http.StatusConflict
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *StateConflictError) Hint() string {
	return "Another request advanced the scenario first. Serialize requests that share a scenario."
}
