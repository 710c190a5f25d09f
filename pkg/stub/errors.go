package stub

import (
	"fmt"
	"net/http"
)

// DuplicateStubError is returned when a stub with the same matching key is
// already registered. It is a configuration error and is raised at
// registration time, never at request time.
type DuplicateStubError struct {
	Key        Key
	ExistingID string
	NewID      string
}

func (e *DuplicateStubError) Error() string {
	return fmt.Sprintf("duplicate stub for %s (already registered as %q)", e.Key, e.ExistingID)
}

// StatusCode returns the HTTP status code for this error.
func (e *DuplicateStubError) StatusCode() int {
	return http.StatusConflict
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *DuplicateStubError) Hint() string {
	return fmt.Sprintf("Stub %q already answers %s. Give the new stub a different required state or remove the existing one.",
		e.ExistingID, e.Key)
}

// InvalidStubError is returned when a stub definition fails validation.
type InvalidStubError struct {
	StubID  string
	Field   string
	Message string
}

func (e *InvalidStubError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid stub: field %q: %s", e.Field, e.Message)
	}
	return "invalid stub: " + e.Message
}

// StatusCode returns the HTTP status code for this error.
func (e *InvalidStubError) StatusCode() int {
	return http.StatusBadRequest
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *InvalidStubError) Hint() string {
	if e.Field != "" {
		return fmt.Sprintf("Check the value of %q in the stub definition.", e.Field)
	}
	return "Check the stub definition."
}

// StatusCodeError is an error that maps to an HTTP status code.
type StatusCodeError interface {
	error
	StatusCode() int
}

// HintError is an error that carries a resolution hint.
type HintError interface {
	error
	Hint() string
}
