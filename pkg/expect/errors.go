package expect

import (
	"fmt"
	"strings"
)

// AssertionMismatchError reports a step whose observed response differs from
// the expectation. Expected and Actual hold the full values compared.
type AssertionMismatchError struct {
	Step     string
	Subject  string
	Expected any
	Actual   any
	Diff     string
}

func (e *AssertionMismatchError) Error() string {
	var b strings.Builder
	if e.Step != "" {
		fmt.Fprintf(&b, "%s: ", e.Step)
	}
	fmt.Fprintf(&b, "%s mismatch: expected %v, got %v", e.Subject, e.Expected, e.Actual)
	if e.Diff != "" {
		fmt.Fprintf(&b, "\n(-expected +actual):\n%s", e.Diff)
	}
	return b.String()
}
