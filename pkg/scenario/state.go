package scenario

import "strings"

// State is a named scenario state.
type State string

// Started is the initial state shared by every scenario before any stub fires.
const Started State = "Started"

// String implements fmt.Stringer.
func (s State) String() string {
	return string(s)
}

// IsZero reports whether the state is unset.
func (s State) IsZero() bool {
	return strings.TrimSpace(string(s)) == ""
}

// OrStarted returns s, or Started when s is unset.
func (s State) OrStarted() State {
	if s.IsZero() {
		return Started
	}
	return s
}
