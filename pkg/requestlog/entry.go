package requestlog

import (
	"time"

	"github.com/getmockd/crudcontract/pkg/scenario"
)

// Entry is one transaction of the mock engine: the request it received, the
// stub that answered it and the scenario transition it caused.
type Entry struct {
	// ID is a unique identifier for the log entry.
	ID string `json:"id"`

	// Timestamp is when the request was received.
	Timestamp time.Time `json:"timestamp"`

	// Method is the HTTP method.
	Method string `json:"method"`

	// Path is the request URL path.
	Path string `json:"path"`

	// Body is the request body content (truncated if > 10KB).
	Body string `json:"body,omitempty"`

	// StubID is the ID of the stub that matched (empty if no match).
	StubID string `json:"stubId,omitempty"`

	// StubName is the display name of the matched stub.
	StubName string `json:"stubName,omitempty"`

	// Scenario is the scenario of the matched stub.
	Scenario string `json:"scenario,omitempty"`

	// StateBefore and StateAfter bracket the matched scenario's state.
	StateBefore scenario.State `json:"stateBefore,omitempty"`
	StateAfter  scenario.State `json:"stateAfter,omitempty"`

	// Transitioned is true when the matched stub moved its scenario.
	Transitioned bool `json:"transitioned,omitempty"`

	// Status is the status code returned.
	Status int `json:"status"`

	// Unmatched is true when no stub answered and the fallback was sent.
	Unmatched bool `json:"unmatched,omitempty"`

	// Ambiguous lists the IDs of stubs that tied with the chosen one.
	Ambiguous []string `json:"ambiguous,omitempty"`

	// States is every scenario's state when the request arrived.
	// Only recorded for unmatched requests.
	States map[string]scenario.State `json:"states,omitempty"`

	// LiveStubs is the number of registered stubs when the request arrived.
	LiveStubs int `json:"liveStubs"`

	// NearMisses explains which stubs came closest for unmatched requests.
	NearMisses []NearMissInfo `json:"nearMisses,omitempty"`

	// DurationMs is the request processing time in milliseconds.
	DurationMs int `json:"durationMs"`
}
