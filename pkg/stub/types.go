package stub

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"strings"
	"time"

	"github.com/getmockd/crudcontract/pkg/scenario"
)

// Method is an HTTP method a stub can match.
type Method string

// Supported methods.
const (
	MethodGet     Method = http.MethodGet
	MethodPost    Method = http.MethodPost
	MethodPut     Method = http.MethodPut
	MethodDelete  Method = http.MethodDelete
	MethodPatch   Method = http.MethodPatch
	MethodHead    Method = http.MethodHead
	MethodOptions Method = http.MethodOptions
)

// Methods lists every method a stub may declare.
var Methods = []Method{MethodGet, MethodPost, MethodPut, MethodDelete, MethodPatch, MethodHead, MethodOptions}

// IsValid reports whether m is one of Methods.
func (m Method) IsValid() bool {
	for _, known := range Methods {
		if m == known {
			return true
		}
	}
	return false
}

// Stub is a single request-matching rule producing a canned response and an
// optional scenario state transition.
type Stub struct {
	// ID uniquely identifies the stub. Generated on registration when empty.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Name is a human-readable label used in logs and reports.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Scenario binds the stub to a named state machine. Empty means the stub
	// is always active and never transitions.
	Scenario string `json:"scenario,omitempty" yaml:"scenario,omitempty"`

	// Method is the HTTP method to match.
	Method Method `json:"method" yaml:"method"`

	// PathPattern is an exact path, a path with {name} segments, or a * wildcard.
	PathPattern string `json:"path" yaml:"path"`

	// RequiredState is the scenario state the stub is active in.
	// Defaults to scenario.Started when the stub has a scenario.
	RequiredState scenario.State `json:"requiredState,omitempty" yaml:"requiredState,omitempty"`

	// NextState is the state the scenario moves to after the stub fires.
	// Empty means no transition.
	NextState scenario.State `json:"nextState,omitempty" yaml:"nextState,omitempty"`

	// Response is the canned response.
	Response Response `json:"response" yaml:"response"`

	// CreatedAt is set on registration and orders stubs of equal specificity.
	CreatedAt time.Time `json:"createdAt,omitzero" yaml:"createdAt,omitempty"`
}

// Response is the canned response of a stub.
type Response struct {
	Status  int               `json:"status" yaml:"status"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`

	// Body is sent verbatim. It takes precedence over JSONBody.
	Body string `json:"body,omitempty" yaml:"body,omitempty"`

	// JSONBody is encoded as JSON when Body is empty.
	JSONBody any `json:"jsonBody,omitempty" yaml:"jsonBody,omitempty"`
}

// Bytes renders the response body.
func (r *Response) Bytes() ([]byte, error) {
	if r.Body != "" {
		return []byte(r.Body), nil
	}
	if r.JSONBody == nil {
		return nil, nil
	}
	data, err := json.Marshal(normalizeYAML(r.JSONBody))
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON body: %w", err)
	}
	return data, nil
}

// Header returns the response headers, adding a JSON content type when the
// body is structured and no content type was declared.
func (r *Response) Header() map[string]string {
	out := make(map[string]string, len(r.Headers)+1)
	maps.Copy(out, r.Headers)
	if r.Body == "" && r.JSONBody != nil && !hasHeader(out, "Content-Type") {
		out["Content-Type"] = "application/json"
	}
	return out
}

func hasHeader(h map[string]string, name string) bool {
	for k := range h {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}

// normalizeYAML converts map[any]any values produced by some YAML decoders
// into map[string]any so they can be encoded as JSON.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalizeYAML(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeYAML(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeYAML(val)
		}
		return out
	default:
		return v
	}
}

// Key is the uniqueness key of a stub within the repository.
type Key struct {
	Scenario      string
	Method        Method
	PathPattern   string
	RequiredState scenario.State
}

func (k Key) String() string {
	if k.Scenario == "" {
		return fmt.Sprintf("%s %s", k.Method, k.PathPattern)
	}
	return fmt.Sprintf("%s %s in scenario %q state %q", k.Method, k.PathPattern, k.Scenario, k.RequiredState)
}

// Key returns the uniqueness key of the stub.
func (s *Stub) Key() Key {
	return Key{
		Scenario:      s.Scenario,
		Method:        s.Method,
		PathPattern:   s.PathPattern,
		RequiredState: s.RequiredState,
	}
}

// HasTransition reports whether firing the stub moves its scenario.
func (s *Stub) HasTransition() bool {
	return s.Scenario != "" && !s.NextState.IsZero()
}

// Label returns the name of the stub, falling back to its key.
func (s *Stub) Label() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Key().String()
}

// Rule returns the transition table row of a scenario-bound stub.
func (s *Stub) Rule() scenario.Rule {
	return scenario.Rule{
		StubID: s.ID,
		Method: string(s.Method),
		Path:   s.PathPattern,
		From:   s.RequiredState,
		To:     s.NextState,
	}
}

// Clone returns a copy of the stub that shares no maps with the original.
func (s *Stub) Clone() *Stub {
	c := *s
	if s.Response.Headers != nil {
		c.Response.Headers = maps.Clone(s.Response.Headers)
	}
	return &c
}
