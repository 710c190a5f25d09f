package testing

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/getmockd/crudcontract/pkg/scenario"
	"github.com/getmockd/crudcontract/pkg/stub"
)

// StubBuilder builds a stub using a fluent API.
type StubBuilder struct {
	h    *Harness
	stub *stub.Stub
	err  error // first error wins
}

func (b *StubBuilder) setError(err error) {
	if b.err == nil {
		b.err = err
	}
}

// WithID sets the stub ID. Generated on registration when unset.
func (b *StubBuilder) WithID(id string) *StubBuilder {
	b.stub.ID = id
	return b
}

// WithName sets a display name used in logs and the journal.
func (b *StubBuilder) WithName(name string) *StubBuilder {
	b.stub.Name = name
	return b
}

// InScenario binds the stub to a scenario.
func (b *StubBuilder) InScenario(name string) *StubBuilder {
	b.stub.Scenario = name
	return b
}

// WhenStateIs makes the stub active only in state.
// Defaults to Started for scenario stubs.
func (b *StubBuilder) WhenStateIs(state scenario.State) *StubBuilder {
	b.stub.RequiredState = state
	return b
}

// WillSetStateTo moves the scenario to state after the stub fires.
func (b *StubBuilder) WillSetStateTo(state scenario.State) *StubBuilder {
	b.stub.NextState = state
	return b
}

// WithStatus sets the response status. Default is 200.
func (b *StubBuilder) WithStatus(status int) *StubBuilder {
	b.stub.Response.Status = status
	return b
}

// WithBody sets the response body verbatim.
func (b *StubBuilder) WithBody(body string) *StubBuilder {
	b.stub.Response.Body = body
	return b
}

// WithJSON encodes v as the response body and sets a JSON content type.
func (b *StubBuilder) WithJSON(v any) *StubBuilder {
	data, err := json.Marshal(v)
	if err != nil {
		b.setError(fmt.Errorf("WithJSON: failed to marshal body: %w", err))
		return b
	}
	b.stub.Response.Body = string(data)
	return b.WithHeader("Content-Type", "application/json")
}

// WithHeader adds a response header.
func (b *StubBuilder) WithHeader(key, value string) *StubBuilder {
	if b.stub.Response.Headers == nil {
		b.stub.Response.Headers = make(map[string]string)
	}
	b.stub.Response.Headers[key] = value
	return b
}

// WithHeaders adds several response headers.
func (b *StubBuilder) WithHeaders(headers map[string]string) *StubBuilder {
	if b.stub.Response.Headers == nil {
		b.stub.Response.Headers = make(map[string]string, len(headers))
	}
	maps.Copy(b.stub.Response.Headers, headers)
	return b
}

// Build returns a copy of the stub without registering it.
func (b *StubBuilder) Build() (*stub.Stub, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.stub.Clone(), nil
}

// Register adds the stub to the engine and returns the stored copy.
// The test fails immediately if the stub is invalid or a duplicate.
func (b *StubBuilder) Register() *stub.Stub {
	b.h.t.Helper()
	s, err := b.Build()
	if err != nil {
		b.h.t.Fatalf("invalid stub %s %s: %v", b.stub.Method, b.stub.PathPattern, err)
		return nil
	}
	registered, err := b.h.engine.RegisterStub(s)
	if err != nil {
		b.h.t.Fatalf("failed to register stub %s %s: %v", b.stub.Method, b.stub.PathPattern, err)
		return nil
	}
	return registered
}
