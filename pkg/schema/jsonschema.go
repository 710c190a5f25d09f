package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// JSONSchema validates documents against JSON Schema files read from an
// fs.FS. Each schema is compiled once.
type JSONSchema struct {
	fsys  fs.FS
	draft *jsonschema.Draft

	mu       sync.Mutex
	compiled map[string]*jsonschema.Schema
}

// JSONSchemaOption configures a JSONSchema validator.
type JSONSchemaOption func(*JSONSchema)

// WithDraft sets the draft used for schemas without a $schema keyword.
func WithDraft(d *jsonschema.Draft) JSONSchemaOption {
	return func(v *JSONSchema) {
		if d != nil {
			v.draft = d
		}
	}
}

// NewJSONSchema creates a validator reading schemas from fsys.
// A nil fsys uses the embedded schemas.
func NewJSONSchema(fsys fs.FS, opts ...JSONSchemaOption) *JSONSchema {
	if fsys == nil {
		fsys = Embedded()
	}
	v := &JSONSchema{
		fsys:     fsys,
		draft:    jsonschema.Draft2020,
		compiled: make(map[string]*jsonschema.Schema),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate implements Validator.
func (v *JSONSchema) Validate(document []byte, schemaRef string) (*Result, error) {
	s, err := v.schema(schemaRef)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(document))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("document is not valid JSON: %w", err)
	}

	result := &Result{Valid: true}
	if err := s.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if !errors.As(err, &verr) {
			return nil, fmt.Errorf("schema validation failed: %w", err)
		}
		collect(verr, result)
	}
	return result, nil
}

func (v *JSONSchema) schema(ref string) (*jsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if s, ok := v.compiled[ref]; ok {
		return s, nil
	}

	data, err := fs.ReadFile(v.fsys, ref)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Ref: ref}
		}
		return nil, fmt.Errorf("failed to read schema %s: %w", ref, err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = v.draft
	if err := compiler.AddResource(ref, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to add schema %s: %w", ref, err)
	}
	s, err := compiler.Compile(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", ref, err)
	}
	v.compiled[ref] = s
	return s, nil
}

// collect flattens the leaves of a validation error tree into result.
func collect(err *jsonschema.ValidationError, result *Result) {
	if len(err.Causes) == 0 {
		result.add(err.InstanceLocation, err.Message)
		return
	}
	for _, cause := range err.Causes {
		collect(cause, result)
	}
}
