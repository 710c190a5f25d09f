package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

const componentPrefix = "#/components/schemas/"

// OpenAPI validates documents against the component schemas of an OpenAPI 3
// document.
type OpenAPI struct {
	doc *openapi3.T
}

// NewOpenAPI loads and validates an OpenAPI document.
func NewOpenAPI(ctx context.Context, data []byte) (*OpenAPI, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
	}
	return &OpenAPI{doc: doc}, nil
}

// NewOpenAPIFromFS loads the OpenAPI document name from fsys.
// A nil fsys uses the embedded schemas.
func NewOpenAPIFromFS(ctx context.Context, fsys fs.FS, name string) (*OpenAPI, error) {
	if fsys == nil {
		fsys = Embedded()
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read OpenAPI document %s: %w", name, err)
	}
	return NewOpenAPI(ctx, data)
}

// Validate implements Validator. schemaRef names a component schema, either
// bare ("Users") or as a reference ("#/components/schemas/Users").
func (v *OpenAPI) Validate(document []byte, schemaRef string) (*Result, error) {
	name := strings.TrimPrefix(schemaRef, componentPrefix)
	if v.doc.Components == nil {
		return nil, &NotFoundError{Ref: schemaRef}
	}
	ref, ok := v.doc.Components.Schemas[name]
	if !ok || ref == nil || ref.Value == nil {
		return nil, &NotFoundError{Ref: schemaRef}
	}

	var doc any
	if err := json.Unmarshal(document, &doc); err != nil {
		return nil, fmt.Errorf("document is not valid JSON: %w", err)
	}

	result := &Result{Valid: true}
	if err := ref.Value.VisitJSON(doc, openapi3.MultiErrors()); err != nil {
		collectOpenAPI(err, result)
	}
	return result, nil
}

func collectOpenAPI(err error, result *Result) {
	switch e := err.(type) {
	case openapi3.MultiError:
		for _, inner := range e {
			collectOpenAPI(inner, result)
		}
	case *openapi3.SchemaError:
		result.add("/"+strings.Join(e.JSONPointer(), "/"), e.Reason)
	default:
		result.add("/", err.Error())
	}
}
