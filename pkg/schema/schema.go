package schema

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
)

// Default schema references.
const (
	DefaultJSONSchemaRef = "users-schema.json"
	DefaultOpenAPIRef    = "Users"
	DefaultOpenAPIFile   = "users-openapi.yaml"
)

//go:embed schemas/*.json schemas/*.yaml
var embedded embed.FS

// Embedded returns the schema documents bundled with the module.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "schemas")
	if err != nil {
		// The directory is embedded at build time.
		panic(err)
	}
	return sub
}

// Validator validates a JSON document against a named schema. A non-nil
// error means the schema could not be loaded or the document is not JSON;
// schema violations are reported in the Result.
type Validator interface {
	Validate(document []byte, schemaRef string) (*Result, error)
}

// Violation is a single schema violation.
type Violation struct {
	// Location is a JSON pointer into the document, "/" for the root.
	Location string `json:"location"`
	Message  string `json:"message"`
}

func (v Violation) String() string {
	return v.Location + ": " + v.Message
}

// Result is the outcome of a validation.
type Result struct {
	Valid      bool        `json:"valid"`
	Violations []Violation `json:"violations,omitempty"`
}

func (r *Result) add(location, message string) {
	if location == "" {
		location = "/"
	}
	r.Valid = false
	r.Violations = append(r.Violations, Violation{Location: location, Message: message})
}

// Err returns a *SchemaViolationError when the result is invalid.
func (r *Result) Err(schemaRef string) error {
	if r.Valid {
		return nil
	}
	return &SchemaViolationError{SchemaRef: schemaRef, Violations: r.Violations}
}

// SchemaViolationError lists every violation of a document against a schema.
type SchemaViolationError struct {
	SchemaRef  string
	Violations []Violation
}

func (e *SchemaViolationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "document violates schema %s (%d violation", e.SchemaRef, len(e.Violations))
	if len(e.Violations) != 1 {
		b.WriteString("s")
	}
	b.WriteString(")")
	for _, v := range e.Violations {
		b.WriteString("\n  ")
		b.WriteString(v.String())
	}
	return b.String()
}

// NotFoundError is returned when a schema reference cannot be resolved.
type NotFoundError struct {
	Ref string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("schema %q not found", e.Ref)
}
