package contract

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/getmockd/crudcontract/pkg/expect"
	"github.com/getmockd/crudcontract/pkg/logging"
	"github.com/getmockd/crudcontract/pkg/schema"
	"github.com/getmockd/crudcontract/pkg/transport"
	"github.com/getmockd/crudcontract/pkg/users"
)

// DefaultBaseURL is the public Users API the contract is checked against.
const DefaultBaseURL = "https://fakestoreapi.com"

// Validator checks a live Users API against a published schema.
type Validator struct {
	client    *users.Client
	schema    schema.Validator
	schemaRef string
	log       *slog.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithSchema sets the schema validator and the reference of the schema the
// read-all response must satisfy.
func WithSchema(v schema.Validator, ref string) Option {
	return func(c *Validator) {
		if v != nil {
			c.schema = v
		}
		if ref != "" {
			c.schemaRef = ref
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Validator) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a Validator that reads through t. By default the response is
// checked against the embedded users-schema.json.
func New(t transport.Transport, opts ...Option) *Validator {
	v := &Validator{
		client:    users.NewClient(t),
		schemaRef: schema.DefaultJSONSchemaRef,
		log:       logging.Nop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.schema == nil {
		v.schema = schema.NewJSONSchema(nil)
	}
	v.log = logging.Component(v.log, "contract")
	return v
}

// SchemaRef returns the schema reference responses are checked against.
func (v *Validator) SchemaRef() string {
	return v.schemaRef
}

// ValidateReadAll reads every user and checks the response. It returns an
// *expect.AssertionMismatchError when the status is not 200 and a
// *schema.SchemaViolationError listing every violation when the body does not
// conform. The result is returned whenever validation ran.
func (v *Validator) ValidateReadAll(ctx context.Context) (*schema.Result, error) {
	resp, err := v.client.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read all users: %w", err)
	}
	if err := expect.Status("read all users", resp, http.StatusOK); err != nil {
		return nil, err
	}

	result, err := v.schema.Validate(resp.Body, v.schemaRef)
	if err != nil {
		return nil, fmt.Errorf("validate against %s: %w", v.schemaRef, err)
	}
	if err := result.Err(v.schemaRef); err != nil {
		v.log.WarnContext(ctx, "response violates schema", "schema", v.schemaRef, "violations", len(result.Violations))
		return result, err
	}
	v.log.InfoContext(ctx, "response conforms to schema", "schema", v.schemaRef, "bytes", len(resp.Body))
	return result, nil
}
