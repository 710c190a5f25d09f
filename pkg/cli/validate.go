package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/crudcontract/pkg/cli/internal/output"
	"github.com/getmockd/crudcontract/pkg/cli/internal/parse"
	"github.com/getmockd/crudcontract/pkg/config"
	"github.com/getmockd/crudcontract/pkg/contract"
	"github.com/getmockd/crudcontract/pkg/schema"
	"github.com/getmockd/crudcontract/pkg/transport"
)

type validateFlags struct {
	baseURL   string
	validator string
	schemaDir string
	schemaRef string
	headers   []string
}

// validateResult is the --json output of validate.
type validateResult struct {
	BaseURL    string             `json:"baseUrl"`
	SchemaRef  string             `json:"schemaRef"`
	Valid      bool               `json:"valid"`
	Violations []schema.Violation `json:"violations,omitempty"`
	Error      string             `json:"error,omitempty"`
}

func newValidateCommand(g *globalFlags) *cobra.Command {
	f := &validateFlags{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the real API's read-all response against the Users schema",
		Long: `Send GET /users to the real API with a browser User-Agent, require a 200, and
validate the body against the Users schema. Every violation is reported.`,
		Example: `  # Validate https://fakestoreapi.com with the embedded JSON Schema
  crudcontract validate

  # Validate a local API with the embedded OpenAPI document
  crudcontract validate --base-url http://localhost:3000 --validator openapi --schema-ref Users`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := g.load(cmd)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("base-url") {
				cfg.Contract.BaseURL = f.baseURL
			}
			if flags.Changed("validator") {
				cfg.Contract.Validator = f.validator
			}
			if flags.Changed("schema-dir") {
				cfg.Contract.SchemaDir = f.schemaDir
			}
			if flags.Changed("schema-ref") {
				cfg.Contract.SchemaRef = f.schemaRef
			} else if flags.Changed("validator") && f.validator == config.ValidatorOpenAPI && cfg.Contract.SchemaRef == schema.DefaultJSONSchemaRef {
				cfg.Contract.SchemaRef = schema.DefaultOpenAPIRef
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration:\n%w", err)
			}

			headers, err := parse.Headers(f.headers)
			if err != nil {
				return err
			}

			v, err := newContractValidator(cmd.Context(), cfg, headers, log)
			if err != nil {
				return err
			}

			result, validateErr := v.ValidateReadAll(cmd.Context())
			res := validateResult{BaseURL: cfg.Contract.BaseURL, SchemaRef: v.SchemaRef()}
			if result != nil {
				res.Valid = result.Valid
				res.Violations = result.Violations
			}
			if validateErr != nil {
				res.Error = validateErr.Error()
			}

			if err := g.printResult(cmd, res, func() {
				out := cmd.OutOrStdout()
				if res.Valid && validateErr == nil {
					fmt.Fprintf(out, "%s/users conforms to %s\n", res.BaseURL, res.SchemaRef)
					return
				}
				var violation *schema.SchemaViolationError
				if !errors.As(validateErr, &violation) {
					return
				}
				fmt.Fprintf(out, "%s/users violates %s:\n", res.BaseURL, res.SchemaRef)
				tw := output.Table(out)
				fmt.Fprintln(tw, "  LOCATION\tMESSAGE")
				for _, viol := range res.Violations {
					fmt.Fprintf(tw, "  %s\t%s\n", viol.Location, viol.Message)
				}
				_ = tw.Flush()
			}); err != nil {
				return err
			}
			return validateErr
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.baseURL, "base-url", "", "Base URL of the real API (default from config)")
	flags.StringVar(&f.validator, "validator", "", "Schema validator: jsonschema or openapi")
	flags.StringVar(&f.schemaDir, "schema-dir", "", "Directory of schema files (default: embedded schemas)")
	flags.StringVar(&f.schemaRef, "schema-ref", "", "Schema file (jsonschema) or component name (openapi)")
	flags.StringArrayVarP(&f.headers, "header", "H", nil, `Extra request header "Name: value" (repeatable)`)
	return cmd
}

// newContractValidator wires the configured transport and schema validator.
func newContractValidator(ctx context.Context, cfg *config.Config, headers map[string]string, log *slog.Logger) (*contract.Validator, error) {
	opts := []transport.HTTPOption{transport.WithLogger(log)}
	if cfg.Contract.Timeout > 0 {
		opts = append(opts, transport.WithTimeout(cfg.Contract.Timeout))
	}
	for name, value := range headers {
		opts = append(opts, transport.WithHeader(name, value))
	}
	tr, err := transport.NewHTTP(cfg.Contract.BaseURL, opts...)
	if err != nil {
		return nil, err
	}

	var fsys fs.FS
	if cfg.Contract.SchemaDir != "" {
		fsys = os.DirFS(cfg.ResolvePath(cfg.Contract.SchemaDir))
	}

	var sv schema.Validator
	switch cfg.Contract.Validator {
	case config.ValidatorOpenAPI:
		if fsys == nil {
			fsys = schema.Embedded()
		}
		oa, err := schema.NewOpenAPIFromFS(ctx, fsys, cfg.Contract.OpenAPIFile)
		if err != nil {
			return nil, err
		}
		sv = oa
	default:
		sv = schema.NewJSONSchema(fsys)
	}

	return contract.New(tr,
		contract.WithSchema(sv, cfg.Contract.SchemaRef),
		contract.WithLogger(log),
	), nil
}
