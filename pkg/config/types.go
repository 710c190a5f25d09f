package config

import (
	"fmt"
	"io"
	"time"

	"github.com/getmockd/crudcontract/pkg/logging"
	"github.com/getmockd/crudcontract/pkg/stub"
)

// Config is the harness configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" json:"server"`
	Engine    EngineConfig    `yaml:"engine" json:"engine"`
	Log       LogConfig       `yaml:"log" json:"log"`
	Contract  ContractConfig  `yaml:"contract" json:"contract"`
	Lifecycle LifecycleConfig `yaml:"lifecycle" json:"lifecycle"`

	// StubFiles are glob patterns, relative to the config file, of YAML or
	// JSON files holding one stub or a list of stubs. ** matches any number
	// of directories.
	StubFiles []string `yaml:"stubFiles,omitempty" json:"stubFiles,omitempty"`

	// Stubs are registered before those of StubFiles.
	Stubs []*stub.Stub `yaml:"stubs,omitempty" json:"stubs,omitempty"`

	// baseDir resolves relative paths. Set by Load.
	baseDir string
}

// ServerConfig configures the mock server.
type ServerConfig struct {
	Port         int           `yaml:"port" json:"port"`
	ReadTimeout  time.Duration `yaml:"readTimeout" json:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout" json:"writeTimeout"`
}

// EngineConfig configures request matching.
type EngineConfig struct {
	Fallback          FallbackConfig `yaml:"fallback" json:"fallback"`
	StrictAmbiguity   bool           `yaml:"strictAmbiguity" json:"strictAmbiguity"`
	MaxJournalEntries int            `yaml:"maxJournalEntries" json:"maxJournalEntries"`
	NearMisses        int            `yaml:"nearMisses" json:"nearMisses"`
}

// FallbackConfig is the response to unmatched requests.
type FallbackConfig struct {
	Status  int               `yaml:"status" json:"status"`
	Headers map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`
	Body    string            `yaml:"body,omitempty" json:"body,omitempty"`
}

// LogConfig configures operational logging.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Schema validator kinds.
const (
	ValidatorJSONSchema = "jsonschema"
	ValidatorOpenAPI    = "openapi"
)

// ContractConfig configures the contract check against a real API.
type ContractConfig struct {
	BaseURL string        `yaml:"baseUrl" json:"baseUrl"`
	Timeout time.Duration `yaml:"timeout" json:"timeout"`

	// Validator is "jsonschema" or "openapi".
	Validator string `yaml:"validator" json:"validator"`

	// SchemaDir holds schema files. Empty uses the embedded schemas.
	SchemaDir string `yaml:"schemaDir,omitempty" json:"schemaDir,omitempty"`

	// SchemaRef is a file in SchemaDir for jsonschema, or a component schema
	// name for openapi.
	SchemaRef string `yaml:"schemaRef" json:"schemaRef"`

	// OpenAPIFile is the OpenAPI document in SchemaDir.
	OpenAPIFile string `yaml:"openapiFile,omitempty" json:"openapiFile,omitempty"`
}

// LifecycleConfig is the fixture of the Users lifecycle run.
type LifecycleConfig struct {
	UserID       int    `yaml:"userId" json:"userId"`
	Email        string `yaml:"email" json:"email"`
	Username     string `yaml:"username" json:"username"`
	Password     string `yaml:"password" json:"password"`
	UpdatedEmail string `yaml:"updatedEmail" json:"updatedEmail"`
}

// ValidationError describes an invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// Logging returns the logging configuration writing to out.
func (c *Config) Logging(out io.Writer) logging.Config {
	return logging.Config{
		Level:  logging.ParseLevel(c.Log.Level),
		Format: logging.ParseFormat(c.Log.Format),
		Output: out,
	}
}
