package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/crudcontract/pkg/stub"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 404, cfg.Engine.Fallback.Status)
	assert.Equal(t, "https://fakestoreapi.com", cfg.Contract.BaseURL)
	assert.Equal(t, "pass123", cfg.Lifecycle.Password)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "crudcontract.yaml", `
server:
  port: 9090
  readTimeout: 5s
engine:
  strictAmbiguity: true
  fallback:
    status: 418
    body: teapot
log:
  level: debug
  format: json
contract:
  validator: openapi
  schemaRef: Users
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout, "unset fields keep defaults")
	assert.True(t, cfg.Engine.StrictAmbiguity)
	assert.Equal(t, 418, cfg.Engine.Fallback.Status)
	assert.Equal(t, "teapot", cfg.Engine.Fallback.Body)
	assert.Equal(t, ValidatorOpenAPI, cfg.Contract.Validator)
	assert.Equal(t, "users-openapi.yaml", cfg.Contract.OpenAPIFile)
	assert.Equal(t, dir, cfg.BaseDir())
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	empty := writeFile(t, dir, "empty.yaml", "  \n")
	invalid := writeFile(t, dir, "invalid.yaml", "server: [unclosed")
	unknown := writeFile(t, dir, "unknown.yaml", "colour: red\n")

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"missing file", filepath.Join(dir, "nope.yaml"), ErrFileNotFound},
		{"empty file", empty, ErrEmptyFile},
		{"invalid yaml", invalid, ErrInvalidYAML},
		{"unknown field", unknown, ErrInvalidYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.path)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Load() error = %v, want %v", err, tt.wantErr)
			}
			if cfg != nil {
				t.Errorf("Load() cfg = %v, want nil", cfg)
			}
		})
	}
}

func TestLoad_Directory(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default().Server, cfg.Server)
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("CRUDCONTRACT_TEST_HOST", "api.example.com")

	tests := []struct {
		in   string
		want string
	}{
		{"https://${CRUDCONTRACT_TEST_HOST}", "https://api.example.com"},
		{"${CRUDCONTRACT_TEST_UNSET:-fallback}", "fallback"},
		{"${CRUDCONTRACT_TEST_HOST:-fallback}", "api.example.com"},
		{"${CRUDCONTRACT_TEST_UNSET}", ""},
		{"no references", "no references"},
		{"$NOT_BRACED", "$NOT_BRACED"},
	}
	for _, tt := range tests {
		if got := ExpandEnvVars(tt.in); got != tt.want {
			t.Errorf("ExpandEnvVars(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("CRUDCONTRACT_TEST_BASE", "http://localhost:3000")

	cfg, err := Parse([]byte("contract:\n  baseUrl: ${CRUDCONTRACT_TEST_BASE}\n"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", cfg.Contract.BaseURL)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvPort, "7070")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvBaseURL, "http://users.internal")
	t.Setenv(EnvStrict, "true")
	t.Setenv(EnvMaxJournalEntries, "10")
	t.Setenv(EnvSchemaRef, "other.json")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "http://users.internal", cfg.Contract.BaseURL)
	assert.True(t, cfg.Engine.StrictAmbiguity)
	assert.Equal(t, 10, cfg.Engine.MaxJournalEntries)
	assert.Equal(t, "other.json", cfg.Contract.SchemaRef)
}

func TestApplyEnv_Invalid(t *testing.T) {
	for _, env := range []string{EnvPort, EnvStrict, EnvMaxJournalEntries} {
		t.Run(env, func(t *testing.T) {
			t.Setenv(env, "not-a-value")
			assert.Error(t, Default().ApplyEnv())
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"fallback status", func(c *Config) { c.Engine.Fallback.Status = 42 }, "engine.fallback.status"},
		{"journal", func(c *Config) { c.Engine.MaxJournalEntries = -1 }, "engine.maxJournalEntries"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"base url", func(c *Config) { c.Contract.BaseURL = "fakestoreapi.com" }, "contract.baseUrl"},
		{"validator", func(c *Config) { c.Contract.Validator = "xsd" }, "contract.validator"},
		{"openapi file", func(c *Config) {
			c.Contract.Validator = ValidatorOpenAPI
			c.Contract.OpenAPIFile = ""
		}, "contract.openapiFile"},
		{"user id", func(c *Config) { c.Lifecycle.UserID = 0 }, "lifecycle.userId"},
		{"email", func(c *Config) { c.Lifecycle.Email = "" }, "lifecycle.email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = -1
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
	assert.Contains(t, err.Error(), "log.format")
}

func TestResolvePath(t *testing.T) {
	cfg := Default()
	cfg.baseDir = "/etc/crudcontract"

	assert.Equal(t, "/etc/crudcontract/stubs/users.yaml", cfg.ResolvePath("stubs/users.yaml"))
	assert.Equal(t, "/abs/users.yaml", cfg.ResolvePath("/abs/users.yaml"))
	assert.Empty(t, cfg.ResolvePath(""))
}

func TestLoadStubs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "stubs/a-list.yaml", `
- id: create
  scenario: Lifecycle
  method: POST
  path: /users
  nextState: created
  response:
    status: 201
    jsonBody:
      id: 123
- id: read
  scenario: Lifecycle
  method: GET
  path: /users/{id}
  requiredState: created
  response:
    status: 200
`)
	writeFile(t, dir, "stubs/nested/b-single.json", `{"id": "health", "method": "GET", "path": "/health", "response": {"status": 204}}`)
	path := writeFile(t, dir, "crudcontract.yaml", `
stubFiles:
  - stubs/**/*.yaml
  - stubs/**/*.json
  - stubs/a-list.yaml
stubs:
  - id: inline
    method: DELETE
    path: /users/{id}
    response:
      status: 200
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	stubs, err := cfg.LoadStubs()
	require.NoError(t, err)

	ids := make([]string, len(stubs))
	for i, s := range stubs {
		ids[i] = s.ID
	}
	assert.Equal(t, []string{"inline", "create", "read", "health"}, ids, "inline first, duplicates loaded once")

	assert.Equal(t, stub.MethodPost, stubs[1].Method)
	body, err := stubs[1].Response.Bytes()
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":123}`, string(body))

	stubs[0].Response.Status = 500
	assert.Equal(t, 200, cfg.Stubs[0].Response.Status, "loaded stubs are copies")
}

func TestLoadStubs_NoMatch(t *testing.T) {
	cfg := Default()
	cfg.baseDir = t.TempDir()
	cfg.StubFiles = []string{"missing/*.yaml"}

	_, err := cfg.LoadStubs()
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestLoadStubFile_Invalid(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.yaml", "- [")
	_, err := LoadStubFile(path)
	assert.ErrorIs(t, err, ErrInvalidYAML)
}

func TestWriteStubFile_RoundTripsThroughLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "stubs.yaml")
	in := []*stub.Stub{{
		ID:          "read",
		Method:      stub.MethodGet,
		PathPattern: "/users/{id}",
		Response:    stub.Response{Status: 200, Body: `{"id":123}`},
	}}

	require.NoError(t, WriteStubFile(path, in))
	out, err := LoadStubFile(path)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, in[0].PathPattern, out[0].PathPattern)
	assert.Equal(t, in[0].Response.Body, out[0].Response.Body)
}
