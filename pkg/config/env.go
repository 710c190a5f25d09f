package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variables overriding file configuration.
const (
	EnvPort              = "CRUDCONTRACT_PORT"
	EnvLogLevel          = "CRUDCONTRACT_LOG_LEVEL"
	EnvLogFormat         = "CRUDCONTRACT_LOG_FORMAT"
	EnvBaseURL           = "CRUDCONTRACT_BASE_URL"
	EnvStrict            = "CRUDCONTRACT_STRICT"
	EnvMaxJournalEntries = "CRUDCONTRACT_MAX_JOURNAL_ENTRIES"
	EnvSchemaRef         = "CRUDCONTRACT_SCHEMA_REF"
)

// ApplyEnv overrides c with any CRUDCONTRACT_* variables that are set.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: invalid port %q", EnvPort, v)
		}
		c.Server.Port = port
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.Contract.BaseURL = v
	}
	if v := os.Getenv(EnvStrict); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: invalid boolean %q", EnvStrict, v)
		}
		c.Engine.StrictAmbiguity = strict
	}
	if v := os.Getenv(EnvMaxJournalEntries); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: invalid number %q", EnvMaxJournalEntries, v)
		}
		c.Engine.MaxJournalEntries = n
	}
	if v := os.Getenv(EnvSchemaRef); v != "" {
		c.Contract.SchemaRef = v
	}
	return nil
}
