package config

import (
	"errors"
	"net/url"
	"strings"
)

// Validate checks c and returns every problem found, joined.
func (c *Config) Validate() error {
	var errs []error
	add := func(field, msg string) {
		errs = append(errs, &ValidationError{Field: field, Message: msg})
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		add("server.port", "must be between 0 and 65535")
	}
	if c.Server.ReadTimeout < 0 {
		add("server.readTimeout", "must not be negative")
	}
	if c.Server.WriteTimeout < 0 {
		add("server.writeTimeout", "must not be negative")
	}

	if s := c.Engine.Fallback.Status; s < 100 || s > 599 {
		add("engine.fallback.status", "must be a valid HTTP status code")
	}
	if c.Engine.MaxJournalEntries < 0 {
		add("engine.maxJournalEntries", "must not be negative")
	}
	if c.Engine.NearMisses < 0 {
		add("engine.nearMisses", "must not be negative")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		add("log.level", "must be one of debug, info, warn, error")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		add("log.format", "must be text or json")
	}

	if u, err := url.Parse(c.Contract.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		add("contract.baseUrl", "must be an absolute http or https URL")
	}
	if c.Contract.Timeout < 0 {
		add("contract.timeout", "must not be negative")
	}
	switch c.Contract.Validator {
	case ValidatorJSONSchema:
	case ValidatorOpenAPI:
		if c.Contract.OpenAPIFile == "" {
			add("contract.openapiFile", "required for the openapi validator")
		}
	default:
		add("contract.validator", "must be jsonschema or openapi")
	}
	if c.Contract.SchemaRef == "" {
		add("contract.schemaRef", "is required")
	}

	if c.Lifecycle.UserID <= 0 {
		add("lifecycle.userId", "must be positive")
	}
	if c.Lifecycle.Email == "" {
		add("lifecycle.email", "is required")
	}
	if c.Lifecycle.Username == "" {
		add("lifecycle.username", "is required")
	}
	if c.Lifecycle.UpdatedEmail == "" {
		add("lifecycle.updatedEmail", "is required")
	}

	return errors.Join(errs...)
}
