package config

import (
	"os"
	"time"
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Engine: EngineConfig{
			Fallback:          FallbackConfig{Status: 404},
			MaxJournalEntries: 1000,
			NearMisses:        3,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Contract: ContractConfig{
			BaseURL:     "https://fakestoreapi.com",
			Timeout:     30 * time.Second,
			Validator:   ValidatorJSONSchema,
			SchemaRef:   "users-schema.json",
			OpenAPIFile: "users-openapi.yaml",
		},
		Lifecycle: LifecycleConfig{
			UserID:       123,
			Email:        "test@example.com",
			Username:     "testuser",
			Password:     "pass123",
			UpdatedEmail: "updated@example.com",
		},
		baseDir: cwd,
	}
}
