// Package logging provides structured logging configuration for crudcontract.
//
// This package wraps log/slog to provide consistent logging across the engine,
// the lifecycle driver, the contract validator and the CLI.
//
// # Usage
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelInfo,
//	    Format: logging.FormatText,
//	})
//
//	logger.Info("mock server started", "port", 8080)
//	logger.Warn("unmatched request", "method", "GET", "path", "/users/9")
//
// # Integration
//
// Components accept a *slog.Logger in their constructor or via an option.
// If no logger is provided they fall back to logging.Nop().
package logging
