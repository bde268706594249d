// Package logging provides structured logging for the Switchyard relay.
//
// This package wraps Go's standard log/slog package to provide consistent,
// structured logging across the application.
//
// # Features
//
//   - JSON output for production (machine-parsable)
//   - Text output for development (human-readable)
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//   - Thread-safe for concurrent use
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("starting relay", "port", 8080)
//	logger.Error("broker unreachable", "error", err)
//
// # Security
//
// Never log device secrets or the admin token. Auth failures log the reason
// category only, never the credential that was presented.
package logging
