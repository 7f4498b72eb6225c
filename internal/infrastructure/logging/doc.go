// Package logging provides structured logging for the TODO mock backend.
//
// This package wraps Go's standard log/slog package so every component
// logs with the same default fields.
//
// # Features
//
//   - Text output by default, JSON when format is "json"
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//   - Thread-safe for concurrent use
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "text"     # text, json
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, version)
//	logger.Info("listening", "addr", addr)
//	logger.Warn("mqtt publish failed", "error", err)
//
// # Security
//
// Never log the API key or broker credentials. Requests rejected by the key
// gate are logged with the header name only.
package logging
