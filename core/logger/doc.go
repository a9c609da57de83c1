// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different
// environments (development vs production) and integrates with the Fiber
// server used in service mode.
//
// # Context Awareness
//
// The WithRequestID helper extracts the request ID from a Fiber context
// and attaches it to the log entry, so all logs for one compare request
// can be correlated.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: json (production) or console (development)
package logger
