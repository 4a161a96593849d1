// Package logging provides a simple leveled logging interface for the
// photo timeline service.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information
//   - INFO: General operational messages
//   - WARN: Warning conditions
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the application
//
// The log level is configured via the LOG_LEVEL environment variable.
// Output is produced by a go-hclog logger; set LOG_JSON=true for JSON lines.
// Components that prefer key/value logging can obtain a sub-logger with Named.
package logging
