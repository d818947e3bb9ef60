// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger with a sane console encoder,
//   - an optional file sink next to stdout (the daemon keeps a plain log file),
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level configuration and parsing utilities,
//   - convenience functions (Infof, ErrorKV, etc.).
//
// The monitor accepts a context and extracts the logger from it, enabling
// scoped, structured logging throughout the codebase.
package logger
