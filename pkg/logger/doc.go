// Package logger builds configured slog loggers with optional per-record
// context attribute injection, e.g. to attach a request ID to every line
// logged while handling that request.
package logger
