// Package logger builds slog loggers with environment presets and automatic
// injection of request-scoped attributes (tenant ID, request ID) from context.
package logger
