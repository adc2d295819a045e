// Package logger builds slog loggers with the project's defaults: JSON at
// info level for production, text at debug level via WithDevelopment.
package logger
