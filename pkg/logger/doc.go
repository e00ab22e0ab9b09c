// Package logger builds the structured slog logger shared by the monitor.
// Development and staging environments get human readable text output,
// production gets JSON, and every line carries the environment name.
package logger
