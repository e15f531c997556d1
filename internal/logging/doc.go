// Package logging constructs slog loggers for the CLI and display server.
//
// Two formats are supported: a compact console handler that prints a
// timestamp, level, component, message, and flattened attributes on one
// line, and a JSON handler with normalized ts/level/msg keys. Output can fan
// out to stdout and a log file under the configured log directory.
package logging
