// Package logging builds the structured log/slog loggers used by the unicfg
// command. Output is JSON by default, with a text handler for terminals.
package logging
