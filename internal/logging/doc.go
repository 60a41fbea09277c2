// Package logging assembles structured slog loggers and formatting helpers used
// across otadocs.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and stamps run, branch, and device identifiers carried on the
// context onto every record. Console output colours WARN and ERROR labels when
// stdout is a terminal. The package also provides a no-op logger for tests and
// wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape.
package logging
