// Package logging assembles structured slog loggers and formatting
// helpers used across subfetch.
//
// It owns the configurable console/JSON handlers and centralizes level
// and output plumbing. The package also provides a no-op logger for
// tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every
// component emits data with the same shape.
package logging
