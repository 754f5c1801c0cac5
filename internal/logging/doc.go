// Package logging assembles the structured slog loggers used across
// shelfsort.
//
// It owns the console and JSON handler setup so every component emits log
// lines with the same shape, and provides a no-op logger for tests. Prefer
// these constructors over hand-rolled slog setup.
package logging
