// Package logging assembles structured slog loggers used across Relane.
//
// It owns the configurable console/JSON handlers, centralizes level and
// output plumbing, and standardizes the attribute keys (component, run id,
// lane, tick) so every subsystem emits data with the same shape. It also
// provides a no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup.
package logging
