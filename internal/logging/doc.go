// Package logging assembles structured slog loggers and formatting helpers used
// across the podcast pipeline.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code automatically
// tags log lines with request IDs and the active provider. A no-op logger is
// provided for tests and for wiring code that cannot fail.
package logging
