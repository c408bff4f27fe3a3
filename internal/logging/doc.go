// Package logging assembles structured slog loggers and formatting helpers used
// across brewbook.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so HTTP handlers can tag log
// lines with request IDs and recipe slugs. The package also provides a no-op
// logger for tests and wiring code that cannot fail.
package logging
