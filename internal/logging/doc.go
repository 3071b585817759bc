// Package logging assembles structured slog loggers and formatting helpers used
// across picsort.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// stamps every record of a sort run with its run_id, and exposes
// context-aware helpers so per-file code can tag log lines with the source
// and target paths being processed. The package also provides a no-op logger
// for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape.
package logging
