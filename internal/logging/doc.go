// Package logging assembles structured slog loggers and formatting helpers used
// across phototriage.
//
// It owns the console/JSON handlers, centralizes level and output plumbing
// (stderr plus an append-only JSON log file), and exposes context-aware helpers
// so relocation code can tag log lines with run IDs and input directories. The
// package also provides a no-op logger for tests and wiring code that cannot
// fail.
package logging
