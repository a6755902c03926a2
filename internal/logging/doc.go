// Package logging assembles structured slog loggers and formatting helpers used
// across clipgrid.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes attribute helpers plus standardized field keys so the
// session, presentation, and media components emit logs with the same shape.
// The package also provides a no-op logger for tests and wiring code that
// cannot fail.
//
// The interactive UI owns the terminal, so it routes logs to the file output
// only; see NewFromConfig.
package logging
