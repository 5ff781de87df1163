// Package logging assembles the structured slog loggers used by species-sorter.
//
// It owns the console and JSON handlers, level parsing, and small attribute
// helpers so router code can tag lines with the run, row, and component that
// produced them. A no-op logger is provided for tests and for wiring code that
// runs before configuration is known.
package logging
