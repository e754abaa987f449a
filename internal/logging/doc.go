// Package logging constructs the application's structured loggers.
//
// It wraps log/slog with config-driven construction (level, format, file
// outputs), attribute helpers so call sites stay terse, and context helpers
// that stamp scrape run and cinema identifiers onto every line a concurrent
// worker emits.
package logging
