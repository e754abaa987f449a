package logging

import (
	"context"
	"log/slog"

	"cinescout/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldCinemaID is the standardized structured logging key for cinema identifiers.
	FieldCinemaID = "cinema_id"
	// FieldRunID is the standardized structured logging key for scrape run identifiers.
	FieldRunID = "run_id"
	// FieldFilmID is the standardized structured logging key for film identifiers.
	FieldFilmID = "film_id"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if runID, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, runID))
	}
	if cinemaID, ok := services.CinemaIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCinemaID, cinemaID))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
