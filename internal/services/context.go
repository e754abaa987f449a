package services

import "context"

type contextKey string

const (
	runIDKey    contextKey = "run_id"
	cinemaIDKey contextKey = "cinema_id"
)

// WithRunID attaches a scrape run identifier to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	if runID == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext extracts the scrape run identifier, if any.
func RunIDFromContext(ctx context.Context) (string, bool) {
	value, ok := ctx.Value(runIDKey).(string)
	return value, ok && value != ""
}

// WithCinemaID attaches the cinema being scraped to the context.
func WithCinemaID(ctx context.Context, cinemaID string) context.Context {
	if cinemaID == "" {
		return ctx
	}
	return context.WithValue(ctx, cinemaIDKey, cinemaID)
}

// CinemaIDFromContext extracts the cinema identifier, if any.
func CinemaIDFromContext(ctx context.Context) (string, bool) {
	value, ok := ctx.Value(cinemaIDKey).(string)
	return value, ok && value != ""
}
