// Package ingest turns raw scraped showings into catalogue rows and
// orchestrates full scrape runs across all configured cinemas.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"cinescout/internal/catalog"
	"cinescout/internal/logging"
	"cinescout/internal/resolver"
	"cinescout/internal/scraper"
	"cinescout/internal/textutil"
)

// Ingestor persists one raw showing at a time: resolve the title to a film,
// then upsert the screening keyed on (cinema, film, start time).
type Ingestor struct {
	store    *catalog.Store
	resolver *resolver.Resolver
	logger   *slog.Logger
}

// NewIngestor wires an ingestor against the catalogue and resolver.
func NewIngestor(store *catalog.Store, res *resolver.Resolver, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Ingestor{
		store:    store,
		resolver: res,
		logger:   logger.With(logging.String(logging.FieldComponent, "ingest")),
	}
}

// IngestShowing resolves and stores a raw showing. Double bills produce one
// showing per film sharing the same start time. The returned outcomes report
// created versus updated per stored showing.
func (i *Ingestor) IngestShowing(ctx context.Context, cinemaID string, raw scraper.RawShowing) ([]catalog.Outcome, error) {
	if raw.Title == "" {
		return nil, fmt.Errorf("showing has no title")
	}
	if raw.StartTime.IsZero() {
		return nil, fmt.Errorf("showing %q has no start time", raw.Title)
	}

	var outcomes []catalog.Outcome
	for _, part := range textutil.SplitDoubleBill(raw.Title) {
		film, err := i.resolver.Resolve(ctx, part, cinemaID, 0)
		if err != nil {
			return outcomes, fmt.Errorf("resolve %q: %w", part, err)
		}
		outcome, err := i.store.UpsertShowing(ctx, &catalog.Showing{
			CinemaID:   cinemaID,
			FilmID:     film.ID,
			StartTime:  raw.StartTime,
			EndTime:    raw.EndTime,
			ScreenName: raw.ScreenName,
			FormatTag:  raw.FormatTag,
			BookingURL: raw.BookingURL,
			Price:      raw.Price,
			RawTitle:   raw.Title,
			Provenance: raw.Provenance,
		})
		if err != nil {
			return outcomes, fmt.Errorf("store showing %q: %w", part, err)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}
