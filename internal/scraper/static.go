package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cinescout/internal/catalog"
	"cinescout/internal/config"
	"cinescout/internal/services"
)

// staticConfig embeds a fixed programme directly in the cinema record. Used
// for venues without a machine-readable source and in tests.
type staticConfig struct {
	Showings []feedEntry `json:"showings"`
}

type staticScraper struct {
	showings []RawShowing
}

func newStaticScraper(cinema *catalog.Cinema, cfg *config.Config) (Scraper, error) {
	var staticCfg staticConfig
	if len(cinema.ScraperConfig) > 0 {
		if err := json.Unmarshal(cinema.ScraperConfig, &staticCfg); err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "scraper", "static",
				fmt.Sprintf("cinema %q has invalid scraper config", cinema.ID), err)
		}
	}

	loc := cfg.Location()
	showings := make([]RawShowing, 0, len(staticCfg.Showings))
	for _, entry := range staticCfg.Showings {
		start, err := parseFeedTime(entry.StartTime, loc)
		if err != nil || entry.Title == "" {
			continue
		}
		showing := RawShowing{
			Title:      entry.Title,
			StartTime:  start,
			ScreenName: entry.Screen,
			FormatTag:  entry.Format,
			BookingURL: entry.BookingURL,
			Price:      entry.Price,
			Provenance: "static",
		}
		if end, err := parseFeedTime(entry.EndTime, loc); err == nil {
			showing.EndTime = end
		}
		showings = append(showings, showing)
	}
	return &staticScraper{showings: showings}, nil
}

func (s *staticScraper) Showings(_ context.Context, from, to time.Time) ([]RawShowing, error) {
	var filtered []RawShowing
	for _, showing := range s.showings {
		if showing.StartTime.Before(from) || !showing.StartTime.Before(to) {
			continue
		}
		filtered = append(filtered, showing)
	}
	return filtered, nil
}
