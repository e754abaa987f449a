// Package scraper defines the listing source boundary and the adapters that
// pull raw showings from cinema websites and feeds.
//
// Adapters are deliberately dumb: they fetch and decode, nothing more. Title
// resolution, deduplication, and persistence all happen downstream so a
// misbehaving source can never corrupt the catalogue.
package scraper

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cinescout/internal/catalog"
	"cinescout/internal/config"
)

// RawShowing is a single screening as reported by a listing source, before
// any resolution or deduplication.
type RawShowing struct {
	Title      string
	StartTime  time.Time
	EndTime    time.Time
	ScreenName string
	FormatTag  string
	BookingURL string
	Price      float64
	Provenance string
}

// Scraper fetches raw showings for one cinema within a time window.
type Scraper interface {
	Showings(ctx context.Context, from, to time.Time) ([]RawShowing, error)
}

// Factory builds a scraper for a cinema from its stored configuration.
type Factory func(cinema *catalog.Cinema, cfg *config.Config) (Scraper, error)

// Registry maps scraper type names to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns a registry pre-populated with the built-in adapters.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register("jsonfeed", newJSONFeedScraper)
	r.Register("static", newStaticScraper)
	return r
}

// Register adds a factory under a type name, replacing any existing entry.
func (r *Registry) Register(scraperType string, factory Factory) {
	r.factories[scraperType] = factory
}

// Types returns the registered scraper type names, sorted.
func (r *Registry) Types() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// For builds a scraper for the given cinema.
func (r *Registry) For(cinema *catalog.Cinema, cfg *config.Config) (Scraper, error) {
	if cinema == nil {
		return nil, fmt.Errorf("cinema required")
	}
	factory, ok := r.factories[cinema.ScraperType]
	if !ok {
		return nil, fmt.Errorf("unknown scraper type %q for cinema %q", cinema.ScraperType, cinema.ID)
	}
	return factory(cinema, cfg)
}
