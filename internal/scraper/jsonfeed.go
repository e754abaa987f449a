package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cinescout/internal/catalog"
	"cinescout/internal/config"
	"cinescout/internal/services"
)

// jsonFeedConfig is the per-cinema configuration for the jsonfeed adapter.
type jsonFeedConfig struct {
	URL string `json:"url"`
}

// feedEntry is one screening in a published listings feed.
type feedEntry struct {
	Title      string  `json:"title"`
	StartTime  string  `json:"start_time"`
	EndTime    string  `json:"end_time"`
	Screen     string  `json:"screen"`
	Format     string  `json:"format"`
	BookingURL string  `json:"booking_url"`
	Price      float64 `json:"price"`
}

// jsonFeedScraper pulls showings from a cinema that publishes its programme
// as a JSON feed.
type jsonFeedScraper struct {
	cinemaID   string
	feedURL    string
	loc        *time.Location
	httpClient *http.Client
}

func newJSONFeedScraper(cinema *catalog.Cinema, cfg *config.Config) (Scraper, error) {
	var feedCfg jsonFeedConfig
	if len(cinema.ScraperConfig) > 0 {
		if err := json.Unmarshal(cinema.ScraperConfig, &feedCfg); err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "scraper", "jsonfeed",
				fmt.Sprintf("cinema %q has invalid scraper config", cinema.ID), err)
		}
	}
	feedCfg.URL = strings.TrimSpace(feedCfg.URL)
	if feedCfg.URL == "" {
		return nil, services.Wrap(services.ErrConfiguration, "scraper", "jsonfeed",
			fmt.Sprintf("cinema %q is missing a feed url", cinema.ID), nil)
	}
	if _, err := url.Parse(feedCfg.URL); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "scraper", "jsonfeed",
			fmt.Sprintf("cinema %q has an invalid feed url", cinema.ID), err)
	}

	timeout := time.Duration(cfg.Scrape.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &jsonFeedScraper{
		cinemaID:   cinema.ID,
		feedURL:    feedCfg.URL,
		loc:        cfg.Location(),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Showings fetches the feed and returns entries whose start time falls in
// [from, to). Entries with unparseable times are skipped rather than failing
// the whole feed.
func (s *jsonFeedScraper) Showings(ctx context.Context, from, to time.Time) ([]RawShowing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "scraper", "jsonfeed", "fetch feed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrTransient, "scraper", "jsonfeed",
			fmt.Sprintf("feed returned %d", resp.StatusCode), nil)
	}

	var entries []feedEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, services.Wrap(services.ErrTransient, "scraper", "jsonfeed", "decode feed", err)
	}

	showings := make([]RawShowing, 0, len(entries))
	for _, entry := range entries {
		start, err := parseFeedTime(entry.StartTime, s.loc)
		if err != nil || entry.Title == "" {
			continue
		}
		if start.Before(from) || !start.Before(to) {
			continue
		}
		showing := RawShowing{
			Title:      entry.Title,
			StartTime:  start,
			ScreenName: entry.Screen,
			FormatTag:  entry.Format,
			BookingURL: entry.BookingURL,
			Price:      entry.Price,
			Provenance: s.feedURL,
		}
		if end, err := parseFeedTime(entry.EndTime, s.loc); err == nil {
			showing.EndTime = end
		}
		showings = append(showings, showing)
	}
	return showings, nil
}

// parseFeedTime converts a feed timestamp to UTC. Timestamps carrying an
// explicit offset keep it; zone-less timestamps are venue-local in the
// configured scrape timezone.
func parseFeedTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty time")
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed.UTC(), nil
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02 15:04"} {
		if parsed, err := time.ParseInLocation(layout, value, loc); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", value)
}
