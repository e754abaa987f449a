package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"cinescout/internal/catalog"
	"cinescout/internal/config"
	"cinescout/internal/resolver"
	"cinescout/internal/scraper"
	"cinescout/internal/services"
	"cinescout/internal/testsupport"
)

func newTestIngestor(t *testing.T, cfg *config.Config) (*Ingestor, *catalog.Store) {
	t.Helper()
	store := testsupport.MustOpenStore(t, cfg)
	res := resolver.New(store, nil, nil)
	return NewIngestor(store, res, nil), store
}

func TestIngestShowingCreatesThenUpdates(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ingestor, store := newTestIngestor(t, cfg)
	testsupport.SeedCinema(t, store, "rio")
	ctx := context.Background()

	raw := scraper.RawShowing{
		Title:     "Nosferatu (2024)",
		StartTime: time.Date(2026, 9, 2, 19, 30, 0, 0, time.UTC),
		Price:     10,
	}
	outcomes, err := ingestor.IngestShowing(ctx, "rio", raw)
	if err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	if len(outcomes) != 1 || outcomes[0] != catalog.OutcomeCreated {
		t.Fatalf("outcomes = %v, want [created]", outcomes)
	}

	raw.Price = 12
	outcomes, err = ingestor.IngestShowing(ctx, "rio", raw)
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	if len(outcomes) != 1 || outcomes[0] != catalog.OutcomeUpdated {
		t.Fatalf("outcomes = %v, want [updated]", outcomes)
	}

	views, err := store.ListShowings(ctx, catalog.ShowingFilter{CinemaID: "rio"})
	if err != nil {
		t.Fatalf("list showings: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 showing, got %d", len(views))
	}
	if views[0].Price != 12 {
		t.Errorf("Price = %v, want 12", views[0].Price)
	}
}

func TestIngestShowingSplitsDoubleBill(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ingestor, store := newTestIngestor(t, cfg)
	testsupport.SeedCinema(t, store, "rio")
	ctx := context.Background()

	raw := scraper.RawShowing{
		Title:     "The Devil-Doll (1936) and Witchcraft (1964)",
		StartTime: time.Date(2026, 9, 2, 19, 30, 0, 0, time.UTC),
	}
	outcomes, err := ingestor.IngestShowing(ctx, "rio", raw)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %v", outcomes)
	}

	views, err := store.ListShowings(ctx, catalog.ShowingFilter{CinemaID: "rio"})
	if err != nil {
		t.Fatalf("list showings: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 showings, got %d", len(views))
	}
	if views[0].FilmID == views[1].FilmID {
		t.Errorf("double bill resolved to one film %q", views[0].FilmID)
	}
	for _, view := range views {
		if !view.StartTime.Equal(raw.StartTime) {
			t.Errorf("start time %v, want %v", view.StartTime, raw.StartTime)
		}
	}
}

func TestIngestShowingRejectsMissingFields(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ingestor, _ := newTestIngestor(t, cfg)
	ctx := context.Background()

	if _, err := ingestor.IngestShowing(ctx, "rio", scraper.RawShowing{StartTime: time.Now()}); err == nil {
		t.Error("expected error for missing title")
	}
	if _, err := ingestor.IngestShowing(ctx, "rio", scraper.RawShowing{Title: "Film"}); err == nil {
		t.Error("expected error for missing start time")
	}
}

func newTestRunner(t *testing.T, cfg *config.Config) (*Runner, *catalog.Store) {
	t.Helper()
	store := testsupport.MustOpenStore(t, cfg)
	res := resolver.New(store, nil, nil)
	ingestor := NewIngestor(store, res, nil)
	return NewRunner(cfg, store, ingestor, scraper.NewRegistry(), nil), store
}

func seedStaticCinema(t *testing.T, store *catalog.Store, id string, titles ...string) {
	t.Helper()
	start := time.Now().UTC().Add(24 * time.Hour)
	entries := make([]map[string]any, 0, len(titles))
	for i, title := range titles {
		entries = append(entries, map[string]any{
			"title":      title,
			"start_time": start.Add(time.Duration(i) * 2 * time.Hour).Format(time.RFC3339),
		})
	}
	payload, err := json.Marshal(map[string]any{"showings": entries})
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	cinema := &catalog.Cinema{
		ID:            id,
		Name:          id,
		City:          "London",
		ScraperType:   "static",
		ScraperConfig: payload,
	}
	if err := store.UpsertCinema(context.Background(), cinema); err != nil {
		t.Fatalf("seed cinema: %v", err)
	}
}

func TestRunScrapesAllCinemas(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	runner, store := newTestRunner(t, cfg)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		seedStaticCinema(t, store, fmt.Sprintf("cinema-%d", i), "Nosferatu (2024)", "Dracula (1931)")
	}

	summary, err := runner.Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.RunID == "" {
		t.Error("missing run id")
	}
	if summary.Cinemas != 3 {
		t.Errorf("Cinemas = %d, want 3", summary.Cinemas)
	}
	if summary.ShowingsCreated != 6 {
		t.Errorf("ShowingsCreated = %d, want 6", summary.ShowingsCreated)
	}
	if summary.CinemaErrors != 0 || summary.ShowingsFailed != 0 {
		t.Errorf("unexpected failures: %+v", summary)
	}

	// Same programme resolved across three cinemas must share films.
	films, err := store.ListFilms(ctx, false)
	if err != nil {
		t.Fatalf("list films: %v", err)
	}
	if len(films) != 2 {
		t.Errorf("expected 2 films, got %d", len(films))
	}
}

func TestRunIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	runner, store := newTestRunner(t, cfg)
	ctx := context.Background()

	seedStaticCinema(t, store, "rio", "Nosferatu (2024)")

	if _, err := runner.Run(ctx); err != nil {
		t.Fatalf("first run: %v", err)
	}
	summary, err := runner.Run(ctx)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if summary.ShowingsCreated != 0 || summary.ShowingsUpdated != 1 {
		t.Errorf("second run created=%d updated=%d, want 0 created 1 updated",
			summary.ShowingsCreated, summary.ShowingsUpdated)
	}
}

func TestRunFailsFastWhenLocked(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	runner, _ := newTestRunner(t, cfg)

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	lock := flock.New(cfg.ScrapeLockPath())
	locked, err := lock.TryLock()
	if err != nil || !locked {
		t.Fatalf("pre-acquire lock: locked=%v err=%v", locked, err)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	_, err = runner.Run(context.Background())
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected ErrTransient, got %v", err)
	}
}

type blockingScraper struct {
	calls   *atomic.Int32
	started chan<- struct{}
	release <-chan struct{}
}

func (s *blockingScraper) Showings(context.Context, time.Time, time.Time) ([]scraper.RawShowing, error) {
	s.calls.Add(1)
	s.started <- struct{}{}
	<-s.release
	return nil, nil
}

func TestRunStopsSchedulingWhenCancelled(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Scrape.Concurrency = 1
	store := testsupport.MustOpenStore(t, cfg)
	res := resolver.New(store, nil, nil)
	ingestor := NewIngestor(store, res, nil)

	var calls atomic.Int32
	started := make(chan struct{}, 2)
	release := make(chan struct{})
	registry := scraper.NewRegistry()
	registry.Register("blocking", func(*catalog.Cinema, *config.Config) (scraper.Scraper, error) {
		return &blockingScraper{calls: &calls, started: started, release: release}, nil
	})
	runner := NewRunner(cfg, store, ingestor, registry, nil)

	for _, id := range []string{"one", "two"} {
		cinema := &catalog.Cinema{ID: id, Name: id, City: "London", ScraperType: "blocking"}
		if err := store.UpsertCinema(context.Background(), cinema); err != nil {
			t.Fatalf("seed cinema: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		_, err := runner.Run(ctx)
		done <- err
	}()

	<-started
	cancel()
	// The sole worker slot is still held here, so the scheduler must take
	// the cancellation branch before the slot frees up.
	time.Sleep(50 * time.Millisecond)
	close(release)

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("cinemas scraped after cancellation = %d, want 1", got)
	}
}

func TestRunIsolatesBrokenCinema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	runner, store := newTestRunner(t, cfg)
	ctx := context.Background()

	seedStaticCinema(t, store, "good", "Nosferatu (2024)")
	broken := &catalog.Cinema{ID: "broken", Name: "broken", City: "London", ScraperType: "gopher"}
	if err := store.UpsertCinema(ctx, broken); err != nil {
		t.Fatalf("seed broken cinema: %v", err)
	}

	summary, err := runner.Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.CinemaErrors != 1 {
		t.Errorf("CinemaErrors = %d, want 1", summary.CinemaErrors)
	}
	if summary.ShowingsCreated != 1 {
		t.Errorf("ShowingsCreated = %d, want 1", summary.ShowingsCreated)
	}
}
