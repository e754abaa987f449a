package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"cinescout/internal/catalog"
	"cinescout/internal/config"
	"cinescout/internal/logging"
	"cinescout/internal/scraper"
	"cinescout/internal/services"
)

// Summary reports the result of one scrape run.
type Summary struct {
	RunID           string
	Cinemas         int
	CinemaErrors    int
	ShowingsCreated int
	ShowingsUpdated int
	ShowingsFailed  int
	Duration        time.Duration
}

// Runner executes scrape runs: every configured cinema is scraped inside a
// bounded worker pool, and each showing is resolved and stored
// independently so one bad listing never sinks a run.
type Runner struct {
	cfg      *config.Config
	store    *catalog.Store
	ingestor *Ingestor
	registry *scraper.Registry
	logger   *slog.Logger
}

// NewRunner wires a scrape runner.
func NewRunner(cfg *config.Config, store *catalog.Store, ingestor *Ingestor, registry *scraper.Registry, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		cfg:      cfg,
		store:    store,
		ingestor: ingestor,
		registry: registry,
		logger:   logger.With(logging.String(logging.FieldComponent, "scrape-runner")),
	}
}

// Run scrapes all cinemas. Only one run may execute at a time per data
// directory; a second invocation fails fast instead of queueing. Cancelling
// the context stops scheduling further cinemas, waits for in-flight workers,
// and returns the context error alongside the partial summary.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	if err := r.cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	lock := flock.New(r.cfg.ScrapeLockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire scrape lock: %w", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrTransient, "ingest", "run",
			"another scrape run is already in progress", nil)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, r.logger)

	cinemas, err := r.store.ListCinemas(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cinemas: %w", err)
	}

	from, to := r.window()
	logger.Info("scrape run starting",
		logging.Int("cinemas", len(cinemas)),
		logging.String("from", from.Format(time.RFC3339)),
		logging.String("to", to.Format(time.RFC3339)))

	started := time.Now()
	summary := &Summary{RunID: runID, Cinemas: len(cinemas)}

	concurrency := r.cfg.Scrape.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	var (
		wg  sync.WaitGroup
		sem = make(chan struct{}, concurrency)
		mu  sync.Mutex
	)
scheduling:
	for _, cinema := range cinemas {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			break scheduling
		}
		wg.Add(1)
		go func(cinema *catalog.Cinema) {
			defer wg.Done()
			defer func() { <-sem }()

			stats, err := r.scrapeCinema(ctx, cinema, from, to)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.CinemaErrors++
				return
			}
			summary.ShowingsCreated += stats.created
			summary.ShowingsUpdated += stats.updated
			summary.ShowingsFailed += stats.failed
		}(cinema)
	}
	wg.Wait()

	summary.Duration = time.Since(started)
	if err := ctx.Err(); err != nil {
		logger.Warn("scrape run cancelled",
			logging.Int("created", summary.ShowingsCreated),
			logging.Int("updated", summary.ShowingsUpdated),
			logging.Duration("duration", summary.Duration))
		return summary, err
	}
	logger.Info("scrape run finished",
		logging.Int("created", summary.ShowingsCreated),
		logging.Int("updated", summary.ShowingsUpdated),
		logging.Int("failed", summary.ShowingsFailed),
		logging.Int("cinema_errors", summary.CinemaErrors),
		logging.Duration("duration", summary.Duration))
	return summary, nil
}

type cinemaStats struct {
	created int
	updated int
	failed  int
}

func (r *Runner) scrapeCinema(ctx context.Context, cinema *catalog.Cinema, from, to time.Time) (cinemaStats, error) {
	ctx = services.WithCinemaID(ctx, cinema.ID)
	logger := logging.WithContext(ctx, r.logger)

	var stats cinemaStats
	source, err := r.registry.For(cinema, r.cfg)
	if err != nil {
		logger.Error("scraper setup failed", logging.Error(err))
		return stats, err
	}
	showings, err := source.Showings(ctx, from, to)
	if err != nil {
		logger.Error("scrape failed", logging.Error(err))
		return stats, err
	}

	for _, raw := range showings {
		outcomes, err := r.ingestor.IngestShowing(ctx, cinema.ID, raw)
		for _, outcome := range outcomes {
			switch outcome {
			case catalog.OutcomeCreated:
				stats.created++
			case catalog.OutcomeUpdated:
				stats.updated++
			}
		}
		if err != nil {
			stats.failed++
			logger.Warn("showing ingest failed",
				logging.String("raw_title", raw.Title),
				logging.Error(err))
		}
	}
	logger.Info("cinema scraped",
		logging.Int("showings", len(showings)),
		logging.Int("created", stats.created),
		logging.Int("updated", stats.updated),
		logging.Int("failed", stats.failed))
	return stats, nil
}

// window returns the scrape horizon: the start of today in the configured
// timezone through days_ahead days later.
func (r *Runner) window() (time.Time, time.Time) {
	loc := r.cfg.Location()
	now := time.Now().In(loc)
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	days := r.cfg.Scrape.DaysAhead
	if days < 1 {
		days = 1
	}
	return from, from.AddDate(0, 0, days)
}
