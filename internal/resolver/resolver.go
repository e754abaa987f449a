package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"cinescout/internal/catalog"
	"cinescout/internal/logging"
	"cinescout/internal/textutil"
	"cinescout/internal/tmdb"
)

// MatchThreshold is the minimum similarity score for accepting a fuzzy or
// metadata match. Lowering it risks merging distinct films, which is a
// correctness violation rather than a quality regression. Never tune this
// per call site.
const MatchThreshold = 0.85

// placeholderID names films whose normalized title produced no usable slug.
const placeholderID = "untitled"

// Resolver orchestrates normalization, alias lookup, fuzzy matching,
// metadata search, and catalogue writes for one raw title at a time. It is
// safe for concurrent use: all shared state lives in the store, which
// exposes conflict-tolerant operations.
type Resolver struct {
	store  *catalog.Store
	tmdb   tmdb.Searcher
	logger *slog.Logger
	caser  cases.Caser
}

// New creates a resolver. The searcher may be nil, in which case resolution
// degrades to fuzzy matching and placeholders.
func New(store *catalog.Store, searcher tmdb.Searcher, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{
		store:  store,
		tmdb:   searcher,
		logger: logger.With(logging.String(logging.FieldComponent, "resolver")),
		caser:  cases.Title(language.English),
	}
}

// Resolve returns the canonical film for a raw listing title. It never
// fails for malformed input; the only error condition is catalogue storage
// failure. A yearHint of 0 means unknown, in which case a trailing year
// parenthetical in the raw title is used when present.
func (r *Resolver) Resolve(ctx context.Context, rawTitle, cinemaID string, yearHint int) (*catalog.Film, error) {
	logger := logging.WithContext(ctx, r.logger)
	normalized := textutil.NormalizeTitle(rawTitle)
	if yearHint == 0 {
		yearHint = textutil.ExtractYear(rawTitle)
	}

	if film, err := r.store.LookupAlias(ctx, normalized); err != nil {
		return nil, fmt.Errorf("alias lookup: %w", err)
	} else if film != nil {
		return film, nil
	}

	if film, err := r.fuzzyMatch(ctx, logger, normalized, cinemaID, yearHint); err != nil {
		return nil, err
	} else if film != nil {
		return film, nil
	}

	if candidate := r.searchMetadata(ctx, logger, normalized, yearHint); candidate != nil {
		film, err := r.store.GetOrCreateFilm(ctx, candidate)
		if err != nil {
			return nil, fmt.Errorf("create film from metadata: %w", err)
		}
		r.recordAlias(ctx, logger, normalized, film.ID, cinemaID)
		logger.Info("created film from metadata",
			logging.String(logging.FieldFilmID, film.ID),
			logging.Int64("tmdb_id", film.TMDBID))
		return film, nil
	}

	film, err := r.store.GetOrCreateFilm(ctx, r.placeholderFilm(normalized, yearHint))
	if err != nil {
		return nil, fmt.Errorf("create placeholder film: %w", err)
	}
	r.recordAlias(ctx, logger, normalized, film.ID, cinemaID)
	logger.Info("created placeholder film",
		logging.String(logging.FieldFilmID, film.ID),
		logging.String("normalized_title", normalized))
	return film, nil
}

func (r *Resolver) fuzzyMatch(ctx context.Context, logger *slog.Logger, normalized, cinemaID string, yearHint int) (*catalog.Film, error) {
	if normalized == "" {
		return nil, nil
	}
	candidates, err := r.store.MatchCandidates(ctx, yearHint)
	if err != nil {
		return nil, fmt.Errorf("load match candidates: %w", err)
	}
	best := bestCandidate(normalized, candidates)
	if best == nil || best.score < MatchThreshold {
		return nil, nil
	}

	film, err := r.store.GetFilm(ctx, best.filmID)
	if err != nil {
		return nil, fmt.Errorf("load fuzzy match: %w", err)
	}
	if film == nil {
		return nil, nil
	}
	r.recordAlias(ctx, logger, normalized, film.ID, cinemaID)
	logger.Debug("fuzzy match accepted",
		logging.String(logging.FieldFilmID, film.ID),
		logging.Float64("score", best.score))
	return film, nil
}

// placeholderFilm builds a film carrying only the normalized title. The
// title stays visible as a deliberately degraded state so operators can
// find and backfill it later.
func (r *Resolver) placeholderFilm(normalized string, yearHint int) *catalog.Film {
	title := normalized
	if title == "" {
		title = "Untitled"
	} else if isShouting(title) {
		title = r.caser.String(strings.ToLower(title))
	}

	return &catalog.Film{ID: filmID(normalized, yearHint), Title: title, Year: yearHint}
}

func (r *Resolver) recordAlias(ctx context.Context, logger *slog.Logger, normalized, filmID, cinemaID string) {
	if normalized == "" {
		return
	}
	// Failure here is non-fatal: the next resolution simply re-derives
	// the same film through the fuzzy or metadata path.
	if err := r.store.RecordAlias(ctx, normalized, filmID, cinemaID); err != nil {
		logger.Warn("record alias failed", logging.Error(err))
	}
}

func isShouting(title string) bool {
	hasLetter := false
	for _, r := range title {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}
