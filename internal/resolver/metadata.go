package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"cinescout/internal/catalog"
	"cinescout/internal/logging"
	"cinescout/internal/textutil"
	"cinescout/internal/tmdb"
)

// confidenceMargin is how far the best metadata result must outscore the
// runner-up before it is accepted without an exact title match.
const confidenceMargin = 0.1

// searchMetadata asks the external provider for a confident match and builds
// a fully-populated film from it. Returns nil when the provider is
// unavailable, returns nothing usable, or the results are too ambiguous to
// trust; callers fall through to placeholder creation.
func (r *Resolver) searchMetadata(ctx context.Context, logger *slog.Logger, normalized string, yearHint int) *catalog.Film {
	if r.tmdb == nil || normalized == "" {
		return nil
	}

	resp, err := r.tmdb.SearchMovie(ctx, normalized, tmdb.SearchOptions{Year: yearHint})
	if err != nil {
		logger.Warn("metadata search failed, degrading to placeholder",
			logging.String("normalized_title", normalized),
			logging.Error(err))
		return nil
	}
	result := confidentResult(normalized, resp.Results)
	if result == nil {
		logger.Debug("no confident metadata match",
			logging.String("normalized_title", normalized),
			logging.Int("result_count", len(resp.Results)))
		return nil
	}

	details, err := r.tmdb.GetMovieDetails(ctx, result.ID)
	if err != nil {
		logger.Warn("metadata details fetch failed, using search result only",
			logging.Int64("tmdb_id", result.ID),
			logging.Error(err))
		return filmFromResult(*result)
	}
	return filmFromDetails(details)
}

// confidentResult picks a search result only when the evidence is strong: an
// exact normalized title match, a lone result above the similarity
// threshold, or a clear winner above the threshold with daylight between it
// and the runner-up. Ambiguity yields nil so a placeholder is created
// instead of a possibly wrong merge.
func confidentResult(normalized string, results []tmdb.Result) *tmdb.Result {
	if len(results) == 0 {
		return nil
	}

	for i := range results {
		if strings.EqualFold(textutil.NormalizeTitle(results[i].Title), normalized) {
			return &results[i]
		}
	}

	type scored struct {
		index int
		score float64
	}
	var first, second scored
	first.index, second.index = -1, -1
	for i := range results {
		score := textutil.Score(normalized, textutil.NormalizeTitle(results[i].Title))
		if first.index == -1 || score > first.score {
			second = first
			first = scored{index: i, score: score}
		} else if second.index == -1 || score > second.score {
			second = scored{index: i, score: score}
		}
	}
	if first.index == -1 || first.score < MatchThreshold {
		return nil
	}
	if len(results) == 1 {
		return &results[first.index]
	}
	if first.score-second.score >= confidenceMargin {
		return &results[first.index]
	}
	return nil
}

func filmFromResult(result tmdb.Result) *catalog.Film {
	return &catalog.Film{
		ID:       filmID(result.Title, result.Year()),
		Title:    result.Title,
		Year:     result.Year(),
		TMDBID:   result.ID,
		Overview: result.Overview,
	}
}

func filmFromDetails(details *tmdb.Details) *catalog.Film {
	film := filmFromResult(details.Result)
	film.Directors = details.Directors()
	film.Countries = details.Countries()
	film.Runtime = details.Runtime
	return film
}

func filmID(title string, year int) string {
	slug := textutil.Slugify(title)
	if slug == "" {
		slug = placeholderID
	}
	if year > 0 {
		return fmt.Sprintf("%s-%d", slug, year)
	}
	return slug
}
