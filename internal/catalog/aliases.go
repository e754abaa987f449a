package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// LookupAlias resolves a normalized title through the alias cache. When two
// films carry the same alias text, the earliest-recorded mapping wins.
// Returns nil on a cache miss.
func (s *Store) LookupAlias(ctx context.Context, normalizedTitle string) (*Film, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+prefixedFilmColumns+` FROM films f
         JOIN film_aliases a ON a.film_id = f.id
         WHERE a.normalized_title = ?
         ORDER BY a.id LIMIT 1`,
		normalizedTitle,
	)
	film, err := scanFilm(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup alias: %w", err)
	}
	return film, nil
}

// RecordAlias stores a normalized title to film mapping. Duplicate writes
// from racing resolutions are harmless: the insert is a no-op when the pair
// already exists.
func (s *Store) RecordAlias(ctx context.Context, normalizedTitle, filmID, sourceCinema string) error {
	if normalizedTitle == "" || filmID == "" {
		return errors.New("alias requires normalized title and film id")
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO film_aliases (normalized_title, film_id, source_cinema, created_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT (normalized_title, film_id) DO NOTHING`,
		normalizedTitle,
		filmID,
		nullableString(sourceCinema),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record alias: %w", err)
	}
	return nil
}

// MatchCandidate is a film plus the alias or title text to score against.
type MatchCandidate struct {
	FilmID    string
	Text      string
	Year      int
	TMDBID    int64
	CreatedAt time.Time
}

// MatchCandidates returns every film title and recorded alias as scoring
// candidates for the fuzzy matcher, optionally pre-filtered by release-year
// proximity to bound scan cost.
func (s *Store) MatchCandidates(ctx context.Context, yearHint int) ([]MatchCandidate, error) {
	query := `
        SELECT f.id, f.title, f.year, f.tmdb_id, f.created_at FROM films f
        UNION ALL
        SELECT f.id, a.normalized_title, f.year, f.tmdb_id, f.created_at
        FROM film_aliases a JOIN films f ON f.id = a.film_id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load match candidates: %w", err)
	}
	defer rows.Close()

	var candidates []MatchCandidate
	for rows.Next() {
		var (
			filmID     string
			text       string
			year       sql.NullInt64
			tmdbID     sql.NullInt64
			createdRaw sql.NullString
		)
		if err := rows.Scan(&filmID, &text, &year, &tmdbID, &createdRaw); err != nil {
			return nil, err
		}
		candidate := MatchCandidate{
			FilmID: filmID,
			Text:   text,
			Year:   int(year.Int64),
			TMDBID: tmdbID.Int64,
		}
		if created, err := parseTimeString(createdRaw.String); err == nil {
			candidate.CreatedAt = created
		}
		if yearHint > 0 && candidate.Year > 0 && absInt(candidate.Year-yearHint) > 1 {
			continue
		}
		candidates = append(candidates, candidate)
	}
	return candidates, rows.Err()
}

const prefixedFilmColumns = "f.id, f.title, f.year, f.tmdb_id, f.directors, f.countries, f.runtime, f.overview, f.created_at"

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
