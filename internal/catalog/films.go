package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const filmColumns = "id, title, year, tmdb_id, directors, countries, runtime, overview, created_at"

// GetOrCreateFilm inserts the supplied film and returns the stored row. On a
// uniqueness conflict (another resolution already created the same film, by
// TMDB id or by film id) the existing row is returned instead of an error.
// This is the insert-or-return-existing pattern that makes concurrent
// resolution of the same film by parallel scrape workers safe. A
// metadata-backed film colliding with a placeholder that shares its id
// backfills the placeholder rather than discarding the metadata.
func (s *Store) GetOrCreateFilm(ctx context.Context, film *Film) (*Film, error) {
	if film == nil || film.ID == "" {
		return nil, errors.New("film id required")
	}

	directors, err := nullableJSON(film.Directors)
	if err != nil {
		return nil, fmt.Errorf("encode directors: %w", err)
	}
	countries, err := nullableJSON(film.Countries)
	if err != nil {
		return nil, fmt.Errorf("encode countries: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO films (id, title, year, tmdb_id, directors, countries, runtime, overview, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT DO NOTHING`,
		film.ID,
		film.Title,
		nullableInt(film.Year),
		nullableInt64(film.TMDBID),
		directors,
		countries,
		nullableInt(film.Runtime),
		nullableString(film.Overview),
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert film: %w", err)
	}

	if film.TMDBID != 0 {
		if existing, err := s.findFilmByTMDBID(ctx, film.TMDBID); err != nil {
			return nil, err
		} else if existing != nil {
			return existing, nil
		}
	}

	existing, err := s.GetFilm(ctx, film.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("film %q vanished after insert", film.ID)
	}
	if film.TMDBID != 0 && existing.Placeholder() {
		return s.backfillFilm(ctx, existing.ID, film, directors, countries)
	}
	return existing, nil
}

// backfillFilm promotes a placeholder row to a metadata-backed one when a
// later resolution of the same film id arrives with external metadata. The
// guard on tmdb_id keeps a concurrent backfill from clobbering one that won.
func (s *Store) backfillFilm(ctx context.Context, id string, film *Film, directors, countries any) (*Film, error) {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE films
         SET title = ?, year = ?, tmdb_id = ?, directors = ?, countries = ?,
             runtime = ?, overview = ?
         WHERE id = ? AND tmdb_id IS NULL`,
		film.Title,
		nullableInt(film.Year),
		film.TMDBID,
		directors,
		countries,
		nullableInt(film.Runtime),
		nullableString(film.Overview),
		id,
	)
	if err != nil {
		// A unique violation means another row already owns this TMDB id.
		if owner, lookupErr := s.findFilmByTMDBID(ctx, film.TMDBID); lookupErr == nil && owner != nil {
			return owner, nil
		}
		return nil, fmt.Errorf("backfill film: %w", err)
	}

	refreshed, err := s.GetFilm(ctx, id)
	if err != nil {
		return nil, err
	}
	if refreshed == nil {
		return nil, fmt.Errorf("film %q vanished after backfill", id)
	}
	return refreshed, nil
}

// GetFilm fetches a film by identifier. Returns nil when absent.
func (s *Store) GetFilm(ctx context.Context, id string) (*Film, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+filmColumns+` FROM films WHERE id = ?`, id)
	film, err := scanFilm(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get film: %w", err)
	}
	return film, nil
}

func (s *Store) findFilmByTMDBID(ctx context.Context, tmdbID int64) (*Film, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+filmColumns+` FROM films WHERE tmdb_id = ?`, tmdbID)
	film, err := scanFilm(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find film by tmdb id: %w", err)
	}
	return film, nil
}

// ListFilms returns all films ordered by creation time. When placeholdersOnly
// is set, only films without external metadata are returned so operators can
// find candidates for backfill.
func (s *Store) ListFilms(ctx context.Context, placeholdersOnly bool) ([]*Film, error) {
	query := `SELECT ` + filmColumns + ` FROM films`
	if placeholdersOnly {
		query += ` WHERE tmdb_id IS NULL`
	}
	query += ` ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list films: %w", err)
	}
	defer rows.Close()

	var films []*Film
	for rows.Next() {
		film, err := scanFilm(rows)
		if err != nil {
			return nil, err
		}
		films = append(films, film)
	}
	return films, rows.Err()
}

func scanFilm(scanner interface{ Scan(dest ...any) error }) (*Film, error) {
	var (
		id         string
		title      string
		year       sql.NullInt64
		tmdbID     sql.NullInt64
		directors  sql.NullString
		countries  sql.NullString
		runtime    sql.NullInt64
		overview   sql.NullString
		createdRaw sql.NullString
	)
	if err := scanner.Scan(&id, &title, &year, &tmdbID, &directors, &countries, &runtime, &overview, &createdRaw); err != nil {
		return nil, err
	}

	film := &Film{
		ID:        id,
		Title:     title,
		Year:      int(year.Int64),
		TMDBID:    tmdbID.Int64,
		Directors: decodeJSONList(directors),
		Countries: decodeJSONList(countries),
		Runtime:   int(runtime.Int64),
		Overview:  overview.String,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		film.CreatedAt = created
	}
	return film, nil
}
