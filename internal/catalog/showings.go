package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Outcome reports what an upsert did.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
)

// UpsertShowing writes a showing keyed on (cinema, film, start time) in one
// atomic statement. A new triple inserts every field; an existing triple has
// only its mutable fields overwritten (last write wins). created_at is set
// once at insert and never touched by the conflict update, so a returned
// created_at equal to this call's timestamp means the row is new.
func (s *Store) UpsertShowing(ctx context.Context, showing *Showing) (Outcome, error) {
	if showing == nil {
		return "", errors.New("showing is nil")
	}
	if showing.CinemaID == "" || showing.FilmID == "" || showing.StartTime.IsZero() {
		return "", errors.New("showing requires cinema id, film id, and start time")
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	start := showing.StartTime.UTC().Format(time.RFC3339Nano)

	var createdAt string
	err := s.db.QueryRowContext(
		ctx,
		`INSERT INTO showings (
            cinema_id, film_id, start_time, end_time, screen_name, format_tag,
            booking_url, price, raw_title, provenance, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (cinema_id, film_id, start_time) DO UPDATE SET
            end_time = excluded.end_time,
            screen_name = excluded.screen_name,
            format_tag = excluded.format_tag,
            booking_url = excluded.booking_url,
            price = excluded.price,
            raw_title = excluded.raw_title,
            provenance = excluded.provenance,
            updated_at = excluded.updated_at
        RETURNING created_at`,
		showing.CinemaID,
		showing.FilmID,
		start,
		nullableTime(showing.EndTime),
		nullableString(showing.ScreenName),
		nullableString(showing.FormatTag),
		nullableString(showing.BookingURL),
		nullableFloat(showing.Price),
		nullableString(showing.RawTitle),
		nullableString(showing.Provenance),
		now,
		now,
	).Scan(&createdAt)
	if err != nil {
		return "", fmt.Errorf("upsert showing: %w", err)
	}
	if createdAt == now {
		return OutcomeCreated, nil
	}
	return OutcomeUpdated, nil
}

// ShowingFilter narrows ListShowings output.
type ShowingFilter struct {
	CinemaID string
	Day      time.Time // matches showings starting within the UTC day
}

// ListShowings returns showings joined to films and cinemas, ordered by
// start time.
func (s *Store) ListShowings(ctx context.Context, filter ShowingFilter) ([]*ShowingView, error) {
	query := `
        SELECT sh.id, sh.cinema_id, sh.film_id, sh.start_time, sh.end_time,
               sh.screen_name, sh.format_tag, sh.booking_url, sh.price,
               sh.raw_title, sh.provenance, sh.created_at, sh.updated_at,
               f.title, f.year, f.tmdb_id, c.name
        FROM showings sh
        JOIN films f ON f.id = sh.film_id
        JOIN cinemas c ON c.id = sh.cinema_id`

	var clauses []string
	var args []any
	if filter.CinemaID != "" {
		clauses = append(clauses, "sh.cinema_id = ?")
		args = append(args, filter.CinemaID)
	}
	if !filter.Day.IsZero() {
		dayStart := filter.Day.UTC().Truncate(24 * time.Hour)
		dayEnd := dayStart.Add(24 * time.Hour)
		clauses = append(clauses, "sh.start_time >= ? AND sh.start_time < ?")
		args = append(args, dayStart.Format(time.RFC3339Nano), dayEnd.Format(time.RFC3339Nano))
	}
	for i, clause := range clauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	query += " ORDER BY sh.start_time, c.name"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list showings: %w", err)
	}
	defer rows.Close()

	var views []*ShowingView
	for rows.Next() {
		view, err := scanShowingView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, rows.Err()
}

func scanShowingView(scanner interface{ Scan(dest ...any) error }) (*ShowingView, error) {
	var (
		id         int64
		cinemaID   string
		filmID     string
		startRaw   string
		endRaw     sql.NullString
		screenName sql.NullString
		formatTag  sql.NullString
		bookingURL sql.NullString
		price      sql.NullFloat64
		rawTitle   sql.NullString
		provenance sql.NullString
		createdRaw sql.NullString
		updatedRaw sql.NullString
		filmTitle  string
		filmYear   sql.NullInt64
		tmdbID     sql.NullInt64
		cinemaName string
	)
	if err := scanner.Scan(
		&id, &cinemaID, &filmID, &startRaw, &endRaw, &screenName, &formatTag,
		&bookingURL, &price, &rawTitle, &provenance, &createdRaw, &updatedRaw,
		&filmTitle, &filmYear, &tmdbID, &cinemaName,
	); err != nil {
		return nil, err
	}

	view := &ShowingView{
		Showing: Showing{
			ID:         id,
			CinemaID:   cinemaID,
			FilmID:     filmID,
			ScreenName: screenName.String,
			FormatTag:  formatTag.String,
			BookingURL: bookingURL.String,
			Price:      price.Float64,
			RawTitle:   rawTitle.String,
			Provenance: provenance.String,
		},
		FilmTitle:   filmTitle,
		FilmYear:    int(filmYear.Int64),
		Placeholder: !tmdbID.Valid,
		CinemaName:  cinemaName,
	}
	if start, err := parseTimeString(startRaw); err == nil {
		view.StartTime = start
	}
	if endRaw.Valid {
		if end, err := parseTimeString(endRaw.String); err == nil {
			view.EndTime = end
		}
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		view.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		view.UpdatedAt = updated
	}
	return view, nil
}
