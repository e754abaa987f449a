package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const cinemaColumns = "id, name, city, website, scraper_type, scraper_config, created_at, updated_at"

// UpsertCinema inserts or refreshes a venue record. Used by the seed import;
// the resolution engine itself only reads cinemas.
func (s *Store) UpsertCinema(ctx context.Context, cinema *Cinema) error {
	if cinema == nil || cinema.ID == "" {
		return errors.New("cinema id required")
	}
	if cinema.ScraperType == "" {
		return errors.New("cinema scraper type required")
	}

	var scraperConfig any
	if len(cinema.ScraperConfig) > 0 {
		if !json.Valid(cinema.ScraperConfig) {
			return fmt.Errorf("cinema %q scraper config is not valid JSON", cinema.ID)
		}
		scraperConfig = string(cinema.ScraperConfig)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO cinemas (id, name, city, website, scraper_type, scraper_config, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT (id) DO UPDATE SET
             name = excluded.name,
             city = excluded.city,
             website = excluded.website,
             scraper_type = excluded.scraper_type,
             scraper_config = excluded.scraper_config,
             updated_at = excluded.updated_at`,
		cinema.ID,
		cinema.Name,
		cinema.City,
		nullableString(cinema.Website),
		cinema.ScraperType,
		scraperConfig,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("upsert cinema: %w", err)
	}
	return nil
}

// GetCinema fetches a venue by identifier. Returns nil when absent.
func (s *Store) GetCinema(ctx context.Context, id string) (*Cinema, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+cinemaColumns+` FROM cinemas WHERE id = ?`, id)
	cinema, err := scanCinema(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cinema: %w", err)
	}
	return cinema, nil
}

// ListCinemas returns all venues ordered by name.
func (s *Store) ListCinemas(ctx context.Context) ([]*Cinema, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+cinemaColumns+` FROM cinemas ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list cinemas: %w", err)
	}
	defer rows.Close()

	var cinemas []*Cinema
	for rows.Next() {
		cinema, err := scanCinema(rows)
		if err != nil {
			return nil, err
		}
		cinemas = append(cinemas, cinema)
	}
	return cinemas, rows.Err()
}

func scanCinema(scanner interface{ Scan(dest ...any) error }) (*Cinema, error) {
	var (
		id            string
		name          string
		city          string
		website       sql.NullString
		scraperType   string
		scraperConfig sql.NullString
		createdRaw    sql.NullString
		updatedRaw    sql.NullString
	)
	if err := scanner.Scan(&id, &name, &city, &website, &scraperType, &scraperConfig, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}

	cinema := &Cinema{
		ID:          id,
		Name:        name,
		City:        city,
		Website:     website.String,
		ScraperType: scraperType,
	}
	if scraperConfig.Valid && scraperConfig.String != "" {
		cinema.ScraperConfig = json.RawMessage(scraperConfig.String)
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		cinema.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		cinema.UpdatedAt = updated
	}
	return cinema, nil
}
