package catalog

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// Film is a canonical catalogue record. Exactly one Film represents one
// real-world work. Zero values mean "unknown": Year 0, TMDBID 0, Runtime 0.
type Film struct {
	ID        string
	Title     string
	Year      int
	TMDBID    int64
	Directors []string
	Countries []string
	Runtime   int
	Overview  string
	CreatedAt time.Time
}

// Placeholder reports whether the film was created without external metadata.
func (f *Film) Placeholder() bool {
	return f != nil && f.TMDBID == 0
}

// Alias maps a normalized title to the film it refers to.
type Alias struct {
	NormalizedTitle string
	FilmID          string
	SourceCinema    string
	CreatedAt       time.Time
}

// Cinema is a venue record. The catalogue of cinemas is managed outside the
// resolution engine; the store only reads and seeds it.
type Cinema struct {
	ID            string
	Name          string
	City          string
	Website       string
	ScraperType   string
	ScraperConfig json.RawMessage
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Showing is a persisted screening. The triple (CinemaID, FilmID, StartTime)
// is unique; re-scraping the same screening updates the mutable fields.
type Showing struct {
	ID         int64
	CinemaID   string
	FilmID     string
	StartTime  time.Time
	EndTime    time.Time
	ScreenName string
	FormatTag  string
	BookingURL string
	Price      float64
	RawTitle   string
	Provenance string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ShowingView is a showing joined to its film and cinema for display.
type ShowingView struct {
	Showing
	FilmTitle   string
	FilmYear    int
	Placeholder bool
	CinemaName  string
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableInt(value int) any {
	if value == 0 {
		return nil
	}
	return value
}

func nullableInt64(value int64) any {
	if value == 0 {
		return nil
	}
	return value
}

func nullableFloat(value float64) any {
	if value == 0 {
		return nil
	}
	return value
}

func nullableTime(value time.Time) any {
	if value.IsZero() {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func nullableJSON(values []string) (any, error) {
	if len(values) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func decodeJSONList(raw sql.NullString) []string {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw.String), &values); err != nil {
		return nil
	}
	return values
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
