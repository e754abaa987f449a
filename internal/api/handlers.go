package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"cinescout/internal/catalog"
	"cinescout/internal/logging"
)

// filmView is a film in API responses. Placeholder films are served like any
// other so degraded resolution stays visible to clients.
type filmView struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Year        int      `json:"year,omitempty"`
	TMDBID      int64    `json:"tmdb_id,omitempty"`
	Directors   []string `json:"directors,omitempty"`
	Countries   []string `json:"countries,omitempty"`
	Runtime     int      `json:"runtime,omitempty"`
	Overview    string   `json:"overview,omitempty"`
	Placeholder bool     `json:"placeholder"`
}

type cinemaView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Website string `json:"website,omitempty"`
}

type showingView struct {
	Film        string    `json:"film"`
	FilmID      string    `json:"film_id"`
	Year        int       `json:"year,omitempty"`
	Placeholder bool      `json:"placeholder"`
	Cinema      string    `json:"cinema"`
	CinemaID    string    `json:"cinema_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time,omitzero"`
	ScreenName  string    `json:"screen_name,omitempty"`
	FormatTag   string    `json:"format_tag,omitempty"`
	BookingURL  string    `json:"booking_url,omitempty"`
	Price       float64   `json:"price,omitempty"`
}

func (s *Server) health(c echo.Context) error {
	if err := s.store.Ping(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "degraded"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func (s *Server) listFilms(c echo.Context) error {
	placeholdersOnly := c.QueryParam("placeholders") == "true"
	films, err := s.store.ListFilms(c.Request().Context(), placeholdersOnly)
	if err != nil {
		s.logger.Error("list films failed", logging.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "catalogue unavailable"})
	}

	items := make([]filmView, 0, len(films))
	for _, film := range films {
		items = append(items, filmView{
			ID:          film.ID,
			Title:       film.Title,
			Year:        film.Year,
			TMDBID:      film.TMDBID,
			Directors:   film.Directors,
			Countries:   film.Countries,
			Runtime:     film.Runtime,
			Overview:    film.Overview,
			Placeholder: film.Placeholder(),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

func (s *Server) listCinemas(c echo.Context) error {
	cinemas, err := s.store.ListCinemas(c.Request().Context())
	if err != nil {
		s.logger.Error("list cinemas failed", logging.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "catalogue unavailable"})
	}

	items := make([]cinemaView, 0, len(cinemas))
	for _, cinema := range cinemas {
		items = append(items, cinemaView{
			ID:      cinema.ID,
			Name:    cinema.Name,
			City:    cinema.City,
			Website: cinema.Website,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

func (s *Server) listShowings(c echo.Context) error {
	filter := catalog.ShowingFilter{CinemaID: c.QueryParam("cinema")}
	if date := c.QueryParam("date"); date != "" {
		day, err := time.ParseInLocation("2006-01-02", date, time.UTC)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
		}
		filter.Day = day
	}

	views, err := s.store.ListShowings(c.Request().Context(), filter)
	if err != nil {
		s.logger.Error("list showings failed", logging.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "catalogue unavailable"})
	}

	items := make([]showingView, 0, len(views))
	for _, view := range views {
		items = append(items, showingView{
			Film:        view.FilmTitle,
			FilmID:      view.FilmID,
			Year:        view.FilmYear,
			Placeholder: view.Placeholder,
			Cinema:      view.CinemaName,
			CinemaID:    view.CinemaID,
			StartTime:   view.StartTime,
			EndTime:     view.EndTime,
			ScreenName:  view.ScreenName,
			FormatTag:   view.FormatTag,
			BookingURL:  view.BookingURL,
			Price:       view.Price,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
