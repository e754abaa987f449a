// Package api serves the aggregated listings over HTTP. The API is
// read-only: scraping and resolution happen out of band, so requests never
// trigger network calls to listing sources or the metadata provider.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"cinescout/internal/catalog"
	"cinescout/internal/config"
	"cinescout/internal/logging"
)

// Server wraps the echo instance with the catalogue it reads from.
type Server struct {
	cfg    *config.Config
	store  *catalog.Store
	logger *slog.Logger
	echo   *echo.Echo
}

// New builds the HTTP server and registers all routes.
func New(cfg *config.Config, store *catalog.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		cfg:    cfg,
		store:  store,
		logger: logger.With(logging.String(logging.FieldComponent, "api")),
		echo:   echo.New(),
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(middleware.Recover())
	s.echo.Use(s.requestLogger)

	s.echo.GET("/api/health", s.health)
	s.echo.GET("/api/films", s.listFilms)
	s.echo.GET("/api/cinemas", s.listCinemas)
	s.echo.GET("/api/showings", s.listShowings)
	return s
}

// Start serves until the context is cancelled, then drains in-flight
// requests.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.echo.Start(s.cfg.Paths.APIBind); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.logger.Info("api listening", logging.String("bind", s.cfg.Paths.APIBind))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		s.logger.Info("request",
			logging.String("method", c.Request().Method),
			logging.String("path", c.Request().URL.Path),
			logging.Int("status", c.Response().Status),
			logging.Duration("latency", time.Since(start)))
		return err
	}
}
