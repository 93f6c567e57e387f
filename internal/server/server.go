// Package server exposes batch validation and run history over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/valpere/transcheck/internal/store"
	"github.com/valpere/transcheck/internal/validator"
)

const DefaultShutdownTimeout = 10 * time.Second

type Config struct {
	Addr            string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
	// MinGroupSize and MaxGroupSize bound group sizes when StrictSize is set.
	MinGroupSize int
	MaxGroupSize int
	StrictSize   bool
}

type Server struct {
	Echo *echo.Echo

	cfg       Config
	validator *validator.Validator
	store     *store.Store
}

// New builds the server. st may be nil, in which case history endpoints
// answer 404 and ?save=true is ignored.
func New(v *validator.Validator, st *store.Store, cfg Config) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler()

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}

	s := &Server{
		Echo:      e,
		cfg:       cfg,
		validator: v,
		store:     st,
	}

	s.setupMiddlewares()
	s.routes()

	return s
}

func (s *Server) setupMiddlewares() {
	s.Echo.Use(requestLogger())
	s.Echo.Use(middleware.Recover())
	if len(s.cfg.CORSOrigins) > 0 {
		s.Echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: s.cfg.CORSOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		}))
	}
}

func (s *Server) routes() {
	s.Echo.GET("/healthz", s.health)

	v1 := s.Echo.Group("/v1")
	v1.POST("/validate", s.validate)
	v1.GET("/runs", s.listRuns)
	v1.GET("/runs/:id", s.getRun)
	v1.DELETE("/runs/:id", s.deleteRun)
	v1.GET("/stats", s.stats)
}

// Start serves until ctx is cancelled or an interrupt arrives, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", s.cfg.Addr)
		if err := s.Echo.Start(s.cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	slog.Info("shutting down server")
	return s.Echo.Shutdown(shutdownCtx)
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogLatency:  true,
		LogURI:      true,
		LogMethod:   true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error == nil {
				slog.LogAttrs(context.Background(), slog.LevelInfo, "request",
					slog.String("method", v.Method),
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
					slog.Duration("latency", v.Latency),
				)
			} else {
				slog.LogAttrs(context.Background(), slog.LevelError, "request error",
					slog.String("method", v.Method),
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
					slog.String("err", v.Error.Error()),
				)
			}
			return nil
		},
	})
}
