package server

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/valpere/transcheck/internal"
	"github.com/valpere/transcheck/internal/input"
	"github.com/valpere/transcheck/internal/report"
)

// maxBodyBytes caps a validation request body.
const maxBodyBytes = 4 << 20

// RunIDHeader carries the ID of a persisted run.
const RunIDHeader = "X-Run-ID"

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"policy":  s.validator.Policy().Name,
		"history": s.store != nil,
	})
}

// validate accepts a JSON list of lists of phrases and returns the report.
func (s *Server) validate(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read request body")
	}
	if len(body) > maxBodyBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "request body too large")
	}

	batch, err := input.Parse(body)
	if err != nil {
		return err
	}
	if s.cfg.StrictSize {
		if err := input.EnforceSizes(batch, s.cfg.MinGroupSize, s.cfg.MaxGroupSize); err != nil {
			return err
		}
	}

	rep := report.Build(s.validator, batch)

	if save, _ := strconv.ParseBool(c.QueryParam("save")); save && s.store != nil {
		run := internal.ValidationRun{
			ID:        uuid.New().String(),
			Source:    "api",
			Policy:    s.validator.Policy().Name,
			Timestamp: time.Now(),
		}
		if err := s.store.SaveRun(c.Request().Context(), run, rep); err != nil {
			slog.Warn("failed to save run", "error", err)
		} else {
			c.Response().Header().Set(RunIDHeader, run.ID)
		}
	}

	return c.JSON(http.StatusOK, rep)
}

type runJSON struct {
	ID                    string    `json:"id"`
	Source                string    `json:"source"`
	Policy                string    `json:"policy"`
	TotalOutputs          int       `json:"total_outputs"`
	OutputsWithViolations int       `json:"outputs_with_violations"`
	CreatedAt             time.Time `json:"created_at"`
}

func (s *Server) listRuns(c echo.Context) error {
	if s.store == nil {
		return echo.NewHTTPError(http.StatusNotFound, "history is disabled")
	}

	limit := 50
	if q := c.QueryParam("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
		limit = n
	}

	entries, err := s.store.ListRuns(c.Request().Context(), limit)
	if err != nil {
		return err
	}

	runs := make([]runJSON, 0, len(entries))
	for _, e := range entries {
		runs = append(runs, runJSON{
			ID:                    e.ID,
			Source:                e.Source,
			Policy:                e.Policy,
			TotalOutputs:          e.TotalOutputs,
			OutputsWithViolations: e.OutputsWithViolations,
			CreatedAt:             e.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, runs)
}

func (s *Server) getRun(c echo.Context) error {
	if s.store == nil {
		return echo.NewHTTPError(http.StatusNotFound, "history is disabled")
	}

	_, rep, err := s.store.GetRun(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rep)
}

func (s *Server) deleteRun(c echo.Context) error {
	if s.store == nil {
		return echo.NewHTTPError(http.StatusNotFound, "history is disabled")
	}

	if err := s.store.DeleteRun(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) stats(c echo.Context) error {
	if s.store == nil {
		return echo.NewHTTPError(http.StatusNotFound, "history is disabled")
	}

	ctx := c.Request().Context()
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return err
	}
	words, err := s.store.TopWords(ctx, 10)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"stats":     stats,
		"top_words": words,
	})
}
