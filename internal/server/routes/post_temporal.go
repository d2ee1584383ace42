package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/linkscope/backend/internal/server/middleware"
	"github.com/linkscope/backend/pkg/logger"
	"github.com/linkscope/backend/pkg/store"
	"github.com/linkscope/backend/pkg/temporal"

	"github.com/labstack/echo/v4"
)

// TemporalSnapshotsHandler slices the stored graph into time snapshots
func TemporalSnapshotsHandler(c echo.Context) error {
	type snapshotsBody struct {
		ProjectID        int64     `param:"id" validate:"required,numeric"`
		Start            time.Time `json:"start" validate:"required"`
		End              time.Time `json:"end" validate:"required"`
		IntervalDays     int       `json:"interval_days"`
		Cumulative       bool      `json:"cumulative"`
		MaxSnapshots     int       `json:"max_snapshots"`
		IncludeEvolution bool      `json:"include_evolution"`
	}

	type snapshotsResponse struct {
		Message   string                     `json:"message"`
		Snapshots []temporal.Snapshot        `json:"snapshots,omitempty"`
		Evolution *temporal.EvolutionMetrics `json:"evolution,omitempty"`
	}

	data := new(snapshotsBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, snapshotsResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, snapshotsResponse{Message: "Invalid request body"})
	}

	ctx := c.Request().Context()
	engine := temporal.NewEngine(temporal.NewEngineParams{
		Store: c.(*middleware.AppContext).App.Store,
	})

	snapshots, err := engine.GenerateSnapshots(ctx, data.ProjectID, temporal.SnapshotOptions{
		Start:        data.Start,
		End:          data.End,
		Interval:     time.Duration(data.IntervalDays) * 24 * time.Hour,
		Cumulative:   data.Cumulative,
		MaxSnapshots: data.MaxSnapshots,
	})
	if err != nil {
		if errors.Is(err, store.ErrGraphNotFound) {
			return c.JSON(http.StatusNotFound, snapshotsResponse{Message: "Graph not found"})
		}
		logger.Error("Failed to generate snapshots", "err", err)
		return c.JSON(http.StatusInternalServerError, snapshotsResponse{Message: "Internal server error"})
	}

	resp := snapshotsResponse{
		Message:   "Snapshots generated successfully",
		Snapshots: snapshots,
	}
	if data.IncludeEvolution {
		resp.Evolution = temporal.CalculateEvolutionMetrics(snapshots)
	}

	return c.JSON(http.StatusOK, resp)
}
