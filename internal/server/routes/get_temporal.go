package routes

import (
	"net/http"

	"github.com/linkscope/backend/internal/server/middleware"
	"github.com/linkscope/backend/pkg/logger"
	"github.com/linkscope/backend/pkg/temporal"

	"github.com/labstack/echo/v4"
)

// TemporalRangeHandler returns the dated-mention span of a project
func TemporalRangeHandler(c echo.Context) error {
	type rangeParams struct {
		ProjectID int64 `param:"id" validate:"required,numeric"`
	}

	params := new(rangeParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	ctx := c.Request().Context()
	engine := temporal.NewEngine(temporal.NewEngineParams{
		Store: c.(*middleware.AppContext).App.Store,
	})

	r, err := engine.TemporalRange(ctx, params.ProjectID, nil)
	if err != nil {
		logger.Error("Failed to calculate temporal range", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, r)
}
