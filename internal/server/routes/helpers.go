package routes

import (
	"errors"
	"net/http"

	"github.com/linkscope/backend/internal/server/middleware"
	"github.com/linkscope/backend/pkg/common"
	"github.com/linkscope/backend/pkg/logger"
	"github.com/linkscope/backend/pkg/store"

	"github.com/labstack/echo/v4"
)

// fetchGraph loads the project's stored graph and writes the 404/500
// response itself on failure. A nil graph means the response was already
// sent and the handler should return the accompanying error.
func fetchGraph(c echo.Context, projectID int64) (*common.Graph, error) {
	ctx := c.Request().Context()
	g, err := c.(*middleware.AppContext).App.Store.GetGraph(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrGraphNotFound) {
			return nil, c.JSON(http.StatusNotFound, map[string]string{"error": "Graph not found"})
		}
		logger.Error("Failed to load graph", "err", err)
		return nil, c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	return g, nil
}
