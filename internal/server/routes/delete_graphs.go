package routes

import (
	"encoding/json"
	"net/http"

	"github.com/linkscope/backend/internal/queue"
	"github.com/linkscope/backend/internal/server/middleware"
	"github.com/linkscope/backend/pkg/logger"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// InvalidateGraphHandler queues removal of a project's stored graph
func InvalidateGraphHandler(c echo.Context) error {
	type invalidateGraphParams struct {
		ProjectID int64 `param:"id" validate:"required,numeric"`
	}

	type invalidateGraphResponse struct {
		Message       string `json:"message"`
		ProjectID     int64  `json:"project_id,omitempty"`
		CorrelationID string `json:"correlation_id,omitempty"`
	}

	params := new(invalidateGraphParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, invalidateGraphResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, invalidateGraphResponse{
			Message: "Invalid request body",
		})
	}

	correlationID, err := gonanoid.New()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, invalidateGraphResponse{
			Message: "Internal server error",
		})
	}

	msg := queue.InvalidateGraphMsg{
		Message:       "Graph invalidation requested",
		ProjectID:     params.ProjectID,
		CorrelationID: correlationID,
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, invalidateGraphResponse{
			Message: "Internal server error",
		})
	}

	ch := c.(*middleware.AppContext).App.Queue
	if err := queue.PublishFIFO(ch, queue.InvalidateQueue, body); err != nil {
		logger.Error("Failed to publish to invalidate_queue", "err", err)
		return c.JSON(http.StatusInternalServerError, invalidateGraphResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusAccepted, invalidateGraphResponse{
		Message:       "Graph invalidation queued",
		ProjectID:     params.ProjectID,
		CorrelationID: correlationID,
	})
}
