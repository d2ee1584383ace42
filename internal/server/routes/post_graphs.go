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

// BuildGraphHandler queues an asynchronous graph build for a project
func BuildGraphHandler(c echo.Context) error {
	type buildGraphBody struct {
		ProjectID       int64    `param:"id" validate:"required,numeric"`
		DocumentIDs     []string `json:"document_ids"`
		EntityTypes     []string `json:"entity_types"`
		MinCoOccurrence int      `json:"min_co_occurrence"`
	}

	type buildGraphResponse struct {
		Message       string `json:"message"`
		ProjectID     int64  `json:"project_id,omitempty"`
		CorrelationID string `json:"correlation_id,omitempty"`
	}

	data := new(buildGraphBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, buildGraphResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, buildGraphResponse{
			Message: "Invalid request body",
		})
	}

	correlationID, err := gonanoid.New()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, buildGraphResponse{
			Message: "Internal server error",
		})
	}

	msg := queue.AnalyzeGraphMsg{
		Message:         "Graph build requested",
		ProjectID:       data.ProjectID,
		CorrelationID:   correlationID,
		DocumentIDs:     data.DocumentIDs,
		EntityTypes:     data.EntityTypes,
		MinCoOccurrence: data.MinCoOccurrence,
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, buildGraphResponse{
			Message: "Internal server error",
		})
	}

	ch := c.(*middleware.AppContext).App.Queue
	if err := queue.PublishFIFO(ch, queue.AnalyzeQueue, body); err != nil {
		logger.Error("Failed to publish to analyze_queue", "err", err)
		return c.JSON(http.StatusInternalServerError, buildGraphResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusAccepted, buildGraphResponse{
		Message:       "Graph build queued",
		ProjectID:     data.ProjectID,
		CorrelationID: correlationID,
	})
}
