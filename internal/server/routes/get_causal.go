package routes

import (
	"errors"
	"net/http"

	"github.com/linkscope/backend/pkg/causal"

	"github.com/labstack/echo/v4"
)

// CausalGraphHandler derives the causal subgraph of the stored graph
func CausalGraphHandler(c echo.Context) error {
	type causalParams struct {
		ProjectID int64 `param:"id" validate:"required,numeric"`
	}

	params := new(causalParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	g, err := fetchGraph(c, params.ProjectID)
	if g == nil {
		return err
	}

	return c.JSON(http.StatusOK, causal.Build(*g))
}

// CausalOrderingHandler returns a topological ordering of the causal graph
func CausalOrderingHandler(c echo.Context) error {
	type orderingParams struct {
		ProjectID int64 `param:"id" validate:"required,numeric"`
	}

	type orderingResponse struct {
		Message  string   `json:"message"`
		Ordering []string `json:"ordering,omitempty"`
	}

	params := new(orderingParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, orderingResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, orderingResponse{Message: "Invalid request body"})
	}

	g, err := fetchGraph(c, params.ProjectID)
	if g == nil {
		return err
	}

	ordering, err := causal.Ordering(causal.Build(*g))
	if err != nil {
		if errors.Is(err, causal.ErrCyclicGraph) {
			return c.JSON(http.StatusConflict, orderingResponse{Message: "Causal graph contains cycles"})
		}
		return c.JSON(http.StatusInternalServerError, orderingResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusOK, orderingResponse{
		Message:  "Ordering calculated successfully",
		Ordering: ordering,
	})
}
