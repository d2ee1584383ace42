package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetGraphHandler returns the stored graph of a project
func GetGraphHandler(c echo.Context) error {
	type getGraphParams struct {
		ProjectID int64 `param:"id" validate:"required,numeric"`
	}

	params := new(getGraphParams)
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

	return c.JSON(http.StatusOK, g)
}
