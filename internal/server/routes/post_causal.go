package routes

import (
	"net/http"

	"github.com/linkscope/backend/pkg/causal"

	"github.com/labstack/echo/v4"
)

// InterventionHandler estimates the effect of intervening on one entity
func InterventionHandler(c echo.Context) error {
	type interventionBody struct {
		ProjectID int64  `param:"id" validate:"required,numeric"`
		Treatment string `json:"treatment" validate:"required"`
		Outcome   string `json:"outcome" validate:"required"`
	}

	data := new(interventionBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	g, err := fetchGraph(c, data.ProjectID)
	if g == nil {
		return err
	}

	cg := causal.Build(*g)
	effect := causal.CalculateInterventionEffect(cg, data.Treatment, data.Outcome)

	return c.JSON(http.StatusOK, effect)
}
