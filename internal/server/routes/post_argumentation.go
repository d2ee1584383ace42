package routes

import (
	"net/http"

	"github.com/linkscope/backend/pkg/argumentation"

	"github.com/labstack/echo/v4"
)

// ArgumentationHandler builds an argument graph from an ACH matrix
func ArgumentationHandler(c echo.Context) error {
	type argumentationBody struct {
		ProjectID  int64                      `param:"id" validate:"required,numeric"`
		Hypotheses []argumentation.Hypothesis `json:"hypotheses" validate:"required,min=1"`
		Evidence   []argumentation.Evidence   `json:"evidence" validate:"required,min=1"`
		Ratings    []argumentation.Rating     `json:"ratings"`
	}

	data := new(argumentationBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	result := argumentation.BuildFromACHMatrix(argumentation.Matrix{
		Hypotheses: data.Hypotheses,
		Evidence:   data.Evidence,
		Ratings:    data.Ratings,
	})

	return c.JSON(http.StatusOK, result)
}
