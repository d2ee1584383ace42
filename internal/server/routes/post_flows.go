package routes

import (
	"net/http"

	"github.com/linkscope/backend/pkg/flow"

	"github.com/labstack/echo/v4"
)

// FlowsHandler extracts Sankey flow data from the stored graph
func FlowsHandler(c echo.Context) error {
	type flowsBody struct {
		ProjectID         int64    `param:"id" validate:"required,numeric"`
		Mode              string   `json:"mode"`
		SourceTypes       []string `json:"source_types"`
		IntermediateTypes []string `json:"intermediate_types"`
		TargetTypes       []string `json:"target_types"`
		RelationshipTypes []string `json:"relationship_types"`
		AggregateByType   bool     `json:"aggregate_by_type"`
		TopN              int      `json:"top_n"`
	}

	data := new(flowsBody)
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

	var result *flow.Data
	switch data.Mode {
	case "entity":
		if len(data.SourceTypes) == 0 || len(data.TargetTypes) == 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Source and target types are required"})
		}
		result = flow.ExtractEntityFlows(*g, data.SourceTypes, data.IntermediateTypes, data.TargetTypes)
	default:
		result = flow.ExtractRelationshipFlows(*g, flow.RelationshipFlowOptions{
			RelationshipTypes: data.RelationshipTypes,
			AggregateByType:   data.AggregateByType,
		})
	}

	if data.TopN > 0 {
		result = flow.AggregateFlows(result, data.TopN)
	}

	return c.JSON(http.StatusOK, result)
}
