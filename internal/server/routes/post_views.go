package routes

import (
	"errors"
	"net/http"

	"github.com/linkscope/backend/pkg/graph"
	"github.com/linkscope/backend/pkg/layout"

	"github.com/labstack/echo/v4"
)

// FilterGraphHandler applies filter criteria to the stored graph
func FilterGraphHandler(c echo.Context) error {
	type filterGraphBody struct {
		ProjectID         int64    `param:"id" validate:"required,numeric"`
		EntityTypes       []string `json:"entity_types"`
		MinDegree         int      `json:"min_degree"`
		MinEdgeWeight     float64  `json:"min_edge_weight"`
		RelationshipTypes []string `json:"relationship_types"`
		DocumentIDs       []string `json:"document_ids"`
	}

	data := new(filterGraphBody)
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

	filtered := graph.FilterGraph(*g, graph.FilterCriteria{
		EntityTypes:       data.EntityTypes,
		MinDegree:         data.MinDegree,
		MinEdgeWeight:     data.MinEdgeWeight,
		RelationshipTypes: data.RelationshipTypes,
		DocumentIDs:       data.DocumentIDs,
	})

	return c.JSON(http.StatusOK, filtered)
}

// SubgraphHandler extracts the neighborhood around one entity
func SubgraphHandler(c echo.Context) error {
	type subgraphBody struct {
		ProjectID int64   `param:"id" validate:"required,numeric"`
		EntityID  string  `json:"entity_id" validate:"required"`
		Depth     int     `json:"depth"`
		MaxNodes  int     `json:"max_nodes"`
		MinWeight float64 `json:"min_weight"`
	}

	data := new(subgraphBody)
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

	sub := graph.ExtractSubgraph(*g, data.EntityID, graph.SubgraphOptions{
		Depth:     data.Depth,
		MaxNodes:  data.MaxNodes,
		MinWeight: data.MinWeight,
	})

	return c.JSON(http.StatusOK, sub)
}

// LayoutHandler computes node positions for the stored graph
func LayoutHandler(c echo.Context) error {
	type layoutBody struct {
		ProjectID int64    `param:"id" validate:"required,numeric"`
		Type      string   `json:"type" validate:"required"`
		RootID    string   `json:"root_id"`
		Direction string   `json:"direction"`
		Spacing   float64  `json:"spacing"`
		LeftTypes []string `json:"left_types"`
	}

	data := new(layoutBody)
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

	result, err := layout.Calculate(*g, layout.Options{
		Type:      data.Type,
		RootID:    data.RootID,
		Direction: data.Direction,
		Spacing:   data.Spacing,
		LeftTypes: data.LeftTypes,
	})
	if err != nil {
		if errors.Is(err, layout.ErrUnknownLayout) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unknown layout type"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, result)
}
