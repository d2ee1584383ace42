package routes

import (
	"net/http"

	"github.com/linkscope/backend/internal/server/middleware"
	"github.com/linkscope/backend/pkg/analysis"
	"github.com/linkscope/backend/pkg/common"
	"github.com/linkscope/backend/pkg/logger"
	"github.com/linkscope/backend/pkg/scoring"

	"github.com/labstack/echo/v4"
)

// ShortestPathsHandler finds paths between two entities
func ShortestPathsHandler(c echo.Context) error {
	type pathsBody struct {
		ProjectID         int64    `param:"id" validate:"required,numeric"`
		Source            string   `json:"source"`
		Target            string   `json:"target"`
		Intermediate      string   `json:"intermediate"`
		Mode              string   `json:"mode"`
		MaxDepth          int      `json:"max_depth"`
		MaxPaths          int      `json:"max_paths"`
		Maximize          bool     `json:"maximize"`
		RequiredEntities  []string `json:"required_entities"`
		ExcludedEntities  []string `json:"excluded_entities"`
		RelationshipTypes []string `json:"relationship_types"`
		MinEdgeWeight     float64  `json:"min_edge_weight"`
	}

	type pathsResponse struct {
		Message string             `json:"message"`
		Paths   []common.GraphPath `json:"paths"`
	}

	data := new(pathsBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, pathsResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, pathsResponse{Message: "Invalid request body"})
	}

	g, err := fetchGraph(c, data.ProjectID)
	if g == nil {
		return err
	}

	if data.Mode == "through" {
		if data.Intermediate == "" {
			return c.JSON(http.StatusBadRequest, pathsResponse{Message: "Intermediate entity is required"})
		}
	} else if data.Source == "" || data.Target == "" {
		return c.JSON(http.StatusBadRequest, pathsResponse{Message: "Source and target are required"})
	}

	var paths []common.GraphPath
	switch data.Mode {
	case "through":
		paths = analysis.FindPathsThrough(*g, data.Intermediate, analysis.PathsThroughOptions{
			MaxPaths: data.MaxPaths,
			MaxDepth: data.MaxDepth,
		})
	case "all":
		paths = analysis.FindAllPaths(*g, data.Source, data.Target, data.MaxDepth, data.MaxPaths)
	case "weighted":
		if p := analysis.FindWeightedPath(*g, data.Source, data.Target, analysis.WeightedPathOptions{
			Maximize: data.Maximize,
			MaxDepth: data.MaxDepth,
		}); p != nil {
			paths = append(paths, *p)
		}
	case "constrained":
		if p := analysis.FindConstrainedPath(*g, data.Source, data.Target, analysis.PathConstraints{
			RequiredEntities:  data.RequiredEntities,
			ExcludedEntities:  data.ExcludedEntities,
			RelationshipTypes: data.RelationshipTypes,
			MinEdgeWeight:     data.MinEdgeWeight,
			MaxDepth:          data.MaxDepth,
		}); p != nil {
			paths = append(paths, *p)
		}
	default:
		if p := analysis.FindShortestPath(*g, data.Source, data.Target, data.MaxDepth); p != nil {
			paths = append(paths, *p)
		}
	}

	if paths == nil {
		paths = []common.GraphPath{}
	}
	return c.JSON(http.StatusOK, pathsResponse{
		Message: "Paths calculated successfully",
		Paths:   paths,
	})
}

// ScoreNodesHandler ranks entities by the composite importance score
func ScoreNodesHandler(c echo.Context) error {
	type scoresBody struct {
		ProjectID int64           `param:"id" validate:"required,numeric"`
		Config    *scoring.Config `json:"config"`
	}

	type scoresResponse struct {
		Message string                `json:"message"`
		Scores  []scoring.EntityScore `json:"scores,omitempty"`
	}

	data := new(scoresBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, scoresResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, scoresResponse{Message: "Invalid request body"})
	}

	g, err := fetchGraph(c, data.ProjectID)
	if g == nil {
		return err
	}

	ctx := c.Request().Context()
	st := c.(*middleware.AppContext).App.Store

	entityIDs := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		entityIDs = append(entityIDs, n.EntityID)
	}
	mentions, err := st.GetMentions(ctx, data.ProjectID, entityIDs)
	if err != nil {
		logger.Error("Failed to load mentions", "err", err)
		return c.JSON(http.StatusInternalServerError, scoresResponse{Message: "Internal server error"})
	}
	ratings, err := st.GetCredibilityRatings(ctx, data.ProjectID)
	if err != nil {
		logger.Error("Failed to load credibility ratings", "err", err)
		return c.JSON(http.StatusInternalServerError, scoresResponse{Message: "Internal server error"})
	}

	config := scoring.DefaultConfig()
	if data.Config != nil {
		config = *data.Config
	}

	scores, err := scoring.CalculateScores(*g, config, mentions, ratings)
	if err != nil {
		return c.JSON(http.StatusBadRequest, scoresResponse{Message: "Invalid scoring config"})
	}

	return c.JSON(http.StatusOK, scoresResponse{
		Message: "Scores calculated successfully",
		Scores:  scores,
	})
}
