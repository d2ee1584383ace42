package routes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/linkscope/backend/pkg/analysis"
	"github.com/linkscope/backend/pkg/common"

	"github.com/labstack/echo/v4"
)

// CentralityHandler ranks nodes by the requested centrality metric
func CentralityHandler(c echo.Context) error {
	type centralityParams struct {
		ProjectID int64  `param:"id" validate:"required,numeric"`
		Metric    string `query:"metric"`
	}

	type centralityResponse struct {
		Message string                    `json:"message"`
		Metric  string                    `json:"metric,omitempty"`
		Results []common.CentralityResult `json:"results,omitempty"`
	}

	params := new(centralityParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, centralityResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, centralityResponse{Message: "Invalid request body"})
	}
	if params.Metric == "" {
		params.Metric = "degree"
	}

	g, err := fetchGraph(c, params.ProjectID)
	if g == nil {
		return err
	}

	results, err := analysis.Centrality(*g, params.Metric)
	if err != nil {
		if errors.Is(err, analysis.ErrUnknownMetric) {
			return c.JSON(http.StatusBadRequest, centralityResponse{Message: "Unknown centrality metric"})
		}
		return c.JSON(http.StatusInternalServerError, centralityResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusOK, centralityResponse{
		Message: "Centrality calculated successfully",
		Metric:  params.Metric,
		Results: results,
	})
}

// CommunitiesHandler detects communities in the stored graph
func CommunitiesHandler(c echo.Context) error {
	type communitiesParams struct {
		ProjectID  int64   `param:"id" validate:"required,numeric"`
		Resolution float64 `query:"resolution"`
		MinSize    int     `query:"min_size"`
	}

	params := new(communitiesParams)
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

	detection := analysis.DetectCommunities(*g, analysis.CommunityOptions{
		Resolution:       params.Resolution,
		MinCommunitySize: params.MinSize,
	})

	return c.JSON(http.StatusOK, detection)
}

// StatisticsHandler returns aggregate statistics for the stored graph
func StatisticsHandler(c echo.Context) error {
	type statisticsParams struct {
		ProjectID int64 `param:"id" validate:"required,numeric"`
	}

	params := new(statisticsParams)
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

	return c.JSON(http.StatusOK, analysis.CalculateStatistics(*g))
}

// EgoNetworkHandler returns the ego network and ego metrics of one entity
func EgoNetworkHandler(c echo.Context) error {
	type egoParams struct {
		ProjectID         int64  `param:"id" validate:"required,numeric"`
		EntityID          string `param:"entity_id" validate:"required"`
		Depth             string `query:"depth"`
		ExcludeAlterEdges bool   `query:"exclude_alter_edges"`
	}

	type egoResponse struct {
		Message         string                    `json:"message"`
		Graph           *common.Graph             `json:"graph,omitempty"`
		StructuralHoles *analysis.StructuralHoles `json:"structural_holes,omitempty"`
		Metrics         *analysis.EgoMetrics      `json:"metrics,omitempty"`
	}

	params := new(egoParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, egoResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, egoResponse{Message: "Invalid request body"})
	}
	depth, _ := strconv.Atoi(params.Depth)

	g, err := fetchGraph(c, params.ProjectID)
	if g == nil {
		return err
	}

	ego := analysis.ExtractEgoNetwork(*g, params.EntityID, analysis.EgoOptions{
		Depth:             depth,
		ExcludeAlterEdges: params.ExcludeAlterEdges,
	})
	holes := analysis.CalculateStructuralHoles(*g, params.EntityID)
	metrics := analysis.CalculateEgoMetrics(*g, params.EntityID)

	return c.JSON(http.StatusOK, egoResponse{
		Message:         "Ego network extracted successfully",
		Graph:           &ego,
		StructuralHoles: &holes,
		Metrics:         &metrics,
	})
}
