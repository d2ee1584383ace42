package routes

import (
	"net/http"
	"strconv"

	"github.com/linkscope/backend/pkg/geo"

	"github.com/labstack/echo/v4"
)

// GeoNodesHandler returns the graph's geolocated nodes
func GeoNodesHandler(c echo.Context) error {
	type geoParams struct {
		ProjectID int64  `param:"id" validate:"required,numeric"`
		Format    string `query:"format"`
	}

	params := new(geoParams)
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

	nodes := geo.ExtractNodes(*g)
	if params.Format == "geojson" {
		return c.JSON(http.StatusOK, geo.ToGeoJSON(*g, nodes))
	}

	type geoResponse struct {
		Message string     `json:"message"`
		Nodes   []geo.Node `json:"nodes"`
	}
	return c.JSON(http.StatusOK, geoResponse{
		Message: "Geographic nodes extracted successfully",
		Nodes:   nodes,
	})
}

// GeoClustersHandler groups geolocated nodes into proximity clusters
func GeoClustersHandler(c echo.Context) error {
	type clustersParams struct {
		ProjectID int64  `param:"id" validate:"required,numeric"`
		RadiusKm  string `query:"radius_km"`
	}

	type clustersResponse struct {
		Message  string        `json:"message"`
		Clusters []geo.Cluster `json:"clusters"`
	}

	params := new(clustersParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, clustersResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, clustersResponse{Message: "Invalid request body"})
	}
	radiusKm, _ := strconv.ParseFloat(params.RadiusKm, 64)

	g, err := fetchGraph(c, params.ProjectID)
	if g == nil {
		return err
	}

	clusters := geo.ClusterNodes(geo.ExtractNodes(*g), radiusKm)

	return c.JSON(http.StatusOK, clustersResponse{
		Message:  "Clusters calculated successfully",
		Clusters: clusters,
	})
}
