package server

import (
	"github.com/linkscope/backend/internal/server/middleware"
	"github.com/linkscope/backend/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Graph lifecycle routes
	apiRoutes.POST("/projects/:id/graph", routes.BuildGraphHandler, middleware.RequirePermission("graph.build"))
	apiRoutes.GET("/projects/:id/graph", routes.GetGraphHandler, middleware.RequirePermission("graph.view"))
	apiRoutes.DELETE("/projects/:id/graph", routes.InvalidateGraphHandler, middleware.RequirePermission("graph.invalidate"))

	// Graph view routes
	apiRoutes.POST("/projects/:id/graph/filter", routes.FilterGraphHandler, middleware.RequirePermission("graph.view"))
	apiRoutes.POST("/projects/:id/graph/subgraph", routes.SubgraphHandler, middleware.RequirePermission("graph.view"))
	apiRoutes.POST("/projects/:id/graph/layout", routes.LayoutHandler, middleware.RequirePermission("graph.view"))

	// Analysis routes
	apiRoutes.POST("/projects/:id/graph/paths", routes.ShortestPathsHandler, middleware.RequirePermission("graph.analyze"))
	apiRoutes.GET("/projects/:id/graph/centrality", routes.CentralityHandler, middleware.RequirePermission("graph.analyze"))
	apiRoutes.GET("/projects/:id/graph/communities", routes.CommunitiesHandler, middleware.RequirePermission("graph.analyze"))
	apiRoutes.GET("/projects/:id/graph/statistics", routes.StatisticsHandler, middleware.RequirePermission("graph.analyze"))
	apiRoutes.GET("/projects/:id/graph/ego/:entity_id", routes.EgoNetworkHandler, middleware.RequirePermission("graph.analyze"))
	apiRoutes.POST("/projects/:id/graph/scores", routes.ScoreNodesHandler, middleware.RequirePermission("graph.analyze"))

	// Temporal routes
	apiRoutes.GET("/projects/:id/graph/temporal/range", routes.TemporalRangeHandler, middleware.RequirePermission("graph.analyze"))
	apiRoutes.POST("/projects/:id/graph/temporal/snapshots", routes.TemporalSnapshotsHandler, middleware.RequirePermission("graph.analyze"))

	// Causal routes
	apiRoutes.GET("/projects/:id/graph/causal", routes.CausalGraphHandler, middleware.RequirePermission("graph.analyze"))
	apiRoutes.GET("/projects/:id/graph/causal/ordering", routes.CausalOrderingHandler, middleware.RequirePermission("graph.analyze"))
	apiRoutes.POST("/projects/:id/graph/causal/intervention", routes.InterventionHandler, middleware.RequirePermission("graph.analyze"))

	// Geospatial routes
	apiRoutes.GET("/projects/:id/graph/geo", routes.GeoNodesHandler, middleware.RequirePermission("graph.analyze"))
	apiRoutes.GET("/projects/:id/graph/geo/clusters", routes.GeoClustersHandler, middleware.RequirePermission("graph.analyze"))

	// Flow routes
	apiRoutes.POST("/projects/:id/graph/flows", routes.FlowsHandler, middleware.RequirePermission("graph.analyze"))

	// Argumentation routes
	apiRoutes.POST("/projects/:id/graph/argumentation", routes.ArgumentationHandler, middleware.RequirePermission("graph.analyze"))

	// Export routes
	apiRoutes.GET("/projects/:id/graph/export", routes.ExportGraphHandler, middleware.RequirePermission("graph.export"))
}
