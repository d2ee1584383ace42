package analysis

import (
	"math"
	"testing"

	"github.com/linkscope/backend/pkg/common"
)

func TestCalculateStatisticsChain(t *testing.T) {
	g := chainGraph()

	stats := CalculateStatistics(g)

	if stats.NodeCount != 4 || stats.EdgeCount != 3 {
		t.Errorf("counts = %d/%d, want 4/3", stats.NodeCount, stats.EdgeCount)
	}
	if want := 3.0 / 6.0; math.Abs(stats.Density-want) > 1e-9 {
		t.Errorf("density = %f, want %f", stats.Density, want)
	}
	if want := 6.0 / 4.0; math.Abs(stats.AvgDegree-want) > 1e-9 {
		t.Errorf("avg degree = %f, want %f", stats.AvgDegree, want)
	}
	if stats.ClusteringCoefficient != 0 {
		t.Errorf("clustering = %f, want 0 for a chain", stats.ClusteringCoefficient)
	}
	if stats.ConnectedComponents != 1 {
		t.Errorf("components = %d, want 1", stats.ConnectedComponents)
	}
	if stats.Diameter != 3 {
		t.Errorf("diameter = %d, want 3", stats.Diameter)
	}
	if stats.EntityTypes["entity"] != 4 {
		t.Errorf("entity type count = %d, want 4", stats.EntityTypes["entity"])
	}
}

func TestCalculateStatisticsTriangle(t *testing.T) {
	g := testGraph(
		[]string{"a", "b", "c"},
		[]common.GraphEdge{
			edge("a", "b", 1),
			edge("b", "c", 1),
			edge("a", "c", 1),
		},
	)

	stats := CalculateStatistics(g)

	if stats.ClusteringCoefficient != 1.0 {
		t.Errorf("clustering = %f, want 1.0 for a triangle", stats.ClusteringCoefficient)
	}
	if stats.Density != 1.0 {
		t.Errorf("density = %f, want 1.0", stats.Density)
	}
	if stats.Diameter != 1 {
		t.Errorf("diameter = %d, want 1", stats.Diameter)
	}
}

func TestCalculateStatisticsComponents(t *testing.T) {
	g := testGraph(
		[]string{"a", "b", "c", "d", "lone"},
		[]common.GraphEdge{
			edge("a", "b", 1),
			edge("c", "d", 1),
		},
	)

	stats := CalculateStatistics(g)

	if stats.ConnectedComponents != 3 {
		t.Errorf("components = %d, want 3", stats.ConnectedComponents)
	}
}

func TestCalculateStatisticsEmpty(t *testing.T) {
	stats := CalculateStatistics(common.Graph{})
	if stats.NodeCount != 0 || stats.Density != 0 {
		t.Errorf("unexpected stats for empty graph: %+v", stats)
	}
}
