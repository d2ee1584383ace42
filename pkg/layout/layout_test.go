package layout

import (
	"errors"
	"math"
	"testing"

	"github.com/linkscope/backend/pkg/common"
)

func layoutGraph() common.Graph {
	g := common.Graph{
		ID: "layout-test",
		Nodes: []common.GraphNode{
			{ID: "hub", EntityID: "hub", EntityType: "organization"},
			{ID: "a", EntityID: "a", EntityType: "person"},
			{ID: "b", EntityID: "b", EntityType: "person"},
			{ID: "c", EntityID: "c", EntityType: "location"},
			{ID: "d", EntityID: "d", EntityType: "person"},
			{ID: "island", EntityID: "island", EntityType: "location"},
		},
		Edges: []common.GraphEdge{
			{Source: "hub", Target: "a", Weight: 1},
			{Source: "hub", Target: "b", Weight: 1},
			{Source: "hub", Target: "d", Weight: 1},
			{Source: "a", Target: "c", Weight: 1},
		},
	}
	g.RecomputeDegrees()
	return g
}

func TestCalculateUnknownType(t *testing.T) {
	if _, err := Calculate(layoutGraph(), Options{Type: "magnetic"}); !errors.Is(err, ErrUnknownLayout) {
		t.Errorf("error = %v, want ErrUnknownLayout", err)
	}
}

func TestAllLayoutsCoverEveryNode(t *testing.T) {
	g := layoutGraph()

	for _, layoutType := range []string{"hierarchical", "radial", "circular", "tree", "bipartite", "grid"} {
		t.Run(layoutType, func(t *testing.T) {
			result, err := Calculate(g, Options{Type: layoutType})
			if err != nil {
				t.Fatalf("Calculate() error = %v", err)
			}
			if len(result.Positions) != len(g.Nodes) {
				t.Errorf("positioned %d nodes, want %d", len(result.Positions), len(g.Nodes))
			}
			if result.Type != layoutType {
				t.Errorf("type = %q, want %q", result.Type, layoutType)
			}
		})
	}
}

func TestHierarchicalLayers(t *testing.T) {
	g := layoutGraph()

	result, err := Calculate(g, Options{Type: "hierarchical"})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}

	// Highest-degree node is auto-selected as root.
	if result.Metadata["root"] != "hub" {
		t.Errorf("root = %v, want hub", result.Metadata["root"])
	}

	// Layers: hub / a,b,d / c / island (disconnected, one beyond deepest).
	if result.Metadata["layers"] != 4 {
		t.Errorf("layers = %v, want 4", result.Metadata["layers"])
	}

	positions := result.Positions
	if positions["hub"].Y >= positions["a"].Y {
		t.Errorf("hub (%f) should sit above a (%f)", positions["hub"].Y, positions["a"].Y)
	}
	if positions["a"].Y != positions["b"].Y {
		t.Errorf("a and b should share a layer: %f vs %f", positions["a"].Y, positions["b"].Y)
	}
	if positions["island"].Y <= positions["c"].Y {
		t.Errorf("disconnected node should land beyond the deepest layer")
	}
}

func TestHierarchicalDirections(t *testing.T) {
	g := layoutGraph()

	down, _ := Calculate(g, Options{Type: "hierarchical"})
	up, _ := Calculate(g, Options{Type: "hierarchical", Direction: "bottom-up"})
	lr, _ := Calculate(g, Options{Type: "hierarchical", Direction: "left-right"})

	if down.Positions["a"].Y != -up.Positions["a"].Y {
		t.Errorf("bottom-up should mirror top-down: %f vs %f", down.Positions["a"].Y, up.Positions["a"].Y)
	}
	if lr.Positions["a"].X != down.Positions["a"].Y {
		t.Errorf("left-right should transpose axes")
	}
}

func TestRadialCenterAtOrigin(t *testing.T) {
	g := layoutGraph()

	result, err := Calculate(g, Options{Type: "radial", RootID: "hub"})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}

	center := result.Positions["hub"]
	if center.X != 0 || center.Y != 0 {
		t.Errorf("center at (%f,%f), want origin", center.X, center.Y)
	}

	// First ring sits exactly one spacing away.
	a := result.Positions["a"]
	dist := math.Hypot(a.X, a.Y)
	if math.Abs(dist-defaultSpacing) > 1e-9 {
		t.Errorf("ring radius = %f, want %f", dist, defaultSpacing)
	}
}

func TestCircularAllOnRing(t *testing.T) {
	g := layoutGraph()

	result, err := Calculate(g, Options{Type: "circular"})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}

	radius := result.Metadata["radius"].(float64)
	for id, p := range result.Positions {
		if math.Abs(math.Hypot(p.X, p.Y)-radius) > 1e-9 {
			t.Errorf("%s off the ring: (%f,%f)", id, p.X, p.Y)
		}
	}
}

func TestTreeParentCentered(t *testing.T) {
	g := layoutGraph()

	result, err := Calculate(g, Options{Type: "tree", RootID: "hub"})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}

	// hub's children are a, b, d; hub must sit centered between the outer two.
	a, d, hub := result.Positions["a"], result.Positions["d"], result.Positions["hub"]
	if hub.X != (a.X+d.X)/2 {
		t.Errorf("hub.X = %f, want midpoint %f", hub.X, (a.X+d.X)/2)
	}
	if hub.Y >= a.Y {
		t.Errorf("root should be above its children")
	}
}

func TestBipartiteColumns(t *testing.T) {
	g := layoutGraph()

	result, err := Calculate(g, Options{Type: "bipartite", LeftTypes: []string{"person"}})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}

	if result.Metadata["left_count"] != 3 || result.Metadata["right_count"] != 3 {
		t.Errorf("columns = %v/%v, want 3/3", result.Metadata["left_count"], result.Metadata["right_count"])
	}
	if result.Positions["a"].X != result.Positions["b"].X {
		t.Errorf("person nodes should share a column")
	}
	if result.Positions["a"].X == result.Positions["hub"].X {
		t.Errorf("person and organization should be in different columns")
	}
}

func TestGridSquare(t *testing.T) {
	g := layoutGraph()

	result, err := Calculate(g, Options{Type: "grid"})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}

	// 6 nodes round up to a 3-column grid.
	if result.Metadata["columns"] != 3 {
		t.Errorf("columns = %v, want 3", result.Metadata["columns"])
	}
}
