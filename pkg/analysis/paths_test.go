package analysis

import (
	"reflect"
	"testing"

	"github.com/linkscope/backend/pkg/common"
)

// testGraph assembles a graph from edge triples and recomputes degrees.
func testGraph(nodes []string, edges []common.GraphEdge) common.Graph {
	g := common.Graph{ID: "test", Edges: edges}
	for _, id := range nodes {
		g.Nodes = append(g.Nodes, common.GraphNode{ID: id, EntityID: id, Label: id, EntityType: "entity"})
	}
	g.RecomputeDegrees()
	return g
}

func edge(source, target string, weight float64) common.GraphEdge {
	return common.GraphEdge{Source: source, Target: target, Weight: weight, RelationshipType: "mentioned_with"}
}

// chainGraph is the A-B(0.5)-C(0.3)-D(0.8) scenario.
func chainGraph() common.Graph {
	return testGraph(
		[]string{"A", "B", "C", "D"},
		[]common.GraphEdge{
			edge("A", "B", 0.5),
			edge("B", "C", 0.3),
			edge("C", "D", 0.8),
		},
	)
}

func diamondGraph() common.Graph {
	return testGraph(
		[]string{"A", "B", "C", "D"},
		[]common.GraphEdge{
			edge("A", "B", 0.9),
			edge("B", "D", 0.9),
			edge("A", "C", 0.1),
			edge("C", "D", 0.1),
		},
	)
}

func TestFindShortestPath(t *testing.T) {
	g := chainGraph()

	path := FindShortestPath(g, "A", "D", 0)
	if path == nil {
		t.Fatal("FindShortestPath() = nil, want path")
	}
	if !reflect.DeepEqual(path.Nodes, []string{"A", "B", "C", "D"}) {
		t.Errorf("nodes = %v, want [A B C D]", path.Nodes)
	}
	if path.Length != 3 {
		t.Errorf("length = %d, want 3", path.Length)
	}
	wantWeight := 0.5 + 0.3 + 0.8
	if diff := path.TotalWeight - wantWeight; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("total weight = %f, want %f", path.TotalWeight, wantWeight)
	}
}

func TestFindShortestPathMissingEndpoint(t *testing.T) {
	g := chainGraph()
	if path := FindShortestPath(g, "A", "Z", 0); path != nil {
		t.Errorf("expected nil for missing target, got %v", path)
	}
}

func TestFindShortestPathDepthBound(t *testing.T) {
	g := chainGraph()
	if path := FindShortestPath(g, "A", "D", 2); path != nil {
		t.Errorf("expected nil beyond depth bound, got %v", path)
	}
}

func TestFindAllPathsNotShorterThanShortest(t *testing.T) {
	g := diamondGraph()

	shortest := FindShortestPath(g, "A", "D", 0)
	if shortest == nil {
		t.Fatal("no shortest path")
	}
	all := FindAllPaths(g, "A", "D", 5, 50)
	if len(all) != 2 {
		t.Fatalf("path count = %d, want 2", len(all))
	}
	for _, p := range all {
		if p.Length < shortest.Length {
			t.Errorf("enumerated path length %d shorter than shortest %d", p.Length, shortest.Length)
		}
	}
	// Sorted ascending by length.
	for i := 1; i < len(all); i++ {
		if all[i].Length < all[i-1].Length {
			t.Errorf("paths not sorted by length: %d before %d", all[i-1].Length, all[i].Length)
		}
	}
}

func TestFindWeightedPath(t *testing.T) {
	g := diamondGraph()

	lightest := FindWeightedPath(g, "A", "D", WeightedPathOptions{})
	if lightest == nil {
		t.Fatal("no minimizing path")
	}
	if !reflect.DeepEqual(lightest.Nodes, []string{"A", "C", "D"}) {
		t.Errorf("minimizing path = %v, want [A C D]", lightest.Nodes)
	}

	heaviest := FindWeightedPath(g, "A", "D", WeightedPathOptions{Maximize: true})
	if heaviest == nil {
		t.Fatal("no maximizing path")
	}
	if !reflect.DeepEqual(heaviest.Nodes, []string{"A", "B", "D"}) {
		t.Errorf("maximizing path = %v, want [A B D]", heaviest.Nodes)
	}
}

func TestFindConstrainedPath(t *testing.T) {
	g := diamondGraph()

	tests := []struct {
		name        string
		constraints PathConstraints
		wantNodes   []string
	}{
		{
			name:        "unconstrained finds a two-hop path",
			constraints: PathConstraints{},
			wantNodes:   []string{"A", "B", "D"},
		},
		{
			name:        "required entity forces the detour",
			constraints: PathConstraints{RequiredEntities: []string{"C"}},
			wantNodes:   []string{"A", "C", "D"},
		},
		{
			name:        "excluding both intermediates blocks the path",
			constraints: PathConstraints{ExcludedEntities: []string{"B", "C"}},
			wantNodes:   nil,
		},
		{
			name:        "min edge weight reroutes",
			constraints: PathConstraints{MinEdgeWeight: 0.5},
			wantNodes:   []string{"A", "B", "D"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := FindConstrainedPath(g, "A", "D", tt.constraints)
			if tt.wantNodes == nil {
				if path != nil {
					t.Errorf("expected nil, got %v", path.Nodes)
				}
				return
			}
			if path == nil {
				t.Fatal("expected path, got nil")
			}
			if !reflect.DeepEqual(path.Nodes, tt.wantNodes) {
				t.Errorf("nodes = %v, want %v", path.Nodes, tt.wantNodes)
			}
		})
	}
}

func TestFindConstrainedPathRevisitsWithNewRequirements(t *testing.T) {
	// B must be crossed twice: once en route to the required C and once
	// back towards D. Plain visited-set BFS would fail here.
	g := testGraph(
		[]string{"A", "B", "C", "D"},
		[]common.GraphEdge{
			edge("A", "B", 1),
			edge("B", "C", 1),
			edge("B", "D", 1),
		},
	)

	path := FindConstrainedPath(g, "A", "D", PathConstraints{RequiredEntities: []string{"C"}, MaxDepth: 6})
	if path == nil {
		t.Fatal("expected path through C, got nil")
	}
	if !reflect.DeepEqual(path.Nodes, []string{"A", "B", "C", "B", "D"}) {
		t.Errorf("nodes = %v, want [A B C B D]", path.Nodes)
	}
}

func TestFindPathsThrough(t *testing.T) {
	g := diamondGraph()

	paths := FindPathsThrough(g, "B", PathsThroughOptions{Radius: 2, MaxPaths: 5})
	if len(paths) == 0 {
		t.Fatal("expected at least one path through B")
	}
	for _, p := range paths {
		found := false
		for _, id := range p.Nodes {
			if id == "B" {
				found = true
			}
		}
		if !found {
			t.Errorf("path %v does not contain B", p.Nodes)
		}
	}
	for i := 1; i < len(paths); i++ {
		if paths[i].TotalWeight > paths[i-1].TotalWeight {
			t.Errorf("paths not sorted by descending weight")
		}
	}
}
