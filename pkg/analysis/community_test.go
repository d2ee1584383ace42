package analysis

import (
	"reflect"
	"sort"
	"testing"

	"github.com/linkscope/backend/pkg/common"
)

// twoCliques builds two triangles joined by a single weak bridge.
func twoCliques() common.Graph {
	return testGraph(
		[]string{"a1", "a2", "a3", "b1", "b2", "b3"},
		[]common.GraphEdge{
			edge("a1", "a2", 1),
			edge("a2", "a3", 1),
			edge("a1", "a3", 1),
			edge("b1", "b2", 1),
			edge("b2", "b3", 1),
			edge("b1", "b3", 1),
			edge("a3", "b1", 0.1),
		},
	)
}

func TestDetectCommunitiesTwoCliques(t *testing.T) {
	g := twoCliques()

	result := DetectCommunities(g, CommunityOptions{})

	if len(result.Communities) != 2 {
		t.Fatalf("community count = %d, want 2", len(result.Communities))
	}

	var got [][]string
	for _, c := range result.Communities {
		members := append([]string(nil), c.Members...)
		sort.Strings(members)
		got = append(got, members)
	}
	sort.Slice(got, func(i, j int) bool { return got[i][0] < got[j][0] })

	want := [][]string{{"a1", "a2", "a3"}, {"b1", "b2", "b3"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("communities = %v, want %v", got, want)
	}

	if result.Modularity <= 0 {
		t.Errorf("modularity = %f, want > 0", result.Modularity)
	}

	for _, c := range result.Communities {
		if c.Size != 3 {
			t.Errorf("size = %d, want 3", c.Size)
		}
		if c.InternalEdges != 3 {
			t.Errorf("internal edges = %d, want 3", c.InternalEdges)
		}
		if c.ExternalEdges != 1 {
			t.Errorf("external edges = %d, want 1", c.ExternalEdges)
		}
		if c.Density != 1.0 {
			t.Errorf("density = %f, want 1.0", c.Density)
		}
	}
}

func TestDetectCommunitiesMinSize(t *testing.T) {
	g := testGraph(
		[]string{"a1", "a2", "a3", "x", "y"},
		[]common.GraphEdge{
			edge("a1", "a2", 1),
			edge("a2", "a3", 1),
			edge("a1", "a3", 1),
			edge("x", "y", 1),
		},
	)

	result := DetectCommunities(g, CommunityOptions{MinCommunitySize: 3})

	if len(result.Communities) != 1 {
		t.Fatalf("community count = %d, want 1 (pair dropped)", len(result.Communities))
	}
	if result.Communities[0].Size != 3 {
		t.Errorf("surviving size = %d, want 3", result.Communities[0].Size)
	}
}

func TestDetectCommunitiesEmptyGraph(t *testing.T) {
	result := DetectCommunities(common.Graph{}, CommunityOptions{})
	if len(result.Communities) != 0 {
		t.Errorf("communities = %v, want none", result.Communities)
	}
}
