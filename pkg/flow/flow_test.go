package flow

import (
	"reflect"
	"testing"

	"github.com/linkscope/backend/pkg/common"
)

func flowGraph() common.Graph {
	return common.Graph{
		Nodes: []common.GraphNode{
			{ID: "acme", Label: "Acme", EntityType: "organization"},
			{ID: "alice", Label: "Alice", EntityType: "person"},
			{ID: "bob", Label: "Bob", EntityType: "person"},
			{ID: "berlin", Label: "Berlin", EntityType: "location"},
			{ID: "doc", Label: "Doc", EntityType: "document"},
		},
		Edges: []common.GraphEdge{
			{Source: "acme", Target: "alice", Weight: 0.6},
			{Source: "berlin", Target: "bob", Weight: 0.4},  // reversed: location is layer 2
			{Source: "alice", Target: "bob", Weight: 0.3},   // same layer, dropped
			{Source: "alice", Target: "alice", Weight: 1.0}, // self edge, dropped
			{Source: "alice", Target: "berlin", Weight: 0.8},
			{Source: "doc", Target: "alice", Weight: 0.9}, // type not layered, dropped
		},
	}
}

func TestExtractEntityFlows(t *testing.T) {
	data := ExtractEntityFlows(flowGraph(),
		[]string{"organization"}, []string{"person"}, []string{"location"})

	if len(data.Nodes) != 4 {
		t.Fatalf("got %d nodes, want 4 (document excluded)", len(data.Nodes))
	}
	for _, n := range data.Nodes {
		var want int
		switch n.EntityType {
		case "organization":
			want = 0
		case "person":
			want = 1
		case "location":
			want = 2
		}
		if n.Layer != want {
			t.Errorf("%s layer = %d, want %d", n.ID, n.Layer, want)
		}
	}

	want := []Link{
		{Source: "acme", Target: "alice", Value: 0.6},
		{Source: "bob", Target: "berlin", Value: 0.4}, // endpoints swapped
		{Source: "alice", Target: "berlin", Value: 0.8},
	}
	if !reflect.DeepEqual(data.Links, want) {
		t.Errorf("links = %v, want %v", data.Links, want)
	}
}

func TestExtractEntityFlowsMergesParallelEdges(t *testing.T) {
	g := common.Graph{
		Nodes: []common.GraphNode{
			{ID: "a", EntityType: "organization"},
			{ID: "b", EntityType: "location"},
		},
		Edges: []common.GraphEdge{
			{Source: "a", Target: "b", Weight: 0.3},
			{Source: "b", Target: "a", Weight: 0.2},
		},
	}

	data := ExtractEntityFlows(g, []string{"organization"}, nil, []string{"location"})
	if len(data.Links) != 1 {
		t.Fatalf("got %d links, want 1 merged", len(data.Links))
	}
	if data.Links[0].Value != 0.5 {
		t.Errorf("merged value = %f, want 0.5", data.Links[0].Value)
	}
}

func TestExtractRelationshipFlows(t *testing.T) {
	g := common.Graph{
		Nodes: []common.GraphNode{
			{ID: "src", Label: "Src", EntityType: "organization"},
			{ID: "mid", Label: "Mid", EntityType: "person"},
			{ID: "sink", Label: "Sink", EntityType: "location"},
			{ID: "loner", Label: "Loner", EntityType: "person"},
		},
		Edges: []common.GraphEdge{
			{Source: "src", Target: "mid", Weight: 0.5, RelationshipType: "funds"},
			{Source: "src", Target: "sink", Weight: 0.2, RelationshipType: "funds"},
			{Source: "mid", Target: "sink", Weight: 0.7, RelationshipType: "funds"},
		},
	}

	data := ExtractRelationshipFlows(g, RelationshipFlowOptions{})

	layers := map[string]int{}
	for _, n := range data.Nodes {
		layers[n.ID] = n.Layer
	}
	if layers["src"] != layerSource {
		t.Errorf("src layer = %d, want source (only outgoing)", layers["src"])
	}
	if layers["sink"] != layerTarget {
		t.Errorf("sink layer = %d, want target (only incoming)", layers["sink"])
	}
	if layers["mid"] != layerIntermediate {
		t.Errorf("mid layer = %d, want intermediate (balanced)", layers["mid"])
	}
	if _, present := layers["loner"]; present {
		t.Error("edge-less node should not appear in flow data")
	}
	if len(data.Links) != 3 {
		t.Errorf("got %d links, want 3", len(data.Links))
	}
}

func TestExtractRelationshipFlowsAggregateByType(t *testing.T) {
	g := common.Graph{
		Nodes: []common.GraphNode{
			{ID: "a1", Label: "A1", EntityType: "organization"},
			{ID: "a2", Label: "A2", EntityType: "organization"},
			{ID: "b", Label: "B", EntityType: "location"},
		},
		Edges: []common.GraphEdge{
			{Source: "a1", Target: "b", Weight: 0.4},
			{Source: "a2", Target: "b", Weight: 0.6},
		},
	}

	data := ExtractRelationshipFlows(g, RelationshipFlowOptions{AggregateByType: true})

	if len(data.Nodes) != 2 {
		t.Fatalf("got %d nodes, want organization and location groups", len(data.Nodes))
	}
	if len(data.Links) != 1 {
		t.Fatalf("got %d links, want 1 aggregated", len(data.Links))
	}
	if data.Links[0].Value != 1.0 {
		t.Errorf("aggregated value = %f, want 1.0", data.Links[0].Value)
	}
	if data.Links[0].Source != "organization/source" || data.Links[0].Target != "location/target" {
		t.Errorf("aggregated link %s -> %s", data.Links[0].Source, data.Links[0].Target)
	}
}

func TestAggregateFlows(t *testing.T) {
	data := &Data{
		Nodes: []Node{
			{ID: "a", Layer: 0}, {ID: "b", Layer: 0}, {ID: "c", Layer: 0},
			{ID: "x", Layer: 1}, {ID: "y", Layer: 2},
		},
		Links: []Link{
			{Source: "a", Target: "x", Value: 5},
			{Source: "b", Target: "x", Value: 1},
			{Source: "c", Target: "x", Value: 0.5},
			{Source: "x", Target: "y", Value: 4},
		},
	}

	out := AggregateFlows(data, 2)

	if len(out.Links) != 3 {
		t.Fatalf("got %d links, want 2 kept + 1 other", len(out.Links))
	}
	if out.Links[0].Value != 5 || out.Links[1].Value != 4 {
		t.Errorf("kept links %v, want the two largest", out.Links[:2])
	}

	other := out.Links[2]
	if other.Source != "other/source" || other.Target != "other/intermediate" {
		t.Errorf("other link %s -> %s", other.Source, other.Target)
	}
	if other.Value != 1.5 {
		t.Errorf("other value = %f, want folded 1.5", other.Value)
	}

	for _, n := range out.Nodes {
		if n.ID == "b" || n.ID == "c" {
			t.Errorf("node %s only carried folded links and should be dropped", n.ID)
		}
	}
}

func TestAggregateFlowsNoop(t *testing.T) {
	data := &Data{Links: []Link{{Source: "a", Target: "b", Value: 1}}}
	if out := AggregateFlows(data, 5); out != data {
		t.Error("datasets under the limit should pass through unchanged")
	}
}
