package graph

import (
	"context"
	"reflect"
	"sort"
	"testing"

	"github.com/linkscope/backend/pkg/common"
	"github.com/linkscope/backend/pkg/store"
)

type fakeStore struct {
	entities      []common.EntityRecord
	coOccurrences []common.CoOccurrenceRecord
}

func (f *fakeStore) GetEntities(_ context.Context, _ int64, query store.EntityQuery) ([]common.EntityRecord, error) {
	if len(query.EntityTypes) == 0 {
		return f.entities, nil
	}
	allowed := make(map[string]struct{})
	for _, t := range query.EntityTypes {
		allowed[t] = struct{}{}
	}
	var out []common.EntityRecord
	for _, e := range f.entities {
		if _, ok := allowed[e.EntityType]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) GetCoOccurrences(_ context.Context, _ int64, _ []string, minCount int) ([]common.CoOccurrenceRecord, error) {
	var out []common.CoOccurrenceRecord
	for _, co := range f.coOccurrences {
		if co.Count >= minCount {
			out = append(out, co)
		}
	}
	return out, nil
}

func (f *fakeStore) GetMentions(_ context.Context, _ int64, _ []string) ([]common.MentionRecord, error) {
	return nil, nil
}

func (f *fakeStore) GetCredibilityRatings(_ context.Context, _ int64) (map[string]float64, error) {
	return nil, nil
}

func (f *fakeStore) SaveGraph(_ context.Context, _ common.Graph) error       { return nil }
func (f *fakeStore) GetGraph(_ context.Context, _ int64) (*common.Graph, error) { return nil, nil }
func (f *fakeStore) InvalidateGraph(_ context.Context, _ int64) error        { return nil }

func testStore() *fakeStore {
	return &fakeStore{
		entities: []common.EntityRecord{
			{ID: "a", Label: "Alpha Corp", EntityType: "organization", DocumentCount: 4},
			{ID: "b", Label: "Bob", EntityType: "person", DocumentCount: 6},
			{ID: "c", Label: "Carol", EntityType: "person", DocumentCount: 2},
			{ID: "d", Label: "Delta Fund", EntityType: "organization", DocumentCount: 1},
		},
		coOccurrences: []common.CoOccurrenceRecord{
			{EntityA: "a", EntityB: "b", Count: 5, DocumentIDs: []string{"doc1", "doc2"}},
			{EntityA: "b", EntityB: "c", Count: 3, DocumentIDs: []string{"doc2"}},
			{EntityA: "c", EntityB: "d", Count: 12, DocumentIDs: []string{"doc3"}},
			{EntityA: "a", EntityB: "ghost", Count: 2, DocumentIDs: []string{"doc4"}},
		},
	}
}

func degreeSum(g common.Graph) int {
	sum := 0
	for _, n := range g.Nodes {
		sum += n.Degree
	}
	return sum
}

func TestBuildGraph(t *testing.T) {
	b := NewBuilder(NewBuilderParams{Store: testStore()})

	g, err := b.BuildGraph(context.Background(), BuildGraphParams{ProjectID: 1})
	if err != nil {
		t.Fatalf("BuildGraph() error = %v", err)
	}

	if len(g.Nodes) != 4 {
		t.Errorf("node count = %d, want 4", len(g.Nodes))
	}
	// The co-occurrence with entity "ghost" must be skipped.
	if len(g.Edges) != 3 {
		t.Errorf("edge count = %d, want 3", len(g.Edges))
	}

	if got := degreeSum(g); got != 2*len(g.Edges) {
		t.Errorf("sum(degree) = %d, want %d", got, 2*len(g.Edges))
	}

	for _, e := range g.Edges {
		if e.RelationshipType != DefaultRelationshipType {
			t.Errorf("relationship type = %q, want %q", e.RelationshipType, DefaultRelationshipType)
		}
		if e.Weight < 0 || e.Weight > 1 {
			t.Errorf("edge weight %f outside [0,1]", e.Weight)
		}
	}

	// count=12 saturates at 1.0, count=5 maps to 0.5.
	for _, e := range g.Edges {
		switch e.CoOccurrenceCount {
		case 12:
			if e.Weight != 1.0 {
				t.Errorf("saturated weight = %f, want 1.0", e.Weight)
			}
		case 5:
			if e.Weight != 0.5 {
				t.Errorf("weight for count 5 = %f, want 0.5", e.Weight)
			}
		}
	}
}

func TestBuildGraphMinCoOccurrence(t *testing.T) {
	b := NewBuilder(NewBuilderParams{Store: testStore()})

	g, err := b.BuildGraph(context.Background(), BuildGraphParams{ProjectID: 1, MinCoOccurrence: 4})
	if err != nil {
		t.Fatalf("BuildGraph() error = %v", err)
	}

	if len(g.Edges) != 2 {
		t.Errorf("edge count = %d, want 2", len(g.Edges))
	}
}

func buildTestGraph(t *testing.T) common.Graph {
	t.Helper()
	b := NewBuilder(NewBuilderParams{Store: testStore()})
	g, err := b.BuildGraph(context.Background(), BuildGraphParams{ProjectID: 1})
	if err != nil {
		t.Fatalf("BuildGraph() error = %v", err)
	}
	return g
}

func nodeIDs(g common.Graph) []string {
	ids := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		ids = append(ids, n.ID)
	}
	sort.Strings(ids)
	return ids
}

func TestFilterGraph(t *testing.T) {
	g := buildTestGraph(t)

	tests := []struct {
		name     string
		criteria FilterCriteria
		wantIDs  []string
	}{
		{
			name:     "no criteria keeps everything connected",
			criteria: FilterCriteria{},
			wantIDs:  []string{"a", "b", "c", "d"},
		},
		{
			name:     "entity type filter drops cross-type edges",
			criteria: FilterCriteria{EntityTypes: []string{"person"}},
			wantIDs:  []string{"b", "c"},
		},
		{
			name:     "min edge weight",
			criteria: FilterCriteria{MinEdgeWeight: 0.4},
			wantIDs:  []string{"a", "b", "c", "d"},
		},
		{
			name:     "min edge weight drops weak component",
			criteria: FilterCriteria{MinEdgeWeight: 0.6},
			wantIDs:  []string{"c", "d"},
		},
		{
			name:     "document filter",
			criteria: FilterCriteria{DocumentIDs: []string{"doc3"}},
			wantIDs:  []string{"c", "d"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered := FilterGraph(g, tt.criteria)
			if got := nodeIDs(filtered); !reflect.DeepEqual(got, tt.wantIDs) {
				t.Errorf("node ids = %v, want %v", got, tt.wantIDs)
			}
			if got := degreeSum(filtered); got != 2*len(filtered.Edges) {
				t.Errorf("sum(degree) = %d, want %d", got, 2*len(filtered.Edges))
			}
		})
	}
}

func TestFilterGraphIdempotent(t *testing.T) {
	g := buildTestGraph(t)
	criteria := FilterCriteria{EntityTypes: []string{"person", "organization"}, MinEdgeWeight: 0.3}

	once := FilterGraph(g, criteria)
	twice := FilterGraph(once, criteria)

	if !reflect.DeepEqual(nodeIDs(once), nodeIDs(twice)) {
		t.Errorf("node sets differ: %v vs %v", nodeIDs(once), nodeIDs(twice))
	}
	if len(once.Edges) != len(twice.Edges) {
		t.Errorf("edge counts differ: %d vs %d", len(once.Edges), len(twice.Edges))
	}
}

func TestFilterGraphDoesNotMutateInput(t *testing.T) {
	g := buildTestGraph(t)
	nodesBefore := len(g.Nodes)
	edgesBefore := len(g.Edges)

	FilterGraph(g, FilterCriteria{EntityTypes: []string{"person"}})

	if len(g.Nodes) != nodesBefore || len(g.Edges) != edgesBefore {
		t.Errorf("input graph mutated: %d/%d nodes, %d/%d edges",
			len(g.Nodes), nodesBefore, len(g.Edges), edgesBefore)
	}
}

func TestExtractSubgraph(t *testing.T) {
	g := buildTestGraph(t)

	tests := []struct {
		name    string
		entity  string
		opts    SubgraphOptions
		wantIDs []string
	}{
		{
			name:    "depth 1 around b",
			entity:  "b",
			opts:    SubgraphOptions{Depth: 1},
			wantIDs: []string{"a", "b", "c"},
		},
		{
			name:    "depth 2 reaches d",
			entity:  "b",
			opts:    SubgraphOptions{Depth: 2},
			wantIDs: []string{"a", "b", "c", "d"},
		},
		{
			name:    "min weight blocks traversal",
			entity:  "a",
			opts:    SubgraphOptions{Depth: 3, MinWeight: 0.4},
			wantIDs: []string{"a", "b"},
		},
		{
			name:    "max nodes caps expansion",
			entity:  "b",
			opts:    SubgraphOptions{Depth: 2, MaxNodes: 2},
			wantIDs: []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := ExtractSubgraph(g, tt.entity, tt.opts)
			if got := nodeIDs(sub); !reflect.DeepEqual(got, tt.wantIDs) {
				t.Errorf("node ids = %v, want %v", got, tt.wantIDs)
			}
			if got := degreeSum(sub); got != 2*len(sub.Edges) {
				t.Errorf("sum(degree) = %d, want %d", got, 2*len(sub.Edges))
			}
		})
	}
}

func TestExtractSubgraphMissingEntity(t *testing.T) {
	g := buildTestGraph(t)

	sub := ExtractSubgraph(g, "nope", SubgraphOptions{Depth: 2})

	if len(sub.Nodes) != 0 || len(sub.Edges) != 0 {
		t.Errorf("expected empty graph, got %d nodes %d edges", len(sub.Nodes), len(sub.Edges))
	}
	if sub.Metadata["error"] != "entity not found" {
		t.Errorf("metadata error = %v, want \"entity not found\"", sub.Metadata["error"])
	}
}
