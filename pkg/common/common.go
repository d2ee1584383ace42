package common

import "time"

// Graph represents a derived relationship graph for one project. It is the
// value every analysis component operates on.
//
// A Graph is immutable by convention: builders and filters always return a
// new Graph value and never modify an existing one, so concurrent reads of
// the same Graph are always safe.
type Graph struct {
	ID        string         `json:"id"`
	ProjectID int64          `json:"project_id"`
	Nodes     []GraphNode    `json:"nodes"`
	Edges     []GraphEdge    `json:"edges"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// GraphNode is a single entity inside a Graph. Degree is derived and must
// equal the number of edges touching the node; every operation that removes
// edges recomputes it before returning.
type GraphNode struct {
	ID            string         `json:"id"`
	EntityID      string         `json:"entity_id"`
	Label         string         `json:"label"`
	EntityType    string         `json:"entity_type"`
	DocumentCount int            `json:"document_count"`
	Degree        int            `json:"degree"`
	Credibility   *float64       `json:"credibility,omitempty"`
	Properties    map[string]any `json:"properties,omitempty"`
}

// GraphEdge connects two nodes by id. Edges are traversed as undirected, but
// Source and Target are kept ordered because causal and flow analysis read
// direction from them. Weight is conventionally normalized to [0,1].
type GraphEdge struct {
	Source            string         `json:"source"`
	Target            string         `json:"target"`
	RelationshipType  string         `json:"relationship_type"`
	Weight            float64        `json:"weight"`
	DocumentIDs       []string       `json:"document_ids,omitempty"`
	CoOccurrenceCount int            `json:"co_occurrence_count"`
	Confidence        *float64       `json:"confidence,omitempty"`
	Properties        map[string]any `json:"properties,omitempty"`
}

// Neighbor pairs an adjacent node id with the weight and index of the edge
// that reaches it.
type Neighbor struct {
	ID     string
	Weight float64
	Edge   int
}

// NodeIndex maps node id to its position in Nodes.
func (g *Graph) NodeIndex() map[string]int {
	idx := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		idx[n.ID] = i
	}
	return idx
}

// Node returns the node with the given id, or nil if it is not in the graph.
func (g *Graph) Node(id string) *GraphNode {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// Adjacency builds an undirected adjacency list over the current edge set.
// Self loops contribute a single entry.
func (g *Graph) Adjacency() map[string][]Neighbor {
	adj := make(map[string][]Neighbor, len(g.Nodes))
	for _, n := range g.Nodes {
		adj[n.ID] = nil
	}
	for i, e := range g.Edges {
		adj[e.Source] = append(adj[e.Source], Neighbor{ID: e.Target, Weight: e.Weight, Edge: i})
		if e.Source != e.Target {
			adj[e.Target] = append(adj[e.Target], Neighbor{ID: e.Source, Weight: e.Weight, Edge: i})
		}
	}
	return adj
}

// RecomputeDegrees sets every node's Degree to the number of edges touching
// it. Callers that drop edges must call this before handing the Graph out.
func (g *Graph) RecomputeDegrees() {
	counts := make(map[string]int, len(g.Nodes))
	for _, e := range g.Edges {
		counts[e.Source]++
		if e.Source != e.Target {
			counts[e.Target]++
		}
	}
	for i := range g.Nodes {
		g.Nodes[i].Degree = counts[g.Nodes[i].ID]
	}
}

// Clone returns a deep copy of the graph. Filter operations start from a
// clone so the input Graph is never touched.
func (g *Graph) Clone() Graph {
	out := Graph{
		ID:        g.ID,
		ProjectID: g.ProjectID,
		Nodes:     make([]GraphNode, len(g.Nodes)),
		Edges:     make([]GraphEdge, len(g.Edges)),
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
	for i, n := range g.Nodes {
		out.Nodes[i] = n
		out.Nodes[i].Properties = cloneMap(n.Properties)
	}
	for i, e := range g.Edges {
		out.Edges[i] = e
		out.Edges[i].DocumentIDs = append([]string(nil), e.DocumentIDs...)
		out.Edges[i].Properties = cloneMap(e.Properties)
	}
	out.Metadata = cloneMap(g.Metadata)
	return out
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
