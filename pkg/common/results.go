package common

// GraphPath is an ordered walk through the graph. Length counts edges, not
// nodes. Paths are produced fresh per call and owned by the caller.
type GraphPath struct {
	Nodes       []string    `json:"nodes"`
	Edges       []GraphEdge `json:"edges"`
	TotalWeight float64     `json:"total_weight"`
	Length      int         `json:"length"`
}

// CentralityResult is one entity's score under a centrality metric,
// normalized to [0,1], with 1-based rank after sorting.
type CentralityResult struct {
	EntityID string  `json:"entity_id"`
	Score    float64 `json:"score"`
	Rank     int     `json:"rank"`
}

// Community is one detected community, with internal/external edge counts
// against the rest of the graph.
type Community struct {
	ID            int      `json:"id"`
	Members       []string `json:"members"`
	Size          int      `json:"size"`
	Density       float64  `json:"density"`
	InternalEdges int      `json:"internal_edges"`
	ExternalEdges int      `json:"external_edges"`
}

// GraphStatistics summarizes a graph's shape. Diameter and AvgPathLength are
// estimated from BFS trees rooted at a bounded sample of nodes, so they are
// exact for small graphs and approximate for large ones.
type GraphStatistics struct {
	NodeCount             int            `json:"node_count"`
	EdgeCount             int            `json:"edge_count"`
	Density               float64        `json:"density"`
	AvgDegree             float64        `json:"avg_degree"`
	ClusteringCoefficient float64        `json:"clustering_coefficient"`
	ConnectedComponents   int            `json:"connected_components"`
	Diameter              int            `json:"diameter"`
	AvgPathLength         float64        `json:"avg_path_length"`
	EntityTypes           map[string]int `json:"entity_types"`
	RelationshipTypes     map[string]int `json:"relationship_types"`
}
