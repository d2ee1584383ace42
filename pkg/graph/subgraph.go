package graph

import (
	"time"

	"github.com/linkscope/backend/pkg/common"
)

// SubgraphOptions bounds the breadth-first expansion of ExtractSubgraph.
type SubgraphOptions struct {
	Depth     int
	MaxNodes  int
	MinWeight float64
}

// ExtractSubgraph expands breadth-first from the given entity, bounded
// jointly by Depth and MaxNodes; edges lighter than MinWeight are not
// traversed. A missing entity fails softly: an empty Graph tagged with an
// error in its metadata, so callers can render a no-data state.
func ExtractSubgraph(g common.Graph, entityID string, opts SubgraphOptions) common.Graph {
	now := time.Now().UTC()
	if g.Node(entityID) == nil {
		return common.Graph{
			ID:        g.ID + "-sub",
			ProjectID: g.ProjectID,
			Nodes:     []common.GraphNode{},
			Edges:     []common.GraphEdge{},
			Metadata: map[string]any{
				"error":     "entity not found",
				"entity_id": entityID,
			},
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	depth := opts.Depth
	if depth < 1 {
		depth = 1
	}
	maxNodes := opts.MaxNodes
	if maxNodes < 1 {
		maxNodes = len(g.Nodes)
	}

	adj := g.Adjacency()

	type queueItem struct {
		id    string
		depth int
	}

	included := map[string]struct{}{entityID: {}}
	queue := []queueItem{{id: entityID, depth: 0}}

	for len(queue) > 0 && len(included) < maxNodes {
		item := queue[0]
		queue = queue[1:]
		if item.depth >= depth {
			continue
		}
		for _, nb := range adj[item.id] {
			if nb.Weight < opts.MinWeight {
				continue
			}
			if _, seen := included[nb.ID]; seen {
				continue
			}
			included[nb.ID] = struct{}{}
			queue = append(queue, queueItem{id: nb.ID, depth: item.depth + 1})
			if len(included) >= maxNodes {
				break
			}
		}
	}

	out := common.Graph{
		ID:        g.ID + "-sub",
		ProjectID: g.ProjectID,
		Nodes:     make([]common.GraphNode, 0, len(included)),
		Edges:     []common.GraphEdge{},
		Metadata: map[string]any{
			"root_entity": entityID,
			"depth":       depth,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	for _, n := range g.Nodes {
		if _, ok := included[n.ID]; ok {
			out.Nodes = append(out.Nodes, n)
		}
	}
	for _, e := range g.Edges {
		if _, ok := included[e.Source]; !ok {
			continue
		}
		if _, ok := included[e.Target]; !ok {
			continue
		}
		if e.Weight < opts.MinWeight {
			continue
		}
		out.Edges = append(out.Edges, e)
	}

	out.RecomputeDegrees()
	return out
}
