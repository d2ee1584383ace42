// Package layout computes static node coordinates from graph topology
// alone. There is no physics simulation here; force-directed refinement is
// the rendering client's job.
package layout

import (
	"errors"
	"fmt"
	"sort"

	"github.com/linkscope/backend/pkg/common"
)

// ErrUnknownLayout is returned for a layout type no algorithm exists for.
var ErrUnknownLayout = errors.New("unknown layout type")

const defaultSpacing = 100.0

// Position is one node's computed coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Result is a full layout: positions per node id plus layout-specific
// metadata such as the chosen root, layer count, and canvas extents.
type Result struct {
	Type      string              `json:"type"`
	Positions map[string]Position `json:"positions"`
	Metadata  map[string]any      `json:"metadata"`
}

// Options selects and tunes a layout. RootID is optional; when empty the
// highest-degree node is used. Direction applies to the hierarchical
// layout: "top-down" (default), "bottom-up", "left-right", "right-left".
// LeftTypes picks which entity types form the left column of the bipartite
// layout; empty means the most common type.
type Options struct {
	Type      string   `json:"type"`
	RootID    string   `json:"root_id,omitempty"`
	Direction string   `json:"direction,omitempty"`
	Spacing   float64  `json:"spacing,omitempty"`
	LeftTypes []string `json:"left_types,omitempty"`
}

// Calculate dispatches to the requested layout. An unknown type is a
// caller programming error and fails fast.
func Calculate(g common.Graph, opts Options) (*Result, error) {
	if opts.Spacing <= 0 {
		opts.Spacing = defaultSpacing
	}
	switch opts.Type {
	case "hierarchical":
		return hierarchicalLayout(g, opts), nil
	case "radial":
		return radialLayout(g, opts), nil
	case "circular":
		return circularLayout(g, opts), nil
	case "tree":
		return treeLayout(g, opts), nil
	case "bipartite":
		return bipartiteLayout(g, opts), nil
	case "grid":
		return gridLayout(g, opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, opts.Type)
	}
}

// pickRoot returns the configured root if it exists, otherwise the
// highest-degree node, breaking ties by id for determinism.
func pickRoot(g common.Graph, rootID string) string {
	if rootID != "" && g.Node(rootID) != nil {
		return rootID
	}
	best := ""
	bestDegree := -1
	for _, n := range g.Nodes {
		if n.Degree > bestDegree || (n.Degree == bestDegree && n.ID < best) {
			best = n.ID
			bestDegree = n.Degree
		}
	}
	return best
}

// bfsLayers partitions nodes into BFS layers from the root. Nodes the BFS
// never reaches are placed one layer beyond the deepest reached layer
// instead of failing.
func bfsLayers(g common.Graph, root string) [][]string {
	adj := g.Adjacency()
	depth := map[string]int{root: 0}
	queue := []string{root}
	maxDepth := 0

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, nb := range adj[id] {
			if _, seen := depth[nb.ID]; seen {
				continue
			}
			depth[nb.ID] = depth[id] + 1
			if depth[nb.ID] > maxDepth {
				maxDepth = depth[nb.ID]
			}
			queue = append(queue, nb.ID)
		}
	}

	layers := make([][]string, maxDepth+2)
	for _, n := range g.Nodes {
		d, reached := depth[n.ID]
		if !reached {
			d = maxDepth + 1
		}
		layers[d] = append(layers[d], n.ID)
	}
	if len(layers[maxDepth+1]) == 0 {
		layers = layers[:maxDepth+1]
	}
	for _, layer := range layers {
		sort.Strings(layer)
	}
	return layers
}

func sortByDegreeDesc(g common.Graph) []string {
	ids := make([]string, 0, len(g.Nodes))
	degree := make(map[string]int, len(g.Nodes))
	for _, n := range g.Nodes {
		ids = append(ids, n.ID)
		degree[n.ID] = n.Degree
	}
	sort.Slice(ids, func(i, j int) bool {
		if degree[ids[i]] != degree[ids[j]] {
			return degree[ids[i]] > degree[ids[j]]
		}
		return ids[i] < ids[j]
	})
	return ids
}

func extents(positions map[string]Position) (width, height float64) {
	first := true
	var minX, maxX, minY, maxY float64
	for _, p := range positions {
		if first {
			minX, maxX, minY, maxY = p.X, p.X, p.Y, p.Y
			first = false
			continue
		}
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return maxX - minX, maxY - minY
}
