package layout

import (
	"sort"

	"github.com/linkscope/backend/pkg/common"
)

// treeLayout lays out a BFS spanning tree of the graph: leaves are placed
// left to right and every parent is centered over its children. Edges that
// close cycles are simply not part of the spanning tree. The horizontal
// cursor is threaded through return values rather than shared state.
func treeLayout(g common.Graph, opts Options) *Result {
	result := &Result{
		Type:      "tree",
		Positions: map[string]Position{},
		Metadata:  map[string]any{},
	}
	if len(g.Nodes) == 0 {
		return result
	}

	root := pickRoot(g, opts.RootID)
	children, depth := spanningTree(g, root)

	cursor := placeSubtree(result.Positions, children, root, 0, 0, opts.Spacing)

	// Disconnected nodes go one row beyond the deepest reached layer.
	maxDepth := 0
	for _, d := range depth {
		if d > maxDepth {
			maxDepth = d
		}
	}
	var stranded []string
	for _, n := range g.Nodes {
		if _, reached := depth[n.ID]; !reached {
			stranded = append(stranded, n.ID)
		}
	}
	sort.Strings(stranded)
	for _, id := range stranded {
		result.Positions[id] = Position{
			X: float64(cursor) * opts.Spacing,
			Y: float64(maxDepth+1) * opts.Spacing,
		}
		cursor++
	}

	width, height := extents(result.Positions)
	result.Metadata["root"] = root
	result.Metadata["depth"] = maxDepth
	result.Metadata["width"] = width
	result.Metadata["height"] = height
	return result
}

// spanningTree runs BFS from root and records each node's tree children
// and depth.
func spanningTree(g common.Graph, root string) (map[string][]string, map[string]int) {
	adj := g.Adjacency()
	children := map[string][]string{}
	depth := map[string]int{root: 0}
	queue := []string{root}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		neighbors := make([]string, 0, len(adj[id]))
		for _, nb := range adj[id] {
			neighbors = append(neighbors, nb.ID)
		}
		sort.Strings(neighbors)
		for _, nb := range neighbors {
			if _, seen := depth[nb]; seen {
				continue
			}
			depth[nb] = depth[id] + 1
			children[id] = append(children[id], nb)
			queue = append(queue, nb)
		}
	}
	return children, depth
}

// placeSubtree positions a subtree post-order and returns the advanced
// horizontal cursor. Leaves take the next free slot; interior nodes center
// over their children.
func placeSubtree(
	positions map[string]Position,
	children map[string][]string,
	id string,
	depth, cursor int,
	spacing float64,
) int {
	kids := children[id]
	if len(kids) == 0 {
		positions[id] = Position{X: float64(cursor) * spacing, Y: float64(depth) * spacing}
		return cursor + 1
	}

	for _, child := range kids {
		cursor = placeSubtree(positions, children, child, depth+1, cursor, spacing)
	}

	first := positions[kids[0]]
	last := positions[kids[len(kids)-1]]
	positions[id] = Position{X: (first.X + last.X) / 2, Y: float64(depth) * spacing}
	return cursor
}
