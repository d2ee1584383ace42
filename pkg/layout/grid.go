package layout

import (
	"math"

	"github.com/linkscope/backend/pkg/common"
)

// bipartiteLayout splits nodes into two degree-sorted columns by entity
// type. LeftTypes selects the left column; when empty, the most common
// entity type takes it.
func bipartiteLayout(g common.Graph, opts Options) *Result {
	result := &Result{
		Type:      "bipartite",
		Positions: map[string]Position{},
		Metadata:  map[string]any{},
	}
	if len(g.Nodes) == 0 {
		return result
	}

	leftTypes := map[string]bool{}
	for _, t := range opts.LeftTypes {
		leftTypes[t] = true
	}
	if len(leftTypes) == 0 {
		counts := map[string]int{}
		best := ""
		for _, n := range g.Nodes {
			counts[n.EntityType]++
			if best == "" || counts[n.EntityType] > counts[best] ||
				(counts[n.EntityType] == counts[best] && n.EntityType < best) {
				best = n.EntityType
			}
		}
		leftTypes[best] = true
	}

	nodeType := map[string]string{}
	for _, n := range g.Nodes {
		nodeType[n.ID] = n.EntityType
	}

	var left, right []string
	for _, id := range sortByDegreeDesc(g) {
		if leftTypes[nodeType[id]] {
			left = append(left, id)
		} else {
			right = append(right, id)
		}
	}

	spacing := opts.Spacing
	columnGap := 4 * spacing
	for i, id := range left {
		result.Positions[id] = Position{X: 0, Y: float64(i) * spacing}
	}
	for i, id := range right {
		result.Positions[id] = Position{X: columnGap, Y: float64(i) * spacing}
	}

	width, height := extents(result.Positions)
	result.Metadata["left_count"] = len(left)
	result.Metadata["right_count"] = len(right)
	result.Metadata["width"] = width
	result.Metadata["height"] = height
	return result
}

// gridLayout places degree-sorted nodes on an automatically squared grid.
func gridLayout(g common.Graph, opts Options) *Result {
	result := &Result{
		Type:      "grid",
		Positions: map[string]Position{},
		Metadata:  map[string]any{},
	}
	n := len(g.Nodes)
	if n == 0 {
		return result
	}

	cols := int(math.Ceil(math.Sqrt(float64(n))))
	for i, id := range sortByDegreeDesc(g) {
		row := i / cols
		col := i % cols
		result.Positions[id] = Position{
			X: float64(col) * opts.Spacing,
			Y: float64(row) * opts.Spacing,
		}
	}

	width, height := extents(result.Positions)
	result.Metadata["columns"] = cols
	result.Metadata["rows"] = (n + cols - 1) / cols
	result.Metadata["width"] = width
	result.Metadata["height"] = height
	return result
}
