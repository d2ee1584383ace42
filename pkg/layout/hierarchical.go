package layout

import (
	"sort"

	"github.com/linkscope/backend/pkg/common"
)

// hierarchicalLayout arranges BFS layers as rows (or columns), reordering
// each layer by the barycenter of its neighbors in the previous layer to
// reduce edge crossings.
func hierarchicalLayout(g common.Graph, opts Options) *Result {
	result := &Result{
		Type:      "hierarchical",
		Positions: map[string]Position{},
		Metadata:  map[string]any{},
	}
	if len(g.Nodes) == 0 {
		return result
	}

	root := pickRoot(g, opts.RootID)
	layers := bfsLayers(g, root)
	reorderByBarycenter(g, layers)

	spacing := opts.Spacing
	for layerIdx, layer := range layers {
		offset := -(float64(len(layer)-1) / 2) * spacing
		for i, id := range layer {
			along := offset + float64(i)*spacing
			across := float64(layerIdx) * spacing
			result.Positions[id] = orient(along, across, opts.Direction)
		}
	}

	width, height := extents(result.Positions)
	result.Metadata["root"] = root
	result.Metadata["layers"] = len(layers)
	result.Metadata["width"] = width
	result.Metadata["height"] = height
	return result
}

// orient maps (position along the layer, distance across layers) into x/y
// for the four direction modes. Top-down is the default.
func orient(along, across float64, direction string) Position {
	switch direction {
	case "bottom-up":
		return Position{X: along, Y: -across}
	case "left-right":
		return Position{X: across, Y: along}
	case "right-left":
		return Position{X: -across, Y: along}
	default:
		return Position{X: along, Y: across}
	}
}

// reorderByBarycenter sorts every layer after the first by the mean index
// of each node's neighbors in the layer above. One downward sweep is
// enough to remove most crossings in co-occurrence graphs.
func reorderByBarycenter(g common.Graph, layers [][]string) {
	adj := g.Adjacency()

	for layerIdx := 1; layerIdx < len(layers); layerIdx++ {
		prevIndex := map[string]int{}
		for i, id := range layers[layerIdx-1] {
			prevIndex[id] = i
		}

		barycenter := map[string]float64{}
		for _, id := range layers[layerIdx] {
			sum := 0.0
			count := 0
			for _, nb := range adj[id] {
				if pos, ok := prevIndex[nb.ID]; ok {
					sum += float64(pos)
					count++
				}
			}
			if count > 0 {
				barycenter[id] = sum / float64(count)
			} else {
				barycenter[id] = float64(len(layers[layerIdx-1])) / 2
			}
		}

		layer := layers[layerIdx]
		sort.SliceStable(layer, func(i, j int) bool {
			return barycenter[layer[i]] < barycenter[layer[j]]
		})
	}
}
