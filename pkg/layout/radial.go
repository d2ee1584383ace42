package layout

import (
	"math"

	"github.com/linkscope/backend/pkg/common"
)

// radialLayout puts the center node at the origin and each BFS layer on a
// concentric ring, nodes spread evenly around it.
func radialLayout(g common.Graph, opts Options) *Result {
	result := &Result{
		Type:      "radial",
		Positions: map[string]Position{},
		Metadata:  map[string]any{},
	}
	if len(g.Nodes) == 0 {
		return result
	}

	center := pickRoot(g, opts.RootID)
	layers := bfsLayers(g, center)

	for layerIdx, layer := range layers {
		radius := float64(layerIdx) * opts.Spacing
		for i, id := range layer {
			if layerIdx == 0 {
				result.Positions[id] = Position{}
				continue
			}
			angle := 2 * math.Pi * float64(i) / float64(len(layer))
			result.Positions[id] = Position{
				X: radius * math.Cos(angle),
				Y: radius * math.Sin(angle),
			}
		}
	}

	width, height := extents(result.Positions)
	result.Metadata["center"] = center
	result.Metadata["layers"] = len(layers)
	result.Metadata["width"] = width
	result.Metadata["height"] = height
	return result
}

// circularLayout places every node on a single ring, highest degree first
// so hubs sit next to each other.
func circularLayout(g common.Graph, opts Options) *Result {
	result := &Result{
		Type:      "circular",
		Positions: map[string]Position{},
		Metadata:  map[string]any{},
	}
	n := len(g.Nodes)
	if n == 0 {
		return result
	}

	// Radius grows with node count so spacing along the ring stays stable.
	radius := opts.Spacing * float64(n) / (2 * math.Pi)
	if radius < opts.Spacing {
		radius = opts.Spacing
	}

	for i, id := range sortByDegreeDesc(g) {
		angle := 2 * math.Pi * float64(i) / float64(n)
		result.Positions[id] = Position{
			X: radius * math.Cos(angle),
			Y: radius * math.Sin(angle),
		}
	}

	result.Metadata["radius"] = radius
	result.Metadata["width"] = 2 * radius
	result.Metadata["height"] = 2 * radius
	return result
}
