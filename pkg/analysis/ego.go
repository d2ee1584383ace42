package analysis

import (
	"math"
	"time"

	"github.com/linkscope/backend/pkg/common"
)

// EgoOptions configures ExtractEgoNetwork. Depth is clamped to 1 or 2.
// ExcludeAlterEdges drops edges between alters so only spokes from the ego
// remain.
type EgoOptions struct {
	Depth             int
	ExcludeAlterEdges bool
}

// ExtractEgoNetwork returns the subgraph around a focal node, tagging each
// node's properties with its distance from the ego ("ego_distance") and
// whether it is the ego ("is_ego"). A missing ego yields an empty graph
// with an error tag, matching the no-data contract.
func ExtractEgoNetwork(g common.Graph, entityID string, opts EgoOptions) common.Graph {
	now := time.Now().UTC()
	if g.Node(entityID) == nil {
		return common.Graph{
			ID:        g.ID + "-ego",
			ProjectID: g.ProjectID,
			Nodes:     []common.GraphNode{},
			Edges:     []common.GraphEdge{},
			Metadata:  map[string]any{"error": "entity not found", "entity_id": entityID},
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	depth := opts.Depth
	if depth < 1 {
		depth = 1
	}
	if depth > 2 {
		depth = 2
	}

	dist := bfsDistances(g, entityID, depth)

	out := common.Graph{
		ID:        g.ID + "-ego",
		ProjectID: g.ProjectID,
		Nodes:     make([]common.GraphNode, 0, len(dist)),
		Edges:     []common.GraphEdge{},
		Metadata:  map[string]any{"ego": entityID, "depth": depth},
		CreatedAt: now,
		UpdatedAt: now,
	}

	for _, n := range g.Nodes {
		d, ok := dist[n.ID]
		if !ok {
			continue
		}
		node := n
		node.Properties = map[string]any{}
		for k, v := range n.Properties {
			node.Properties[k] = v
		}
		node.Properties["ego_distance"] = d
		node.Properties["is_ego"] = n.ID == entityID
		out.Nodes = append(out.Nodes, node)
	}

	for _, e := range g.Edges {
		_, hasSource := dist[e.Source]
		_, hasTarget := dist[e.Target]
		if !hasSource || !hasTarget {
			continue
		}
		if opts.ExcludeAlterEdges && e.Source != entityID && e.Target != entityID {
			continue
		}
		out.Edges = append(out.Edges, e)
	}

	out.RecomputeDegrees()
	return out
}

// StructuralHoles holds Burt's measures for one ego. EffectiveSize never
// exceeds AlterCount.
type StructuralHoles struct {
	EntityID      string  `json:"entity_id"`
	AlterCount    int     `json:"alter_count"`
	EffectiveSize float64 `json:"effective_size"`
	Efficiency    float64 `json:"efficiency"`
	Constraint    float64 `json:"constraint"`
	Hierarchy     float64 `json:"hierarchy"`
}

// CalculateStructuralHoles computes Burt's effective size (alters minus
// redundancy), efficiency, constraint, and hierarchy for the given ego.
// Hierarchy here is the variance of per-alter constraint divided by the
// alter count and clamped to [0,1], a simpler concentration measure than
// Burt's textbook formula.
func CalculateStructuralHoles(g common.Graph, entityID string) StructuralHoles {
	result := StructuralHoles{EntityID: entityID}
	if g.Node(entityID) == nil {
		return result
	}

	adj := g.Adjacency()

	// Direct tie weights from the ego; parallel edges accumulate.
	ties := map[string]float64{}
	for _, nb := range adj[entityID] {
		if nb.ID == entityID {
			continue
		}
		w := nb.Weight
		if w <= 0 {
			w = 1
		}
		ties[nb.ID] += w
	}
	alterCount := len(ties)
	result.AlterCount = alterCount
	if alterCount == 0 {
		return result
	}

	var totalTie float64
	for _, w := range ties {
		totalTie += w
	}

	// p[j]: proportion of the ego's energy invested in alter j.
	p := map[string]float64{}
	for j, w := range ties {
		p[j] = w / totalTie
	}

	// alterTies[j][q]: tie weight between alters j and q.
	alterTies := map[string]map[string]float64{}
	alterMax := map[string]float64{}
	for j := range ties {
		alterTies[j] = map[string]float64{}
		for _, nb := range adj[j] {
			if _, isAlter := ties[nb.ID]; !isAlter || nb.ID == j {
				continue
			}
			w := nb.Weight
			if w <= 0 {
				w = 1
			}
			alterTies[j][nb.ID] += w
		}
		for _, w := range alterTies[j] {
			if w > alterMax[j] {
				alterMax[j] = w
			}
		}
	}

	// Effective size: each alter contributes 1 minus its redundancy, the
	// sum of the ego's investment in every other alter weighted by how
	// strongly that alter reaches j.
	effective := 0.0
	for j := range ties {
		redundancy := 0.0
		for q := range ties {
			if q == j {
				continue
			}
			m := 0.0
			if alterMax[q] > 0 {
				m = alterTies[q][j] / alterMax[q]
			}
			redundancy += p[q] * m
		}
		effective += 1 - redundancy
	}
	if effective > float64(alterCount) {
		effective = float64(alterCount)
	}
	result.EffectiveSize = effective
	result.Efficiency = effective / float64(alterCount)

	// Constraint: direct plus indirect investment in each alter, squared.
	perAlter := map[string]float64{}
	for j := range ties {
		indirect := 0.0
		for q := range ties {
			if q == j || q == entityID {
				continue
			}
			var pq float64
			var qTotal float64
			for _, w := range alterTies[q] {
				qTotal += w
			}
			if egoTie, ok := ties[q]; ok {
				qTotal += egoTie
			}
			if qTotal > 0 {
				pq = alterTies[q][j] / qTotal
			}
			indirect += p[q] * pq
		}
		c := (p[j] + indirect) * (p[j] + indirect)
		perAlter[j] = c
		result.Constraint += c
	}

	// Hierarchy: concentration of constraint across alters.
	mean := result.Constraint / float64(alterCount)
	variance := 0.0
	for _, c := range perAlter {
		variance += (c - mean) * (c - mean)
	}
	variance /= float64(alterCount)
	hierarchy := variance / float64(alterCount)
	result.Hierarchy = math.Min(1, hierarchy)

	return result
}

// EgoMetrics combines structural-hole measures with local density and tie
// strength, and flags the ego's brokerage role.
type EgoMetrics struct {
	StructuralHoles
	AlterDensity   float64 `json:"alter_density"`
	AvgTieStrength float64 `json:"avg_tie_strength"`
	Role           string  `json:"role"`
}

// Role thresholds: a bridge spans otherwise-disconnected alters, a
// coordinator sits inside a dense cluster.
const (
	bridgeEfficiencyMin   = 0.7
	bridgeDensityMax      = 0.4
	coordinatorDensityMin = 0.6
)

// CalculateEgoMetrics computes the combined ego-network profile for one
// entity. Entities absent from the graph return a zero-value result.
func CalculateEgoMetrics(g common.Graph, entityID string) EgoMetrics {
	metrics := EgoMetrics{StructuralHoles: CalculateStructuralHoles(g, entityID)}
	if metrics.AlterCount == 0 {
		return metrics
	}

	adj := g.Adjacency()
	alters := map[string]struct{}{}
	var tieTotal float64
	tieCount := 0
	for _, nb := range adj[entityID] {
		if nb.ID == entityID {
			continue
		}
		alters[nb.ID] = struct{}{}
		tieTotal += nb.Weight
		tieCount++
	}
	if tieCount > 0 {
		metrics.AvgTieStrength = tieTotal / float64(tieCount)
	}

	// Alter-alter density over the possible pairs.
	links := 0
	for _, e := range g.Edges {
		if e.Source == entityID || e.Target == entityID || e.Source == e.Target {
			continue
		}
		_, srcIn := alters[e.Source]
		_, dstIn := alters[e.Target]
		if srcIn && dstIn {
			links++
		}
	}
	k := len(alters)
	if k > 1 {
		metrics.AlterDensity = float64(links) / (float64(k) * float64(k-1) / 2)
	}

	switch {
	case metrics.AlterDensity >= coordinatorDensityMin:
		metrics.Role = "coordinator"
	case metrics.Efficiency >= bridgeEfficiencyMin && metrics.AlterDensity <= bridgeDensityMax:
		metrics.Role = "bridge"
	default:
		metrics.Role = "mixed"
	}

	return metrics
}
