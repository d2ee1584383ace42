package analysis

import (
	"github.com/linkscope/backend/pkg/common"
)

// statisticsSampleCap bounds the number of BFS roots used to estimate
// diameter and average path length. Exact for graphs at or below the cap,
// approximate above it; that trade-off is deliberate.
const statisticsSampleCap = 50

// CalculateStatistics computes the summary metrics for a graph. Clustering
// averages the local coefficient over nodes with at least two neighbors;
// components come from union-find; diameter and average path length are
// estimated from BFS trees rooted at up to 50 sampled nodes.
func CalculateStatistics(g common.Graph) common.GraphStatistics {
	stats := common.GraphStatistics{
		NodeCount:         len(g.Nodes),
		EdgeCount:         len(g.Edges),
		EntityTypes:       map[string]int{},
		RelationshipTypes: map[string]int{},
	}

	n := len(g.Nodes)
	for _, node := range g.Nodes {
		stats.EntityTypes[node.EntityType]++
	}
	for _, e := range g.Edges {
		stats.RelationshipTypes[e.RelationshipType]++
	}
	if n == 0 {
		return stats
	}

	if n > 1 {
		maxEdges := float64(n) * float64(n-1) / 2
		stats.Density = float64(len(g.Edges)) / maxEdges
	}

	totalDegree := 0
	for _, node := range g.Nodes {
		totalDegree += node.Degree
	}
	stats.AvgDegree = float64(totalDegree) / float64(n)

	stats.ClusteringCoefficient = averageClustering(g)
	stats.ConnectedComponents = countComponents(g)

	diameter, avgPath := samplePathLengths(g)
	stats.Diameter = diameter
	stats.AvgPathLength = avgPath

	return stats
}

// averageClustering computes the mean local clustering coefficient over
// nodes with two or more distinct neighbors.
func averageClustering(g common.Graph) float64 {
	adj := g.Adjacency()

	neighborSets := make(map[string]map[string]struct{}, len(g.Nodes))
	for id, neighbors := range adj {
		set := make(map[string]struct{}, len(neighbors))
		for _, nb := range neighbors {
			if nb.ID != id {
				set[nb.ID] = struct{}{}
			}
		}
		neighborSets[id] = set
	}

	total := 0.0
	counted := 0
	for id, set := range neighborSets {
		k := len(set)
		if k < 2 {
			continue
		}
		links := 0
		for a := range set {
			for b := range neighborSets[a] {
				if a < b {
					continue
				}
				if _, ok := set[b]; ok && b != id {
					links++
				}
			}
		}
		total += float64(links) / (float64(k) * float64(k-1) / 2)
		counted++
	}
	if counted == 0 {
		return 0
	}
	return total / float64(counted)
}

// countComponents runs union-find over the edge set.
func countComponents(g common.Graph) int {
	idx := g.NodeIndex()
	parent := make([]int, len(g.Nodes))
	for i := range parent {
		parent[i] = i
	}

	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}

	for _, e := range g.Edges {
		a, b := find(idx[e.Source]), find(idx[e.Target])
		if a != b {
			parent[a] = b
		}
	}

	roots := map[int]struct{}{}
	for i := range parent {
		roots[find(i)] = struct{}{}
	}
	return len(roots)
}

// samplePathLengths estimates diameter and average shortest-path length
// from BFS distance trees rooted at up to statisticsSampleCap nodes.
func samplePathLengths(g common.Graph) (int, float64) {
	n := len(g.Nodes)
	if n < 2 {
		return 0, 0
	}

	roots := make([]string, 0, statisticsSampleCap)
	step := 1
	if n > statisticsSampleCap {
		step = n / statisticsSampleCap
	}
	for i := 0; i < n && len(roots) < statisticsSampleCap; i += step {
		roots = append(roots, g.Nodes[i].ID)
	}

	diameter := 0
	totalDist := 0
	pairs := 0
	for _, root := range roots {
		dist := bfsDistances(g, root, 0)
		for id, d := range dist {
			if id == root {
				continue
			}
			if d > diameter {
				diameter = d
			}
			totalDist += d
			pairs++
		}
	}

	if pairs == 0 {
		return 0, 0
	}
	return diameter, float64(totalDist) / float64(pairs)
}
