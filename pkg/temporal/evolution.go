package temporal

import (
	"sort"
	"time"
)

// EvolutionMetrics summarizes how a snapshot series developed: how much was
// added and removed in total, how fast each interval grew, how volatile the
// graph was, which nodes and edges survived the whole series, and when the
// graph peaked.
type EvolutionMetrics struct {
	SnapshotCount     int       `json:"snapshot_count"`
	TotalNodesAdded   int       `json:"total_nodes_added"`
	TotalNodesRemoved int       `json:"total_nodes_removed"`
	TotalEdgesAdded   int       `json:"total_edges_added"`
	TotalEdgesRemoved int       `json:"total_edges_removed"`
	GrowthRates       []float64 `json:"growth_rates"`
	NodeChurnRate     float64   `json:"node_churn_rate"`
	EdgeChurnRate     float64   `json:"edge_churn_rate"`
	StableNodes       []string  `json:"stable_nodes"`
	StableEdges       []string  `json:"stable_edges"`
	PeakNodeCount     int       `json:"peak_node_count"`
	PeakNodeTime      time.Time `json:"peak_node_time"`
	PeakEdgeCount     int       `json:"peak_edge_count"`
	PeakEdgeTime      time.Time `json:"peak_edge_time"`
}

// CalculateEvolutionMetrics aggregates a snapshot series. Growth rates are
// per-interval relative node-count changes (a growth from an empty snapshot
// counts as 0). Churn is (added + removed) / final count; a series that
// ends empty has churn 0.
func CalculateEvolutionMetrics(snapshots []Snapshot) *EvolutionMetrics {
	m := &EvolutionMetrics{SnapshotCount: len(snapshots)}
	if len(snapshots) == 0 {
		return m
	}

	stableNodes := toSet(nodeIDs(snapshots[0]))
	stableEdges := toSet(edgeKeys(snapshots[0]))

	for i, snap := range snapshots {
		m.TotalNodesAdded += len(snap.AddedNodes)
		m.TotalNodesRemoved += len(snap.RemovedNodes)
		m.TotalEdgesAdded += len(snap.AddedEdges)
		m.TotalEdgesRemoved += len(snap.RemovedEdges)

		if snap.NodeCount > m.PeakNodeCount {
			m.PeakNodeCount = snap.NodeCount
			m.PeakNodeTime = snap.Timestamp
		}
		if snap.EdgeCount > m.PeakEdgeCount {
			m.PeakEdgeCount = snap.EdgeCount
			m.PeakEdgeTime = snap.Timestamp
		}

		if i > 0 {
			prev := snapshots[i-1].NodeCount
			rate := 0.0
			if prev > 0 {
				rate = float64(snap.NodeCount-prev) / float64(prev)
			}
			m.GrowthRates = append(m.GrowthRates, rate)

			intersect(stableNodes, toSet(nodeIDs(snap)))
			intersect(stableEdges, toSet(edgeKeys(snap)))
		}
	}

	final := snapshots[len(snapshots)-1]
	if final.NodeCount > 0 {
		m.NodeChurnRate = float64(m.TotalNodesAdded+m.TotalNodesRemoved) / float64(final.NodeCount)
	}
	if final.EdgeCount > 0 {
		m.EdgeChurnRate = float64(m.TotalEdgesAdded+m.TotalEdgesRemoved) / float64(final.EdgeCount)
	}

	m.StableNodes = sortedKeys(stableNodes)
	m.StableEdges = sortedKeys(stableEdges)
	return m
}

func nodeIDs(s Snapshot) []string {
	ids := make([]string, 0, len(s.Graph.Nodes))
	for _, n := range s.Graph.Nodes {
		ids = append(ids, n.ID)
	}
	return ids
}

func edgeKeys(s Snapshot) []string {
	keys := make([]string, 0, len(s.Graph.Edges))
	for _, e := range s.Graph.Edges {
		keys = append(keys, e.Source+"->"+e.Target)
	}
	return keys
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// intersect removes from a everything not in b.
func intersect(a, b map[string]bool) {
	for k := range a {
		if !b[k] {
			delete(a, k)
		}
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
