package graph

import (
	"github.com/linkscope/backend/pkg/common"
)

// FilterCriteria describes which nodes and edges survive a filter pass.
// Nil/zero fields are skipped. Criteria apply in sequence: the node-type
// filter first, then the edge filters restricted to surviving nodes.
type FilterCriteria struct {
	EntityTypes       []string
	MinDegree         int
	MinEdgeWeight     float64
	RelationshipTypes []string
	DocumentIDs       []string
}

// FilterGraph applies the criteria and returns a new Graph. Degrees are
// recomputed after edge removal, and nodes left with degree 0 are dropped.
// Filtering twice with identical criteria yields an equivalent graph.
func FilterGraph(g common.Graph, criteria FilterCriteria) common.Graph {
	out := g.Clone()

	if len(criteria.EntityTypes) > 0 {
		allowed := toSet(criteria.EntityTypes)
		kept := out.Nodes[:0]
		for _, n := range out.Nodes {
			if _, ok := allowed[n.EntityType]; ok {
				kept = append(kept, n)
			}
		}
		out.Nodes = kept
	}

	surviving := make(map[string]struct{}, len(out.Nodes))
	for _, n := range out.Nodes {
		surviving[n.ID] = struct{}{}
	}

	relTypes := toSet(criteria.RelationshipTypes)
	docIDs := toSet(criteria.DocumentIDs)

	keptEdges := out.Edges[:0]
	for _, e := range out.Edges {
		if _, ok := surviving[e.Source]; !ok {
			continue
		}
		if _, ok := surviving[e.Target]; !ok {
			continue
		}
		if criteria.MinEdgeWeight > 0 && e.Weight < criteria.MinEdgeWeight {
			continue
		}
		if len(relTypes) > 0 {
			if _, ok := relTypes[e.RelationshipType]; !ok {
				continue
			}
		}
		if len(docIDs) > 0 && !containsAny(e.DocumentIDs, docIDs) {
			continue
		}
		keptEdges = append(keptEdges, e)
	}
	out.Edges = keptEdges

	out.RecomputeDegrees()

	// Degree threshold, then drop isolates. A single recompute pass is
	// enough because removing isolates cannot change remaining degrees.
	if criteria.MinDegree > 0 {
		keptNodes := out.Nodes[:0]
		removed := make(map[string]struct{})
		for _, n := range out.Nodes {
			if n.Degree >= criteria.MinDegree {
				keptNodes = append(keptNodes, n)
			} else {
				removed[n.ID] = struct{}{}
			}
		}
		out.Nodes = keptNodes

		if len(removed) > 0 {
			keptEdges := out.Edges[:0]
			for _, e := range out.Edges {
				if _, ok := removed[e.Source]; ok {
					continue
				}
				if _, ok := removed[e.Target]; ok {
					continue
				}
				keptEdges = append(keptEdges, e)
			}
			out.Edges = keptEdges
			out.RecomputeDegrees()
		}
	}

	keptNodes := out.Nodes[:0]
	for _, n := range out.Nodes {
		if n.Degree > 0 {
			keptNodes = append(keptNodes, n)
		}
	}
	out.Nodes = keptNodes

	return out
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func containsAny(values []string, set map[string]struct{}) bool {
	for _, v := range values {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}
