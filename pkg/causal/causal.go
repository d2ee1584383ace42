// Package causal treats a subset of the relationship graph as a directed
// cause-effect network: it validates DAG structure, enumerates causal and
// backdoor paths, identifies confounders, and produces naive intervention
// estimates. Causal edges come from free-text relationship extraction, so a
// cyclic result is data to show the analyst, not an error.
package causal

import (
	"sort"
	"strings"

	"github.com/linkscope/backend/pkg/common"
	"github.com/linkscope/backend/pkg/logger"
)

// causalVocabulary lists the relationship types that carry cause-effect
// semantics. Matching is case-insensitive.
var causalVocabulary = map[string]bool{
	"causes":         true,
	"caused":         true,
	"influences":     true,
	"leads_to":       true,
	"results_in":     true,
	"triggers":       true,
	"enables":        true,
	"prevents":       true,
	"contributes_to": true,
}

// Node is one entity participating in at least one causal edge.
type Node struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	EntityType string `json:"entity_type"`
}

// Edge is one directed cause-effect claim. Strength is the edge confidence
// when present, otherwise the co-occurrence weight, clamped to [0,1].
type Edge struct {
	Cause            string  `json:"cause"`
	Effect           string  `json:"effect"`
	RelationshipType string  `json:"relationship_type"`
	Strength         float64 `json:"strength"`
}

// Graph is the causal view of a relationship graph. IsValidDAG is false
// when at least one cycle exists; Cycles then lists every cycle found as a
// node sequence whose first and last elements match.
type Graph struct {
	Nodes      []Node     `json:"nodes"`
	Edges      []Edge     `json:"edges"`
	IsValidDAG bool       `json:"is_valid_dag"`
	Cycles     [][]string `json:"cycles,omitempty"`
}

// Build filters g down to edges whose relationship type is in the causal
// vocabulary and validates acyclicity. Edge direction follows the source
// and target fields, which are semantically meaningful here.
func Build(g common.Graph) *Graph {
	cg := &Graph{IsValidDAG: true}

	index := g.NodeIndex()
	included := map[string]bool{}
	for _, e := range g.Edges {
		if !causalVocabulary[strings.ToLower(e.RelationshipType)] {
			continue
		}
		if _, ok := index[e.Source]; !ok {
			continue
		}
		if _, ok := index[e.Target]; !ok {
			continue
		}
		cg.Edges = append(cg.Edges, Edge{
			Cause:            e.Source,
			Effect:           e.Target,
			RelationshipType: strings.ToLower(e.RelationshipType),
			Strength:         edgeStrength(e),
		})
		included[e.Source] = true
		included[e.Target] = true
	}

	ids := make([]string, 0, len(included))
	for id := range included {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		n := g.Nodes[index[id]]
		cg.Nodes = append(cg.Nodes, Node{ID: n.ID, Label: n.Label, EntityType: n.EntityType})
	}

	cg.Cycles = findCycles(cg)
	cg.IsValidDAG = len(cg.Cycles) == 0
	if !cg.IsValidDAG {
		logger.Debug("[Causal] Graph contains cycles", "count", len(cg.Cycles))
	}
	return cg
}

func edgeStrength(e common.GraphEdge) float64 {
	s := e.Weight
	if e.Confidence != nil {
		s = *e.Confidence
	}
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// children maps each node to its outgoing edges; parents to its incoming.
func (cg *Graph) children() map[string][]Edge {
	out := map[string][]Edge{}
	for _, e := range cg.Edges {
		out[e.Cause] = append(out[e.Cause], e)
	}
	return out
}

func (cg *Graph) parents() map[string][]Edge {
	in := map[string][]Edge{}
	for _, e := range cg.Edges {
		in[e.Effect] = append(in[e.Effect], e)
	}
	return in
}

// findCycles runs a colored DFS from every node and records each back edge
// as a cycle taken from the active recursion stack.
func findCycles(cg *Graph) [][]string {
	children := cg.children()

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := map[string]int{}
	var stack []string
	var cycles [][]string

	var visit func(id string)
	visit = func(id string) {
		color[id] = gray
		stack = append(stack, id)
		for _, e := range children[id] {
			switch color[e.Effect] {
			case white:
				visit(e.Effect)
			case gray:
				// Back edge: the cycle is the stack from the effect onward.
				for i, s := range stack {
					if s == e.Effect {
						cycle := append([]string{}, stack[i:]...)
						cycle = append(cycle, e.Effect)
						cycles = append(cycles, cycle)
						break
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
	}

	for _, n := range cg.Nodes {
		if color[n.ID] == white {
			visit(n.ID)
		}
	}
	return cycles
}
