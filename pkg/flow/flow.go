// Package flow extracts Sankey-style flow data from the graph: nodes
// arranged in source/intermediate/target layers and weighted links that
// always run from a lower layer to a higher one.
package flow

import (
	"sort"

	"github.com/linkscope/backend/pkg/common"
)

const (
	layerSource       = 0
	layerIntermediate = 1
	layerTarget       = 2
)

// Node is one Sankey node with its assigned layer.
type Node struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	EntityType string `json:"entity_type"`
	Layer      int    `json:"layer"`
}

// Link is one aggregated flow between two nodes. Value sums the weights of
// the graph edges it represents.
type Link struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Value  float64 `json:"value"`
}

// Data is a complete Sankey dataset.
type Data struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// ExtractEntityFlows layers nodes by entity-type membership: sourceTypes
// are layer 0, intermediateTypes layer 1, targetTypes layer 2. Nodes of any
// other type are excluded. Edges are normalized to run from the lower to
// the higher layer; same-layer and self edges carry no flow and are
// dropped.
func ExtractEntityFlows(g common.Graph, sourceTypes, intermediateTypes, targetTypes []string) *Data {
	layers := map[string]int{}
	for _, t := range sourceTypes {
		layers[t] = layerSource
	}
	for _, t := range intermediateTypes {
		layers[t] = layerIntermediate
	}
	for _, t := range targetTypes {
		layers[t] = layerTarget
	}

	nodeLayer := map[string]int{}
	data := &Data{Nodes: []Node{}, Links: []Link{}}
	for _, n := range g.Nodes {
		layer, ok := layers[n.EntityType]
		if !ok {
			continue
		}
		nodeLayer[n.ID] = layer
		data.Nodes = append(data.Nodes, Node{ID: n.ID, Label: n.Label, EntityType: n.EntityType, Layer: layer})
	}

	data.Links = collectLinks(g.Edges, nodeLayer)
	return data
}

// RelationshipFlowOptions tunes relationship-based flow extraction.
// AggregateByType collapses nodes into one Sankey node per entity type and
// layer.
type RelationshipFlowOptions struct {
	RelationshipTypes []string `json:"relationship_types,omitempty"`
	AggregateByType   bool     `json:"aggregate_by_type,omitempty"`
}

// flowRatio is how lopsided a node's out/in edge balance must be before it
// counts as a pure source or sink.
const flowRatio = 1.5

// ExtractRelationshipFlows infers each node's layer from its directed edge
// balance: predominantly outgoing nodes are sources, predominantly
// incoming ones are sinks, the rest are intermediates.
func ExtractRelationshipFlows(g common.Graph, opts RelationshipFlowOptions) *Data {
	edges := g.Edges
	if len(opts.RelationshipTypes) > 0 {
		wanted := map[string]bool{}
		for _, t := range opts.RelationshipTypes {
			wanted[t] = true
		}
		edges = nil
		for _, e := range g.Edges {
			if wanted[e.RelationshipType] {
				edges = append(edges, e)
			}
		}
	}

	out := map[string]int{}
	in := map[string]int{}
	for _, e := range edges {
		out[e.Source]++
		in[e.Target]++
	}

	nodeLayer := map[string]int{}
	data := &Data{Nodes: []Node{}, Links: []Link{}}
	for _, n := range g.Nodes {
		if out[n.ID] == 0 && in[n.ID] == 0 {
			continue
		}
		layer := inferLayer(out[n.ID], in[n.ID])
		nodeLayer[n.ID] = layer
		data.Nodes = append(data.Nodes, Node{ID: n.ID, Label: n.Label, EntityType: n.EntityType, Layer: layer})
	}

	data.Links = collectLinks(edges, nodeLayer)
	if opts.AggregateByType {
		return aggregateByType(g, data, nodeLayer)
	}
	return data
}

func inferLayer(out, in int) int {
	switch {
	case float64(out) >= flowRatio*float64(in):
		return layerSource
	case float64(in) >= flowRatio*float64(out):
		return layerTarget
	default:
		return layerIntermediate
	}
}

// collectLinks turns graph edges into layer-ordered links, swapping
// endpoints when the edge points from a higher layer to a lower one, and
// summing parallel links.
func collectLinks(edges []common.GraphEdge, nodeLayer map[string]int) []Link {
	type pair struct{ source, target string }
	values := map[pair]float64{}
	var order []pair

	for _, e := range edges {
		srcLayer, srcOK := nodeLayer[e.Source]
		dstLayer, dstOK := nodeLayer[e.Target]
		if !srcOK || !dstOK || e.Source == e.Target || srcLayer == dstLayer {
			continue
		}
		p := pair{e.Source, e.Target}
		if srcLayer > dstLayer {
			p = pair{e.Target, e.Source}
		}
		if _, seen := values[p]; !seen {
			order = append(order, p)
		}
		values[p] += e.Weight
	}

	links := []Link{}
	for _, p := range order {
		links = append(links, Link{Source: p.source, Target: p.target, Value: values[p]})
	}
	return links
}

// aggregateByType folds node-level flows into one node per entity type and
// layer, so a crowded graph reduces to a handful of type-to-type ribbons.
func aggregateByType(g common.Graph, data *Data, nodeLayer map[string]int) *Data {
	typeOf := map[string]string{}
	for _, n := range g.Nodes {
		typeOf[n.ID] = n.EntityType
	}
	groupID := func(nodeID string) string {
		return typeOf[nodeID] + "/" + layerName(nodeLayer[nodeID])
	}

	agg := &Data{Nodes: []Node{}, Links: []Link{}}
	seenNodes := map[string]bool{}
	for _, n := range data.Nodes {
		id := groupID(n.ID)
		if seenNodes[id] {
			continue
		}
		seenNodes[id] = true
		agg.Nodes = append(agg.Nodes, Node{ID: id, Label: n.EntityType, EntityType: n.EntityType, Layer: n.Layer})
	}

	type pair struct{ source, target string }
	values := map[pair]float64{}
	var order []pair
	for _, l := range data.Links {
		p := pair{groupID(l.Source), groupID(l.Target)}
		if _, seen := values[p]; !seen {
			order = append(order, p)
		}
		values[p] += l.Value
	}
	for _, p := range order {
		agg.Links = append(agg.Links, Link{Source: p.source, Target: p.target, Value: values[p]})
	}
	return agg
}

func layerName(layer int) string {
	switch layer {
	case layerSource:
		return "source"
	case layerTarget:
		return "target"
	default:
		return "intermediate"
	}
}

// AggregateFlows bounds a Sankey dataset for rendering: the top n links by
// value survive unchanged, and the rest collapse into synthetic "Other"
// nodes and links per layer pair.
func AggregateFlows(data *Data, n int) *Data {
	if n <= 0 || len(data.Links) <= n {
		return data
	}

	nodeLayer := map[string]int{}
	for _, node := range data.Nodes {
		nodeLayer[node.ID] = node.Layer
	}

	sorted := append([]Link{}, data.Links...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Value > sorted[j].Value })
	kept, dropped := sorted[:n], sorted[n:]

	keepNode := map[string]bool{}
	for _, l := range kept {
		keepNode[l.Source] = true
		keepNode[l.Target] = true
	}

	out := &Data{Nodes: []Node{}, Links: append([]Link{}, kept...)}
	for _, node := range data.Nodes {
		if keepNode[node.ID] {
			out.Nodes = append(out.Nodes, node)
		}
	}

	type pair struct{ from, to int }
	otherValues := map[pair]float64{}
	var order []pair
	for _, l := range dropped {
		p := pair{nodeLayer[l.Source], nodeLayer[l.Target]}
		if _, seen := otherValues[p]; !seen {
			order = append(order, p)
		}
		otherValues[p] += l.Value
	}

	otherNodes := map[string]bool{}
	addOther := func(layer int) string {
		id := "other/" + layerName(layer)
		if !otherNodes[id] {
			otherNodes[id] = true
			out.Nodes = append(out.Nodes, Node{ID: id, Label: "Other", Layer: layer})
		}
		return id
	}
	for _, p := range order {
		out.Links = append(out.Links, Link{
			Source: addOther(p.from),
			Target: addOther(p.to),
			Value:  otherValues[p],
		})
	}
	return out
}
