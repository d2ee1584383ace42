package export

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/linkscope/backend/pkg/common"
)

const graphmlNamespace = "http://graphml.graphdrawing.org/xmlns"

type graphmlDoc struct {
	XMLName xml.Name     `xml:"graphml"`
	Xmlns   string       `xml:"xmlns,attr"`
	Keys    []graphmlKey `xml:"key"`
	Graph   graphmlGraph `xml:"graph"`
}

type graphmlKey struct {
	ID   string `xml:"id,attr"`
	For  string `xml:"for,attr"`
	Name string `xml:"attr.name,attr"`
	Type string `xml:"attr.type,attr"`
}

type graphmlGraph struct {
	ID          string        `xml:"id,attr"`
	EdgeDefault string        `xml:"edgedefault,attr"`
	Nodes       []graphmlNode `xml:"node"`
	Edges       []graphmlEdge `xml:"edge"`
}

type graphmlNode struct {
	ID   string        `xml:"id,attr"`
	Data []graphmlData `xml:"data"`
}

type graphmlEdge struct {
	ID     string        `xml:"id,attr"`
	Source string        `xml:"source,attr"`
	Target string        `xml:"target,attr"`
	Data   []graphmlData `xml:"data"`
}

type graphmlData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

// GraphML serializes g with declared, typed attribute keys per the
// graphdrawing.org schema.
func GraphML(g common.Graph) ([]byte, error) {
	doc := graphmlDoc{
		Xmlns: graphmlNamespace,
		Keys: []graphmlKey{
			{ID: "label", For: "node", Name: "label", Type: "string"},
			{ID: "entity_type", For: "node", Name: "entity_type", Type: "string"},
			{ID: "document_count", For: "node", Name: "document_count", Type: "int"},
			{ID: "degree", For: "node", Name: "degree", Type: "int"},
			{ID: "relationship_type", For: "edge", Name: "relationship_type", Type: "string"},
			{ID: "weight", For: "edge", Name: "weight", Type: "double"},
			{ID: "co_occurrence_count", For: "edge", Name: "co_occurrence_count", Type: "int"},
		},
		Graph: graphmlGraph{ID: g.ID, EdgeDefault: "undirected"},
	}

	for _, n := range g.Nodes {
		doc.Graph.Nodes = append(doc.Graph.Nodes, graphmlNode{
			ID: n.ID,
			Data: []graphmlData{
				{Key: "label", Value: n.Label},
				{Key: "entity_type", Value: n.EntityType},
				{Key: "document_count", Value: strconv.Itoa(n.DocumentCount)},
				{Key: "degree", Value: strconv.Itoa(n.Degree)},
			},
		})
	}
	for i, e := range g.Edges {
		doc.Graph.Edges = append(doc.Graph.Edges, graphmlEdge{
			ID:     fmt.Sprintf("e%d", i),
			Source: e.Source,
			Target: e.Target,
			Data: []graphmlData{
				{Key: "relationship_type", Value: e.RelationshipType},
				{Key: "weight", Value: strconv.FormatFloat(e.Weight, 'f', -1, 64)},
				{Key: "co_occurrence_count", Value: strconv.Itoa(e.CoOccurrenceCount)},
			},
		})
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
