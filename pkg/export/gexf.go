package export

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/linkscope/backend/pkg/common"
)

const gexfNamespace = "http://www.gexf.net/1.2draft"

type gexfDoc struct {
	XMLName xml.Name  `xml:"gexf"`
	Xmlns   string    `xml:"xmlns,attr"`
	Version string    `xml:"version,attr"`
	Graph   gexfGraph `xml:"graph"`
}

type gexfGraph struct {
	Mode            string         `xml:"mode,attr"`
	DefaultEdgeType string         `xml:"defaultedgetype,attr"`
	Attributes      gexfAttributes `xml:"attributes"`
	Nodes           gexfNodes      `xml:"nodes"`
	Edges           gexfEdges      `xml:"edges"`
}

type gexfAttributes struct {
	Class      string          `xml:"class,attr"`
	Attributes []gexfAttribute `xml:"attribute"`
}

// gexfAttribute ids are numeric strings per the Gephi schema.
type gexfAttribute struct {
	ID    string `xml:"id,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

type gexfNodes struct {
	Nodes []gexfNode `xml:"node"`
}

type gexfNode struct {
	ID        string        `xml:"id,attr"`
	Label     string        `xml:"label,attr"`
	AttValues gexfAttValues `xml:"attvalues"`
}

type gexfAttValues struct {
	Values []gexfAttValue `xml:"attvalue"`
}

type gexfAttValue struct {
	For   string `xml:"for,attr"`
	Value string `xml:"value,attr"`
}

type gexfEdges struct {
	Edges []gexfEdge `xml:"edge"`
}

type gexfEdge struct {
	ID     string  `xml:"id,attr"`
	Source string  `xml:"source,attr"`
	Target string  `xml:"target,attr"`
	Weight float64 `xml:"weight,attr"`
	Label  string  `xml:"label,attr,omitempty"`
}

// GEXF serializes g in GEXF 1.2 with numbered node attribute ids.
func GEXF(g common.Graph) ([]byte, error) {
	doc := gexfDoc{
		Xmlns:   gexfNamespace,
		Version: "1.2",
		Graph: gexfGraph{
			Mode:            "static",
			DefaultEdgeType: "undirected",
			Attributes: gexfAttributes{
				Class: "node",
				Attributes: []gexfAttribute{
					{ID: "0", Title: "entity_type", Type: "string"},
					{ID: "1", Title: "document_count", Type: "integer"},
					{ID: "2", Title: "degree", Type: "integer"},
				},
			},
		},
	}

	for _, n := range g.Nodes {
		doc.Graph.Nodes.Nodes = append(doc.Graph.Nodes.Nodes, gexfNode{
			ID:    n.ID,
			Label: n.Label,
			AttValues: gexfAttValues{Values: []gexfAttValue{
				{For: "0", Value: n.EntityType},
				{For: "1", Value: strconv.Itoa(n.DocumentCount)},
				{For: "2", Value: strconv.Itoa(n.Degree)},
			}},
		})
	}
	for i, e := range g.Edges {
		doc.Graph.Edges.Edges = append(doc.Graph.Edges.Edges, gexfEdge{
			ID:     fmt.Sprintf("e%d", i),
			Source: e.Source,
			Target: e.Target,
			Weight: e.Weight,
			Label:  e.RelationshipType,
		})
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
