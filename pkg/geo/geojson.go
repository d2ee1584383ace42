package geo

import "github.com/linkscope/backend/pkg/common"

// GeoJSON FeatureCollection types. Coordinates are [lon, lat] per RFC 7946.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

// ToGeoJSON renders located nodes as Point features and the graph edges
// between two located nodes as LineString features. Edges touching a node
// without a coordinate are omitted.
func ToGeoJSON(g common.Graph, nodes []Node) *FeatureCollection {
	fc := &FeatureCollection{Type: "FeatureCollection", Features: []Feature{}}

	located := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		located[n.ID] = n
		fc.Features = append(fc.Features, Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: []float64{n.Lng, n.Lat},
			},
			Properties: map[string]any{
				"id":          n.ID,
				"entity_id":   n.EntityID,
				"label":       n.Label,
				"entity_type": n.EntityType,
				"source":      n.Source,
			},
		})
	}

	for _, e := range g.Edges {
		src, srcOK := located[e.Source]
		dst, dstOK := located[e.Target]
		if !srcOK || !dstOK {
			continue
		}
		fc.Features = append(fc.Features, Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type: "LineString",
				Coordinates: [][]float64{
					{src.Lng, src.Lat},
					{dst.Lng, dst.Lat},
				},
			},
			Properties: map[string]any{
				"source":            e.Source,
				"target":            e.Target,
				"relationship_type": e.RelationshipType,
				"weight":            e.Weight,
			},
		})
	}
	return fc
}
