package geo

import (
	"math"
	"testing"

	"github.com/linkscope/backend/pkg/common"
)

func geoNode(id, label string, props map[string]any) common.GraphNode {
	return common.GraphNode{ID: id, EntityID: id, Label: label, EntityType: "location", Properties: props}
}

func TestExtractNodesExplicitProperties(t *testing.T) {
	g := common.Graph{Nodes: []common.GraphNode{
		geoNode("berlin", "Berlin", map[string]any{
			"latitude":    52.52,
			"longitude":   13.405,
			"description": "Berlin is at 1.0, 2.0", // must lose to the properties
		}),
	}}

	nodes := ExtractNodes(g)
	if len(nodes) != 1 {
		t.Fatalf("got %d nodes, want 1", len(nodes))
	}
	if nodes[0].Lat != 52.52 || nodes[0].Lng != 13.405 {
		t.Errorf("coordinates (%f, %f), want explicit properties", nodes[0].Lat, nodes[0].Lng)
	}
	if nodes[0].Source != sourceProperty {
		t.Errorf("source = %q, want %q", nodes[0].Source, sourceProperty)
	}
}

func TestExtractNodesStringProperties(t *testing.T) {
	g := common.Graph{Nodes: []common.GraphNode{
		geoNode("oslo", "Oslo", map[string]any{"lat": "59.91", "lon": "10.75"}),
	}}

	nodes := ExtractNodes(g)
	if len(nodes) != 1 || nodes[0].Lat != 59.91 || nodes[0].Lng != 10.75 {
		t.Errorf("string properties should parse, got %+v", nodes)
	}
}

func TestExtractNodesDecimalText(t *testing.T) {
	g := common.Graph{Nodes: []common.GraphNode{
		geoNode("berlin", "Berlin", map[string]any{
			"description": "Berlin is located at 52.52, 13.405 in Germany",
		}),
	}}

	nodes := ExtractNodes(g)
	if len(nodes) != 1 {
		t.Fatalf("got %d nodes, want 1", len(nodes))
	}
	if nodes[0].Lat != 52.52 || nodes[0].Lng != 13.405 {
		t.Errorf("parsed (%f, %f), want (52.52, 13.405)", nodes[0].Lat, nodes[0].Lng)
	}
	if nodes[0].Source != sourceParsed {
		t.Errorf("source = %q, want %q", nodes[0].Source, sourceParsed)
	}
}

func TestExtractNodesDMSText(t *testing.T) {
	g := common.Graph{Nodes: []common.GraphNode{
		geoNode("greenwich", "Greenwich", map[string]any{
			"source_sentence": `Greenwich sits at 51°28'40"N 0°0'5"W on the meridian`,
		}),
	}}

	nodes := ExtractNodes(g)
	if len(nodes) != 1 {
		t.Fatalf("got %d nodes, want 1", len(nodes))
	}
	if math.Abs(nodes[0].Lat-51.477778) > 1e-4 {
		t.Errorf("lat = %f, want ≈51.4778", nodes[0].Lat)
	}
	if math.Abs(nodes[0].Lng-(-0.001389)) > 1e-4 {
		t.Errorf("lng = %f, want ≈-0.0014 (west is negative)", nodes[0].Lng)
	}
}

func TestExtractNodesScopedToOwnLabel(t *testing.T) {
	sentence := "London 51.5074, -0.1278 met officials from Paris"
	g := common.Graph{Nodes: []common.GraphNode{
		geoNode("london", "London", map[string]any{"source_sentence": sentence}),
		geoNode("paris", "Paris", map[string]any{"source_sentence": sentence}),
	}}

	nodes := ExtractNodes(g)
	if len(nodes) != 1 {
		t.Fatalf("got %d nodes, want only London located", len(nodes))
	}
	if nodes[0].ID != "london" {
		t.Errorf("located %q; the shared-sentence coordinate belongs to London", nodes[0].ID)
	}
}

func TestExtractNodesSkipsUnparseable(t *testing.T) {
	g := common.Graph{Nodes: []common.GraphNode{
		geoNode("nowhere", "Nowhere", map[string]any{"description": "Nowhere has no coordinates at all"}),
		geoNode("invalid", "Invalid", map[string]any{"description": "Invalid claims 200.5, 300.2"}),
		geoNode("bare", "Bare", nil),
	}}

	if nodes := ExtractNodes(g); len(nodes) != 0 {
		t.Errorf("unparseable nodes should be skipped, got %+v", nodes)
	}
}

func TestDistance(t *testing.T) {
	berlinLat, berlinLng := 52.52, 13.405
	parisLat, parisLng := 48.8566, 2.3522

	if d := Distance(berlinLat, berlinLng, berlinLat, berlinLng); d != 0 {
		t.Errorf("distance to self = %f, want 0", d)
	}

	ab := Distance(berlinLat, berlinLng, parisLat, parisLng)
	ba := Distance(parisLat, parisLng, berlinLat, berlinLng)
	if ab != ba {
		t.Errorf("distance not symmetric: %f vs %f", ab, ba)
	}
	if math.Abs(ab-878) > 5 {
		t.Errorf("Berlin-Paris = %f km, want ≈878", ab)
	}
}

func TestClusterNodes(t *testing.T) {
	nodes := []Node{
		{ID: "berlin", Lat: 52.52, Lng: 13.405},
		{ID: "potsdam", Lat: 52.39, Lng: 13.06}, // ~28 km from Berlin
		{ID: "paris", Lat: 48.8566, Lng: 2.3522},
	}

	clusters := ClusterNodes(nodes, 50)
	if len(clusters) != 2 {
		t.Fatalf("got %d clusters, want 2", len(clusters))
	}

	if clusters[0].Size != 2 {
		t.Errorf("first cluster size %d, want Berlin+Potsdam", clusters[0].Size)
	}
	wantLat := (52.52 + 52.39) / 2
	if math.Abs(clusters[0].CentroidLat-wantLat) > 1e-9 {
		t.Errorf("centroid lat %f, want %f", clusters[0].CentroidLat, wantLat)
	}
	if clusters[1].Members[0].ID != "paris" || clusters[1].Size != 1 {
		t.Errorf("second cluster should be Paris alone, got %+v", clusters[1])
	}
}

func TestToGeoJSON(t *testing.T) {
	g := common.Graph{
		Nodes: []common.GraphNode{
			geoNode("berlin", "Berlin", map[string]any{"latitude": 52.52, "longitude": 13.405}),
			geoNode("paris", "Paris", map[string]any{"latitude": 48.8566, "longitude": 2.3522}),
			geoNode("nowhere", "Nowhere", nil),
		},
		Edges: []common.GraphEdge{
			{Source: "berlin", Target: "paris", RelationshipType: "mentioned_with", Weight: 0.5},
			{Source: "berlin", Target: "nowhere", Weight: 0.5}, // one end unlocated
		},
	}

	fc := ToGeoJSON(g, ExtractNodes(g))
	if fc.Type != "FeatureCollection" {
		t.Errorf("type = %q", fc.Type)
	}

	// 2 points + 1 line; the edge to the unlocated node is dropped.
	if len(fc.Features) != 3 {
		t.Fatalf("got %d features, want 3", len(fc.Features))
	}

	point := fc.Features[0]
	coords, ok := point.Geometry.Coordinates.([]float64)
	if !ok || coords[0] != 13.405 || coords[1] != 52.52 {
		t.Errorf("point coordinates %v, want [lon, lat] order", point.Geometry.Coordinates)
	}

	line := fc.Features[2]
	if line.Geometry.Type != "LineString" {
		t.Errorf("third feature type %q, want LineString", line.Geometry.Type)
	}
}
