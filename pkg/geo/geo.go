// Package geo extracts geographic coordinates from graph nodes, computes
// distances and proximity clusters, and renders geospatial views. Coverage
// is inherently partial: a node whose text yields no parseable coordinates
// is skipped, not an error.
package geo

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/linkscope/backend/pkg/common"
	"github.com/linkscope/backend/pkg/logger"
)

// Node is a graph node with a resolved coordinate. Source records whether
// the coordinate came from explicit properties or was parsed from text.
type Node struct {
	ID         string  `json:"id"`
	EntityID   string  `json:"entity_id"`
	Label      string  `json:"label"`
	EntityType string  `json:"entity_type"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	Source     string  `json:"source"`
}

const (
	sourceProperty = "property"
	sourceParsed   = "parsed"
)

// decimalPattern matches "51.5074, -0.1278" style pairs. dmsPattern
// matches degree-minute-second coordinates like 51°30'26"N 0°7'39"W.
var (
	decimalPattern = regexp.MustCompile(`(-?\d{1,3}\.\d+)[,\s]\s*(-?\d{1,3}\.\d+)`)
	dmsPattern     = regexp.MustCompile(`(\d{1,3})°\s*(\d{1,2})'\s*(\d{1,2}(?:\.\d+)?)"\s*([NS])[,\s]\s*(\d{1,3})°\s*(\d{1,2})'\s*(\d{1,2}(?:\.\d+)?)"\s*([EW])`)
)

// ExtractNodes resolves a coordinate for every node that has one. Explicit
// latitude/longitude properties win; otherwise the node's description and
// source-sentence text is scanned for decimal-degree or DMS patterns. The
// scan is scoped to text following the node's own label so a coordinate
// that belongs to a different entity in a shared sentence is not
// misattributed.
func ExtractNodes(g common.Graph) []Node {
	nodes := []Node{}
	for _, n := range g.Nodes {
		geo, ok := resolveNode(n)
		if !ok {
			continue
		}
		nodes = append(nodes, geo)
	}
	logger.Debug("[Geo] Extracted coordinates", "located", len(nodes), "total", len(g.Nodes))
	return nodes
}

func resolveNode(n common.GraphNode) (Node, bool) {
	geo := Node{ID: n.ID, EntityID: n.EntityID, Label: n.Label, EntityType: n.EntityType}

	if lat, lng, ok := explicitCoordinates(n.Properties); ok {
		geo.Lat, geo.Lng = lat, lng
		geo.Source = sourceProperty
		return geo, validCoordinates(lat, lng)
	}

	text := scannableText(n)
	if lat, lng, ok := parseCoordinates(text); ok && validCoordinates(lat, lng) {
		geo.Lat, geo.Lng = lat, lng
		geo.Source = sourceParsed
		return geo, true
	}
	return Node{}, false
}

func explicitCoordinates(props map[string]any) (float64, float64, bool) {
	lat, latOK := propertyNumber(props, "latitude", "lat")
	lng, lngOK := propertyNumber(props, "longitude", "lng", "lon")
	return lat, lng, latOK && lngOK
}

func propertyNumber(props map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		switch v := props[key].(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

// scannableText concatenates the node's textual properties, cut down to
// what follows the node's own label when the label occurs in the text. A
// shared sentence like "London 51.5074, -0.1278 met officials from Paris"
// must not hand London's coordinates to the Paris node.
func scannableText(n common.GraphNode) string {
	var parts []string
	for _, key := range []string{"description", "source_sentence", "text"} {
		if s, ok := n.Properties[key].(string); ok {
			parts = append(parts, s)
		}
	}
	text := strings.Join(parts, " ")

	if n.Label != "" {
		if idx := strings.Index(text, n.Label); idx >= 0 {
			text = text[idx+len(n.Label):]
		}
	}
	return text
}

// parseCoordinates tries DMS first (the decimal pattern would otherwise
// match fragments of a DMS string), then decimal degrees.
func parseCoordinates(text string) (float64, float64, bool) {
	if m := dmsPattern.FindStringSubmatch(text); m != nil {
		lat := dmsToDecimal(m[1], m[2], m[3], m[4])
		lng := dmsToDecimal(m[5], m[6], m[7], m[8])
		return lat, lng, true
	}
	if m := decimalPattern.FindStringSubmatch(text); m != nil {
		lat, err1 := strconv.ParseFloat(m[1], 64)
		lng, err2 := strconv.ParseFloat(m[2], 64)
		if err1 == nil && err2 == nil {
			return lat, lng, true
		}
	}
	return 0, 0, false
}

func dmsToDecimal(deg, min, sec, hemisphere string) float64 {
	d, _ := strconv.ParseFloat(deg, 64)
	m, _ := strconv.ParseFloat(min, 64)
	s, _ := strconv.ParseFloat(sec, 64)
	value := d + m/60 + s/3600
	if hemisphere == "S" || hemisphere == "W" {
		value = -value
	}
	return value
}

func validCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
