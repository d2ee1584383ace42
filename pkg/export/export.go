// Package export serializes graphs into interchange formats consumed by
// external tooling: GraphML (graphdrawing.org schema), GEXF 1.2 (Gephi),
// and GeoJSON. The output must stay bit-compatible with those ecosystems,
// so attribute declarations follow each format's schema exactly.
package export

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/linkscope/backend/pkg/common"
	"github.com/linkscope/backend/pkg/geo"
)

// ErrUnknownFormat is returned for a format no serializer exists for.
var ErrUnknownFormat = errors.New("unknown export format")

// Formats accepted by Export.
const (
	FormatGraphML = "graphml"
	FormatGEXF    = "gexf"
	FormatGeoJSON = "geojson"
)

// ContentType returns the MIME type for a format, defaulting to XML.
func ContentType(format string) string {
	if format == FormatGeoJSON {
		return "application/geo+json"
	}
	return "application/xml"
}

// Export serializes g in the requested format. An unknown format is a
// caller programming error and fails fast.
func Export(g common.Graph, format string) ([]byte, error) {
	switch format {
	case FormatGraphML:
		return GraphML(g)
	case FormatGEXF:
		return GEXF(g)
	case FormatGeoJSON:
		return GeoJSON(g)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// GeoJSON renders the graph's located nodes and edges as a
// FeatureCollection.
func GeoJSON(g common.Graph) ([]byte, error) {
	return json.Marshal(geo.ToGeoJSON(g, geo.ExtractNodes(g)))
}
