package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	geom "github.com/peterstace/simplefeatures/geom"
)

// ErrNotFeatureCollection is returned when a payload has no "features" array.
var ErrNotFeatureCollection = errors.New("payload is not a feature collection")

// Feature is a country boundary with its source properties. Geometry is a Polygon or a
// MultiPolygon.
type Feature struct {
	Properties map[string]any
	Geometry   geom.Geometry
}

// FeatureCollection is an immutable set of boundary features.
type FeatureCollection struct {
	Features []Feature
}

// Name returns the first non-empty name property of the feature.
func (f Feature) Name() string {
	for _, key := range NameProperties {
		if s, ok := f.Properties[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

type rawCollection struct {
	Type     string        `json:"type"`
	Features *[]rawFeature `json:"features"`
}

type rawFeature struct {
	Properties map[string]any `json:"properties"`
	Geometry   *rawGeometry   `json:"geometry"`
}

type rawGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// ParseFeatureCollection decodes a GeoJSON FeatureCollection. Features whose geometry is
// missing, malformed or not polygonal are skipped.
func ParseFeatureCollection(data []byte) (*FeatureCollection, error) {
	var raw rawCollection
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFeatureCollection, err)
	}
	if raw.Features == nil {
		return nil, ErrNotFeatureCollection
	}

	fc := &FeatureCollection{Features: make([]Feature, 0, len(*raw.Features))}
	for _, rf := range *raw.Features {
		if rf.Geometry == nil {
			continue
		}
		g, err := buildGeometry(rf.Geometry)
		if err != nil {
			continue
		}
		fc.Features = append(fc.Features, Feature{Properties: rf.Properties, Geometry: g})
	}
	return fc, nil
}

func buildGeometry(rg *rawGeometry) (geom.Geometry, error) {
	switch strings.ToLower(rg.Type) {
	case "polygon":
		var rings [][][]float64
		if err := sonic.Unmarshal(rg.Coordinates, &rings); err != nil {
			return geom.Geometry{}, fmt.Errorf("failed to parse polygon coordinates: %w", err)
		}
		poly, err := polygonFromCoords(rings)
		if err != nil {
			return geom.Geometry{}, err
		}
		return poly.AsGeometry(), nil
	case "multipolygon":
		var parts [][][][]float64
		if err := sonic.Unmarshal(rg.Coordinates, &parts); err != nil {
			return geom.Geometry{}, fmt.Errorf("failed to parse multipolygon coordinates: %w", err)
		}
		polys := make([]geom.Polygon, 0, len(parts))
		for _, rings := range parts {
			poly, err := polygonFromCoords(rings)
			if err != nil {
				return geom.Geometry{}, err
			}
			polys = append(polys, poly)
		}
		return geom.NewMultiPolygon(polys).AsGeometry(), nil
	default:
		return geom.Geometry{}, fmt.Errorf("unsupported geometry type %q", rg.Type)
	}
}

func polygonFromCoords(rings [][][]float64) (geom.Polygon, error) {
	lines := make([]geom.LineString, 0, len(rings))
	for i, ring := range rings {
		ls, err := lineStringFromCoords(ring)
		if err != nil {
			return geom.Polygon{}, fmt.Errorf("ring %d: %w", i, err)
		}
		lines = append(lines, ls)
	}
	return geom.NewPolygon(lines), nil
}

// PolygonCoords returns the rings of a polygonal geometry as nested [lng, lat] slices, one
// entry per polygon part.
func PolygonCoords(g geom.Geometry) [][][][]float64 {
	var out [][][][]float64
	for _, poly := range polygons(g) {
		rings := make([][][]float64, 0, 1+poly.NumInteriorRings())
		rings = append(rings, xyCoords(lineStringXYs(poly.ExteriorRing())))
		for i := 0; i < poly.NumInteriorRings(); i++ {
			rings = append(rings, xyCoords(lineStringXYs(poly.InteriorRingN(i))))
		}
		out = append(out, rings)
	}
	return out
}

func polygons(g geom.Geometry) []geom.Polygon {
	switch g.Type() {
	case geom.TypePolygon:
		return []geom.Polygon{g.MustAsPolygon()}
	case geom.TypeMultiPolygon:
		mp := g.MustAsMultiPolygon()
		out := make([]geom.Polygon, 0, mp.NumPolygons())
		for i := 0; i < mp.NumPolygons(); i++ {
			out = append(out, mp.PolygonN(i))
		}
		return out
	default:
		return nil
	}
}

func xyCoords(pts []geom.XY) [][]float64 {
	out := make([][]float64, len(pts))
	for i, p := range pts {
		out[i] = []float64{p.X, p.Y}
	}
	return out
}
