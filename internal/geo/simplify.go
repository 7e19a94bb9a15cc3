package geo

import (
	"math"

	geom "github.com/peterstace/simplefeatures/geom"
)

// Simplify reduces every ring of a polygonal geometry to max(3, round(n*keepFraction))
// vertices by uniform index sampling. The first and last vertex of each ring are always
// kept. It is lossy and only meant for fill rendering; never feed its output to Centroid.
func Simplify(g geom.Geometry, keepFraction float64) geom.Geometry {
	if keepFraction >= 1 {
		return g
	}
	switch g.Type() {
	case geom.TypePolygon:
		return simplifyPolygon(g.MustAsPolygon(), keepFraction).AsGeometry()
	case geom.TypeMultiPolygon:
		mp := g.MustAsMultiPolygon()
		polys := make([]geom.Polygon, mp.NumPolygons())
		for i := range polys {
			polys[i] = simplifyPolygon(mp.PolygonN(i), keepFraction)
		}
		return geom.NewMultiPolygon(polys).AsGeometry()
	default:
		return g
	}
}

func simplifyPolygon(p geom.Polygon, keepFraction float64) geom.Polygon {
	if p.IsEmpty() {
		return p
	}
	rings := make([]geom.LineString, 0, 1+p.NumInteriorRings())
	rings = append(rings, lineStringFromXYs(sampleRing(lineStringXYs(p.ExteriorRing()), keepFraction)))
	for i := 0; i < p.NumInteriorRings(); i++ {
		rings = append(rings, lineStringFromXYs(sampleRing(lineStringXYs(p.InteriorRingN(i)), keepFraction)))
	}
	return geom.NewPolygon(rings)
}

func sampleRing(pts []geom.XY, keepFraction float64) []geom.XY {
	n := len(pts)
	if keepFraction >= 1 || n < 3 {
		return pts
	}
	target := max(3, int(math.Round(float64(n)*keepFraction)))
	if target >= n {
		return pts
	}
	out := make([]geom.XY, target)
	step := float64(n-1) / float64(target-1)
	for i := range out {
		out[i] = pts[int(math.Round(float64(i)*step))]
	}
	return out
}
