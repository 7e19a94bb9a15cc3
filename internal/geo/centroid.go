package geo

import (
	"math"

	"github.com/irlens/atlas/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
)

// degenerateArea is the absolute ring area below which the area-weighted formula is
// abandoned for the vertex mean.
const degenerateArea = 1e-12

// Centroid returns the label position of a country geometry.
//
// For a Polygon it is the area-weighted (shoelace) centroid of the exterior ring. For a
// MultiPolygon the exterior ring with the most vertices is used, which approximates the
// largest part without computing areas. Rings with fewer than three points or a near-zero
// area fall back to the mean of their vertices. Empty or non-polygonal geometries yield
// false.
func Centroid(g geom.Geometry) (core.LngLat, bool) {
	switch g.Type() {
	case geom.TypePolygon:
		return ringCentroid(lineStringXYs(g.MustAsPolygon().ExteriorRing()))
	case geom.TypeMultiPolygon:
		mp := g.MustAsMultiPolygon()
		var best []geom.XY
		for i := 0; i < mp.NumPolygons(); i++ {
			ring := lineStringXYs(mp.PolygonN(i).ExteriorRing())
			if len(ring) > len(best) {
				best = ring
			}
		}
		return ringCentroid(best)
	default:
		return core.LngLat{}, false
	}
}

func ringCentroid(pts []geom.XY) (core.LngLat, bool) {
	n := len(pts)
	if n == 0 {
		return core.LngLat{}, false
	}
	if n < 3 {
		return vertexMean(pts), true
	}

	var area, cx, cy float64
	for i := 0; i < n; i++ {
		p, q := pts[i], pts[(i+1)%n]
		cross := p.X*q.Y - q.X*p.Y
		area += cross
		cx += (p.X + q.X) * cross
		cy += (p.Y + q.Y) * cross
	}
	area /= 2
	if math.Abs(area) < degenerateArea {
		return vertexMean(pts), true
	}
	return core.LngLat{cx / (6 * area), cy / (6 * area)}, true
}

// vertexMean averages the ring vertices, ignoring the closing duplicate.
func vertexMean(pts []geom.XY) core.LngLat {
	if len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	var sx, sy float64
	for _, p := range pts {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(pts))
	return core.LngLat{sx / n, sy / n}
}
