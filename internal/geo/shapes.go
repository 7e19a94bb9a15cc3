package geo

import (
	"math"

	"github.com/irlens/atlas/pkg/core"
)

const (
	// KmPerDegreeLat is the length of one degree of latitude.
	KmPerDegreeLat = 111.32
	// CircleSides is the number of sides used to approximate drawn circles.
	CircleSides = 64
	// BezierSegments is the sampling resolution of curved connection lines.
	BezierSegments = 50
)

// MaxPairwiseDistance returns the greatest Euclidean distance between any two points.
// It is O(n²) and only used for camera framing.
func MaxPairwiseDistance(points []core.LngLat) float64 {
	var best float64
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			dx := points[i][0] - points[j][0]
			dy := points[i][1] - points[j][1]
			if d := math.Hypot(dx, dy); d > best {
				best = d
			}
		}
	}
	return best
}

// Mean is the unweighted average of the points.
func Mean(points []core.LngLat) (core.LngLat, bool) {
	if len(points) == 0 {
		return core.LngLat{}, false
	}
	var sx, sy float64
	for _, p := range points {
		sx += p[0]
		sy += p[1]
	}
	n := float64(len(points))
	return core.LngLat{sx / n, sy / n}, true
}

// QuadraticBezier samples the curve from -> control -> to into segments+1 points.
func QuadraticBezier(from, control, to core.LngLat, segments int) []core.LngLat {
	if segments < 1 {
		segments = 1
	}
	out := make([]core.LngLat, segments+1)
	for i := 0; i <= segments; i++ {
		t := float64(i) / float64(segments)
		u := 1 - t
		out[i] = core.LngLat{
			u*u*from[0] + 2*u*t*control[0] + t*t*to[0],
			u*u*from[1] + 2*u*t*control[1] + t*t*to[1],
		}
	}
	return out
}

// CurveControlPoint offsets the chord midpoint perpendicularly by a fifth of the chord
// length. Used when an authored curve only has its two endpoints.
func CurveControlPoint(from, to core.LngLat) core.LngLat {
	mx := (from[0] + to[0]) / 2
	my := (from[1] + to[1]) / 2
	dx := to[0] - from[0]
	dy := to[1] - from[1]
	return core.LngLat{mx - dy*0.2, my + dx*0.2}
}

// CirclePolygon approximates a circle of radiusKm as a closed regular polygon. Longitude
// degrees are widened by 1/cos(latitude) to offset projection distortion.
func CirclePolygon(center core.LngLat, radiusKm float64, sides int) []core.LngLat {
	if sides < 3 {
		sides = 3
	}
	latDeg := radiusKm / KmPerDegreeLat
	cosLat := math.Cos(center.Lat() * math.Pi / 180)
	lngDeg := latDeg
	if math.Abs(cosLat) > 1e-9 {
		lngDeg = latDeg / cosLat
	}

	ring := make([]core.LngLat, 0, sides+1)
	for i := 0; i < sides; i++ {
		theta := 2 * math.Pi * float64(i) / float64(sides)
		ring = append(ring, core.LngLat{
			center.Lng() + lngDeg*math.Cos(theta),
			center.Lat() + latDeg*math.Sin(theta),
		})
	}
	return append(ring, ring[0])
}

// CloseRing returns the ring with its first vertex repeated at the end if needed.
func CloseRing(points []core.LngLat) []core.LngLat {
	if len(points) == 0 {
		return nil
	}
	out := append([]core.LngLat(nil), points...)
	if out[0] != out[len(out)-1] {
		out = append(out, out[0])
	}
	return out
}
