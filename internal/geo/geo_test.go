package geo

import (
	"errors"
	"math"
	"testing"

	"github.com/irlens/atlas/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func polygonGeom(t *testing.T, rings ...[][]float64) geom.Geometry {
	t.Helper()
	poly, err := polygonFromCoords(rings)
	require.NoError(t, err)
	return poly.AsGeometry()
}

func square(x, y, size float64) [][]float64 {
	return [][]float64{{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size}, {x, y}}
}

func TestCentroid_Square(t *testing.T) {
	c, ok := Centroid(polygonGeom(t, square(0, 0, 2)))
	require.True(t, ok)
	assert.InDelta(t, 1.0, c.Lng(), 1e-9)
	assert.InDelta(t, 1.0, c.Lat(), 1e-9)
}

func TestCentroid_Triangle(t *testing.T) {
	c, ok := Centroid(polygonGeom(t, [][]float64{{0, 0}, {3, 0}, {0, 3}, {0, 0}}))
	require.True(t, ok)
	assert.InDelta(t, 1.0, c.Lng(), 1e-9)
	assert.InDelta(t, 1.0, c.Lat(), 1e-9)
}

func TestCentroid_ClockwiseRing(t *testing.T) {
	c, ok := Centroid(polygonGeom(t, [][]float64{{0, 0}, {0, 4}, {4, 4}, {4, 0}, {0, 0}}))
	require.True(t, ok)
	assert.InDelta(t, 2.0, c.Lng(), 1e-9)
	assert.InDelta(t, 2.0, c.Lat(), 1e-9)
}

func TestCentroid_MultiPolygonUsesRingWithMostVertices(t *testing.T) {
	big := square(100, 100, 50) // 5 vertices, large area
	detailed := [][]float64{{0, 0}, {1, 0}, {2, 0}, {2, 1}, {2, 2}, {1, 2}, {0, 2}, {0, 1}, {0, 0}}

	p1, err := polygonFromCoords([][][]float64{big})
	require.NoError(t, err)
	p2, err := polygonFromCoords([][][]float64{detailed})
	require.NoError(t, err)
	mp := geom.NewMultiPolygon([]geom.Polygon{p1, p2}).AsGeometry()

	c, ok := Centroid(mp)
	require.True(t, ok)
	assert.InDelta(t, 1.0, c.Lng(), 1e-9)
	assert.InDelta(t, 1.0, c.Lat(), 1e-9)
}

func TestCentroid_CollinearFallsBackToMean(t *testing.T) {
	c, ok := Centroid(polygonGeom(t, [][]float64{{0, 0}, {1, 1}, {2, 2}, {0, 0}}))
	require.True(t, ok)
	assert.InDelta(t, 1.0, c.Lng(), 1e-9)
	assert.InDelta(t, 1.0, c.Lat(), 1e-9)
}

func TestRingCentroid_FewerThanThreePoints(t *testing.T) {
	c, ok := ringCentroid([]geom.XY{{X: 0, Y: 0}, {X: 4, Y: 2}})
	require.True(t, ok)
	assert.Equal(t, core.LngLat{2, 1}, c)

	_, ok = ringCentroid(nil)
	assert.False(t, ok)
}

func TestCentroid_EmptyGeometry(t *testing.T) {
	_, ok := Centroid(geom.Geometry{})
	assert.False(t, ok)
}

// inConvexRing reports whether p is inside (or on) a convex counter-clockwise ring.
func inConvexRing(p core.LngLat, ring [][]float64) bool {
	for i := 0; i < len(ring)-1; i++ {
		a, b := ring[i], ring[i+1]
		cross := (b[0]-a[0])*(p[1]-a[1]) - (b[1]-a[1])*(p[0]-a[0])
		if cross < -1e-9 {
			return false
		}
	}
	return true
}

func TestCentroid_LiesWithinConvexHull(t *testing.T) {
	rings := [][][]float64{
		{{0, 0}, {10, 0}, {12, 5}, {6, 9}, {-1, 4}, {0, 0}},
		{{-5, -5}, {5, -4}, {4, 6}, {-3, 3}, {-5, -5}},
		{{20, 40}, {21, 40.5}, {20.5, 41}, {20, 40}},
	}
	for _, ring := range rings {
		c, ok := Centroid(polygonGeom(t, ring))
		require.True(t, ok)
		assert.True(t, inConvexRing(c, ring), "centroid %v outside %v", c, ring)
	}
}

func circleRing(n int) [][]float64 {
	ring := make([][]float64, 0, n+1)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		ring = append(ring, []float64{math.Cos(a), math.Sin(a)})
	}
	return append(ring, ring[0])
}

func TestSimplify_FullFractionIsIdentity(t *testing.T) {
	g := polygonGeom(t, circleRing(40))
	assert.Equal(t, PolygonCoords(g), PolygonCoords(Simplify(g, 1.0)))
	assert.Equal(t, PolygonCoords(g), PolygonCoords(Simplify(g, 1.5)))
}

func TestSimplify_KeepsFirstAndLastVertex(t *testing.T) {
	g := polygonGeom(t, circleRing(40)) // 41 vertices
	original := PolygonCoords(g)[0][0]

	for _, k := range []float64{0.05, 0.25, 0.5, 0.9} {
		simplified := PolygonCoords(Simplify(g, k))[0][0]
		want := max(3, int(math.Round(41*k)))
		assert.Len(t, simplified, want, "keepFraction=%v", k)
		assert.Equal(t, original[0], simplified[0])
		assert.Equal(t, original[len(original)-1], simplified[len(simplified)-1])
	}
}

func TestSimplify_MultiPolygon(t *testing.T) {
	p1, err := polygonFromCoords([][][]float64{circleRing(20)})
	require.NoError(t, err)
	p2, err := polygonFromCoords([][][]float64{square(5, 5, 1)})
	require.NoError(t, err)
	mp := geom.NewMultiPolygon([]geom.Polygon{p1, p2}).AsGeometry()

	out := PolygonCoords(Simplify(mp, 0.5))
	require.Len(t, out, 2)
	assert.Len(t, out[0][0], 11) // round(21 * 0.5)
	assert.Len(t, out[1][0], 3)
}

func TestSampleRing_ShortRingUnchanged(t *testing.T) {
	pts := []geom.XY{{X: 1, Y: 1}, {X: 2, Y: 2}}
	assert.Equal(t, pts, sampleRing(pts, 0.1))
}

func TestMaxPairwiseDistance(t *testing.T) {
	assert.Equal(t, 0.0, MaxPairwiseDistance(nil))
	assert.Equal(t, 0.0, MaxPairwiseDistance([]core.LngLat{{1, 1}}))
	assert.InDelta(t, 5.0, MaxPairwiseDistance([]core.LngLat{{0, 0}, {1, 1}, {3, 4}}), 1e-9)
}

func TestMean(t *testing.T) {
	m, ok := Mean([]core.LngLat{{2.0, 46.0}, {4.5, 50.5}})
	require.True(t, ok)
	assert.InDelta(t, 3.25, m.Lng(), 1e-9)
	assert.InDelta(t, 48.25, m.Lat(), 1e-9)

	_, ok = Mean(nil)
	assert.False(t, ok)
}

func TestQuadraticBezier(t *testing.T) {
	from, to := core.LngLat{0, 0}, core.LngLat{10, 0}
	control := core.LngLat{5, 10}
	pts := QuadraticBezier(from, control, to, BezierSegments)

	require.Len(t, pts, BezierSegments+1)
	assert.Equal(t, from, pts[0])
	assert.Equal(t, to, pts[len(pts)-1])
	assert.InDelta(t, 5.0, pts[25].Lng(), 1e-9)
	assert.InDelta(t, 5.0, pts[25].Lat(), 1e-9)
}

func TestCurveControlPoint_IsOffsetFromChord(t *testing.T) {
	c := CurveControlPoint(core.LngLat{0, 0}, core.LngLat{10, 0})
	assert.InDelta(t, 5.0, c.Lng(), 1e-9)
	assert.InDelta(t, 2.0, c.Lat(), 1e-9)
}

func TestCirclePolygon(t *testing.T) {
	ring := CirclePolygon(core.LngLat{0, 0}, KmPerDegreeLat, CircleSides)
	require.Len(t, ring, CircleSides+1)
	assert.Equal(t, ring[0], ring[len(ring)-1])
	assert.InDelta(t, 1.0, ring[0].Lng(), 1e-9)
	assert.InDelta(t, 1.0, ring[16].Lat(), 1e-9)
}

func TestCirclePolygon_LongitudeCorrectedByLatitude(t *testing.T) {
	ring := CirclePolygon(core.LngLat{10, 60}, KmPerDegreeLat, CircleSides)
	assert.InDelta(t, 12.0, ring[0].Lng(), 1e-9) // 1 / cos(60°) = 2
	assert.InDelta(t, 61.0, ring[16].Lat(), 1e-9)
}

func TestCloseRing(t *testing.T) {
	assert.Nil(t, CloseRing(nil))
	ring := CloseRing([]core.LngLat{{0, 0}, {1, 0}, {1, 1}})
	assert.Len(t, ring, 4)
	assert.Equal(t, ring[0], ring[3])
	assert.Len(t, CloseRing(ring), 4)
}

func TestParseFeatureCollection(t *testing.T) {
	payload := `{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "properties": {"name": "Squareland"},
			 "geometry": {"type": "Polygon", "coordinates": [[[0,0],[2,0],[2,2],[0,2],[0,0]]]}},
			{"type": "Feature", "properties": {"NAME": "Islands"},
			 "geometry": {"type": "MultiPolygon", "coordinates": [[[[5,5],[6,5],[6,6],[5,5]]],[[[7,7],[8,7],[8,8],[7,7]]]]}},
			{"type": "Feature", "properties": {"name": "Capital"},
			 "geometry": {"type": "Point", "coordinates": [1,1]}},
			{"type": "Feature", "properties": {"name": "Nowhere"}, "geometry": null}
		]
	}`

	fc, err := ParseFeatureCollection([]byte(payload))
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, "Squareland", fc.Features[0].Name())
	assert.Equal(t, "Islands", fc.Features[1].Name())
	assert.Equal(t, geom.TypeMultiPolygon, fc.Features[1].Geometry.Type())
}

func TestPolygonCoords_ParsedFeatures(t *testing.T) {
	payload := `{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "properties": {"name": "Squareland"},
			 "geometry": {"type": "Polygon", "coordinates": [[[0,0],[2,0],[2,2],[0,2],[0,0]]]}},
			{"type": "Feature", "properties": {"name": "Islands"},
			 "geometry": {"type": "MultiPolygon", "coordinates": [[[[5,5],[6,5],[6,6],[5,5]]],[[[7,7],[8,7],[8,8],[7,7]]]]}}
		]
	}`

	fc, err := ParseFeatureCollection([]byte(payload))
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)

	single := PolygonCoords(fc.Features[0].Geometry)
	require.Len(t, single, 1)
	assert.Equal(t, [][]float64{{0, 0}, {2, 0}, {2, 2}, {0, 2}, {0, 0}}, single[0][0])

	multi := PolygonCoords(fc.Features[1].Geometry)
	require.Len(t, multi, 2)
	assert.Equal(t, []float64{7, 7}, multi[1][0][0])

	c, ok := Centroid(fc.Features[0].Geometry)
	require.True(t, ok)
	assert.InDelta(t, 1.0, c.Lng(), 1e-9)
	assert.InDelta(t, 1.0, c.Lat(), 1e-9)

	assert.Nil(t, PolygonCoords(geom.Geometry{}))
}

func TestParseFeatureCollection_MissingFeatures(t *testing.T) {
	_, err := ParseFeatureCollection([]byte(`{"type": "FeatureCollection"}`))
	assert.True(t, errors.Is(err, ErrNotFeatureCollection))

	_, err = ParseFeatureCollection([]byte(`not json`))
	assert.True(t, errors.Is(err, ErrNotFeatureCollection))
}

func TestProject3857_Origin(t *testing.T) {
	x, y := Project3857(core.LngLat{0, 0})
	assert.InDelta(t, 0.0, x, 1e-6)
	assert.InDelta(t, 0.0, y, 1e-6)

	x, _ = Project3857(core.LngLat{180, 0})
	assert.InDelta(t, webMercatorWorldWidth/2, x, 1)
}

func TestFrame(t *testing.T) {
	_, ok := Frame(nil, DefaultFrameOptions)
	assert.False(t, ok)

	vp, ok := Frame([]core.LngLat{{2, 46}}, DefaultFrameOptions)
	require.True(t, ok)
	assert.Equal(t, core.LngLat{2, 46}, vp.Center)
	assert.Equal(t, DefaultFrameOptions.DefaultZoom, vp.Zoom)

	near, _ := Frame([]core.LngLat{{2, 46}, {4.5, 50.5}}, DefaultFrameOptions)
	far, _ := Frame([]core.LngLat{{-100, 40}, {100, 40}}, DefaultFrameOptions)
	assert.Greater(t, near.Zoom, far.Zoom)
	assert.InDelta(t, 3.25, near.Center.Lng(), 1e-9)
	assert.InDelta(t, 48.25, near.Center.Lat(), 1e-9)
	assert.GreaterOrEqual(t, far.Zoom, DefaultFrameOptions.MinZoom)
	assert.LessOrEqual(t, near.Zoom, DefaultFrameOptions.MaxZoom)
}
