package geo

import (
	"math"

	"github.com/irlens/atlas/pkg/core"
	"github.com/wroge/wgs84"
)

// webMercatorWorldWidth is the EPSG:3857 extent of the world in metres.
const webMercatorWorldWidth = 40075016.685578488

// maxMercatorLat is where EPSG:3857 is clipped.
const maxMercatorLat = 85.05112878

// Viewport is a camera target for the map view.
type Viewport struct {
	Center core.LngLat `json:"center"`
	Zoom   float64     `json:"zoom"`
}

// FrameOptions bound the computed zoom.
type FrameOptions struct {
	MinZoom     float64
	MaxZoom     float64
	DefaultZoom float64 // used when there is a single point
	Padding     float64 // multiplier applied to the framed extent
}

// DefaultFrameOptions suit a world map of countries.
var DefaultFrameOptions = FrameOptions{
	MinZoom:     1,
	MaxZoom:     8,
	DefaultZoom: 4,
	Padding:     1.5,
}

// Project3857 converts a WGS84 position to web mercator metres.
func Project3857(p core.LngLat) (x, y float64) {
	lat := math.Max(-maxMercatorLat, math.Min(maxMercatorLat, p.Lat()))
	f := wgs84.EPSG().Transform(4326, 3857)
	x, y, _ = f(p.Lng(), lat, 0)
	return x, y
}

// Frame picks a camera that shows all points: the centre of their bounding box and a
// zoom derived from the largest projected distance between any two of them.
func Frame(points []core.LngLat, opts FrameOptions) (Viewport, bool) {
	if len(points) == 0 {
		return Viewport{}, false
	}

	minLng, minLat := points[0].Lng(), points[0].Lat()
	maxLng, maxLat := minLng, minLat
	projected := make([]core.LngLat, len(points))
	for i, p := range points {
		minLng = math.Min(minLng, p.Lng())
		maxLng = math.Max(maxLng, p.Lng())
		minLat = math.Min(minLat, p.Lat())
		maxLat = math.Max(maxLat, p.Lat())
		x, y := Project3857(p)
		projected[i] = core.LngLat{x, y}
	}
	center := core.LngLat{(minLng + maxLng) / 2, (minLat + maxLat) / 2}

	extent := MaxPairwiseDistance(projected) * math.Max(opts.Padding, 1)
	if extent <= 0 {
		return Viewport{Center: center, Zoom: opts.DefaultZoom}, true
	}
	zoom := math.Log2(webMercatorWorldWidth / extent)
	zoom = math.Max(opts.MinZoom, math.Min(opts.MaxZoom, zoom))
	return Viewport{Center: center, Zoom: zoom}, true
}
