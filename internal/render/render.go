// Package render exports a resolved view as a GeoJSON feature collection. Every feature
// carries a "layer" property naming the overlay it belongs to.
package render

import (
	"sort"

	geojson "github.com/paulmach/go.geojson"

	"github.com/irlens/atlas/internal/geo"
	"github.com/irlens/atlas/internal/resolve"
	"github.com/irlens/atlas/pkg/core"
)

// Layer names.
const (
	LayerHighlight      = "highlight"
	LayerMarker         = "marker"
	LayerConnection     = "connection"
	LayerShape          = "shape"
	LayerTimelineMarker = "timeline-marker"
	LayerTimelineArea   = "timeline-area"
	LayerTimelineFlow   = "timeline-flow"
	LayerCamera         = "camera"
)

// FeatureCollection converts view into GeoJSON. A nil view gives an empty collection.
func FeatureCollection(view *resolve.View) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if view == nil {
		return fc
	}

	for _, h := range view.Result.Highlighted {
		polys := geo.PolygonCoords(h.Geometry)
		if len(polys) == 0 {
			continue
		}
		var f *geojson.Feature
		if len(polys) == 1 {
			f = geojson.NewPolygonFeature(polys[0])
		} else {
			f = geojson.NewMultiPolygonFeature(polys...)
		}
		f.SetProperty("layer", LayerHighlight)
		f.SetProperty("name", h.Name)
		setIf(f, "color", h.Color)
		for k, v := range h.Properties {
			if _, taken := f.Properties[k]; !taken {
				f.SetProperty(k, v)
			}
		}
		fc.AddFeature(f)
	}

	keys := make([]string, 0, len(view.Result.Markers))
	for k := range view.Result.Markers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		m := view.Result.Markers[k]
		f := geojson.NewPointFeature(point(m.Position))
		f.ID = m.Key
		f.SetProperty("layer", LayerMarker)
		f.SetProperty("name", m.Name)
		f.SetProperty("kind", string(m.Kind))
		f.SetProperty("countries", m.Countries)
		setIf(f, "color", m.Color)
		fc.AddFeature(f)
	}

	for _, c := range view.Result.Connections {
		f := geojson.NewLineStringFeature(line(c.Path))
		setIf(f, "id", c.Connection.ID)
		f.SetProperty("layer", LayerConnection)
		f.SetProperty("from", c.Connection.From)
		f.SetProperty("to", c.Connection.To)
		f.SetProperty("authored", c.Authored)
		setIf(f, "label", c.Connection.Label)
		setIf(f, "type", c.Connection.Type)
		setIf(f, "color", c.Connection.Color)
		fc.AddFeature(f)
	}

	for _, s := range view.Result.Shapes {
		f := geojson.NewPolygonFeature([][][]float64{line(s.Ring)})
		f.SetProperty("layer", LayerShape)
		f.SetProperty("area", s.AreaID)
		f.SetProperty("kind", string(s.Kind))
		setIf(f, "name", s.Name)
		setIf(f, "color", s.Color)
		fc.AddFeature(f)
	}

	addTimeline(fc, view.Timeline)

	if view.Camera != nil {
		f := geojson.NewPointFeature(point(view.Camera.Center))
		f.SetProperty("layer", LayerCamera)
		f.SetProperty("zoom", view.Camera.Zoom)
		f.SetProperty("focus", view.Camera.FromFocus)
		fc.AddFeature(f)
	}
	return fc
}

func addTimeline(fc *geojson.FeatureCollection, viz core.TimelineVisualization) {
	for _, m := range viz.Markers {
		f := geojson.NewPointFeature(point(m.Position))
		f.ID = m.ID
		f.SetProperty("layer", LayerTimelineMarker)
		f.SetProperty("label", m.Label)
		setIf(f, "type", m.Type)
		setIf(f, "country", m.Country)
		setIf(f, "description", m.Description)
		if m.Size > 0 {
			f.SetProperty("size", m.Size)
		}
		fc.AddFeature(f)
	}

	for _, a := range viz.Areas {
		ring := a.Ring
		if a.Kind == core.ShapeCircle {
			ring = geo.CirclePolygon(a.Center, a.RadiusKm, geo.CircleSides)
		}
		if len(ring) < 4 {
			continue
		}
		f := geojson.NewPolygonFeature([][][]float64{line(ring)})
		f.ID = a.ID
		f.SetProperty("layer", LayerTimelineArea)
		f.SetProperty("label", a.Label)
		f.SetProperty("kind", string(a.Kind))
		if a.Kind == core.ShapeCircle {
			f.SetProperty("radiusKm", a.RadiusKm)
		}
		setIf(f, "type", a.Type)
		setIf(f, "color", a.Color)
		setIf(f, "country", a.Country)
		fc.AddFeature(f)
	}

	for _, fl := range viz.Flows {
		path := make([]core.LngLat, 0, len(fl.Path)+2)
		path = append(path, fl.From)
		path = append(path, fl.Path...)
		path = append(path, fl.To)
		f := geojson.NewLineStringFeature(line(path))
		f.ID = fl.ID
		f.SetProperty("layer", LayerTimelineFlow)
		f.SetProperty("label", fl.Label)
		setIf(f, "type", fl.Type)
		setIf(f, "color", fl.Color)
		fc.AddFeature(f)
	}
}

// Marshal encodes the view as GeoJSON.
func Marshal(view *resolve.View) ([]byte, error) {
	return FeatureCollection(view).MarshalJSON()
}

func setIf(f *geojson.Feature, key, value string) {
	if value != "" {
		f.SetProperty(key, value)
	}
}

func point(p core.LngLat) []float64 {
	return []float64{p[0], p[1]}
}

func line(pts []core.LngLat) [][]float64 {
	out := make([][]float64, len(pts))
	for i, p := range pts {
		out[i] = point(p)
	}
	return out
}
