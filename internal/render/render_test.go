package render

import (
	"encoding/json"
	"testing"

	geojson "github.com/paulmach/go.geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irlens/atlas/internal/geo"
	"github.com/irlens/atlas/internal/resolve"
	"github.com/irlens/atlas/internal/synth"
	"github.com/irlens/atlas/pkg/core"
)

func sampleView(t *testing.T) *resolve.View {
	t.Helper()
	fc, err := geo.ParseFeatureCollection([]byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{"NAME":"Cuba","ISO":"CU"},"geometry":{"type":"Polygon","coordinates":[[[0,0],[2,0],[2,2],[0,2],[0,0]]]}}
	]}`))
	require.NoError(t, err)

	return &resolve.View{
		EventID: "cuba",
		Result: synth.Result{
			Highlighted: []synth.HighlightedFeature{{
				Name:       "Cuba",
				Color:      "#c00",
				Properties: fc.Features[0].Properties,
				Geometry:   fc.Features[0].Geometry,
			}},
			Markers: map[string]core.Marker{
				"cuba":   {Key: "cuba", Name: "Cuba", Kind: core.MarkerCountry, Position: core.LngLat{1, 1}},
				"allies": {Key: "allies", Name: "Allies", Kind: core.MarkerArea, Position: core.LngLat{5, 5}},
			},
			Connections: []synth.ConnectionGeometry{{
				Connection: core.Connection{ID: "c1", From: "Cuba", To: "allies"},
				Path:       []core.LngLat{{1, 1}, {5, 5}},
			}},
			Shapes: []synth.Shape{{
				AreaID: "allies",
				Kind:   core.ShapePolygon,
				Ring:   []core.LngLat{{0, 0}, {1, 0}, {1, 1}, {0, 0}},
			}},
		},
		Timeline: core.TimelineVisualization{
			Markers: []core.VizMarker{{ID: "base-0", Label: "Base", Position: core.LngLat{3, 3}, Size: 4}},
			Areas: []core.VizArea{
				{ID: "influence-0", Kind: core.ShapeCircle, Center: core.LngLat{0, 0}, RadiusKm: 100},
				{ID: "broken", Kind: core.ShapePolygon},
			},
			Flows: []core.VizFlow{{ID: "flow-0", From: core.LngLat{0, 0}, To: core.LngLat{4, 4}, Path: []core.LngLat{{2, 3}}}},
		},
		Camera: &resolve.Camera{Viewport: geo.Viewport{Center: core.LngLat{3, 3}, Zoom: 5}},
	}
}

func byLayer(fc *geojson.FeatureCollection) map[string][]*geojson.Feature {
	out := map[string][]*geojson.Feature{}
	for _, f := range fc.Features {
		layer, _ := f.Properties["layer"].(string)
		out[layer] = append(out[layer], f)
	}
	return out
}

func TestFeatureCollection(t *testing.T) {
	fc := FeatureCollection(sampleView(t))
	layers := byLayer(fc)

	require.Len(t, layers[LayerHighlight], 1)
	h := layers[LayerHighlight][0]
	assert.True(t, h.Geometry.IsPolygon())
	assert.Equal(t, "#c00", h.Properties["color"])
	assert.Equal(t, "CU", h.Properties["ISO"])

	require.Len(t, layers[LayerMarker], 2)
	assert.Equal(t, "allies", layers[LayerMarker][0].ID, "markers are sorted by key")
	assert.Equal(t, []float64{1, 1}, layers[LayerMarker][1].Geometry.Point)

	require.Len(t, layers[LayerConnection], 1)
	assert.Equal(t, [][]float64{{1, 1}, {5, 5}}, layers[LayerConnection][0].Geometry.LineString)

	require.Len(t, layers[LayerShape], 1)
	require.Len(t, layers[LayerTimelineMarker], 1)
	assert.Equal(t, 4, layers[LayerTimelineMarker][0].Properties["size"])

	require.Len(t, layers[LayerTimelineArea], 1)
	assert.Len(t, layers[LayerTimelineArea][0].Geometry.Polygon[0], geo.CircleSides+1)

	require.Len(t, layers[LayerTimelineFlow], 1)
	assert.Equal(t, [][]float64{{0, 0}, {2, 3}, {4, 4}}, layers[LayerTimelineFlow][0].Geometry.LineString)

	require.Len(t, layers[LayerCamera], 1)
	assert.Equal(t, 5.0, layers[LayerCamera][0].Properties["zoom"])
}

func TestFeatureCollection_Nil(t *testing.T) {
	fc := FeatureCollection(nil)
	assert.Empty(t, fc.Features)
}

func TestMarshal(t *testing.T) {
	data, err := Marshal(sampleView(t))
	require.NoError(t, err)

	var decoded struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "FeatureCollection", decoded.Type)
	assert.Len(t, decoded.Features, 9)
}
