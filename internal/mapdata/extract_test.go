package mapdata

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irlens/atlas/pkg/core"
)

func pointFromJSON(t *testing.T, s string) *core.TimelinePoint {
	t.Helper()
	var p core.TimelinePoint
	require.NoError(t, json.Unmarshal([]byte(s), &p))
	return &p
}

func TestExtract_Nil(t *testing.T) {
	viz := Extract(nil)
	assert.Empty(t, viz.Markers)
	assert.Empty(t, viz.Areas)
	assert.Empty(t, viz.Flows)
	assert.Empty(t, viz.HighlightCountries)
	assert.Nil(t, viz.FocusLocation)
}

func TestExtract_WithoutMapDataKeepsFocus(t *testing.T) {
	zoom := 5.0
	p := &core.TimelinePoint{ID: "p", FocusLocation: &core.LatLng{48.8, 2.3}, FocusZoom: &zoom}

	viz := Extract(p)
	require.NotNil(t, viz.FocusLocation)
	assert.Equal(t, core.LngLat{2.3, 48.8}, *viz.FocusLocation)
	require.NotNil(t, viz.FocusZoom)
	assert.Equal(t, 5.0, *viz.FocusZoom)
	assert.Empty(t, viz.Markers)
}

func TestExtract_PointsSchema(t *testing.T) {
	p := pointFromJSON(t, `{
		"id": "p1",
		"mapData": {
			"points": [
				{"label": "Missile site", "location": [22.0, -80.0], "type": "site", "country": "Cuba"},
				{"label": "Missile site", "location": [23.0, -81.0], "country": "Cuba"}
			],
			"areas": [
				{"label": "Quarantine zone", "center": [24, -78], "radius": 800},
				{"label": "Triangle", "coordinates": [[0,0],[0,1],[1,1]]},
				{"label": "Broken"}
			],
			"flows": [
				{"label": "Shipment", "from": [43.1, 131.9], "to": [23.1, -82.4], "path": [[30, 0]]}
			]
		}
	}`)

	viz := Extract(p)

	require.Len(t, viz.Markers, 2)
	assert.Equal(t, "missile-site-0", viz.Markers[0].ID)
	assert.Equal(t, "missile-site-1", viz.Markers[1].ID)
	assert.Equal(t, core.LngLat{-80, 22}, viz.Markers[0].Position)

	require.Len(t, viz.Areas, 2)
	assert.Equal(t, core.ShapeCircle, viz.Areas[0].Kind)
	assert.Equal(t, 800.0, viz.Areas[0].RadiusKm)
	assert.Equal(t, core.LngLat{-78, 24}, viz.Areas[0].Center)
	assert.Equal(t, core.ShapePolygon, viz.Areas[1].Kind)
	assert.Equal(t, []core.LngLat{{0, 0}, {1, 0}, {1, 1}, {0, 0}}, viz.Areas[1].Ring)

	require.Len(t, viz.Flows, 1)
	assert.Equal(t, core.LngLat{131.9, 43.1}, viz.Flows[0].From)
	assert.Equal(t, []core.LngLat{{0, 30}}, viz.Flows[0].Path)

	assert.Equal(t, []string{"Cuba"}, viz.HighlightCountries)
}

func TestExtract_LegacySchema(t *testing.T) {
	p := pointFromJSON(t, `{
		"id": "p2",
		"mapData": {
			"militaryBases": [{"name": "Guantanamo", "location": [19.9, -75.1], "country": "United States of America", "type": "naval"}],
			"influence": [{"label": "Soviet sphere", "center": [55.7, 37.6], "radius": 1500000}],
			"movements": [{"label": "Blockade", "from": [30, -70], "to": [22, -79]}],
			"conflicts": [{"label": "Crisis", "location": [22, -80], "intensity": 8}],
			"troops": [
				{"label": "Group of Soviet Forces", "location": [22.5, -80.5], "strength": 43000, "country": "Soviet Union"},
				{"label": "Huge army", "location": [0, 0], "strength": 250000}
			]
		}
	}`)

	viz := Extract(p)

	require.Len(t, viz.Markers, 3)
	assert.Equal(t, "base", viz.Markers[0].Type)
	assert.Equal(t, "Guantanamo", viz.Markers[0].Label)
	assert.Equal(t, "naval", viz.Markers[0].Description)
	assert.Equal(t, 5, viz.Markers[1].Size)
	assert.Equal(t, 10, viz.Markers[2].Size)

	require.Len(t, viz.Areas, 2)
	assert.Equal(t, 1500.0, viz.Areas[0].RadiusKm)
	assert.Equal(t, "influence", viz.Areas[0].Type)
	assert.Equal(t, 40.0, viz.Areas[1].RadiusKm)
	assert.Equal(t, "conflict", viz.Areas[1].Type)

	require.Len(t, viz.Flows, 1)
	assert.Equal(t, "movement", viz.Flows[0].Type)

	assert.Equal(t, []string{"United States of America", "Soviet Union"}, viz.HighlightCountries)
}

func TestExtract_ExplicitKindWins(t *testing.T) {
	p := pointFromJSON(t, `{"mapData": {"kind": "legacy", "points": [{"label": "x", "location": [0, 0]}], "troops": [{"label": "t", "location": [1, 1], "strength": 1}]}}`)

	viz := Extract(p)
	require.Len(t, viz.Markers, 1)
	assert.Equal(t, "troops", viz.Markers[0].Type)
}

func TestExtract_AreaLabelKeywords(t *testing.T) {
	p := &core.TimelinePoint{MapData: &core.MapData{
		Kind: core.MapDataPoints,
		Areas: []core.MapArea{
			{Label: "Chinese volunteers", Center: &core.LatLng{40, 125}, Radius: 100},
			{Label: "American carrier group", Center: &core.LatLng{35, 130}, Radius: 100},
			{Label: "Thousand islands", Center: &core.LatLng{10, 10}, Radius: 100},
			{Label: "USSR advisers", Center: &core.LatLng{41, 126}, Radius: 100},
		},
	}}

	viz := Extract(p)
	assert.Equal(t, []string{"China", "United States of America", "Soviet Union"}, viz.HighlightCountries)
}

func TestTroopSize(t *testing.T) {
	assert.Equal(t, 0, TroopSize(0))
	assert.Equal(t, 1, TroopSize(1))
	assert.Equal(t, 1, TroopSize(10000))
	assert.Equal(t, 2, TroopSize(10001))
	assert.Equal(t, 10, TroopSize(1e7))
}

func TestConflictRadius(t *testing.T) {
	assert.Equal(t, 50.0, ConflictRadius(10))
	assert.Equal(t, 25.0, ConflictRadius(5))
	assert.Equal(t, 0.0, ConflictRadius(-1))
}

func TestKeywordCountries(t *testing.T) {
	tests := []struct {
		label string
		want  []string
	}{
		{"United States Navy", []string{"United States of America"}},
		{"USA", []string{"United States of America"}},
		{"Soviets and Americans", []string{"United States of America", "Soviet Union"}},
		{"PRC border", []string{"China"}},
		{"Causal chain", nil},
		{"", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KeywordCountries(tt.label), tt.label)
	}
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "bay-of-pigs", Slug("Bay of Pigs"))
	assert.Equal(t, "sao-tome-principe", Slug("São Tomé & Príncipe"))
	assert.Equal(t, "point", Slug("  !! "))
}
