package core

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTheoryID(t *testing.T) {
	tests := []struct {
		id, base, theory string
	}{
		{"cuban-missile-crisis-realism", "cuban-missile-crisis", "realism"},
		{"cuban-missile-crisis-postcolonialism", "cuban-missile-crisis", "postcolonialism"},
		{"cuban-missile-crisis", "cuban-missile-crisis", ""},
		{"realism", "realism", ""},
		{"-realism", "-realism", ""},
		{"new-realism-school", "new-realism-school", ""},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			base, theory := SplitTheoryID(tt.id)
			assert.Equal(t, tt.base, base)
			assert.Equal(t, tt.theory, theory)
		})
	}

	ev := &Event{ID: "suez-crisis-marxism"}
	assert.Equal(t, "suez-crisis", ev.BaseID())
	assert.Equal(t, "marxism", ev.Theory())
}

func TestIsVariantOf(t *testing.T) {
	assert.True(t, IsVariantOf("korean-war", "korean-war"))
	assert.True(t, IsVariantOf("korean-war-realism", "korean-war"))
	assert.False(t, IsVariantOf("korean-war2", "korean-war"))
	assert.False(t, IsVariantOf("korean", "korean-war"))
}

func TestLatLngToLngLat(t *testing.T) {
	p := LatLng{48.85, 2.35}.LngLat()
	assert.Equal(t, 2.35, p.Lng())
	assert.Equal(t, 48.85, p.Lat())
}

func TestMapData_DetectKind(t *testing.T) {
	var nilData *MapData
	assert.Equal(t, MapDataKind(""), nilData.DetectKind())
	assert.Equal(t, MapDataKind(""), (&MapData{}).DetectKind())
	assert.Equal(t, MapDataLegacy, (&MapData{Kind: MapDataLegacy, Points: []MapPoint{{}}}).DetectKind())
	assert.Equal(t, MapDataPoints, (&MapData{Kind: "bogus", Flows: []MapFlow{{}}}).DetectKind())
	assert.Equal(t, MapDataLegacy, (&MapData{Conflicts: []LegacyConflict{{}}}).DetectKind())
	assert.Equal(t, MapDataPoints, (&MapData{Points: []MapPoint{{}}, Troops: []LegacyTroop{{}}}).DetectKind())
}

func TestMapData_UnmarshalTagsKind(t *testing.T) {
	var points MapData
	require.NoError(t, sonic.ConfigStd.Unmarshal([]byte(`{"points": [{"label": "Havana", "location": [23.1, -82.4]}]}`), &points))
	assert.Equal(t, MapDataPoints, points.Kind)
	assert.Equal(t, LatLng{23.1, -82.4}, points.Points[0].Location)

	var legacy MapData
	require.NoError(t, sonic.ConfigStd.Unmarshal([]byte(`{"militaryBases": [{"name": "Guantanamo", "location": [19.9, -75.1]}]}`), &legacy))
	assert.Equal(t, MapDataLegacy, legacy.Kind)

	var bad MapData
	assert.Error(t, sonic.ConfigStd.Unmarshal([]byte(`{"points": 3}`), &bad))
}

func TestTiming(t *testing.T) {
	year := 1962
	assert.False(t, Timing{}.HasAppear())
	assert.False(t, Timing{}.HasDisappear())
	assert.True(t, Timing{AppearAtYear: &year}.HasAppear())
	assert.True(t, Timing{DisappearAtTimelinePoint: "p3"}.HasDisappear())
}
