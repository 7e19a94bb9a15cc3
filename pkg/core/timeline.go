// pkg/core/timeline.go
package core

// TimelinePoint is an authored step of an event's timeline, ordered by Position (0..100).
// The active point is held by the viewer state, never by the point itself.
type TimelinePoint struct {
	ID               string   `json:"id"`
	Label            string   `json:"label"`
	Date             string   `json:"date,omitempty"`
	Year             string   `json:"year,omitempty"`
	Position         float64  `json:"position"`
	Description      string   `json:"description,omitempty"`
	FocusLocation    *LatLng  `json:"focusLocation,omitempty"`
	FocusZoom        *float64 `json:"focusZoom,omitempty"`
	RelevantTheories []string `json:"relevantTheories,omitempty"`
	IsTurningPoint   bool     `json:"isTurningPoint,omitempty"`
	MapData          *MapData `json:"mapData,omitempty"`
}

// VizMarker is a canonical timeline marker.
type VizMarker struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Position    LngLat `json:"position"`
	Type        string `json:"type,omitempty"`
	Country     string `json:"country,omitempty"`
	Size        int    `json:"size,omitempty"`
	Description string `json:"description,omitempty"`
}

// VizArea is a canonical timeline area: a circle (Center, RadiusKm) or a polygon (Ring).
type VizArea struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Kind     ShapeKind `json:"kind"`
	Center   LngLat    `json:"center,omitempty"`
	RadiusKm float64   `json:"radiusKm,omitempty"`
	Ring     []LngLat  `json:"ring,omitempty"`
	Type     string    `json:"type,omitempty"`
	Color    string    `json:"color,omitempty"`
	Country  string    `json:"country,omitempty"`
}

// VizFlow is a canonical movement between two places, optionally along an authored path.
type VizFlow struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	From  LngLat   `json:"from"`
	To    LngLat   `json:"to"`
	Path  []LngLat `json:"path,omitempty"`
	Type  string   `json:"type,omitempty"`
	Color string   `json:"color,omitempty"`
}

// TimelineVisualization is the normalized map payload of a single timeline point.
type TimelineVisualization struct {
	Markers            []VizMarker `json:"markers"`
	Areas              []VizArea   `json:"areas"`
	Flows              []VizFlow   `json:"flows"`
	FocusLocation      *LngLat     `json:"focusLocation,omitempty"`
	FocusZoom          *float64    `json:"focusZoom,omitempty"`
	HighlightCountries []string    `json:"highlightCountries"`
}
