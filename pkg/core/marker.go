// pkg/core/marker.go
package core

// MarkerKind tells whether a marker stands for one country or a unified area.
type MarkerKind string

const (
	MarkerCountry MarkerKind = "country"
	MarkerArea    MarkerKind = "area"
)

// Marker is a derived, render-ready point. Key is the normalized country name or the
// unified-area id.
type Marker struct {
	Key       string     `json:"key"`
	Name      string     `json:"name"`
	Kind      MarkerKind `json:"kind"`
	Position  LngLat     `json:"position"`
	Countries []string   `json:"countries,omitempty"`
	Color     string     `json:"color,omitempty"`
}
