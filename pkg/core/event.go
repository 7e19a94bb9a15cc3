// pkg/core/event.go
package core

import "strings"

// Theories are the lens suffixes an event id may carry, e.g. "cuban-missile-crisis-realism".
var Theories = []string{
	"realism",
	"liberalism",
	"constructivism",
	"marxism",
	"feminism",
	"postcolonialism",
}

// Period is the declared year span of an event.
type Period struct {
	StartYear int `json:"startYear"`
	EndYear   int `json:"endYear"`
}

// Event is the aggregate root loaded from the persistence layer.
// The resolution core only ever reads it.
type Event struct {
	ID                   string             `json:"id"`
	Title                string             `json:"title"`
	Description          string             `json:"description,omitempty"`
	Date                 string             `json:"date,omitempty"`
	Period               Period             `json:"period"`
	HighlightedCountries []string           `json:"highlightedCountries,omitempty"`
	CountryHighlights    []CountryHighlight `json:"countryHighlights,omitempty"`
	Connections          []Connection       `json:"connections,omitempty"`
	UnifiedAreas         []UnifiedArea      `json:"unifiedAreas,omitempty"`
	TimelinePoints       []TimelinePoint    `json:"timelinePoints,omitempty"`
	HistoricalMapPeriod  string             `json:"historicalMapPeriod,omitempty"`
}

// BaseID returns the event id without its theory suffix.
func (e *Event) BaseID() string {
	base, _ := SplitTheoryID(e.ID)
	return base
}

// Theory returns the lens encoded in the event id, or "" for the base event.
func (e *Event) Theory() string {
	_, theory := SplitTheoryID(e.ID)
	return theory
}

// SplitTheoryID splits "base-theory" into its parts. Ids without a known theory suffix
// are returned whole.
func SplitTheoryID(id string) (base, theory string) {
	for _, t := range Theories {
		suffix := "-" + t
		if strings.HasSuffix(id, suffix) && len(id) > len(suffix) {
			return strings.TrimSuffix(id, suffix), t
		}
	}
	return id, ""
}

// IsVariantOf reports whether id is baseID itself or a "baseID-..." variant of it.
func IsVariantOf(id, baseID string) bool {
	return id == baseID || strings.HasPrefix(id, baseID+"-")
}

// CountryHighlight is a country fill that can appear and disappear along the timeline.
type CountryHighlight struct {
	Country string `json:"country"`
	Color   string `json:"color,omitempty"`
	Timing
}

// LineKind discriminates authored connection lines.
type LineKind string

const (
	LineStraight LineKind = "straight"
	LineCurved   LineKind = "curved"
)

// DrawnLine is a freehand line authored on a connection. When present and well formed it
// replaces marker-to-marker resolution.
type DrawnLine struct {
	Kind   LineKind `json:"kind"`
	Points []LngLat `json:"points"`
}

// Connection links two marker keys (country names or unified-area ids).
type Connection struct {
	ID    string     `json:"id,omitempty"`
	From  string     `json:"from"`
	To    string     `json:"to"`
	Label string     `json:"label,omitempty"`
	Type  string     `json:"type,omitempty"`
	Color string     `json:"color,omitempty"`
	Line  *DrawnLine `json:"line,omitempty"`
	Timing
}

// ShapeKind discriminates shapes drawn for unified areas.
type ShapeKind string

const (
	ShapeCircle  ShapeKind = "circle"
	ShapePolygon ShapeKind = "polygon"
)

// DrawnShape is a hand-drawn outline attached to a unified area.
type DrawnShape struct {
	Kind     ShapeKind `json:"kind"`
	Center   LngLat    `json:"center,omitempty"`
	RadiusKm float64   `json:"radiusKm,omitempty"`
	Points   []LngLat  `json:"points,omitempty"`
}

// UnifiedArea groups several countries under a single marker.
type UnifiedArea struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Countries []string    `json:"countries"`
	Color     string      `json:"color,omitempty"`
	Shape     *DrawnShape `json:"shape,omitempty"`
	Timing
}
