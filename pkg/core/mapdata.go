// pkg/core/mapdata.go
package core

import "github.com/bytedance/sonic"

// MapDataKind tags which authoring schema a MapData payload uses.
type MapDataKind string

const (
	MapDataPoints MapDataKind = "points"
	MapDataLegacy MapDataKind = "legacy"
)

// MapData is the authored map payload of a timeline point. It is a tagged union: only the
// fields of Kind are meaningful.
type MapData struct {
	Kind MapDataKind `json:"kind,omitempty"`

	// points schema
	Points []MapPoint `json:"points,omitempty"`
	Areas  []MapArea  `json:"areas,omitempty"`
	Flows  []MapFlow  `json:"flows,omitempty"`

	// legacy schema
	MilitaryBases []LegacyBase      `json:"militaryBases,omitempty"`
	Influence     []LegacyInfluence `json:"influence,omitempty"`
	Movements     []LegacyMovement  `json:"movements,omitempty"`
	Conflicts     []LegacyConflict  `json:"conflicts,omitempty"`
	Troops        []LegacyTroop     `json:"troops,omitempty"`
}

// MapPoint is a points-schema marker.
type MapPoint struct {
	Label       string `json:"label"`
	Location    LatLng `json:"location"`
	Type        string `json:"type,omitempty"`
	Country     string `json:"country,omitempty"`
	Description string `json:"description,omitempty"`
}

// MapArea is a points-schema area. Radius is in kilometres.
type MapArea struct {
	Label       string    `json:"label"`
	Kind        ShapeKind `json:"kind,omitempty"`
	Center      *LatLng   `json:"center,omitempty"`
	Radius      float64   `json:"radius,omitempty"`
	Coordinates []LatLng  `json:"coordinates,omitempty"`
	Type        string    `json:"type,omitempty"`
	Color       string    `json:"color,omitempty"`
	Country     string    `json:"country,omitempty"`
}

// MapFlow is a points-schema movement.
type MapFlow struct {
	Label string   `json:"label"`
	From  LatLng   `json:"from"`
	To    LatLng   `json:"to"`
	Path  []LatLng `json:"path,omitempty"`
	Type  string   `json:"type,omitempty"`
	Color string   `json:"color,omitempty"`
}

// LegacyBase is a military base in the legacy schema.
type LegacyBase struct {
	Name     string `json:"name"`
	Location LatLng `json:"location"`
	Country  string `json:"country,omitempty"`
	Type     string `json:"type,omitempty"`
}

// LegacyInfluence is a sphere of influence. Radius is in metres.
type LegacyInfluence struct {
	Label   string  `json:"label"`
	Center  LatLng  `json:"center"`
	Radius  float64 `json:"radius"`
	Country string  `json:"country,omitempty"`
	Color   string  `json:"color,omitempty"`
}

// LegacyMovement is a movement arrow.
type LegacyMovement struct {
	Label string   `json:"label"`
	From  LatLng   `json:"from"`
	To    LatLng   `json:"to"`
	Path  []LatLng `json:"path,omitempty"`
	Type  string   `json:"type,omitempty"`
}

// LegacyConflict is a conflict zone; Intensity is on a 0..10 scale.
type LegacyConflict struct {
	Label     string  `json:"label"`
	Location  LatLng  `json:"location"`
	Intensity float64 `json:"intensity"`
}

// LegacyTroop is a troop deployment.
type LegacyTroop struct {
	Label    string  `json:"label"`
	Location LatLng  `json:"location"`
	Strength float64 `json:"strength"`
	Country  string  `json:"country,omitempty"`
}

// DetectKind returns the explicit Kind when valid, otherwise infers it from the populated
// fields. Points-schema fields take precedence over legacy ones.
func (m *MapData) DetectKind() MapDataKind {
	if m == nil {
		return ""
	}
	switch m.Kind {
	case MapDataPoints, MapDataLegacy:
		return m.Kind
	}
	if len(m.Points) > 0 || len(m.Areas) > 0 || len(m.Flows) > 0 {
		return MapDataPoints
	}
	if len(m.MilitaryBases) > 0 || len(m.Influence) > 0 || len(m.Movements) > 0 ||
		len(m.Conflicts) > 0 || len(m.Troops) > 0 {
		return MapDataLegacy
	}
	return ""
}

// UnmarshalJSON decodes either schema and tags the result.
func (m *MapData) UnmarshalJSON(data []byte) error {
	type raw MapData
	var r raw
	if err := sonic.ConfigStd.Unmarshal(data, &r); err != nil {
		return err
	}
	*m = MapData(r)
	m.Kind = m.DetectKind()
	return nil
}
