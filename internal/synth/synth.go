// Package synth turns boundary features and an event's visible overlays into markers,
// connection paths and drawn shapes. Synthesize is pure: the same input always yields the
// same result.
package synth

import (
	"fmt"

	"github.com/peterstace/simplefeatures/geom"

	"github.com/irlens/atlas/internal/geo"
	"github.com/irlens/atlas/pkg/core"
)

// CentroidLookup memoizes centroids per boundary source and normalized feature name.
type CentroidLookup interface {
	Get(source, name string) (core.LngLat, bool)
	Set(source, name string, p core.LngLat)
}

// Input is everything one synthesis run needs.
type Input struct {
	SourceURL        string
	Features         []geo.Feature
	HighlightedNames []string
	// Colors maps requested country names to their highlight color.
	Colors       map[string]string
	UnifiedAreas []core.UnifiedArea
	Connections  []core.Connection
	// Aliases maps historical names to the modern names that represent them.
	Aliases map[string][]string
	// SimplifyFraction is the share of ring vertices kept for fills. Zero keeps all.
	SimplifyFraction float64
	Centroids        CentroidLookup
}

// HighlightedFeature is a matched feature ready to be filled.
type HighlightedFeature struct {
	Name       string
	Key        string
	Color      string
	Rank       geo.Rank
	Properties map[string]any
	Geometry   geom.Geometry
}

// ConnectionGeometry is a resolved connection path.
type ConnectionGeometry struct {
	Connection core.Connection
	Path       []core.LngLat
	Authored   bool
}

// Shape is a closed ring drawn for a unified area.
type Shape struct {
	AreaID string
	Name   string
	Color  string
	Kind   core.ShapeKind
	Ring   []core.LngLat
}

// Result holds the synthesized overlays. Unresolved lists requested names that matched
// no feature.
type Result struct {
	Markers     map[string]core.Marker
	Highlighted []HighlightedFeature
	Connections []ConnectionGeometry
	Shapes      []Shape
	Unresolved  []string
}

type synthesizer struct {
	in        Input
	centroids map[string]core.LngLat // normalized requested name
	owner     map[string]string      // normalized country name -> area key
	markers   map[string]core.Marker
}

// Synthesize builds markers, connection paths and shapes from in.
func Synthesize(in Input) Result {
	s := &synthesizer{
		in:        in,
		centroids: make(map[string]core.LngLat),
		owner:     make(map[string]string),
		markers:   make(map[string]core.Marker),
	}

	res := Result{Markers: s.markers}
	res.Highlighted, res.Unresolved = s.match()
	s.claimAreaMembers()
	s.countryMarkers()
	s.areaMarkers()
	res.Connections = s.connections()
	res.Shapes = shapes(in.UnifiedAreas)
	return res
}

// requestedNames is the highlighted names followed by the expanded members of every area.
func (s *synthesizer) requestedNames() []string {
	names := append([]string(nil), s.in.HighlightedNames...)
	for _, a := range s.in.UnifiedAreas {
		names = append(names, s.members(a)...)
	}
	return names
}

func (s *synthesizer) members(a core.UnifiedArea) []string {
	var out []string
	for _, c := range a.Countries {
		if modern, ok := s.in.Aliases[c]; ok {
			out = append(out, modern...)
			continue
		}
		out = append(out, c)
	}
	return out
}

func (s *synthesizer) match() ([]HighlightedFeature, []string) {
	matches, misses := geo.MatchFeatures(s.in.Features, s.requestedNames())

	var highlighted []HighlightedFeature
	filled := make(map[int]bool, len(matches))
	for _, m := range matches {
		f := s.in.Features[m.Feature]
		key := geo.NormalizeName(m.Name)

		// centroids come from the unsimplified geometry
		if _, ok := s.centroids[key]; !ok {
			if c, ok := s.centroid(f, m.Feature); ok {
				s.centroids[key] = c
			}
		}

		if filled[m.Feature] {
			continue
		}
		filled[m.Feature] = true

		g := f.Geometry
		if s.in.SimplifyFraction > 0 {
			g = geo.Simplify(g, s.in.SimplifyFraction)
		}
		highlighted = append(highlighted, HighlightedFeature{
			Name:       m.Name,
			Key:        key,
			Color:      s.in.Colors[m.Name],
			Rank:       m.Rank,
			Properties: f.Properties,
			Geometry:   g,
		})
	}
	return highlighted, misses
}

func (s *synthesizer) centroid(f geo.Feature, index int) (core.LngLat, bool) {
	memoKey := geo.NormalizeName(f.Name())
	if memoKey == "" {
		memoKey = fmt.Sprintf("#%d", index)
	}
	if s.in.Centroids != nil {
		if c, ok := s.in.Centroids.Get(s.in.SourceURL, memoKey); ok {
			return c, true
		}
	}
	c, ok := geo.Centroid(f.Geometry)
	if ok && s.in.Centroids != nil {
		s.in.Centroids.Set(s.in.SourceURL, memoKey, c)
	}
	return c, ok
}

// areaNamePrefix keeps name-derived area keys apart from country marker keys.
const areaNamePrefix = "area:"

// areaKey is the marker key of an area: its id, else its prefixed name, else its index.
func areaKey(a core.UnifiedArea, index int) string {
	switch {
	case a.ID != "":
		return a.ID
	case a.Name != "":
		return areaNamePrefix + geo.NormalizeName(a.Name)
	}
	return fmt.Sprintf("area-%d", index)
}

// claimAreaMembers gives each country to the first area listing it.
func (s *synthesizer) claimAreaMembers() {
	for i, a := range s.in.UnifiedAreas {
		key := areaKey(a, i)
		for _, m := range s.members(a) {
			n := geo.NormalizeName(m)
			if n == "" {
				continue
			}
			if _, taken := s.owner[n]; !taken {
				s.owner[n] = key
			}
		}
	}
}

func (s *synthesizer) countryMarkers() {
	for _, name := range s.in.HighlightedNames {
		key := geo.NormalizeName(name)
		if _, owned := s.owner[key]; owned {
			continue
		}
		if _, done := s.markers[key]; done {
			continue
		}
		c, ok := s.centroids[key]
		if !ok {
			continue
		}
		s.markers[key] = core.Marker{
			Key:       key,
			Name:      name,
			Kind:      core.MarkerCountry,
			Position:  c,
			Countries: []string{name},
			Color:     s.in.Colors[name],
		}
	}
}

func (s *synthesizer) areaMarkers() {
	for i, a := range s.in.UnifiedAreas {
		key := areaKey(a, i)
		if _, done := s.markers[key]; done {
			continue
		}

		var members []string
		var points []core.LngLat
		seen := make(map[string]bool)
		for _, m := range s.members(a) {
			n := geo.NormalizeName(m)
			if seen[n] || s.owner[n] != key {
				continue
			}
			seen[n] = true
			if c, ok := s.centroids[n]; ok {
				members = append(members, m)
				points = append(points, c)
			}
		}

		pos, ok := geo.Mean(points)
		if !ok {
			continue
		}
		name := a.Name
		if name == "" {
			name = key
		}
		s.markers[key] = core.Marker{
			Key:       key,
			Name:      name,
			Kind:      core.MarkerArea,
			Position:  pos,
			Countries: members,
			Color:     a.Color,
		}
	}
}

func (s *synthesizer) connections() []ConnectionGeometry {
	var out []ConnectionGeometry
	for _, c := range s.in.Connections {
		if path, ok := authoredPath(c.Line); ok {
			out = append(out, ConnectionGeometry{Connection: c, Path: path, Authored: true})
			continue
		}
		from, ok := s.endpoint(c.From)
		if !ok {
			continue
		}
		to, ok := s.endpoint(c.To)
		if !ok {
			continue
		}
		out = append(out, ConnectionGeometry{
			Connection: c,
			Path:       []core.LngLat{from.Position, to.Position},
		})
	}
	return out
}

// endpoint finds the marker a connection end refers to: a marker key, a member country
// of an area, or failing both, the first alias that resolves.
func (s *synthesizer) endpoint(ref string) (core.Marker, bool) {
	if m, ok := s.direct(ref); ok {
		return m, true
	}
	for _, alias := range s.in.Aliases[ref] {
		if m, ok := s.direct(alias); ok {
			return m, true
		}
	}
	return core.Marker{}, false
}

func (s *synthesizer) direct(ref string) (core.Marker, bool) {
	if ref == "" {
		return core.Marker{}, false
	}
	if m, ok := s.markers[ref]; ok {
		return m, true
	}
	key := geo.NormalizeName(ref)
	if m, ok := s.markers[key]; ok {
		return m, true
	}
	if m, ok := s.markers[areaNamePrefix+key]; ok {
		return m, true
	}
	if area, ok := s.owner[key]; ok {
		m, ok := s.markers[area]
		return m, ok
	}
	return core.Marker{}, false
}

// authoredPath converts a drawn line into a path. Curved lines become a quadratic Bezier
// through the first and last points, controlled by the second point when there are at
// least three.
func authoredPath(line *core.DrawnLine) ([]core.LngLat, bool) {
	if line == nil || len(line.Points) < 2 {
		return nil, false
	}
	pts := line.Points
	if line.Kind != core.LineCurved {
		return append([]core.LngLat(nil), pts...), true
	}
	from, to := pts[0], pts[len(pts)-1]
	control := geo.CurveControlPoint(from, to)
	if len(pts) >= 3 {
		control = pts[1]
	}
	return geo.QuadraticBezier(from, control, to, geo.BezierSegments), true
}

func shapes(areas []core.UnifiedArea) []Shape {
	var out []Shape
	for i, a := range areas {
		if a.Shape == nil {
			continue
		}
		var ring []core.LngLat
		switch a.Shape.Kind {
		case core.ShapeCircle:
			if a.Shape.RadiusKm <= 0 {
				continue
			}
			ring = geo.CirclePolygon(a.Shape.Center, a.Shape.RadiusKm, geo.CircleSides)
		case core.ShapePolygon:
			if len(a.Shape.Points) < 3 {
				continue
			}
			ring = geo.CloseRing(a.Shape.Points)
		default:
			continue
		}
		out = append(out, Shape{
			AreaID: areaKey(a, i),
			Name:   a.Name,
			Color:  a.Color,
			Kind:   a.Shape.Kind,
			Ring:   ring,
		})
	}
	return out
}
