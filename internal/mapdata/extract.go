// Package mapdata normalizes the two authoring schemas of timeline-point map data into
// one canonical visualization.
package mapdata

import (
	"fmt"
	"math"

	"github.com/irlens/atlas/pkg/core"
)

const (
	// ConflictRadiusKm is the radius of a conflict zone at intensity 10.
	ConflictRadiusKm = 50.0
	// TroopsPerSizeStep is the troop strength represented by one marker size step.
	TroopsPerSizeStep = 10000.0
	// MaxTroopSize caps troop marker sizes.
	MaxTroopSize = 10
)

// Extract converts a timeline point's map data. A nil point or one without map data
// yields an empty visualization that still carries the point's focus.
func Extract(p *core.TimelinePoint) core.TimelineVisualization {
	viz := core.TimelineVisualization{
		Markers:            []core.VizMarker{},
		Areas:              []core.VizArea{},
		Flows:              []core.VizFlow{},
		HighlightCountries: []string{},
	}
	if p == nil {
		return viz
	}
	if p.FocusLocation != nil {
		focus := p.FocusLocation.LngLat()
		viz.FocusLocation = &focus
	}
	if p.FocusZoom != nil {
		zoom := *p.FocusZoom
		viz.FocusZoom = &zoom
	}

	switch p.MapData.DetectKind() {
	case core.MapDataPoints:
		extractPoints(p.MapData, &viz)
	case core.MapDataLegacy:
		extractLegacy(p.MapData, &viz)
	}

	viz.HighlightCountries = highlightCountries(viz)
	return viz
}

func extractPoints(md *core.MapData, viz *core.TimelineVisualization) {
	for i, pt := range md.Points {
		viz.Markers = append(viz.Markers, core.VizMarker{
			ID:          fmt.Sprintf("%s-%d", Slug(pt.Label), i),
			Label:       pt.Label,
			Position:    pt.Location.LngLat(),
			Type:        pt.Type,
			Country:     pt.Country,
			Description: pt.Description,
		})
	}

	for i, a := range md.Areas {
		area := core.VizArea{
			ID:      fmt.Sprintf("area-%d", i),
			Label:   a.Label,
			Type:    a.Type,
			Color:   a.Color,
			Country: a.Country,
		}
		switch {
		case a.Kind != core.ShapePolygon && a.Center != nil && a.Radius > 0:
			area.Kind = core.ShapeCircle
			area.Center = a.Center.LngLat()
			area.RadiusKm = a.Radius
		case a.Kind != core.ShapeCircle && len(a.Coordinates) >= 3:
			area.Kind = core.ShapePolygon
			area.Ring = closeRing(lngLats(a.Coordinates))
		default:
			continue
		}
		viz.Areas = append(viz.Areas, area)
	}

	for i, f := range md.Flows {
		viz.Flows = append(viz.Flows, core.VizFlow{
			ID:    fmt.Sprintf("flow-%d", i),
			Label: f.Label,
			From:  f.From.LngLat(),
			To:    f.To.LngLat(),
			Path:  lngLats(f.Path),
			Type:  f.Type,
			Color: f.Color,
		})
	}
}

func extractLegacy(md *core.MapData, viz *core.TimelineVisualization) {
	for i, b := range md.MilitaryBases {
		viz.Markers = append(viz.Markers, core.VizMarker{
			ID:          fmt.Sprintf("base-%d", i),
			Label:       b.Name,
			Position:    b.Location.LngLat(),
			Type:        "base",
			Country:     b.Country,
			Description: b.Type,
		})
	}

	for i, t := range md.Troops {
		viz.Markers = append(viz.Markers, core.VizMarker{
			ID:       fmt.Sprintf("troops-%d", i),
			Label:    t.Label,
			Position: t.Location.LngLat(),
			Type:     "troops",
			Country:  t.Country,
			Size:     TroopSize(t.Strength),
		})
	}

	for i, inf := range md.Influence {
		viz.Areas = append(viz.Areas, core.VizArea{
			ID:       fmt.Sprintf("influence-%d", i),
			Label:    inf.Label,
			Kind:     core.ShapeCircle,
			Center:   inf.Center.LngLat(),
			RadiusKm: inf.Radius / 1000,
			Type:     "influence",
			Color:    inf.Color,
			Country:  inf.Country,
		})
	}

	for i, c := range md.Conflicts {
		viz.Areas = append(viz.Areas, core.VizArea{
			ID:       fmt.Sprintf("conflict-%d", i),
			Label:    c.Label,
			Kind:     core.ShapeCircle,
			Center:   c.Location.LngLat(),
			RadiusKm: ConflictRadius(c.Intensity),
			Type:     "conflict",
		})
	}

	for i, m := range md.Movements {
		kind := m.Type
		if kind == "" {
			kind = "movement"
		}
		viz.Flows = append(viz.Flows, core.VizFlow{
			ID:    fmt.Sprintf("movement-%d", i),
			Label: m.Label,
			From:  m.From.LngLat(),
			To:    m.To.LngLat(),
			Path:  lngLats(m.Path),
			Type:  kind,
		})
	}
}

// TroopSize maps a troop strength to a marker size in [0, MaxTroopSize].
func TroopSize(strength float64) int {
	if strength <= 0 {
		return 0
	}
	return min(MaxTroopSize, int(math.Ceil(strength/TroopsPerSizeStep)))
}

// ConflictRadius maps a 0..10 intensity to a radius in km.
func ConflictRadius(intensity float64) float64 {
	if intensity <= 0 {
		return 0
	}
	return ConflictRadiusKm * intensity / 10
}

func lngLats(pts []core.LatLng) []core.LngLat {
	if len(pts) == 0 {
		return nil
	}
	out := make([]core.LngLat, len(pts))
	for i, p := range pts {
		out[i] = p.LngLat()
	}
	return out
}

func closeRing(ring []core.LngLat) []core.LngLat {
	if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}
	return ring
}
