// Package timeline decides which timed overlays are visible at a timeline point and
// navigates an event's timeline.
package timeline

import (
	"github.com/irlens/atlas/pkg/core"
)

// IsVisible evaluates an item's appearance and disappearance predicates against the
// active timeline point. An empty activePointID, or one that names no point of ev,
// means no point is active. An item without timing is always visible.
func IsVisible(t core.Timing, ev *core.Event, activePointID string) bool {
	if ev == nil {
		ev = &core.Event{}
	}
	active, activeIdx := Active(ev, activePointID)
	return appears(t, ev, active, activeIdx) && !disappears(t, ev, active, activeIdx)
}

func appears(t core.Timing, ev *core.Event, active *core.TimelinePoint, activeIdx int) bool {
	switch {
	case t.AppearAtTimelinePoint != "":
		if active == nil {
			return false
		}
		// an unknown reference places no constraint once some point is active
		target := IndexOf(ev, t.AppearAtTimelinePoint)
		return target < 0 || activeIdx >= target

	case t.AppearAtYear != nil:
		if active != nil {
			year, ok := ParseYear(active.Year)
			return ok && year >= *t.AppearAtYear
		}
		ref, ok := referenceYear(ev)
		return ok && ref >= *t.AppearAtYear

	case t.AppearAtPosition != nil:
		if active == nil {
			return *t.AppearAtPosition <= 0
		}
		return active.Position >= *t.AppearAtPosition
	}
	return true
}

func disappears(t core.Timing, ev *core.Event, active *core.TimelinePoint, activeIdx int) bool {
	switch {
	case t.DisappearAtTimelinePoint != "":
		target := IndexOf(ev, t.DisappearAtTimelinePoint)
		if target < 0 || active == nil {
			return false
		}
		return activeIdx >= target

	case t.DisappearAtYear != nil:
		if active == nil {
			return false
		}
		year, ok := ParseYear(active.Year)
		return ok && year >= *t.DisappearAtYear

	case t.DisappearAtPosition != nil:
		if active == nil {
			return false
		}
		return active.Position >= *t.DisappearAtPosition
	}
	return false
}

// referenceYear approximates "now" when no point is active: the first point's year,
// else the event's declared start year.
func referenceYear(ev *core.Event) (int, bool) {
	if len(ev.TimelinePoints) > 0 {
		if y, ok := ParseYear(ev.TimelinePoints[0].Year); ok {
			return y, true
		}
	}
	if ev.Period.StartYear != 0 {
		return ev.Period.StartYear, true
	}
	return 0, false
}

// ParseYear reads the leading, optionally signed, integer of s ("1945 AD" is 1945).
func ParseYear(s string) (int, bool) {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	neg := false
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		neg = s[i] == '-'
		i++
	}
	start := i
	n := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' && i-start < 9 {
		n = n*10 + int(s[i]-'0')
		i++
	}
	if i == start {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

// FilterHighlights keeps the country highlights visible at activePointID.
func FilterHighlights(ev *core.Event, activePointID string) []core.CountryHighlight {
	var out []core.CountryHighlight
	for _, h := range ev.CountryHighlights {
		if IsVisible(h.Timing, ev, activePointID) {
			out = append(out, h)
		}
	}
	return out
}

// FilterConnections keeps the connections visible at activePointID.
func FilterConnections(ev *core.Event, activePointID string) []core.Connection {
	var out []core.Connection
	for _, c := range ev.Connections {
		if IsVisible(c.Timing, ev, activePointID) {
			out = append(out, c)
		}
	}
	return out
}

// FilterAreas keeps the unified areas visible at activePointID.
func FilterAreas(ev *core.Event, activePointID string) []core.UnifiedArea {
	var out []core.UnifiedArea
	for _, a := range ev.UnifiedAreas {
		if IsVisible(a.Timing, ev, activePointID) {
			out = append(out, a)
		}
	}
	return out
}
