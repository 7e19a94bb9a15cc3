package timeline

import (
	"fmt"
	"slices"
	"sort"

	"github.com/irlens/atlas/pkg/core"
)

// PointID returns the point's id, or "point-<index>" for points authored without one.
func PointID(p core.TimelinePoint, index int) string {
	if p.ID != "" {
		return p.ID
	}
	return fmt.Sprintf("point-%d", index)
}

// IndexOf returns the index of the point with the given id in ev.TimelinePoints, or -1.
func IndexOf(ev *core.Event, id string) int {
	if ev == nil || id == "" {
		return -1
	}
	for i, p := range ev.TimelinePoints {
		if PointID(p, i) == id {
			return i
		}
	}
	return -1
}

// Active returns the point named by id and its index, or nil and -1.
func Active(ev *core.Event, id string) (*core.TimelinePoint, int) {
	i := IndexOf(ev, id)
	if i < 0 {
		return nil, -1
	}
	return &ev.TimelinePoints[i], i
}

// Order returns the ids of the points relevant to theory, in position order.
func Order(ev *core.Event, theory string) []string {
	points := Sorted(ForTheory(ev, theory))
	ids := make([]string, len(points))
	for i, p := range points {
		ids[i] = p.ID
	}
	return ids
}

// Next returns the id of the point after id in the theory's order. With no current
// point, or one outside that order, it returns the first.
func Next(ev *core.Event, theory, id string) (string, bool) {
	ids := Order(ev, theory)
	i := -1
	if id != "" {
		i = slices.Index(ids, id)
	}
	if i+1 >= len(ids) {
		return "", false
	}
	return ids[i+1], true
}

// Previous returns the id of the point before id in the theory's order.
func Previous(ev *core.Event, theory, id string) (string, bool) {
	ids := Order(ev, theory)
	i := slices.Index(ids, id)
	if i <= 0 {
		return "", false
	}
	return ids[i-1], true
}

// Sorted returns a copy of points ordered by position. Equal positions keep their order.
func Sorted(points []core.TimelinePoint) []core.TimelinePoint {
	out := slices.Clone(points)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})
	return out
}

// ForTheory returns the points relevant to a theory lens. Points that list no theories
// are relevant to all of them, as is every point when theory is empty. The returned
// copies carry their navigation id, so fallback ids survive reordering.
func ForTheory(ev *core.Event, theory string) []core.TimelinePoint {
	if ev == nil {
		return nil
	}
	var out []core.TimelinePoint
	for i, p := range ev.TimelinePoints {
		if theory == "" || len(p.RelevantTheories) == 0 || slices.Contains(p.RelevantTheories, theory) {
			p.ID = PointID(p, i)
			out = append(out, p)
		}
	}
	return out
}
