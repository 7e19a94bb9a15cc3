// pkg/core/timing.go
package core

// Timing carries the optional appear/disappear predicates shared by country highlights,
// connections and unified areas. Each group is evaluated by field precedence:
// timeline point, then year, then position.
type Timing struct {
	AppearAtTimelinePoint    string   `json:"appearAtTimelinePoint,omitempty"`
	AppearAtYear             *int     `json:"appearAtYear,omitempty"`
	AppearAtPosition         *float64 `json:"appearAtPosition,omitempty"`
	DisappearAtTimelinePoint string   `json:"disappearAtTimelinePoint,omitempty"`
	DisappearAtYear          *int     `json:"disappearAtYear,omitempty"`
	DisappearAtPosition      *float64 `json:"disappearAtPosition,omitempty"`
}

// HasAppear reports whether any appearance predicate is set.
func (t Timing) HasAppear() bool {
	return t.AppearAtTimelinePoint != "" || t.AppearAtYear != nil || t.AppearAtPosition != nil
}

// HasDisappear reports whether any disappearance predicate is set.
func (t Timing) HasDisappear() bool {
	return t.DisappearAtTimelinePoint != "" || t.DisappearAtYear != nil || t.DisappearAtPosition != nil
}
