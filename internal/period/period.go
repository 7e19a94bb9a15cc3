// Package period holds the historical-period catalogue and the mapping from historical
// polity names to the modern countries whose borders represent them.
package period

import (
	"github.com/irlens/atlas/pkg/core"
)

// ModernBordersURL is the only boundary file currently shipped. Every period points at it
// unless configuration overrides the path.
const ModernBordersURL = "https://raw.githubusercontent.com/nvkelso/natural-earth-vector/master/geojson/ne_50m_admin_0_countries.geojson"

// Config describes one historical period.
type Config struct {
	ID                 string              `json:"id"`
	Name               string              `json:"name"`
	StartYear          int                 `json:"startYear"`
	EndYear            int                 `json:"endYear"`
	GeoJSONPath        string              `json:"geojsonPath"`
	CountryNameMapping map[string][]string `json:"countryNameMapping,omitempty"`

	// ApproximateBorders is set when GeoJSONPath draws modern borders for an earlier era.
	ApproximateBorders bool `json:"approximateBorders,omitempty"`
}

// Contains reports whether year falls in the period, bounds included.
func (c Config) Contains(year int) bool {
	return year >= c.StartYear && year <= c.EndYear
}

// Catalogue is an ordered, read-only list of periods. The first entry is the default.
type Catalogue struct {
	periods []Config
}

// NewCatalogue builds a catalogue from periods in lookup order.
func NewCatalogue(periods ...Config) *Catalogue {
	return &Catalogue{periods: append([]Config(nil), periods...)}
}

// Periods returns a copy of the catalogue entries.
func (c *Catalogue) Periods() []Config {
	return append([]Config(nil), c.periods...)
}

// Default returns the first entry.
func (c *Catalogue) Default() Config {
	if len(c.periods) == 0 {
		return Config{ID: "modern", GeoJSONPath: ModernBordersURL}
	}
	return c.periods[0]
}

// ByID returns the period with the given id.
func (c *Catalogue) ByID(id string) (Config, bool) {
	for _, p := range c.periods {
		if p.ID == id {
			return p, true
		}
	}
	return Config{}, false
}

// LookupByYear returns the first period containing year, else the default.
func (c *Catalogue) LookupByYear(year int) Config {
	for _, p := range c.periods {
		if p.Contains(year) {
			return p
		}
	}
	return c.Default()
}

// ForEvent picks the event's explicit period when it names a known one, otherwise the
// period containing the event's start year.
func (c *Catalogue) ForEvent(ev *core.Event) Config {
	if ev == nil {
		return c.Default()
	}
	if ev.HistoricalMapPeriod != "" {
		if p, ok := c.ByID(ev.HistoricalMapPeriod); ok {
			return p
		}
	}
	return c.LookupByYear(ev.Period.StartYear)
}

// WithGeoJSONPaths returns a copy of the catalogue with the boundary paths replaced for
// the given period ids. A replaced path is assumed to carry the period's own borders.
func (c *Catalogue) WithGeoJSONPaths(paths map[string]string) *Catalogue {
	out := make([]Config, len(c.periods))
	for i, p := range c.periods {
		if path, ok := paths[p.ID]; ok && path != "" {
			p.GeoJSONPath = path
			p.ApproximateBorders = false
		}
		out[i] = p
	}
	return &Catalogue{periods: out}
}

// URLs returns the distinct boundary paths referenced by the catalogue.
func (c *Catalogue) URLs() []string {
	seen := make(map[string]bool)
	var urls []string
	for _, p := range c.periods {
		if p.GeoJSONPath != "" && !seen[p.GeoJSONPath] {
			seen[p.GeoJSONPath] = true
			urls = append(urls, p.GeoJSONPath)
		}
	}
	return urls
}
