package mapdata

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/irlens/atlas/pkg/core"
)

// polityKeywords maps label words to the country they imply. It only covers the
// superpowers that legacy content refers to by adjective or acronym.
var polityKeywords = []struct {
	country  string
	keywords []string
}{
	{"United States of America", []string{"usa", "united states", "american"}},
	{"Soviet Union", []string{"ussr", "soviet"}},
	{"China", []string{"china", "chinese", "prc"}},
}

func highlightCountries(viz core.TimelineVisualization) []string {
	seen := make(map[string]bool)
	out := []string{}
	add := func(c string) {
		if c != "" && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}

	for _, m := range viz.Markers {
		add(m.Country)
	}
	for _, a := range viz.Areas {
		for _, c := range KeywordCountries(a.Label) {
			add(c)
		}
	}
	return out
}

// KeywordCountries returns the countries whose keywords occur as whole words in label.
// A trailing plural "s" is accepted ("Soviets", "Americans").
func KeywordCountries(label string) []string {
	words := Words(label)
	if len(words) == 0 {
		return nil
	}
	phrase := " " + strings.Join(words, " ") + " "

	var out []string
	for _, p := range polityKeywords {
		for _, kw := range p.keywords {
			if strings.Contains(phrase, " "+kw+" ") || strings.Contains(phrase, " "+kw+"s ") {
				out = append(out, p.country)
				break
			}
		}
	}
	return out
}

// Words lowercases s, strips diacritics and splits it on anything but letters and digits.
func Words(s string) []string {
	return strings.FieldsFunc(fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Slug turns a label into a lowercase, dash separated identifier.
func Slug(label string) string {
	words := Words(label)
	if len(words) == 0 {
		return "point"
	}
	return strings.Join(words, "-")
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
