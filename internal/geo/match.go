package geo

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NameProperties are the feature property keys checked for a country name, in order.
var NameProperties = []string{
	"name",
	"NAME",
	"NAME_EN",
	"NAME_LONG",
	"ADMIN",
	"name_en",
	"name_long",
	"SOVEREIGNT",
}

// Rank orders match quality. Lower is better.
type Rank int

const (
	RankExact Rank = iota
	RankSubstring
)

// Match is a requested name matched against a feature.
type Match struct {
	Name    string // requested name as given by the caller
	Feature int    // index into the feature slice
	Rank    Rank
}

// NormalizeName folds a country name into a comparison and marker key.
func NormalizeName(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}

func featureNames(f Feature) []string {
	names := make([]string, 0, len(NameProperties))
	for _, key := range NameProperties {
		if s, ok := f.Properties[key].(string); ok && s != "" {
			names = append(names, NormalizeName(s))
		}
	}
	return names
}

func rankNames(values []string, want string) (Rank, bool) {
	if want == "" {
		return 0, false
	}
	for _, v := range values {
		if v == want {
			return RankExact, true
		}
	}
	for _, v := range values {
		if strings.Contains(v, want) || strings.Contains(want, v) {
			return RankSubstring, true
		}
	}
	return 0, false
}

// MatchFeatureName matches one feature against candidate names. Exact matches on any
// name property win over substring containment in either direction ("United Kingdom"
// matches "United Kingdom of Great Britain and Northern Ireland"). Among candidates of the
// same rank the first one wins.
func MatchFeatureName(f Feature, candidates []string) (Match, bool) {
	values := featureNames(f)
	var best Match
	found := false
	for _, c := range candidates {
		rank, ok := rankNames(values, NormalizeName(c))
		if !ok {
			continue
		}
		if !found || rank < best.Rank {
			best = Match{Name: c, Rank: rank}
			found = true
		}
		if rank == RankExact {
			break
		}
	}
	return best, found
}

// MatchFeatures resolves every requested name against the collection. For each name only
// the best rank present is kept: substring matches count only when no feature matches the
// name exactly, so "Guinea" does not also pull in "Guinea-Bissau". Features of equal rank
// are all returned, in feature order. Names without any match are returned as misses.
func MatchFeatures(features []Feature, names []string) (matches []Match, misses []string) {
	values := make([][]string, len(features))
	for i, f := range features {
		values[i] = featureNames(f)
	}

	seen := make(map[string]bool, len(names))
	for _, name := range names {
		key := NormalizeName(name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		var exact, partial []Match
		for i := range features {
			rank, ok := rankNames(values[i], key)
			if !ok {
				continue
			}
			m := Match{Name: name, Feature: i, Rank: rank}
			if rank == RankExact {
				exact = append(exact, m)
			} else {
				partial = append(partial, m)
			}
		}
		switch {
		case len(exact) > 0:
			matches = append(matches, exact...)
		case len(partial) > 0:
			matches = append(matches, partial...)
		default:
			misses = append(misses, name)
		}
	}
	return matches, misses
}
