package period

// ResolveNames maps requested names to modern country names. Names with an exact entry in
// the period's mapping are replaced by all of their modern equivalents; others pass
// through. The result is deduplicated and keeps first-seen order.
func ResolveNames(names []string, cfg Config) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	add := func(n string) {
		if n == "" || seen[n] {
			return
		}
		seen[n] = true
		out = append(out, n)
	}
	for _, name := range names {
		if modern, ok := cfg.CountryNameMapping[name]; ok {
			for _, m := range modern {
				add(m)
			}
			continue
		}
		add(name)
	}
	return out
}

// Aliases returns the mapping entries used by the given names, so callers can resolve
// references to a historical name (such as a connection endpoint) after resolution.
func Aliases(names []string, cfg Config) map[string][]string {
	out := make(map[string][]string)
	for _, name := range names {
		if modern, ok := cfg.CountryNameMapping[name]; ok {
			out[name] = append([]string(nil), modern...)
		}
	}
	return out
}
