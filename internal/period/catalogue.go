package period

var sovietRepublics = []string{
	"Russia",
	"Ukraine",
	"Belarus",
	"Kazakhstan",
	"Uzbekistan",
	"Turkmenistan",
	"Kyrgyzstan",
	"Tajikistan",
	"Georgia",
	"Armenia",
	"Azerbaijan",
	"Lithuania",
	"Latvia",
	"Estonia",
	"Moldova",
}

var yugoslavRepublics = []string{
	"Slovenia",
	"Croatia",
	"Bosnia and Herzegovina",
	"Serbia",
	"Montenegro",
	"North Macedonia",
	"Kosovo",
}

// Default returns the built-in catalogue. Only the modern borders file exists, so the
// three earlier eras reuse it and are flagged ApproximateBorders.
func Default() *Catalogue {
	return NewCatalogue(
		Config{
			ID:          "modern",
			Name:        "Modern borders",
			StartYear:   1991,
			EndYear:     2100,
			GeoJSONPath: ModernBordersURL,
		},
		Config{
			ID:          "cold-war",
			Name:        "Cold War",
			StartYear:   1945,
			EndYear:     1990,
			GeoJSONPath: ModernBordersURL,
			CountryNameMapping: map[string][]string{
				"USSR":           sovietRepublics,
				"Soviet Union":   sovietRepublics,
				"Yugoslavia":     yugoslavRepublics,
				"Czechoslovakia": {"Czech Republic", "Slovakia"},
				"East Germany":   {"Germany"},
				"West Germany":   {"Germany"},
				"Zaire":          {"Democratic Republic of the Congo"},
			},
			ApproximateBorders: true,
		},
		Config{
			ID:          "ww2",
			Name:        "Second World War",
			StartYear:   1939,
			EndYear:     1944,
			GeoJSONPath: ModernBordersURL,
			CountryNameMapping: map[string][]string{
				"USSR":            sovietRepublics,
				"Soviet Union":    sovietRepublics,
				"Nazi Germany":    {"Germany", "Austria"},
				"Third Reich":     {"Germany", "Austria"},
				"Empire of Japan": {"Japan"},
				"Yugoslavia":      yugoslavRepublics,
				"Czechoslovakia":  {"Czech Republic", "Slovakia"},
			},
			ApproximateBorders: true,
		},
		Config{
			ID:          "interwar",
			Name:        "Interwar period",
			StartYear:   1918,
			EndYear:     1938,
			GeoJSONPath: ModernBordersURL,
			CountryNameMapping: map[string][]string{
				"USSR":           sovietRepublics,
				"Soviet Union":   sovietRepublics,
				"Weimar Germany": {"Germany"},
				"Yugoslavia":     yugoslavRepublics,
				"Czechoslovakia": {"Czech Republic", "Slovakia"},
				"Persia":         {"Iran"},
				"Siam":           {"Thailand"},
			},
			ApproximateBorders: true,
		},
	)
}
