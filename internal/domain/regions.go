package domain

// RegionMapping buckets country names into broad regions for coarse
// rollups. The table is explicitly partial: it covers the areas someone
// bothered to classify, and everything else lands in the fallback bucket.
// That incompleteness is a property of the source data, not a defect to
// patch over — consumers see exactly which areas were never classified.
type RegionMapping struct {
	byArea   map[string]string
	fallback string
}

// NewRegionMapping builds a mapping from an area→region table. An empty
// fallback defaults to "Other".
func NewRegionMapping(table map[string]string, fallback string) *RegionMapping {
	if fallback == "" {
		fallback = "Other"
	}
	byArea := make(map[string]string, len(table))
	for area, region := range table {
		byArea[area] = region
	}
	return &RegionMapping{byArea: byArea, fallback: fallback}
}

// DefaultRegionMapping is the hand-written table shipped with the source
// data set, catch-all bucket "Other".
func DefaultRegionMapping() *RegionMapping {
	return NewRegionMapping(map[string]string{
		"United States":  "Americas",
		"Brazil":         "Americas",
		"Canada":         "Americas",
		"France":         "Europe",
		"Germany":        "Europe",
		"United Kingdom": "Europe",
		"India":          "Asia",
		"China":          "Asia",
		"Japan":          "Asia",
		"Nigeria":        "Africa",
		"South Africa":   "Africa",
		"Egypt":          "Africa",
		"Australia":      "Oceania",
		"New Zealand":    "Oceania",
	}, "Other")
}

// Region returns the broad region for an area, falling back to the
// catch-all bucket for unclassified names.
func (m *RegionMapping) Region(area string) string {
	if region, ok := m.byArea[area]; ok {
		return region
	}
	return m.fallback
}

// Fallback returns the catch-all bucket name.
func (m *RegionMapping) Fallback() string { return m.fallback }

// GroupFunc adapts the mapping for use with Aggregate.
func (m *RegionMapping) GroupFunc() GroupFunc {
	return m.Region
}
