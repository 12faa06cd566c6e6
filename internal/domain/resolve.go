package domain

import (
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/pariz/gountries"
)

// DefaultSimilarityThreshold accepts a fuzzy match at 0.8 on the 0–1
// similarity scale. It is a starting point, not a constant: area-name
// vocabularies vary in quality across data releases, so the threshold is
// part of ResolverConfig.
const DefaultSimilarityThreshold = 0.8

// ResolverConfig is the fixed configuration a Resolver is built from.
type ResolverConfig struct {
	// Overrides maps known aggregate names to codes ahead of any registry
	// lookup. An empty code pins a name as inherently non-geographic
	// ("World"): it resolves to unresolved without ever reaching the fuzzy
	// stage. Nil selects DefaultOverrides.
	Overrides map[string]string

	// Threshold is the minimum similarity for accepting an approximate
	// registry match. Zero selects DefaultSimilarityThreshold.
	Threshold float64
}

// DefaultOverrides covers the aggregate AREA names observed in SDG 12.3.1
// releases. Sub-regions carry their UN M49 code; continents and composite
// groupings have no single mappable entry and are pinned codeless. Checked
// before the country registry because several of these names would
// otherwise fuzzy-match a country ("Northern America" is uncomfortably
// close to "United States of America" at loose thresholds).
func DefaultOverrides() map[string]string {
	return map[string]string{
		// UN M49 sub-regions.
		"Northern Africa":                 "015",
		"Eastern Africa":                  "014",
		"Middle Africa":                   "017",
		"Southern Africa":                 "018",
		"Western Africa":                  "011",
		"Northern America":                "021",
		"Central America":                 "013",
		"Caribbean":                       "029",
		"South America":                   "005",
		"Latin America and the Caribbean": "419",
		"Central Asia":                    "143",
		"Eastern Asia":                    "030",
		"South-eastern Asia":              "035",
		"Southern Asia":                   "034",
		"Western Asia":                    "145",
		"Eastern Europe":                  "151",
		"Northern Europe":                 "154",
		"Southern Europe":                 "039",
		"Western Europe":                  "155",
		"Australia and New Zealand":       "053",
		"Melanesia":                       "054",
		"Micronesia":                      "057",
		"Polynesia":                       "061",

		// Whole continents and composites: no single mappable code.
		"World":                                 "",
		"Africa":                                "",
		"Americas":                              "",
		"Asia":                                  "",
		"Europe":                                "",
		"Oceania":                               "",
		"Small Island Developing States":        "",
		"Least Developed Countries":             "",
		"Landlocked Developing Countries":       "",
		"Low Income Food Deficit Countries":     "",
		"Land Locked Least Developed Countries": "",
	}
}

// registryEntry is one canonical country name with its ISO 3166 alpha-3
// code, flattened out of the gountries data set for similarity search.
type registryEntry struct {
	name string
	code string
}

// strategy is one step of the resolution chain. It reports whether it
// produced a terminal answer; the chain stops at the first that does.
type strategy func(name string) (AreaCode, bool)

// Resolver maps free-text area names to standardized codes through an
// ordered chain: override table, registry exact lookup, approximate match,
// unresolved. Resolve is a pure function of the input string and the
// configuration; a Resolver is safe for concurrent use.
type Resolver struct {
	overrides map[string]string
	exact     map[string]string
	registry  []registryEntry
	threshold float64
	metric    *metrics.JaroWinkler
	chain     []strategy
}

// NewResolver builds a Resolver over the ISO 3166 registry.
func NewResolver(cfg ResolverConfig) *Resolver {
	if cfg.Overrides == nil {
		cfg.Overrides = DefaultOverrides()
	}
	if cfg.Threshold == 0 {
		cfg.Threshold = DefaultSimilarityThreshold
	}

	r := &Resolver{
		overrides: cfg.Overrides,
		exact:     make(map[string]string),
		threshold: cfg.Threshold,
		metric:    metrics.NewJaroWinkler(),
	}

	for _, country := range gountries.New().FindAllCountries() {
		entry := registryEntry{name: country.Name.Common, code: country.Alpha3}
		r.registry = append(r.registry, entry)
		r.exact[foldName(country.Name.Common)] = country.Alpha3
		if country.Name.Official != "" {
			r.exact[foldName(country.Name.Official)] = country.Alpha3
		}
	}
	// Sorted so fuzzy ties break the same way on every run.
	sort.Slice(r.registry, func(i, j int) bool { return r.registry[i].name < r.registry[j].name })

	r.chain = []strategy{r.fromOverride, r.fromRegistry, r.fromFuzzy}
	return r
}

// Threshold returns the configured similarity threshold.
func (r *Resolver) Threshold() float64 { return r.threshold }

// Resolve maps one area name to an AreaCode. Empty and whitespace-only
// names are unresolved. The first strategy that answers wins; once the
// override table or the registry has spoken, fuzzy matching is never
// attempted.
func (r *Resolver) Resolve(area string) AreaCode {
	name := strings.TrimSpace(area)
	if name == "" {
		return AreaCode{Area: area, Method: MethodUnresolved}
	}

	for _, step := range r.chain {
		if code, ok := step(name); ok {
			code.Area = area
			return code
		}
	}
	return AreaCode{Area: area, Method: MethodUnresolved}
}

func (r *Resolver) fromOverride(name string) (AreaCode, bool) {
	code, ok := r.overrides[name]
	if !ok {
		return AreaCode{}, false
	}
	if code == "" {
		// Pinned non-geographic aggregate: terminal, codeless.
		return AreaCode{Method: MethodUnresolved}, true
	}
	return AreaCode{Code: code, Method: MethodOverride}, true
}

func (r *Resolver) fromRegistry(name string) (AreaCode, bool) {
	code, ok := r.exact[foldName(name)]
	if !ok {
		return AreaCode{}, false
	}
	return AreaCode{Code: code, Method: MethodRegistry}, true
}

// fromFuzzy finds the closest registry name by Jaro-Winkler similarity and
// accepts it only at or above the threshold. Bounded by the fixed registry
// size; this is the only superlinear step in the pipeline.
func (r *Resolver) fromFuzzy(name string) (AreaCode, bool) {
	folded := foldName(name)
	var (
		bestScore float64
		bestCode  string
	)
	for _, entry := range r.registry {
		score := strutil.Similarity(folded, foldName(entry.name), r.metric)
		if score > bestScore {
			bestScore = score
			bestCode = entry.code
		}
	}
	if bestScore < r.threshold {
		return AreaCode{}, false
	}
	return AreaCode{Code: bestCode, Method: MethodFuzzy}, true
}

func foldName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
