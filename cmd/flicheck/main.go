// Command flicheck runs one offline pass of the harmonization pipeline
// against a workbook and reports data-quality checks: join coverage,
// unresolvable area names, aggregate sanity, and per-region trend fits.
//
// Usage:
//
//	go run ./cmd/flicheck -workbook data/DF_SDG_12_3_1.xlsx
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/eugenelyy25/FLI-Tracker-SDG12/internal/adapter/xlsx"
	"github.com/eugenelyy25/FLI-Tracker-SDG12/internal/domain"
)

// phase tracks pass/fail for one check phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	workbook := flag.String("workbook", "", "path to the SDG 12.3.1 workbook")
	indexSheet := flag.String("index-sheet", "AG_FLS_INDEX", "sheet holding the index series")
	pctSheet := flag.String("pct-sheet", "AG_FLS_PCT", "sheet holding the loss-percentage series")
	areaCol := flag.String("area-column", "AREA", "area column header")
	periodCol := flag.String("period-column", "TIME_PERIOD", "period column header")
	valueCol := flag.String("value-column", "OBS_VALUE", "value column header")
	threshold := flag.Float64("threshold", domain.DefaultSimilarityThreshold, "fuzzy-match similarity threshold")
	horizon := flag.Int("horizon", 5, "forecast horizon in years")
	flag.Parse()

	if *workbook == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*workbook, *indexSheet, *pctSheet, *areaCol, *periodCol, *valueCol, *threshold, *horizon); code != 0 {
		os.Exit(code)
	}
}

func run(workbook, indexSheet, pctSheet, areaCol, periodCol, valueCol string, threshold float64, horizon int) int {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	fmt.Println("=== Food Loss Index Data Checks ===")
	fmt.Println()

	loader := xlsx.NewLoader(workbook, indexSheet, pctSheet, xlsx.ColumnMapping{
		Area:   areaCol,
		Period: periodCol,
		Value:  valueCol,
	}, logger)

	index, pct, err := loader.LoadSeries(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load workbook: %v\n", err)
		return 1
	}

	records, report := domain.MergeSeries(index, pct)
	resolver := domain.NewResolver(domain.ResolverConfig{Threshold: threshold})

	phases := []*phase{
		checkMerge(report),
		checkResolution(records, resolver),
		checkAggregates(records),
		checkForecasts(records, horizon),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Rows: %d index, %d pct, %d merged (%d missing, %d malformed, %d duplicate)\n",
		report.IndexRows, report.PctRows, report.Merged,
		report.MissingDropped, report.Malformed, report.Duplicates)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll checks passed.")
		return 0
	}
	fmt.Println("\nChecks FAILED.")
	return 1
}

// checkMerge flags joins that drop a suspicious share of the input.
func checkMerge(report domain.MergeReport) *phase {
	p := &phase{name: "series merge"}

	if report.Merged == 0 {
		p.errorf("no rows survived the join; are the two sheets keyed the same way?")
		return p
	}

	smaller := report.IndexRows
	if report.PctRows < smaller {
		smaller = report.PctRows
	}
	if report.Merged*2 < smaller {
		p.errorf("join kept %d of %d rows; area spellings likely diverge between sheets",
			report.Merged, smaller)
	}
	if report.Malformed > 0 {
		p.errorf("%d rows had uncoercible periods", report.Malformed)
	}
	return p
}

// checkResolution resolves every distinct area and reports the ones the
// whole chain failed on, ignoring names the override table pins codeless
// on purpose.
func checkResolution(records []domain.Record, resolver *domain.Resolver) *phase {
	p := &phase{name: "area resolution"}

	seen := map[string]bool{}
	var unresolved []string
	pinned := domain.DefaultOverrides()

	for _, rec := range records {
		if seen[rec.Area] {
			continue
		}
		seen[rec.Area] = true

		result := resolver.Resolve(rec.Area)
		if result.Resolved() {
			continue
		}
		if code, ok := pinned[rec.Area]; ok && code == "" {
			continue // codeless by design
		}
		unresolved = append(unresolved, rec.Area)
	}

	sort.Strings(unresolved)
	for _, area := range unresolved {
		p.errorf("unresolved area %q (threshold %.2f)", area, resolver.Threshold())
	}
	return p
}

// checkAggregates verifies both groupings materialize.
func checkAggregates(records []domain.Record) *phase {
	p := &phase{name: "aggregation"}

	if _, err := domain.Aggregate(records, domain.GroupByArea()); err != nil {
		p.errorf("by area: %v", err)
	}

	rows, err := domain.Aggregate(records, domain.DefaultRegionMapping().GroupFunc())
	if err != nil {
		p.errorf("by region: %v", err)
		return p
	}
	for _, row := range rows {
		if row.ContributorCount == 1 {
			p.errorf("region %q %d rests on a single reporter", row.GroupKey, row.Period)
		}
	}
	return p
}

// checkForecasts fits every region's trend and reports the ones that
// cannot be fitted. Insufficient data is a finding, not a crash.
func checkForecasts(records []domain.Record, horizon int) *phase {
	p := &phase{name: "trend forecasts"}

	rows, err := domain.Aggregate(records, domain.DefaultRegionMapping().GroupFunc())
	if err != nil {
		p.errorf("aggregate: %v", err)
		return p
	}

	byRegion := map[string][]domain.AggregateRow{}
	for _, row := range rows {
		byRegion[row.GroupKey] = append(byRegion[row.GroupKey], row)
	}

	regions := make([]string, 0, len(byRegion))
	for region := range byRegion {
		regions = append(regions, region)
	}
	sort.Strings(regions)

	for _, region := range regions {
		points, err := domain.Forecast(byRegion[region], horizon)
		switch {
		case errors.Is(err, domain.ErrInsufficientData):
			p.errorf("region %q: fewer than 2 reporting years, no trend", region)
		case err != nil:
			p.errorf("region %q: %v", region, err)
		default:
			last := points[len(points)-1]
			fmt.Printf("  %-20s projected %.3f by %d\n", region, last.PredictedIndex, last.Period)
		}
	}
	return p
}
