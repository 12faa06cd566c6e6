package domain

import (
	"math"
	"strconv"
	"strings"
)

// mergeKey joins the two series. Area strings are compared byte-for-byte;
// harmonizing spelling variants is the resolver's job, not the merge's.
type mergeKey struct {
	area   string
	period int
}

// MergeSeries inner-joins an index series and a loss-percentage series on
// (area, period) and returns the harmonized record set.
//
// Rows with a missing value are dropped before joining. Periods are coerced
// to integer years; rows whose period is non-numeric or truly fractional
// are counted as malformed and dropped. A repeated (area, period) within
// one series keeps the first occurrence and counts the rest as duplicates.
// Output order is unspecified.
func MergeSeries(index, pct Series) ([]Record, MergeReport) {
	report := MergeReport{
		IndexRows: len(index.Observations),
		PctRows:   len(pct.Observations),
	}

	indexVals := collectSeries(index, &report)
	pctVals := collectSeries(pct, &report)

	records := make([]Record, 0, len(indexVals))
	for key, iv := range indexVals {
		pv, ok := pctVals[key]
		if !ok {
			continue
		}
		records = append(records, Record{
			Area:        key.area,
			Period:      key.period,
			IndexValue:  iv,
			LossPercent: pv,
		})
	}

	report.Merged = len(records)
	return records, report
}

// collectSeries coerces one series into a keyed value map, updating drop
// counts on the report.
func collectSeries(s Series, report *MergeReport) map[mergeKey]float64 {
	vals := make(map[mergeKey]float64, len(s.Observations))
	for _, obs := range s.Observations {
		value, ok := parseValue(obs.Value)
		if !ok {
			report.MissingDropped++
			continue
		}
		period, ok := coercePeriod(obs.Period)
		if !ok {
			report.Malformed++
			continue
		}
		key := mergeKey{area: obs.Area, period: period}
		if _, exists := vals[key]; exists {
			report.Duplicates++
			continue
		}
		vals[key] = value
	}
	return vals
}

// parseValue parses a measurement cell. Empty cells and common NA markers
// count as missing rather than malformed, matching how the upstream
// workbook encodes unreported observations.
func parseValue(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "na") || strings.EqualFold(s, "nan") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// coercePeriod normalizes a period cell to an integer year. Spreadsheet
// tooling often renders year columns as "2016.0"; a zero fraction is
// accepted, a real one is malformed.
func coercePeriod(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if year, err := strconv.Atoi(s); err == nil {
		return year, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
