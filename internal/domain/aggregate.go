package domain

import "sort"

// GroupFunc derives the aggregation key for a record's area: identity for
// per-area grouping, or a region mapping for broader rollups.
type GroupFunc func(area string) string

// GroupByArea groups records by their raw area string.
func GroupByArea() GroupFunc {
	return func(area string) string { return area }
}

// Aggregate groups records by (group key, period) and averages each measure
// within a group. Means are unweighted: a region mixing large and small
// reporters will over- or under-state the true aggregate, which is why
// ContributorCount travels with every row.
//
// Output is sorted by (group key, period), so identical record sets produce
// identical rows regardless of input order. Zero input records is a
// reported condition, not an empty success.
func Aggregate(records []Record, group GroupFunc) ([]AggregateRow, error) {
	if len(records) == 0 {
		return nil, ErrEmptySelection
	}
	if group == nil {
		group = GroupByArea()
	}

	type groupKey struct {
		key    string
		period int
	}
	type sums struct {
		index float64
		pct   float64
		count int
	}

	acc := make(map[groupKey]*sums)
	for _, rec := range records {
		key := groupKey{key: group(rec.Area), period: rec.Period}
		s, ok := acc[key]
		if !ok {
			s = &sums{}
			acc[key] = s
		}
		s.index += rec.IndexValue
		s.pct += rec.LossPercent
		s.count++
	}

	rows := make([]AggregateRow, 0, len(acc))
	for key, s := range acc {
		rows = append(rows, AggregateRow{
			GroupKey:         key.key,
			Period:           key.period,
			IndexValue:       s.index / float64(s.count),
			LossPercent:      s.pct / float64(s.count),
			ContributorCount: s.count,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].GroupKey != rows[j].GroupKey {
			return rows[i].GroupKey < rows[j].GroupKey
		}
		return rows[i].Period < rows[j].Period
	})
	return rows, nil
}
