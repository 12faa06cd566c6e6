package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func obs(area, period, value string) Observation {
	return Observation{Area: area, Period: period, Value: value}
}

func TestMergeSeries(t *testing.T) {
	t.Run("inner join on area and period", func(t *testing.T) {
		index := Series{Name: "index", Observations: []Observation{
			obs("Germany", "2016", "98.5"),
			obs("Germany", "2017", "97.1"),
			obs("Brazil", "2016", "101.2"),
		}}
		pct := Series{Name: "pct", Observations: []Observation{
			obs("Germany", "2016", "12.4"),
			obs("Brazil", "2016", "14.8"),
			obs("Brazil", "2018", "15.0"),
		}}

		records, report := MergeSeries(index, pct)

		require.Len(t, records, 2)
		assert.Equal(t, 2, report.Merged)

		byKey := make(map[string]Record)
		for _, r := range records {
			byKey[r.Area] = r
		}
		assert.Equal(t, 98.5, byKey["Germany"].IndexValue)
		assert.Equal(t, 12.4, byKey["Germany"].LossPercent)
		assert.Equal(t, 2016, byKey["Germany"].Period)
		assert.Equal(t, 101.2, byKey["Brazil"].IndexValue)
		assert.Equal(t, 14.8, byKey["Brazil"].LossPercent)
	})

	t.Run("merged count bounded by both inputs", func(t *testing.T) {
		index := Series{Observations: []Observation{
			obs("A", "2016", "1"), obs("B", "2016", "2"), obs("C", "2016", "3"),
		}}
		pct := Series{Observations: []Observation{
			obs("A", "2016", "4"), obs("B", "2016", "5"),
		}}

		records, _ := MergeSeries(index, pct)
		assert.LessOrEqual(t, len(records), len(pct.Observations))
		assert.LessOrEqual(t, len(records), len(index.Observations))
	})

	t.Run("missing values dropped before join", func(t *testing.T) {
		index := Series{Observations: []Observation{
			obs("Germany", "2016", ""),
			obs("Brazil", "2016", "NA"),
			obs("Japan", "2016", "100.0"),
		}}
		pct := Series{Observations: []Observation{
			obs("Germany", "2016", "12.4"),
			obs("Brazil", "2016", "14.8"),
			obs("Japan", "2016", "9.1"),
		}}

		records, report := MergeSeries(index, pct)

		require.Len(t, records, 1)
		assert.Equal(t, "Japan", records[0].Area)
		assert.Equal(t, 2, report.MissingDropped)
	})

	t.Run("period coercion", func(t *testing.T) {
		index := Series{Observations: []Observation{
			obs("Germany", "2016.0", "98.5"), // spreadsheet float year, accepted
			obs("Brazil", "2016.5", "101.2"), // truly fractional, malformed
			obs("Japan", "twenty", "100.0"),  // non-numeric, malformed
		}}
		pct := Series{Observations: []Observation{
			obs("Germany", "2016", "12.4"),
		}}

		records, report := MergeSeries(index, pct)

		require.Len(t, records, 1)
		assert.Equal(t, "Germany", records[0].Area)
		assert.Equal(t, 2016, records[0].Period)
		assert.Equal(t, 2, report.Malformed)
	})

	t.Run("byte exact area comparison", func(t *testing.T) {
		index := Series{Observations: []Observation{obs("Bolivia", "2016", "98.5")}}
		pct := Series{Observations: []Observation{obs("bolivia", "2016", "12.4")}}

		records, _ := MergeSeries(index, pct)
		assert.Empty(t, records, "differing case must not merge")
	})

	t.Run("duplicate keys keep first occurrence", func(t *testing.T) {
		index := Series{Observations: []Observation{
			obs("Germany", "2016", "98.5"),
			obs("Germany", "2016", "55.5"),
		}}
		pct := Series{Observations: []Observation{obs("Germany", "2016", "12.4")}}

		records, report := MergeSeries(index, pct)

		require.Len(t, records, 1)
		assert.Equal(t, 98.5, records[0].IndexValue)
		assert.Equal(t, 1, report.Duplicates)
	})

	t.Run("empty inputs", func(t *testing.T) {
		records, report := MergeSeries(Series{}, Series{})
		assert.Empty(t, records)
		assert.Equal(t, 0, report.Merged)
	})

	t.Run("every output pair exists in both inputs", func(t *testing.T) {
		index := Series{Observations: []Observation{
			obs("A", "2016", "1"), obs("B", "2017", "2"), obs("C", "2018", "3"),
		}}
		pct := Series{Observations: []Observation{
			obs("B", "2017", "4"), obs("C", "2018", "5"), obs("D", "2019", "6"),
		}}

		records, _ := MergeSeries(index, pct)
		for _, r := range records {
			assert.Contains(t, []string{"B", "C"}, r.Area)
		}
	})
}

func TestCoercePeriod(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
		ok       bool
	}{
		{"plain year", "2016", 2016, true},
		{"padded", "  2016 ", 2016, true},
		{"float year", "2016.0", 2016, true},
		{"fractional", "2016.5", 0, false},
		{"empty", "", 0, false},
		{"text", "year", 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := coercePeriod(tc.input)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.expected, got)
			}
		})
	}
}
