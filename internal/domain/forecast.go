package domain

import "gonum.org/v1/gonum/stat"

// Forecast fits an ordinary least squares line to one group's index series
// and extrapolates it a horizon of years past the last observation.
//
// The rows must all belong to one group; repeated periods collapse to their
// first occurrence. Fewer than two distinct periods is ErrInsufficientData
// and zero rows is ErrEmptySelection — neither ever degrades into a flat or
// empty "forecast". Output covers min(period) through max(period)+horizon
// inclusive, IsHistorical marking periods at or before the last observed
// one. Predictions are deliberately unclamped; see the package caveats.
func Forecast(rows []AggregateRow, horizon int) ([]ForecastPoint, error) {
	if len(rows) == 0 {
		return nil, ErrEmptySelection
	}

	groupKey := rows[0].GroupKey
	seen := make(map[int]bool, len(rows))
	xs := make([]float64, 0, len(rows))
	ys := make([]float64, 0, len(rows))
	minPeriod, maxPeriod := rows[0].Period, rows[0].Period

	for _, row := range rows {
		if seen[row.Period] {
			continue
		}
		seen[row.Period] = true
		xs = append(xs, float64(row.Period))
		ys = append(ys, row.IndexValue)
		if row.Period < minPeriod {
			minPeriod = row.Period
		}
		if row.Period > maxPeriod {
			maxPeriod = row.Period
		}
	}

	if len(xs) < 2 {
		return nil, ErrInsufficientData
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)

	points := make([]ForecastPoint, 0, maxPeriod+horizon-minPeriod+1)
	for period := minPeriod; period <= maxPeriod+horizon; period++ {
		points = append(points, ForecastPoint{
			GroupKey:       groupKey,
			Period:         period,
			PredictedIndex: intercept + slope*float64(period),
			IsHistorical:   period <= maxPeriod,
		})
	}
	return points, nil
}
