package domain

import "errors"

// Sentinel errors for reportable pipeline conditions. All are recoverable at
// the call site; none should abort a whole run.
var (
	// ErrInsufficientData is returned when a forecast is requested for a
	// series with fewer than two distinct (period, value) points.
	ErrInsufficientData = errors.New("insufficient data: need at least 2 distinct periods")

	// ErrEmptySelection is returned when aggregation or forecasting is
	// invoked with zero matching records.
	ErrEmptySelection = errors.New("empty selection: no matching records")
)

// Observation is one raw row from an input series, cell text untouched.
// Period and Value are coerced during merge so that malformed rows can be
// counted and dropped instead of failing the load.
type Observation struct {
	Area   string
	Period string
	Value  string
}

// Series is one input sheet materialized as tabular rows. Column-name
// mapping is the loader's concern; by the time a Series exists the three
// columns are positional.
type Series struct {
	Name         string
	Observations []Observation
}

// Record is one harmonized (area, year) observation carrying both merged
// measures. After merge there is at most one Record per (Area, Period).
type Record struct {
	Area        string  `json:"area"`
	Period      int     `json:"period"`
	IndexValue  float64 `json:"index_value"`
	LossPercent float64 `json:"loss_percent"`
}

// MergeReport counts rows excluded while harmonizing two series. Dropped
// rows are reported upward, never fatal.
type MergeReport struct {
	IndexRows      int `json:"index_rows"`
	PctRows        int `json:"pct_rows"`
	MissingDropped int `json:"missing_dropped"`
	Malformed      int `json:"malformed"`
	Duplicates     int `json:"duplicates"`
	Merged         int `json:"merged"`
}

// ResolutionMethod identifies which strategy in the resolution chain
// produced an AreaCode.
type ResolutionMethod string

const (
	MethodOverride   ResolutionMethod = "override"
	MethodRegistry   ResolutionMethod = "registry"
	MethodFuzzy      ResolutionMethod = "fuzzy"
	MethodUnresolved ResolutionMethod = "unresolved"
)

// AreaCode is the outcome of resolving a free-text area name. Code is empty
// exactly when Method is MethodUnresolved; unresolved is a valid terminal
// state, not an error.
type AreaCode struct {
	Area   string           `json:"area"`
	Code   string           `json:"code,omitempty"`
	Method ResolutionMethod `json:"method"`
}

// Resolved reports whether the area carries a mappable code.
func (a AreaCode) Resolved() bool { return a.Method != MethodUnresolved }

// AreaResolver maps a free-text area name to a standardized code.
type AreaResolver interface {
	Resolve(area string) AreaCode
}

// AggregateRow is one summarized (group, year) observation.
type AggregateRow struct {
	GroupKey         string  `json:"group_key"`
	Period           int     `json:"period"`
	IndexValue       float64 `json:"index_value"`
	LossPercent      float64 `json:"loss_percent"`
	ContributorCount int     `json:"contributor_count"`
}

// ForecastPoint is one fitted or extrapolated period on a trend line.
type ForecastPoint struct {
	GroupKey       string  `json:"group_key"`
	Period         int     `json:"period"`
	PredictedIndex float64 `json:"predicted_index_value"`
	IsHistorical   bool    `json:"is_historical"`
}
