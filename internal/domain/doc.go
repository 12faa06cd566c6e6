// Package domain models UN SDG indicator 12.3.1 (Food Loss Index) data and
// the harmonization and forecasting stages applied to it.
//
// # Data Source
//
// The indicator is published as a statistical workbook with two parallel
// sheets: AG_FLS_INDEX carries the Food Loss Index itself and AG_FLS_PCT the
// companion loss percentage. Both sheets report rows keyed by a free-text
// AREA name and a TIME_PERIOD year, with the measurement in OBS_VALUE. The
// two series are reported independently; an (area, year) pair may appear in
// one sheet and not the other.
//
// # Area Names
//
// AREA is not a clean country column. It mixes:
//
//	Countries:            "Bolivia (Plurinational State of)", "Germany"
//	Continents:           "Africa", "Europe"
//	UN M49 sub-regions:   "Western Africa", "South-eastern Asia"
//	Composite groupings:  "World", "Small Island Developing States"
//
// Resolution maps each name to a standardized code: ISO 3166 alpha-3 for
// countries, UN M49 3-digit strings for sub-region aggregates, and no code
// at all for names that have no single geographic entry (the "World" row
// cannot be painted on a map). Both code families share one string-typed
// code space; callers keying output by code must filter entries whose
// resolution method is [MethodUnresolved].
//
// # Aggregation Caveat
//
// Aggregate means are unweighted arithmetic means over contributing
// records. They are not weighted by production volume or population, so a
// region mixing large and small reporters over- or under-states the true
// regional figure. ContributorCount is carried on every row so consumers
// can flag low-confidence aggregates (a single-country "region").
//
// # Forecast Caveat
//
// Trend projection is a single-variable ordinary least squares line and
// nothing more: no seasonality, no confidence intervals, no outlier
// rejection, and no clamping. Predictions may go negative or exceed
// domain-sensible bounds; that is intentional, since an impossible
// projection is itself a data-quality signal worth surfacing.
package domain
