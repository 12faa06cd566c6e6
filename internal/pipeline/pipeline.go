// Package pipeline materializes the harmonization pipeline: load two
// series, merge, resolve area codes, aggregate per area and per region,
// and serve forecasts off the aggregated snapshot. Each stage is a pure
// function over immutable input; the pipeline only adds orchestration,
// logging, and metrics.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eugenelyy25/FLI-Tracker-SDG12/internal/domain"
	"github.com/eugenelyy25/FLI-Tracker-SDG12/internal/observability"
)

// Grouping selects the aggregation granularity of a snapshot view.
type Grouping string

const (
	GroupArea   Grouping = "area"
	GroupRegion Grouping = "region"
)

// SeriesLoader reads the two parallel input series from their source.
type SeriesLoader interface {
	LoadSeries(ctx context.Context) (index, pct domain.Series, err error)
}

// Snapshot is one materialized pass over the input data. It is immutable
// once published; a refresh swaps in a new one.
type Snapshot struct {
	Records     []domain.Record       `json:"-"`
	ByArea      []domain.AggregateRow `json:"by_area"`
	ByRegion    []domain.AggregateRow `json:"by_region"`
	Areas       []domain.AreaCode     `json:"areas"`
	Report      domain.MergeReport    `json:"report"`
	GeneratedAt time.Time             `json:"generated_at"`
}

// Rows returns the aggregate view for a grouping.
func (s *Snapshot) Rows(g Grouping) []domain.AggregateRow {
	if g == GroupRegion {
		return s.ByRegion
	}
	return s.ByArea
}

// GroupRows returns the rows of one group within a grouping.
func (s *Snapshot) GroupRows(g Grouping, key string) []domain.AggregateRow {
	var rows []domain.AggregateRow
	for _, row := range s.Rows(g) {
		if row.GroupKey == key {
			rows = append(rows, row)
		}
	}
	return rows
}

// Pipeline orchestrates the load-merge-resolve-aggregate pass and answers
// forecast queries against the current snapshot.
type Pipeline struct {
	loader   SeriesLoader
	resolver domain.AreaResolver
	regions  *domain.RegionMapping
	logger   *slog.Logger
	metrics  *observability.Metrics
	horizon  int

	ready atomic.Bool
	mu    sync.RWMutex
	snap  *Snapshot
}

// New creates a Pipeline with the given stages and observability.
func New(loader SeriesLoader, resolver domain.AreaResolver, regions *domain.RegionMapping, logger *slog.Logger, metrics *observability.Metrics, horizon int) *Pipeline {
	if regions == nil {
		regions = domain.DefaultRegionMapping()
	}
	return &Pipeline{
		loader:   loader,
		resolver: resolver,
		regions:  regions,
		logger:   logger,
		metrics:  metrics,
		horizon:  horizon,
	}
}

// CheckReadiness returns nil once a snapshot has been materialized.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no snapshot materialized yet")
	}
	return nil
}

// Snapshot returns the current snapshot, if one exists.
func (p *Pipeline) Snapshot() (*Snapshot, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap, p.snap != nil
}

// Run materializes an initial snapshot (unless one already exists) and
// then refreshes on the given interval until the context is cancelled. A
// zero interval runs a single pass and returns. The initial pass is fatal
// on load failure; refresh failures keep the previous snapshot and retry
// next tick.
func (p *Pipeline) Run(ctx context.Context, interval time.Duration) error {
	if !p.ready.Load() {
		if err := p.Refresh(ctx); err != nil {
			return err
		}
	}
	if interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := p.Refresh(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				p.logger.Error("snapshot refresh failed, keeping previous snapshot", "error", err)
			}
		}
	}
}

// Refresh runs one complete pass and publishes the resulting snapshot.
func (p *Pipeline) Refresh(ctx context.Context) error {
	start := time.Now()

	index, pct, err := p.loader.LoadSeries(ctx)
	if err != nil {
		return fmt.Errorf("load series: %w", err)
	}

	records, report := domain.MergeSeries(index, pct)
	p.observeMerge(report)
	if report.Malformed > 0 || report.MissingDropped > 0 {
		p.logger.Warn("rows dropped during merge",
			"missing", report.MissingDropped,
			"malformed", report.Malformed,
			"duplicates", report.Duplicates,
		)
	}

	byArea, err := domain.Aggregate(records, domain.GroupByArea())
	if err != nil {
		return fmt.Errorf("aggregate by area: %w", err)
	}
	byRegion, err := domain.Aggregate(records, p.regions.GroupFunc())
	if err != nil {
		return fmt.Errorf("aggregate by region: %w", err)
	}

	snap := &Snapshot{
		Records:     records,
		ByArea:      byArea,
		ByRegion:    byRegion,
		Areas:       p.resolveAreas(records),
		Report:      report,
		GeneratedAt: clock.Now(),
	}

	p.mu.Lock()
	p.snap = snap
	p.mu.Unlock()
	p.ready.Store(true)

	if p.metrics != nil {
		p.metrics.RefreshDuration.Observe(time.Since(start).Seconds())
		p.metrics.SnapshotReady.Set(1)
		p.metrics.LastRefresh.Set(float64(snap.GeneratedAt.Unix()))
	}

	p.logger.Info("snapshot materialized",
		"records", len(records),
		"areas", len(snap.Areas),
		"area_rows", len(byArea),
		"region_rows", len(byRegion),
	)
	return nil
}

// Forecast fits and extrapolates the trend line for one group of the
// requested grouping. A negative horizon means "unset" and falls back to
// the configured default; zero is a valid request for a history-only fit.
func (p *Pipeline) Forecast(group string, grouping Grouping, horizon int) ([]domain.ForecastPoint, error) {
	snap, ok := p.Snapshot()
	if !ok {
		return nil, domain.ErrEmptySelection
	}
	if horizon < 0 {
		horizon = p.horizon
	}

	points, err := domain.Forecast(snap.GroupRows(grouping, group), horizon)
	p.observeForecast(err)
	return points, err
}

// resolveAreas resolves each distinct area once, in sorted order so
// resolver cache warm-up and log output are deterministic.
func (p *Pipeline) resolveAreas(records []domain.Record) []domain.AreaCode {
	seen := make(map[string]bool, len(records))
	areas := make([]string, 0, len(records))
	for _, rec := range records {
		if seen[rec.Area] {
			continue
		}
		seen[rec.Area] = true
		areas = append(areas, rec.Area)
	}
	sort.Strings(areas)

	codes := make([]domain.AreaCode, 0, len(areas))
	for _, area := range areas {
		codes = append(codes, p.resolver.Resolve(area))
	}
	return codes
}

func (p *Pipeline) observeMerge(report domain.MergeReport) {
	if p.metrics == nil {
		return
	}
	p.metrics.RecordsMerged.Add(float64(report.Merged))
	p.metrics.RowsMissing.Add(float64(report.MissingDropped))
	p.metrics.RowsMalformed.Add(float64(report.Malformed))
	p.metrics.RowsDuplicated.Add(float64(report.Duplicates))
}

func (p *Pipeline) observeForecast(err error) {
	if p.metrics == nil {
		return
	}
	outcome := "ok"
	switch {
	case errors.Is(err, domain.ErrInsufficientData):
		outcome = "insufficient_data"
	case errors.Is(err, domain.ErrEmptySelection):
		outcome = "empty_selection"
	case err != nil:
		outcome = "error"
	}
	p.metrics.ForecastRequests.WithLabelValues(outcome).Inc()
}
