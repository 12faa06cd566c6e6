// Package xlsx loads the SDG 12.3.1 statistical workbook into the core's
// tabular series shape. It is a boundary collaborator: the core never
// touches files, and the loader never interprets indicator semantics.
package xlsx

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/eugenelyy25/FLI-Tracker-SDG12/internal/domain"
)

// ColumnMapping names the three required columns in each sheet. Header
// matching is case-insensitive and whitespace-tolerant because published
// releases are not consistent about either.
type ColumnMapping struct {
	Area   string
	Period string
	Value  string
}

// Loader reads two parallel series sheets from one workbook.
type Loader struct {
	path       string
	indexSheet string
	pctSheet   string
	mapping    ColumnMapping
	logger     *slog.Logger
}

// NewLoader creates a workbook loader.
func NewLoader(path, indexSheet, pctSheet string, mapping ColumnMapping, logger *slog.Logger) *Loader {
	return &Loader{
		path:       path,
		indexSheet: indexSheet,
		pctSheet:   pctSheet,
		mapping:    mapping,
		logger:     logger,
	}
}

// LoadSeries reads the index and percentage sheets. An unreadable workbook,
// a missing sheet, or a missing mapped column is fatal: no meaningful
// partial result exists without the indicator values. Cell-level problems
// are left in the raw series for the merge to count and drop.
func (l *Loader) LoadSeries(ctx context.Context) (domain.Series, domain.Series, error) {
	if err := ctx.Err(); err != nil {
		return domain.Series{}, domain.Series{}, err
	}

	f, err := excelize.OpenFile(l.path)
	if err != nil {
		return domain.Series{}, domain.Series{}, fmt.Errorf("open workbook %s: %w", l.path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			l.logger.Warn("workbook close failed", "path", l.path, "error", cerr)
		}
	}()

	index, err := l.readSheet(f, l.indexSheet)
	if err != nil {
		return domain.Series{}, domain.Series{}, err
	}
	pct, err := l.readSheet(f, l.pctSheet)
	if err != nil {
		return domain.Series{}, domain.Series{}, err
	}

	l.logger.Info("workbook loaded",
		"path", l.path,
		"index_rows", len(index.Observations),
		"pct_rows", len(pct.Observations),
	)
	return index, pct, nil
}

// readSheet materializes one sheet as a raw Series.
func (l *Loader) readSheet(f *excelize.File, sheet string) (domain.Series, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return domain.Series{}, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return domain.Series{}, fmt.Errorf("sheet %s has no data rows", sheet)
	}

	areaIdx, periodIdx, valueIdx, err := l.mapColumns(sheet, rows[0])
	if err != nil {
		return domain.Series{}, err
	}

	series := domain.Series{Name: sheet}
	for _, row := range rows[1:] {
		series.Observations = append(series.Observations, domain.Observation{
			Area:   cell(row, areaIdx),
			Period: cell(row, periodIdx),
			Value:  cell(row, valueIdx),
		})
	}
	return series, nil
}

// mapColumns locates the mapped headers in the sheet's first row.
func (l *Loader) mapColumns(sheet string, headers []string) (area, period, value int, err error) {
	area, period, value = -1, -1, -1
	for idx, header := range headers {
		switch normalizeHeader(header) {
		case normalizeHeader(l.mapping.Area):
			area = idx
		case normalizeHeader(l.mapping.Period):
			period = idx
		case normalizeHeader(l.mapping.Value):
			value = idx
		}
	}

	switch {
	case area < 0:
		err = fmt.Errorf("sheet %s: column %q not found", sheet, l.mapping.Area)
	case period < 0:
		err = fmt.Errorf("sheet %s: column %q not found", sheet, l.mapping.Period)
	case value < 0:
		err = fmt.Errorf("sheet %s: column %q not found", sheet, l.mapping.Value)
	}
	return area, period, value, err
}

// cell reads a column from a possibly ragged row. excelize trims trailing
// empty cells, so short rows are normal, not an error.
func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}
