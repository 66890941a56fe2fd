// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stats computes descriptive statistics over a dataset's active
// columns: per-column summaries and a Pearson correlation matrix.
package stats

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/pdiddy/ds-workflow/internal/dataset"
	"github.com/pdiddy/ds-workflow/pkg/types"
)

// ColumnSummary holds the descriptive statistics for one column. The
// numeric fields are NaN-free only when Numeric is true and Count > 0.
type ColumnSummary struct {
	Column   string  `json:"column"`
	Count    int     `json:"count"`
	Missing  int     `json:"missing"`
	Distinct int     `json:"distinct"`
	Numeric  bool    `json:"numeric"`
	Mean     float64 `json:"mean,omitempty"`
	Std      float64 `json:"std,omitempty"`
	Min      float64 `json:"min,omitempty"`
	Q1       float64 `json:"q1,omitempty"`
	Median   float64 `json:"median,omitempty"`
	Q3       float64 `json:"q3,omitempty"`
	Max      float64 `json:"max,omitempty"`
	Mode     float64 `json:"mode,omitempty"`
}

// Describe summarises every active column, fanning the work out across a
// bounded worker group. Summaries come back in frame column order.
func Describe(ctx context.Context, d *dataset.Dataset, cfg types.StatsConfig) ([]ColumnSummary, error) {
	columns := d.ActiveColumns()
	summaries := make([]ColumnSummary, len(columns))

	limit := cfg.MaxConcurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, name := range columns {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			summary, err := summarize(d, name)
			if err != nil {
				return fmt.Errorf("summarising '%s': %w", name, err)
			}
			summaries[i] = summary
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}

func summarize(d *dataset.Dataset, name string) (ColumnSummary, error) {
	mask, err := d.MissingMask(name)
	if err != nil {
		return ColumnSummary{}, err
	}

	summary := ColumnSummary{Column: name}
	for _, missing := range mask {
		if missing {
			summary.Missing++
		} else {
			summary.Count++
		}
	}

	label := d.Labels[name]
	if label.Category == types.CategoryNumeric {
		summary.Numeric = true
		values, err := d.FloatColumn(name)
		if err != nil {
			return ColumnSummary{}, err
		}
		present := make([]float64, 0, summary.Count)
		for i, v := range values {
			if !mask[i] && !math.IsNaN(v) {
				present = append(present, v)
			}
		}
		fillNumeric(&summary, present)
		return summary, nil
	}

	s, err := d.Column(name)
	if err != nil {
		return ColumnSummary{}, err
	}
	seen := make(map[string]bool)
	for i, rec := range s.Records() {
		if !mask[i] {
			seen[rec] = true
		}
	}
	summary.Distinct = len(seen)
	return summary, nil
}

func fillNumeric(summary *ColumnSummary, present []float64) {
	if len(present) == 0 {
		return
	}

	sorted := append([]float64(nil), present...)
	sort.Float64s(sorted)

	summary.Mean = stat.Mean(sorted, nil)
	summary.Std = stat.StdDev(sorted, nil)
	if math.IsNaN(summary.Std) {
		// A single value has no sample deviation.
		summary.Std = 0
	}
	summary.Min = sorted[0]
	summary.Max = sorted[len(sorted)-1]
	summary.Q1 = stat.Quantile(0.25, stat.Empirical, sorted, nil)
	summary.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	summary.Q3 = stat.Quantile(0.75, stat.Empirical, sorted, nil)

	mode, _ := stat.Mode(sorted, nil)
	summary.Mode = mode

	distinct := 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i] != sorted[i-1] {
			distinct++
		}
	}
	summary.Distinct = distinct
}

// CorrelationMatrix holds pairwise Pearson correlations between numeric
// columns. Values[i][j] correlates Columns[i] with Columns[j].
type CorrelationMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// Correlations computes the Pearson correlation matrix over the dataset's
// active numeric columns. Rows missing in either column of a pair are
// dropped pairwise. Datasets with fewer than two numeric columns error.
func Correlations(d *dataset.Dataset) (CorrelationMatrix, error) {
	var columns []string
	for _, name := range d.ActiveColumns() {
		if d.Labels[name].Category == types.CategoryNumeric {
			columns = append(columns, name)
		}
	}
	if len(columns) < 2 {
		return CorrelationMatrix{}, fmt.Errorf("correlations need at least two active numeric columns, have %d", len(columns))
	}

	values := make(map[string][]float64, len(columns))
	for _, name := range columns {
		v, err := d.FloatColumn(name)
		if err != nil {
			return CorrelationMatrix{}, err
		}
		values[name] = v
	}

	matrix := CorrelationMatrix{Columns: columns, Values: make([][]float64, len(columns))}
	for i := range columns {
		matrix.Values[i] = make([]float64, len(columns))
		matrix.Values[i][i] = 1
	}

	for i := 0; i < len(columns); i++ {
		for j := i + 1; j < len(columns); j++ {
			r := pairwiseCorrelation(values[columns[i]], values[columns[j]])
			matrix.Values[i][j] = r
			matrix.Values[j][i] = r
		}
	}
	return matrix, nil
}

// pairwiseCorrelation correlates two columns over rows present in both.
func pairwiseCorrelation(x, y []float64) float64 {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	return stat.Correlation(xs, ys, nil)
}
