// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gota/gota/series"

	"github.com/pdiddy/ds-workflow/pkg/types"
)

// DropRows removes rows by positional index.
func (d *Dataset) DropRows(toDrop []int) error {
	nrow := d.Frame.Nrow()
	drop := make(map[int]bool, len(toDrop))
	for _, idx := range toDrop {
		if idx < 0 || idx >= nrow {
			return fmt.Errorf("row index %d is out of range (dataset has %d rows)", idx, nrow)
		}
		drop[idx] = true
	}

	keep := make([]int, 0, nrow-len(drop))
	for i := 0; i < nrow; i++ {
		if !drop[i] {
			keep = append(keep, i)
		}
	}

	d.Frame = d.Frame.Subset(keep)
	if d.Frame.Err != nil {
		return fmt.Errorf("dropping rows: %w", d.Frame.Err)
	}
	return nil
}

// DropNullRows removes every row whose value in the named column is missing.
func (d *Dataset) DropNullRows(name string) error {
	if err := d.ValidateColumn(name); err != nil {
		return err
	}
	var toDrop []int
	for i, missing := range d.missingMask(name) {
		if missing {
			toDrop = append(toDrop, i)
		}
	}
	if len(toDrop) == 0 {
		return nil
	}
	return d.DropRows(toDrop)
}

// DropColumns removes columns by name, together with their labels. Dropping
// the target column clears the target.
func (d *Dataset) DropColumns(names []string) error {
	for _, name := range names {
		if err := d.ValidateColumn(name); err != nil {
			return err
		}
	}
	for _, name := range names {
		d.Frame = d.Frame.Drop(name)
		if d.Frame.Err != nil {
			return fmt.Errorf("dropping column '%s': %w", name, d.Frame.Err)
		}
		delete(d.Labels, name)
		if d.Target == name {
			d.Target = ""
		}
	}
	return nil
}

// AddColumn appends a series to the dataset and auto-assigns its label.
// A column with the same name must not already exist.
func (d *Dataset) AddColumn(s series.Series) error {
	if err := d.ValidateColumn(s.Name); err == nil {
		return fmt.Errorf("a column with the name '%s' already exists in the dataset", s.Name)
	}
	if s.Len() != d.Frame.Nrow() {
		return fmt.Errorf("column '%s' has %d values, dataset has %d rows", s.Name, s.Len(), d.Frame.Nrow())
	}

	d.Frame = d.Frame.Mutate(s)
	if d.Frame.Err != nil {
		return fmt.Errorf("adding column '%s': %w", s.Name, d.Frame.Err)
	}

	label, err := d.autoAssign(s.Name)
	if err != nil {
		return err
	}
	d.Labels[s.Name] = label
	return nil
}

// DummyOptions controls dummy variable encoding.
type DummyOptions struct {
	// Prefix for dummy column names; defaults to the source column name.
	Prefix string

	// PrefixSep separates the prefix from the level; defaults to "_".
	PrefixSep string

	// DropFirst omits the first level, for models that need k-1 dummies.
	DropFirst bool

	// DropOriginal removes the source column after encoding.
	DropOriginal bool
}

// EncodeDummies expands a categorical column into one 0/1 int column per
// level, levels in sorted order. Missing values produce 0 in every dummy.
func (d *Dataset) EncodeDummies(name string, opts DummyOptions) error {
	if err := d.ValidateColumn(name); err != nil {
		return err
	}
	if cat := d.Labels[name].Category; cat != types.CategoryCategorical {
		return fmt.Errorf("'%s' has category %s; dummies require a categorical column", name, cat)
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = name
	}
	sep := opts.PrefixSep
	if sep == "" {
		sep = "_"
	}

	s := d.Frame.Col(name)
	missing := d.missingMask(name)
	records := s.Records()

	seen := make(map[string]bool)
	var levels []string
	for i, rec := range records {
		if missing[i] || seen[rec] {
			continue
		}
		seen[rec] = true
		levels = append(levels, rec)
	}
	if len(levels) == 0 {
		return &DataTypeNotFoundError{Column: name}
	}
	sort.Strings(levels)
	if opts.DropFirst {
		levels = levels[1:]
	}

	for _, level := range levels {
		values := make([]int, len(records))
		for i, rec := range records {
			if !missing[i] && rec == level {
				values[i] = 1
			}
		}
		dummy := series.New(values, series.Int, prefix+sep+level)
		if err := d.AddColumn(dummy); err != nil {
			return err
		}
	}

	if opts.DropOriginal {
		return d.DropColumns([]string{name})
	}
	return nil
}

// Null handling strategies accepted by HandleNulls.
const (
	StrategyDropRows    = "drop_rows"
	StrategyDropColumn  = "drop_column"
	StrategyFillAverage = "fill_average"
)

// HandleNulls resolves missing values in a column. fill_average replaces
// them with the mean of the present values and only applies to numeric
// columns; unknown strategies are rejected.
func (d *Dataset) HandleNulls(name, strategy string) error {
	if err := d.ValidateColumn(name); err != nil {
		return err
	}

	switch strategy {
	case StrategyDropRows:
		return d.DropNullRows(name)

	case StrategyDropColumn:
		return d.DropColumns([]string{name})

	case StrategyFillAverage:
		if cat := d.Labels[name].Category; cat != types.CategoryNumeric {
			return fmt.Errorf("fill_average requires a numeric column, '%s' has category %s", name, cat)
		}
		return d.fillAverage(name)

	default:
		return fmt.Errorf("'%s' is not an accepted value for 'strategy'", strategy)
	}
}

func (d *Dataset) fillAverage(name string) error {
	s := d.Frame.Col(name)
	values := s.Float()

	var sum float64
	var n int
	for _, v := range values {
		if !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return &DataTypeNotFoundError{Column: name}
	}
	mean := sum / float64(n)

	for i, v := range values {
		if math.IsNaN(v) {
			values[i] = mean
		}
	}

	if d.Labels[name].Type == types.TypeInt {
		// Keep int columns int; the mean is truncated like any int cast.
		ints := make([]int, len(values))
		for i, v := range values {
			ints[i] = int(v)
		}
		d.Frame = d.Frame.Mutate(series.New(ints, series.Int, name))
	} else {
		d.Frame = d.Frame.Mutate(series.New(values, series.Float, name))
	}
	if d.Frame.Err != nil {
		return fmt.Errorf("filling nulls in '%s': %w", name, d.Frame.Err)
	}
	return nil
}
