// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/go-gota/gota/series"

	"github.com/pdiddy/ds-workflow/pkg/types"
)

// Canonical layouts values are normalised to after a date/time cast.
const (
	dateLayout     = "2006-01-02"
	timeLayout     = "15:04:05"
	datetimeLayout = time.RFC3339
)

// CastType casts a column to a new storage type. The cast must be allowed
// by the cast table for the column's current type. Casting to date, time,
// or datetime parses values with layout (Go reference-time format) and
// stores them in the canonical layout for that type. After a successful
// cast the column's category resets to the new type's default.
func (d *Dataset) CastType(name string, to types.DType, layout string) error {
	if err := d.ValidateColumn(name); err != nil {
		return err
	}

	label := d.Labels[name]
	if !types.CanCast(label.Type, to) {
		return fmt.Errorf("cannot cast '%s' to %s: its current type is %s and that cast is not allowed",
			name, to, label.Type)
	}

	s := d.Frame.Col(name)
	missing := d.missingMask(name)

	var casted series.Series
	switch to {
	case types.TypeInt:
		values, err := d.castToInt(name, s, missing, label.Type)
		if err != nil {
			return err
		}
		casted = series.New(values, series.Int, name)

	case types.TypeFloat:
		values, err := d.castToFloat(name, s, missing, label.Type)
		if err != nil {
			return err
		}
		casted = series.New(values, series.Float, name)

	case types.TypeString, types.TypeText:
		casted = series.New(s.Records(), series.String, name)

	case types.TypeDate, types.TypeTime, types.TypeDatetime:
		values, err := castToTemporal(name, s, missing, to, layout)
		if err != nil {
			return err
		}
		casted = series.New(values, series.String, name)

	default:
		return fmt.Errorf("cannot cast '%s': unsupported target type %s", name, to)
	}
	if casted.Err != nil {
		return fmt.Errorf("casting '%s' to %s: %w", name, to, casted.Err)
	}

	d.Frame = d.Frame.Mutate(casted)
	if d.Frame.Err != nil {
		return fmt.Errorf("casting '%s' to %s: %w", name, to, d.Frame.Err)
	}

	label.Type = to
	label.Category = types.DefaultCategory(to)
	if err := label.Validate(); err != nil {
		return err
	}
	d.Labels[name] = label
	return nil
}

// CastCategory changes a column's category, re-checking that the category
// accepts the column's current storage type.
func (d *Dataset) CastCategory(name string, to types.Category) error {
	if err := d.ValidateColumn(name); err != nil {
		return err
	}
	label := d.Labels[name]
	label.Category = to
	if err := label.Validate(); err != nil {
		return fmt.Errorf("casting category of '%s': %w", name, err)
	}
	d.Labels[name] = label
	return nil
}

func (d *Dataset) castToInt(name string, s series.Series, missing []bool, from types.DType) ([]int, error) {
	for i := range missing {
		if missing[i] {
			return nil, fmt.Errorf("cannot cast '%s' to int: row %d is missing", name, i)
		}
	}

	switch from {
	case types.TypeFloat:
		floats := s.Float()
		values := make([]int, len(floats))
		for i, v := range floats {
			values[i] = int(v)
		}
		return values, nil

	case types.TypeBool:
		values := make([]int, s.Len())
		for i, rec := range s.Records() {
			if rec == "true" {
				values[i] = 1
			}
		}
		return values, nil

	default: // string
		values := make([]int, s.Len())
		for i, rec := range s.Records() {
			v, err := strconv.Atoi(rec)
			if err != nil {
				return nil, fmt.Errorf("casting '%s' to int: string contains non-numeric values, parse before casting", name)
			}
			values[i] = v
		}
		return values, nil
	}
}

func (d *Dataset) castToFloat(name string, s series.Series, missing []bool, from types.DType) ([]float64, error) {
	switch from {
	case types.TypeInt:
		return s.Float(), nil

	default: // string
		values := make([]float64, s.Len())
		for i, rec := range s.Records() {
			if missing[i] {
				values[i] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(rec, 64)
			if err != nil {
				return nil, fmt.Errorf("casting '%s' to float: string contains non-numeric values, parse before casting", name)
			}
			values[i] = v
		}
		return values, nil
	}
}

// castToTemporal parses string values with layout and re-renders them in
// the canonical layout for the target type.
func castToTemporal(name string, s series.Series, missing []bool, to types.DType, layout string) ([]string, error) {
	canonical := datetimeLayout
	switch to {
	case types.TypeDate:
		canonical = dateLayout
	case types.TypeTime:
		canonical = timeLayout
	}
	if layout == "" {
		layout = canonical
	}

	values := make([]string, s.Len())
	for i, rec := range s.Records() {
		if missing[i] {
			values[i] = ""
			continue
		}
		t, err := time.Parse(layout, rec)
		if err != nil {
			return nil, fmt.Errorf("'%s' could not be converted to %s: check the layout and try again", name, to)
		}
		values[i] = t.Format(canonical)
	}
	return values, nil
}
