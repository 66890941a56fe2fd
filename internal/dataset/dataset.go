// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset loads CSV data and manages column labels, casts,
// transformations, and the train/validate/test split. It is the first
// stage of the workflow; Statistic and Algorithm operate on its output.
package dataset

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/ds-workflow/pkg/types"
)

// defaultNullSentinels are string values treated as missing on load.
var defaultNullSentinels = []string{"NA", "NaN", "null"}

// defaultTextThreshold is the rune length at which a string value marks
// its column as text rather than categorical.
const defaultTextThreshold = 20

// UnknownColumnError reports an operation on a column the dataset does not have.
type UnknownColumnError struct {
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("'%s' was not found in the dataset", e.Column)
}

// DataTypeNotFoundError reports a column whose values are all missing, so
// no data type could be inferred.
type DataTypeNotFoundError struct {
	Column string
}

func (e *DataTypeNotFoundError) Error() string {
	return fmt.Sprintf("a data type for column '%s' could not be found", e.Column)
}

// Dataset holds a data frame together with its column labels, target
// variable, and split bookkeeping.
type Dataset struct {
	// Path is the file the data was loaded from.
	Path string

	// Frame stores the data.
	Frame dataframe.DataFrame

	// Labels maps column names to their labels.
	Labels map[string]types.ColumnLabel

	// Target names the variable to predict; empty when unset.
	Target string

	// SplitIndices holds row indices per split set ("train", "test",
	// and optionally "validate").
	SplitIndices map[string][]int

	// IsSplit reports whether Split has been run.
	IsSplit bool

	// IsDerived marks datasets produced from another dataset rather than
	// loaded from a source file.
	IsDerived bool

	cfg types.DatasetConfig
}

// Load reads a CSV file and auto-assigns a label to every column.
func Load(path string, cfg types.DatasetConfig) (*Dataset, error) {
	return LoadWithLabels(path, nil, cfg)
}

// LoadWithLabels reads a CSV file and applies the given labels. Columns
// absent from labels are auto-assigned; supplied labels are validated
// against the label value domains. A nil labels map auto-assigns everything.
func LoadWithLabels(path string, labels map[string]types.ColumnLabel, cfg types.DatasetConfig) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	sentinels := cfg.NullSentinels
	if len(sentinels) == 0 {
		sentinels = defaultNullSentinels
	}

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(sentinels),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, df.Err)
	}

	d := &Dataset{
		Path:         path,
		Frame:        df,
		Labels:       make(map[string]types.ColumnLabel, df.Ncol()),
		SplitIndices: make(map[string][]int),
		cfg:          cfg,
	}

	for _, name := range df.Names() {
		if supplied, ok := labels[name]; ok {
			if err := supplied.Validate(); err != nil {
				return nil, fmt.Errorf("label for column '%s': %w", name, err)
			}
			d.Labels[name] = supplied
			continue
		}
		label, err := d.autoAssign(name)
		if err != nil {
			return nil, err
		}
		d.Labels[name] = label
	}

	return d, nil
}

// ValidateColumn checks that the dataset has a column with the given name.
func (d *Dataset) ValidateColumn(name string) error {
	for _, col := range d.Frame.Names() {
		if col == name {
			return nil
		}
	}
	return &UnknownColumnError{Column: name}
}

// autoAssign infers a column's label from its values: the storage type of
// the first non-missing value decides the type, and the type decides the
// category. String columns whose first non-missing value is at least
// TextThreshold runes long are labelled text.
func (d *Dataset) autoAssign(name string) (types.ColumnLabel, error) {
	if err := d.ValidateColumn(name); err != nil {
		return types.ColumnLabel{}, err
	}

	s := d.Frame.Col(name)
	idx := d.firstPresent(s)
	if idx < 0 {
		return types.ColumnLabel{}, &DataTypeNotFoundError{Column: name}
	}

	var dtype types.DType
	switch s.Type() {
	case series.Int:
		dtype = types.TypeInt
	case series.Float:
		dtype = types.TypeFloat
	case series.Bool:
		dtype = types.TypeBool
	default:
		dtype = types.TypeString
		threshold := d.cfg.TextThreshold
		if threshold <= 0 {
			threshold = defaultTextThreshold
		}
		if utf8.RuneCountInString(s.Records()[idx]) >= threshold {
			dtype = types.TypeText
		}
	}

	return types.NewColumnLabel(types.DefaultCategory(dtype), dtype, true)
}

// SetTarget marks a column as the variable to predict.
func (d *Dataset) SetTarget(name string) error {
	if err := d.ValidateColumn(name); err != nil {
		return err
	}
	d.Target = name
	return nil
}

// SetActive enables or disables a column for downstream stages.
func (d *Dataset) SetActive(name string, active bool) error {
	if err := d.ValidateColumn(name); err != nil {
		return err
	}
	label := d.Labels[name]
	label.IsActive = active
	d.Labels[name] = label
	return nil
}

// ActiveColumns returns the names of active columns in frame order.
func (d *Dataset) ActiveColumns() []string {
	var active []string
	for _, name := range d.Frame.Names() {
		if d.Labels[name].IsActive {
			active = append(active, name)
		}
	}
	return active
}

// Describe renders the dataset header and per-column labels.
func (d *Dataset) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Path: %s\nIs split: %t\nIs derived: %t\n\n", d.Path, d.IsSplit, d.IsDerived)
	for _, name := range d.Frame.Names() {
		fmt.Fprintf(&b, "%s - %s\n", name, d.Labels[name])
	}
	return b.String()
}

// Column returns the named column's series.
func (d *Dataset) Column(name string) (series.Series, error) {
	if err := d.ValidateColumn(name); err != nil {
		return series.Series{}, err
	}
	return d.Frame.Col(name), nil
}

// FloatColumn returns the named column's values as float64, with missing
// values represented as NaN.
func (d *Dataset) FloatColumn(name string) ([]float64, error) {
	if err := d.ValidateColumn(name); err != nil {
		return nil, err
	}
	return d.Frame.Col(name).Float(), nil
}

// MissingMask reports, per row, whether the named column's value is missing.
func (d *Dataset) MissingMask(name string) ([]bool, error) {
	if err := d.ValidateColumn(name); err != nil {
		return nil, err
	}
	return d.missingMask(name), nil
}

// missingMask reports, per row, whether the named column's value is missing.
// For numeric columns missing means NaN; for string columns it also covers
// empty fields and the configured null sentinels.
func (d *Dataset) missingMask(name string) []bool {
	s := d.Frame.Col(name)
	mask := s.IsNaN()

	if s.Type() == series.String {
		sentinels := d.cfg.NullSentinels
		if len(sentinels) == 0 {
			sentinels = defaultNullSentinels
		}
		for i, rec := range s.Records() {
			if mask[i] {
				continue
			}
			if rec == "" {
				mask[i] = true
				continue
			}
			for _, sentinel := range sentinels {
				if rec == sentinel {
					mask[i] = true
					break
				}
			}
		}
	}

	return mask
}

func (d *Dataset) firstPresent(s series.Series) int {
	for i, missing := range d.missingMask(s.Name) {
		if !missing {
			return i
		}
	}
	return -1
}

// WriteCSV writes the current frame to path.
func (d *Dataset) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if err := d.Frame.WriteCSV(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// SaveLabels writes the label map to a YAML file, columns in frame order
// via a sorted document for stable diffs.
func (d *Dataset) SaveLabels(path string) error {
	data, err := yaml.Marshal(d.Labels)
	if err != nil {
		return fmt.Errorf("marshalling labels: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing labels: %w", err)
	}
	return nil
}

// LabelsFromFile reads a column label map from a YAML file.
func LabelsFromFile(path string) (map[string]types.ColumnLabel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading labels: %w", err)
	}
	var labels map[string]types.ColumnLabel
	if err := yaml.Unmarshal(data, &labels); err != nil {
		return nil, fmt.Errorf("parsing labels: %w", err)
	}
	return labels, nil
}
