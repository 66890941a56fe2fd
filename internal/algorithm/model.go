// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package algorithm trains and evaluates models on a dataset's numeric
// columns: linear and logistic regression, k-nearest neighbours, and
// k-means clustering.
package algorithm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/pdiddy/ds-workflow/internal/dataset"
	"github.com/pdiddy/ds-workflow/pkg/types"
)

// Model is a supervised learner over a design matrix.
type Model interface {
	// Fit trains the model on features X and targets y.
	Fit(X *mat.Dense, y []float64) error

	// Predict returns one prediction per row of X.
	Predict(X *mat.Dense) ([]float64, error)
}

// DesignMatrix builds the feature matrix and target vector for a dataset.
// Features are the active numeric columns other than the target; rows with
// a missing feature or target value are dropped. When set names a split
// set, only its rows are used; an empty set uses every row.
func DesignMatrix(d *dataset.Dataset, set string) (*mat.Dense, []float64, []string, error) {
	if d.Target == "" {
		return nil, nil, nil, fmt.Errorf("dataset has no target: set one before fitting")
	}
	if d.Labels[d.Target].Category != types.CategoryNumeric {
		return nil, nil, nil, fmt.Errorf("target '%s' has category %s; fitting requires a numeric target",
			d.Target, d.Labels[d.Target].Category)
	}

	var features []string
	for _, name := range d.ActiveColumns() {
		if name == d.Target {
			continue
		}
		if d.Labels[name].Category == types.CategoryNumeric {
			features = append(features, name)
		}
	}
	if len(features) == 0 {
		return nil, nil, nil, fmt.Errorf("no active numeric feature columns besides the target")
	}

	rows, err := rowIndices(d, set)
	if err != nil {
		return nil, nil, nil, err
	}

	columns := make([][]float64, len(features))
	for i, name := range features {
		columns[i], err = d.FloatColumn(name)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	target, err := d.FloatColumn(d.Target)
	if err != nil {
		return nil, nil, nil, err
	}

	var data []float64
	var y []float64
rowLoop:
	for _, r := range rows {
		if math.IsNaN(target[r]) {
			continue
		}
		for _, col := range columns {
			if math.IsNaN(col[r]) {
				continue rowLoop
			}
		}
		for _, col := range columns {
			data = append(data, col[r])
		}
		y = append(y, target[r])
	}
	if len(y) == 0 {
		return nil, nil, nil, fmt.Errorf("no complete rows available for fitting")
	}

	X := mat.NewDense(len(y), len(features), data)
	return X, y, features, nil
}

func rowIndices(d *dataset.Dataset, set string) ([]int, error) {
	if set == "" {
		rows := make([]int, d.Frame.Nrow())
		for i := range rows {
			rows[i] = i
		}
		return rows, nil
	}
	if !d.IsSplit {
		return nil, fmt.Errorf("dataset has not been split; split it or fit on the whole dataset")
	}
	rows, ok := d.SplitIndices[set]
	if !ok {
		return nil, fmt.Errorf("no split set named '%s'", set)
	}
	return rows, nil
}
