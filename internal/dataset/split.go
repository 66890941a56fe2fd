// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"fmt"
	"math/rand"

	"github.com/go-gota/gota/dataframe"
)

// Split set names used as SplitIndices keys.
const (
	SetTrain    = "train"
	SetTest     = "test"
	SetValidate = "validate"
)

// Split shuffles row indices with the given seed and partitions them into
// test, optional validation, and train sets. test must be positive,
// validate non-negative, and their sum below 1; train receives the
// remainder. Repeated calls with the same seed produce the same sets.
func (d *Dataset) Split(test, validate float64, seed int64) error {
	if test <= 0 {
		return fmt.Errorf("test fraction must be positive, got %g", test)
	}
	if validate < 0 {
		return fmt.Errorf("validate fraction must be non-negative, got %g", validate)
	}
	if test+validate >= 1 {
		return fmt.Errorf("test and validate fractions must leave room for a train set, got %g", test+validate)
	}

	size := d.Frame.Nrow()
	rng := rand.New(rand.NewSource(seed))
	indices := rng.Perm(size)

	testSize := int(test * float64(size))
	valSize := int(validate * float64(size))

	d.SplitIndices = map[string][]int{
		SetTest:  indices[:testSize],
		SetTrain: indices[testSize+valSize:],
	}
	if validate > 0 {
		d.SplitIndices[SetValidate] = indices[testSize : testSize+valSize]
	}
	d.IsSplit = true
	return nil
}

// Subframe returns the rows belonging to the named split set. The dataset
// must have been split first.
func (d *Dataset) Subframe(set string) (dataframe.DataFrame, error) {
	if !d.IsSplit {
		return dataframe.DataFrame{}, fmt.Errorf("dataset has not been split")
	}
	indices, ok := d.SplitIndices[set]
	if !ok {
		return dataframe.DataFrame{}, fmt.Errorf("no split set named '%s'", set)
	}
	sub := d.Frame.Subset(indices)
	if sub.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("subsetting %s rows: %w", set, sub.Err)
	}
	return sub, nil
}
