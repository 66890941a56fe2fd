// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSizes(t *testing.T) {
	d := loadPassengers(t)

	require.NoError(t, d.Split(0.5, 0.2, 42))
	assert.True(t, d.IsSplit)
	assert.Len(t, d.SplitIndices[SetTest], 3)
	assert.Len(t, d.SplitIndices[SetValidate], 1)
	assert.Len(t, d.SplitIndices[SetTrain], 2)

	// Every row lands in exactly one set.
	seen := make(map[int]int)
	for _, set := range []string{SetTrain, SetTest, SetValidate} {
		for _, idx := range d.SplitIndices[set] {
			seen[idx]++
		}
	}
	assert.Len(t, seen, 6)
	for idx, count := range seen {
		assert.Equal(t, 1, count, "row %d assigned %d times", idx, count)
	}
}

func TestSplitNoValidate(t *testing.T) {
	d := loadPassengers(t)

	require.NoError(t, d.Split(0.5, 0, 1))
	assert.NotContains(t, d.SplitIndices, SetValidate)
	assert.Len(t, d.SplitIndices[SetTrain], 3)
}

func TestSplitDeterministic(t *testing.T) {
	d1 := loadPassengers(t)
	d2 := loadPassengers(t)

	require.NoError(t, d1.Split(0.4, 0.2, 7))
	require.NoError(t, d2.Split(0.4, 0.2, 7))
	assert.Equal(t, d1.SplitIndices, d2.SplitIndices)
}

func TestSplitBadFractions(t *testing.T) {
	d := loadPassengers(t)

	require.Error(t, d.Split(0, 0, 1))
	require.Error(t, d.Split(-0.1, 0, 1))
	require.Error(t, d.Split(0.5, -0.1, 1))
	require.Error(t, d.Split(0.8, 0.2, 1))
	assert.False(t, d.IsSplit)
}

func TestSubframe(t *testing.T) {
	d := loadPassengers(t)

	_, err := d.Subframe(SetTrain)
	require.Error(t, err, "unsplit dataset has no subframes")

	require.NoError(t, d.Split(0.5, 0.2, 42))

	train, err := d.Subframe(SetTrain)
	require.NoError(t, err)
	assert.Equal(t, 2, train.Nrow())

	_, err = d.Subframe("holdout")
	require.Error(t, err)
}
