// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"testing"

	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDropRows(t *testing.T) {
	d := loadPassengers(t)

	require.NoError(t, d.DropRows([]int{0, 2}))
	assert.Equal(t, 4, d.Frame.Nrow())
	assert.Equal(t, []string{"2", "4", "5", "6"}, d.Frame.Col("passenger_id").Records())
}

func TestDropRowsOutOfRange(t *testing.T) {
	d := loadPassengers(t)

	err := d.DropRows([]int{99})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestDropNullRows(t *testing.T) {
	d := loadPassengers(t)

	require.NoError(t, d.DropNullRows("fare"))
	assert.Equal(t, 5, d.Frame.Nrow())

	// Idempotent once the nulls are gone.
	require.NoError(t, d.DropNullRows("fare"))
	assert.Equal(t, 5, d.Frame.Nrow())
}

func TestDropColumns(t *testing.T) {
	d := loadPassengers(t)
	require.NoError(t, d.SetTarget("survived"))

	require.NoError(t, d.DropColumns([]string{"name", "survived"}))
	assert.Equal(t, 4, d.Frame.Ncol())
	assert.NotContains(t, d.Labels, "name")
	assert.Empty(t, d.Target, "dropping the target column should clear the target")

	require.Error(t, d.DropColumns([]string{"name"}))
}

func TestAddColumn(t *testing.T) {
	d := loadPassengers(t)

	s := series.New([]int{0, 1, 0, 1, 0, 1}, series.Int, "is_adult")
	require.NoError(t, d.AddColumn(s))
	assert.Contains(t, d.Labels, "is_adult")
	assert.True(t, d.Labels["is_adult"].IsActive)

	err := d.AddColumn(series.New([]int{1, 2, 3, 4, 5, 6}, series.Int, "fare"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	err = d.AddColumn(series.New([]int{1, 2}, series.Int, "short"))
	require.Error(t, err)
}

func TestEncodeDummies(t *testing.T) {
	d := loadPassengers(t)

	require.NoError(t, d.EncodeDummies("embarked", DummyOptions{}))

	// Levels in sorted order, original kept.
	names := d.Frame.Names()
	assert.Contains(t, names, "embarked")
	assert.Contains(t, names, "embarked_C")
	assert.Contains(t, names, "embarked_Q")
	assert.Contains(t, names, "embarked_S")

	assert.Equal(t, []string{"0", "1", "0", "0", "0", "0"}, d.Frame.Col("embarked_C").Records())
	assert.Equal(t, []string{"1", "0", "1", "1", "0", "0"}, d.Frame.Col("embarked_S").Records())

	// The missing row encodes to zero in every dummy.
	assert.Equal(t, "0", d.Frame.Col("embarked_Q").Records()[5])
}

func TestEncodeDummiesDropFirstAndOriginal(t *testing.T) {
	d := loadPassengers(t)

	opts := DummyOptions{Prefix: "port", PrefixSep: "-", DropFirst: true, DropOriginal: true}
	require.NoError(t, d.EncodeDummies("embarked", opts))

	names := d.Frame.Names()
	assert.NotContains(t, names, "embarked")
	assert.NotContains(t, names, "port-C")
	assert.Contains(t, names, "port-Q")
	assert.Contains(t, names, "port-S")
	assert.NotContains(t, d.Labels, "embarked")
}

func TestEncodeDummiesRequiresCategorical(t *testing.T) {
	d := loadPassengers(t)

	err := d.EncodeDummies("fare", DummyOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "categorical")
}

func TestHandleNullsDropRows(t *testing.T) {
	d := loadPassengers(t)

	require.NoError(t, d.HandleNulls("fare", StrategyDropRows))
	assert.Equal(t, 5, d.Frame.Nrow())
}

func TestHandleNullsDropColumn(t *testing.T) {
	d := loadPassengers(t)

	require.NoError(t, d.HandleNulls("fare", StrategyDropColumn))
	assert.NotContains(t, d.Frame.Names(), "fare")
}

func TestHandleNullsFillAverage(t *testing.T) {
	d := loadPassengers(t)

	require.NoError(t, d.HandleNulls("fare", StrategyFillAverage))

	fares := d.Frame.Col("fare").Float()
	mean := (7.25 + 71.2833 + 7.925 + 53.1 + 8.05) / 5
	assert.InDelta(t, mean, fares[5], 1e-9)
}

func TestHandleNullsFillAverageNonNumeric(t *testing.T) {
	d := loadPassengers(t)

	err := d.HandleNulls("embarked", StrategyFillAverage)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "numeric")
}

func TestHandleNullsUnknownStrategy(t *testing.T) {
	d := loadPassengers(t)

	err := d.HandleNulls("fare", "interpolate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an accepted value")
}
