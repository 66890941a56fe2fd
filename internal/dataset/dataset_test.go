// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ds-workflow/pkg/types"
)

const passengersCSV = `passenger_id,name,age,fare,embarked,survived
1,Braund Mr. Owen Harris Wilkes,22,7.25,S,0
2,Cumings Mrs. John Bradley Florence,38,71.2833,C,1
3,Heikkinen Miss Laina Annabel Lee,26,7.925,S,1
4,Futrelle Mrs. Jacques Heath Lily,35,53.1,S,1
5,Allen Mr. William Henry Graves,28,8.05,Q,0
6,Moran Mr. James Patrick Aloysius,27,NaN,NaN,0
`

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func loadPassengers(t *testing.T) *Dataset {
	t.Helper()
	d, err := Load(writeCSV(t, passengersCSV), types.DatasetConfig{})
	require.NoError(t, err)
	return d
}

func TestLoadAutoAssignsLabels(t *testing.T) {
	d := loadPassengers(t)

	assert.Equal(t, 6, d.Frame.Nrow())
	assert.Equal(t, 6, d.Frame.Ncol())

	want := map[string]types.ColumnLabel{
		"passenger_id": {Category: types.CategoryNumeric, Type: types.TypeInt, IsActive: true},
		"name":         {Category: types.CategoryText, Type: types.TypeText, IsActive: true},
		"age":          {Category: types.CategoryNumeric, Type: types.TypeInt, IsActive: true},
		"fare":         {Category: types.CategoryNumeric, Type: types.TypeFloat, IsActive: true},
		"embarked":     {Category: types.CategoryCategorical, Type: types.TypeString, IsActive: true},
		"survived":     {Category: types.CategoryNumeric, Type: types.TypeInt, IsActive: true},
	}
	assert.Equal(t, want, d.Labels)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), types.DatasetConfig{})
	require.Error(t, err)
}

func TestLoadAllMissingColumn(t *testing.T) {
	csv := "a,b\n1,NaN\n2,NaN\n"
	_, err := Load(writeCSV(t, csv), types.DatasetConfig{})
	require.Error(t, err)
	var notFound *DataTypeNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "b", notFound.Column)
}

func TestLoadWithLabels(t *testing.T) {
	labels := map[string]types.ColumnLabel{
		"survived": {Category: types.CategoryCategorical, Type: types.TypeInt, IsActive: true},
	}
	d, err := LoadWithLabels(writeCSV(t, passengersCSV), labels, types.DatasetConfig{})
	require.NoError(t, err)

	// Supplied label wins; the rest are auto-assigned.
	assert.Equal(t, types.CategoryCategorical, d.Labels["survived"].Category)
	assert.Equal(t, types.CategoryNumeric, d.Labels["fare"].Category)
}

func TestLoadWithInvalidLabel(t *testing.T) {
	labels := map[string]types.ColumnLabel{
		"survived": {Category: types.CategoryNumeric, Type: "potato", IsActive: true},
	}
	_, err := LoadWithLabels(writeCSV(t, passengersCSV), labels, types.DatasetConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "potato")
}

func TestValidateColumn(t *testing.T) {
	d := loadPassengers(t)

	require.NoError(t, d.ValidateColumn("fare"))

	err := d.ValidateColumn("wind_speed")
	require.Error(t, err)
	var unknown *UnknownColumnError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "'wind_speed' was not found in the dataset", err.Error())
}

func TestSetTarget(t *testing.T) {
	d := loadPassengers(t)

	require.NoError(t, d.SetTarget("survived"))
	assert.Equal(t, "survived", d.Target)

	require.Error(t, d.SetTarget("missing"))
}

func TestSetActive(t *testing.T) {
	d := loadPassengers(t)

	require.NoError(t, d.SetActive("name", false))
	assert.False(t, d.Labels["name"].IsActive)
	assert.Equal(t, []string{"passenger_id", "age", "fare", "embarked", "survived"}, d.ActiveColumns())

	require.NoError(t, d.SetActive("name", true))
	assert.True(t, d.Labels["name"].IsActive)
}

func TestDescribe(t *testing.T) {
	d := loadPassengers(t)

	out := d.Describe()
	assert.Contains(t, out, "Is split: false")
	assert.Contains(t, out, "Is derived: false")
	assert.Contains(t, out, "fare - category: numeric, type: float, is_active: true")
}

func TestLabelsRoundTrip(t *testing.T) {
	d := loadPassengers(t)
	require.NoError(t, d.SetActive("passenger_id", false))

	path := filepath.Join(t.TempDir(), "labels.yaml")
	require.NoError(t, d.SaveLabels(path))

	loaded, err := LabelsFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, d.Labels, loaded)
}

func TestWriteCSVRoundTrip(t *testing.T) {
	d := loadPassengers(t)

	out := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, d.WriteCSV(out))

	reloaded, err := Load(out, types.DatasetConfig{})
	require.NoError(t, err)
	assert.Equal(t, d.Frame.Nrow(), reloaded.Frame.Nrow())
	assert.Equal(t, d.Frame.Names(), reloaded.Frame.Names())
}
