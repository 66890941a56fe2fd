// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/ds-workflow/internal/dataset"
	"github.com/pdiddy/ds-workflow/pkg/types"
)

const irisCSV = `sepal_length,sepal_width,species
5.1,3.5,setosa
4.9,3.0,setosa
6.3,3.3,virginica
5.8,2.7,virginica
`

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	tmpDir := t.TempDir()
	store, err := NewStore(types.RegistryConfig{
		RegistryDir: filepath.Join(tmpDir, "registry"),
		MaxResults:  20,
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, tmpDir
}

func writeDataset(t *testing.T, dir, name, content string) *dataset.Dataset {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	d, err := dataset.Load(path, types.DatasetConfig{})
	require.NoError(t, err)
	return d
}

func TestRegisterAndQuery(t *testing.T) {
	store, tmpDir := testStore(t)
	ctx := context.Background()

	d := writeDataset(t, tmpDir, "iris.csv", irisCSV)
	require.NoError(t, d.SetTarget("species"))

	rec, err := store.Register(ctx, d, "classic iris sample")
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, 4, rec.Rows)
	assert.Equal(t, 3, rec.Cols)
	assert.Equal(t, "species", rec.Target)

	results, err := store.Query(ctx, QueryOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, rec.ID, results[0].ID)

	byTarget, err := store.Query(ctx, QueryOptions{Target: "species"})
	require.NoError(t, err)
	assert.Len(t, byTarget, 1)

	noMatch, err := store.Query(ctx, QueryOptions{Target: "price"})
	require.NoError(t, err)
	assert.Empty(t, noMatch)
}

func TestRegisterUnchangedKeepsID(t *testing.T) {
	store, tmpDir := testStore(t)
	ctx := context.Background()

	d := writeDataset(t, tmpDir, "iris.csv", irisCSV)

	first, err := store.Register(ctx, d, "v1")
	require.NoError(t, err)

	// Same file, same mod time: no-op, same record.
	second, err := store.Register(ctx, d, "v2")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "v1", second.Notes)

	// Touch the file: update in place, ID survives.
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(d.Path, future, future))
	third, err := store.Register(ctx, d, "v2")
	require.NoError(t, err)
	assert.Equal(t, first.ID, third.ID)
	assert.Equal(t, "v2", third.Notes)
}

func TestFullTextQuery(t *testing.T) {
	store, tmpDir := testStore(t)
	ctx := context.Background()

	d := writeDataset(t, tmpDir, "iris.csv", irisCSV)
	_, err := store.Register(ctx, d, "classic iris sample for smoke tests")
	require.NoError(t, err)

	hits, err := store.Query(ctx, QueryOptions{Text: "smoke"})
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	misses, err := store.Query(ctx, QueryOptions{Text: "titanic"})
	require.NoError(t, err)
	assert.Empty(t, misses)
}

func TestRegisterDir(t *testing.T) {
	store, tmpDir := testStore(t)
	ctx := context.Background()

	dataDir := filepath.Join(tmpDir, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "iris.csv"), []byte(irisCSV), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "other.csv"), []byte("a,b\n1,2\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "notes.txt"), []byte("ignored"), 0o644))

	var out bytes.Buffer
	summary, err := store.RegisterDir(ctx, dataDir, types.DatasetConfig{}, &out)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Registered)
	assert.Equal(t, 2, summary.Total())
	assert.Contains(t, out.String(), "registered iris.csv")

	// Second pass skips unchanged files.
	out.Reset()
	summary, err = store.RegisterDir(ctx, dataDir, types.DatasetConfig{}, &out)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Skipped)
	assert.Zero(t, summary.Registered)
}

func TestRecordSplitAndRun(t *testing.T) {
	store, tmpDir := testStore(t)
	ctx := context.Background()

	d := writeDataset(t, tmpDir, "iris.csv", irisCSV)
	rec, err := store.Register(ctx, d, "")
	require.NoError(t, err)

	split, err := store.RecordSplit(ctx, rec.ID, types.SplitConfig{Test: 0.25, Validate: 0.25, Seed: 42})
	require.NoError(t, err)
	assert.NotEmpty(t, split.ID)

	run, err := store.RecordRun(ctx, rec.ID, "linear", "r2", 0.93)
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)

	runs, err := store.Runs(ctx, rec.ID)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "linear", runs[0].Model)
	assert.InDelta(t, 0.93, runs[0].MetricValue, 1e-12)
}

func TestExportYAML(t *testing.T) {
	store, tmpDir := testStore(t)
	ctx := context.Background()

	d := writeDataset(t, tmpDir, "iris.csv", irisCSV)
	rec, err := store.Register(ctx, d, "export me")
	require.NoError(t, err)
	_, err = store.RecordRun(ctx, rec.ID, "knn", "accuracy", 0.8)
	require.NoError(t, err)

	require.NoError(t, store.ExportYAML(ctx))

	data, err := os.ReadFile(filepath.Join(tmpDir, "registry", "export.yaml"))
	require.NoError(t, err)

	var doc struct {
		Datasets []DatasetRecord `yaml:"datasets"`
		Runs     []RunRecord     `yaml:"runs"`
	}
	require.NoError(t, yaml.Unmarshal(data, &doc))
	require.Len(t, doc.Datasets, 1)
	assert.Equal(t, "export me", doc.Datasets[0].Notes)
	require.Len(t, doc.Runs, 1)
	assert.Equal(t, "knn", doc.Runs[0].Model)
}
