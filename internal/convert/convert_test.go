// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestTextConverterWhitespace(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "readings.txt", "city temp humidity\ndelhi 32.1 45\nmumbai  29.8\t80\n\n")

	records, err := (&TextConverter{}).Convert(src)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"city", "temp", "humidity"},
		{"delhi", "32.1", "45"},
		{"mumbai", "29.8", "80"},
	}, records)
}

func TestTextConverterDelimiter(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "readings.txt", "city; temp\ndelhi; 32.1\n")

	records, err := (&TextConverter{Delimiter: ";"}).Convert(src)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"city", "temp"}, {"delhi", "32.1"}}, records)
}

func TestTextConverterRaggedLine(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "bad.txt", "a b c\n1 2\n")

	_, err := (&TextConverter{}).Convert(src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestXLSXConverter(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "data.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"city", "temp"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"delhi", 32.1}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"mumbai"}))
	require.NoError(t, f.SaveAs(src))
	require.NoError(t, f.Close())

	records, err := (&XLSXConverter{}).Convert(src)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"city", "temp"}, records[0])
	assert.Equal(t, "delhi", records[1][0])
	// Short rows pad to the widest.
	assert.Equal(t, []string{"mumbai", ""}, records[2])
}

func TestXLSXConverterMissingSheet(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "data.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SaveAs(src))
	require.NoError(t, f.Close())

	_, err := (&XLSXConverter{Sheet: "Nope"}).Convert(src)
	require.Error(t, err)
}

func TestForPath(t *testing.T) {
	c, err := ForPath("readings.tsv", "", "")
	require.NoError(t, err)
	assert.IsType(t, &TextConverter{}, c)

	c, err = ForPath("book.xlsx", "", "Data")
	require.NoError(t, err)
	assert.IsType(t, &XLSXConverter{}, c)

	_, err = ForPath("report.pdf", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".pdf")
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	src := writeFile(t, dir, "readings.txt", "a b\n1 2\n")

	var out bytes.Buffer
	status, err := ConvertFile(&TextConverter{}, src, outDir, &out)
	require.NoError(t, err)
	assert.Equal(t, StatusConverted, status)
	assert.Contains(t, out.String(), "converted: readings (2 rows)")

	records := readCSV(t, filepath.Join(outDir, "readings.csv"))
	assert.Equal(t, [][]string{{"a", "b"}, {"1", "2"}}, records)

	// Second conversion skips the existing output.
	out.Reset()
	status, err = ConvertFile(&TextConverter{}, src, outDir, &out)
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, status)
}

func TestConvertFileEmptySource(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "empty.txt", "\n\n")

	var out bytes.Buffer
	status, err := ConvertFile(&TextConverter{}, src, filepath.Join(dir, "out"), &out)
	require.Error(t, err)
	assert.Equal(t, StatusFailed, status)
}

func TestConvertBatch(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	writeFile(t, dir, "one.txt", "a b\n1 2\n")
	writeFile(t, dir, "two.dat", "x y\n3 4\n")
	writeFile(t, dir, "bad.txt", "a b\n1\n")
	writeFile(t, dir, "ignore.csv", "already,csv\n")

	var out bytes.Buffer
	result, err := ConvertBatch(dir, outDir, "", "", &out)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Converted)
	assert.Equal(t, 1, result.Failed)
	assert.True(t, result.HasFailures())
	assert.Equal(t, 3, result.Total())
}
