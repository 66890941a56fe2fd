// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns raw source files into CSV datasets with pluggable
// backends for delimited text and spreadsheets.
package convert

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Converter reads a source file and returns its records. Different
// backends (text, xlsx) implement this interface.
type Converter interface {
	// Convert reads the file at srcPath and returns its rows.
	Convert(srcPath string) ([][]string, error)
}

// Status reports the outcome of converting a single file.
type Status string

const (
	StatusConverted Status = "converted"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the total number of files processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any files failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ConvertFile converts a single source file to CSV in outDir, named after
// the source with a .csv extension. Existing outputs are skipped.
func ConvertFile(c Converter, srcPath, outDir string, w io.Writer) (Status, error) {
	base := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))
	outPath := filepath.Join(outDir, base+".csv")

	if _, err := os.Stat(outPath); err == nil {
		fmt.Fprintf(w, "skipped:   %s (already exists)\n", base)
		return StatusSkipped, nil
	}

	records, err := c.Convert(srcPath)
	if err != nil {
		fmt.Fprintf(w, "failed:    %s (%v)\n", base, err)
		return StatusFailed, err
	}
	if len(records) == 0 {
		err := fmt.Errorf("%s contains no rows", srcPath)
		fmt.Fprintf(w, "failed:    %s (%v)\n", base, err)
		return StatusFailed, err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(w, "failed:    %s (%v)\n", base, err)
		return StatusFailed, fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(w, "failed:    %s (%v)\n", base, err)
		return StatusFailed, fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.WriteAll(records); err != nil {
		fmt.Fprintf(w, "failed:    %s (%v)\n", base, err)
		return StatusFailed, fmt.Errorf("writing %s: %w", outPath, err)
	}

	fmt.Fprintf(w, "converted: %s (%d rows)\n", base, len(records))
	return StatusConverted, nil
}

// ForPath returns the converter for a source file's extension.
func ForPath(path, delimiter, sheet string) (Converter, error) {
	c, ok := converterFor(path, delimiter, sheet)
	if !ok {
		return nil, fmt.Errorf("no converter for '%s' files", filepath.Ext(path))
	}
	return c, nil
}

// convertible maps source extensions to converter constructors.
func converterFor(path, delimiter, sheet string) (Converter, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".dat", ".tsv":
		return &TextConverter{Delimiter: delimiter}, true
	case ".xlsx":
		return &XLSXConverter{Sheet: sheet}, true
	default:
		return nil, false
	}
}

// ConvertBatch converts every supported file in dir to CSV in outDir,
// reporting per-file progress to w. Unsupported extensions are ignored.
func ConvertBatch(dir, outDir, delimiter, sheet string, w io.Writer) (BatchResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return BatchResult{}, fmt.Errorf("reading source directory %s: %w", dir, err)
	}

	var result BatchResult
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		c, ok := converterFor(entry.Name(), delimiter, sheet)
		if !ok {
			continue
		}

		status, _ := ConvertFile(c, filepath.Join(dir, entry.Name()), outDir, w)
		switch status {
		case StatusConverted:
			result.Converted++
		case StatusSkipped:
			result.Skipped++
		default:
			result.Failed++
		}
	}

	fmt.Fprintf(w, "\nconverted: %d, skipped: %d, failed: %d\n",
		result.Converted, result.Skipped, result.Failed)
	return result, nil
}
