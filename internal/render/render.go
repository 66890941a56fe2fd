// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render writes tabular CLI output as an aligned table, CSV, or JSON.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Output formats accepted by Records.
const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatJSON  = "json"
)

// Records renders header and rows in the requested format. JSON output is
// an array of objects keyed by the header fields.
func Records(w io.Writer, format string, header []string, rows [][]string) error {
	switch format {
	case FormatCSV:
		return renderCSV(w, header, rows)
	case FormatJSON:
		return renderJSON(w, header, rows)
	case FormatTable, "":
		renderTable(w, header, rows)
		return nil
	default:
		return fmt.Errorf("unknown output format '%s' (want table, csv, or json)", format)
	}
}

func renderTable(w io.Writer, header []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(0 rows)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, v := range row {
			tr[i] = v
		}
		t.AppendRow(tr)
	}
	t.Render()
}

func renderCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func renderJSON(w io.Writer, header []string, rows [][]string) error {
	objects := make([]map[string]string, len(rows))
	for i, row := range rows {
		obj := make(map[string]string, len(header))
		for j, h := range header {
			if j < len(row) {
				obj[h] = row[j]
			}
		}
		objects[i] = obj
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(objects)
}
