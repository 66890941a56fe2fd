// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXConverter reads a worksheet from an Excel workbook. An empty Sheet
// selects the first worksheet.
type XLSXConverter struct {
	Sheet string
}

// Convert reads the worksheet's rows. Short rows are padded with empty
// fields to the widest row so the output is rectangular.
func (c *XLSXConverter) Convert(srcPath string) ([][]string, error) {
	f, err := excelize.OpenFile(srcPath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", srcPath, err)
	}
	defer f.Close()

	sheet := c.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%s has no worksheets", srcPath)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	for i, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		rows[i] = row
	}
	return rows, nil
}
