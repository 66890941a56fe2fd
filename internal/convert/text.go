// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// TextConverter reads delimited text files. An empty Delimiter splits on
// any run of whitespace; otherwise fields are split on the literal
// delimiter. Blank lines are ignored.
type TextConverter struct {
	Delimiter string
}

// Convert reads srcPath line by line. Every non-blank line must produce
// the same number of fields as the first; ragged lines error with their
// line number.
func (c *TextConverter) Convert(srcPath string) ([][]string, error) {
	f, err := os.Open(srcPath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", srcPath, err)
	}
	defer f.Close()

	var records [][]string
	width := -1

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}

		var fields []string
		if c.Delimiter == "" {
			fields = strings.Fields(line)
		} else {
			fields = strings.Split(line, c.Delimiter)
			for i := range fields {
				fields[i] = strings.TrimSpace(fields[i])
			}
		}

		if width == -1 {
			width = len(fields)
		} else if len(fields) != width {
			return nil, fmt.Errorf("line %d has %d fields, expected %d", lineNo, len(fields), width)
		}
		records = append(records, fields)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", srcPath, err)
	}
	return records, nil
}
