// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	header = []string{"column", "mean"}
	rows   = [][]string{{"fare", "29.52"}, {"age", "29.33"}}
)

func TestRecordsTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Records(&buf, FormatTable, header, rows))
	out := buf.String()
	assert.Contains(t, out, "COLUMN")
	assert.Contains(t, out, "fare")
	assert.Contains(t, out, "29.52")
}

func TestRecordsTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Records(&buf, "", header, nil))
	assert.Equal(t, "(0 rows)\n", buf.String())
}

func TestRecordsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Records(&buf, FormatCSV, header, rows))
	assert.Equal(t, "column,mean\nfare,29.52\nage,29.33\n", buf.String())
}

func TestRecordsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Records(&buf, FormatJSON, header, rows))

	var decoded []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "fare", decoded[0]["column"])
}

func TestRecordsUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Records(&buf, "xml", header, rows)
	require.Error(t, err)
}
