package table

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "location_id,pm25,so2,season\nA1,12.5,3.0,winter\nA2,,8.1,summer\n"

func TestRead(t *testing.T) {
	tbl, err := Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"location_id", "pm25", "so2", "season"}, tbl.Header)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "A1", tbl.Cell(0, "location_id"))
	assert.Equal(t, "summer", tbl.Cell(1, "season"))
}

func TestRead_RaggedRowsPadded(t *testing.T) {
	tbl, err := Read(strings.NewReader("a,b,c\n1,2\n"))
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "", tbl.Cell(0, "c"))
}

func TestRead_EmptyInput(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no header row")
}

func TestRequire(t *testing.T) {
	tbl, err := Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.NoError(t, tbl.Require("pm25", "so2"))

	err = tbl.Require("pm25", "no2")
	require.Error(t, err)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "no2", schemaErr.Column)
	assert.Contains(t, err.Error(), "no2")
}

func TestFloat(t *testing.T) {
	tbl, err := Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	v, ok := tbl.Float(0, "pm25")
	assert.True(t, ok)
	assert.Equal(t, 12.5, v)

	_, ok = tbl.Float(1, "pm25") // empty cell
	assert.False(t, ok)

	_, ok = tbl.Float(0, "season") // non-numeric
	assert.False(t, ok)

	_, ok = tbl.Float(0, "missing")
	assert.False(t, ok)
}

func TestNumericColumns(t *testing.T) {
	tbl, err := Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	cols := tbl.NumericColumns(map[string]bool{"location_id": true})
	assert.Equal(t, []string{"pm25", "so2"}, cols)
}

func TestNumericColumns_AllEmptySkipped(t *testing.T) {
	tbl, err := Read(strings.NewReader("a,b\n,1\n,2\n"))
	require.NoError(t, err)

	cols := tbl.NumericColumns(nil)
	assert.Equal(t, []string{"b"}, cols)
}

func TestAppendColumn(t *testing.T) {
	tbl, err := Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	require.NoError(t, tbl.AppendColumn("pollution_source", []string{"Natural", "Industrial"}))
	assert.Equal(t, "Industrial", tbl.Cell(1, "pollution_source"))

	err = tbl.AppendColumn("pollution_source", []string{"x", "y"})
	assert.Error(t, err, "duplicate column")

	err = tbl.AppendColumn("short", []string{"x"})
	assert.Error(t, err, "wrong length")
}

func TestAppendRow(t *testing.T) {
	tbl, err := Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	require.NoError(t, tbl.AppendRow([]string{"A3", "55.0", "1.2", "autumn"}))
	assert.Len(t, tbl.Rows, 3)

	assert.Error(t, tbl.AppendRow([]string{"A4"}))
}

func TestWrite_RoundTrip(t *testing.T) {
	tbl, err := Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tbl.Write(&buf))
	assert.Equal(t, sampleCSV, buf.String())
}

func TestCloneRow(t *testing.T) {
	tbl, err := Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	row := tbl.CloneRow(0)
	row[0] = "changed"
	assert.Equal(t, "A1", tbl.Cell(0, "location_id"))
}
