package csvfile

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbanairlab/source-attribution/internal/table"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReader_Extract(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "processed_data.csv")
	csv := "location_id,pm25,no2\nst-01,42.5,80\nst-02,,15\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	r := NewReader(path, discardLogger())
	tbl, err := r.Extract(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"location_id", "pm25", "no2"}, tbl.Header)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "42.5", tbl.Cell(0, "pm25"))
	assert.Equal(t, "", tbl.Cell(1, "pm25"))
}

func TestReader_Extract_MissingFile(t *testing.T) {
	r := NewReader(filepath.Join(t.TempDir(), "absent.csv"), discardLogger())
	_, err := r.Extract(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriter_Load_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "labeled_data.csv")

	tbl := table.New([]string{"location_id", "pollution_source"})
	require.NoError(t, tbl.AppendRow([]string{"st-01", "Industrial"}))
	require.NoError(t, tbl.AppendRow([]string{"st-02", "Natural"}))

	w := NewWriter(path, discardLogger())
	require.NoError(t, w.Load(context.Background(), tbl))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "location_id,pollution_source\nst-01,Industrial\nst-02,Natural\n", string(got))

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestWriter_Load_OverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "labeled_data.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	tbl := table.New([]string{"a"})
	require.NoError(t, tbl.AppendRow([]string{"1"}))

	w := NewWriter(path, discardLogger())
	require.NoError(t, w.Load(context.Background(), tbl))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(got), "stale"))
	assert.Equal(t, "a\n1\n", string(got))
}

func TestWriter_Load_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := NewWriter(filepath.Join(t.TempDir(), "x.csv"), discardLogger())
	require.ErrorIs(t, w.Load(ctx, table.New([]string{"a"})), context.Canceled)
}
