package csvfile

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urbanairlab/source-attribution/internal/table"
)

// Writer persists the labeled table to a CSV file.
// It implements pipeline.TableLoader.
type Writer struct {
	path   string
	logger *slog.Logger
}

// NewWriter creates a Writer for the given path. Parent directories are
// created on first load.
func NewWriter(path string, logger *slog.Logger) *Writer {
	return &Writer{path: path, logger: logger}
}

// Load writes the table to a temporary file in the destination directory and
// renames it into place, so readers never observe a partially written file.
func (w *Writer) Load(ctx context.Context, t *table.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(w.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := t.Write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write labeled table: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp output file: %w", err)
	}
	if err := os.Rename(tmp.Name(), w.path); err != nil {
		return fmt.Errorf("replace output file: %w", err)
	}

	w.logger.Info("labeled file written", "path", w.path, "rows", len(t.Rows))
	return nil
}
