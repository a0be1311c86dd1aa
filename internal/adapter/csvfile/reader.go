// Package csvfile reads and writes tables as CSV files on local disk.
package csvfile

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urbanairlab/source-attribution/internal/table"
)

// Reader extracts the processed input table from a CSV file.
// It implements pipeline.TableExtractor.
type Reader struct {
	path   string
	logger *slog.Logger
}

// NewReader creates a Reader for the given path.
func NewReader(path string, logger *slog.Logger) *Reader {
	return &Reader{path: path, logger: logger}
}

// Extract reads and parses the whole file. The input is a bounded batch, so
// it is loaded into memory in one pass.
func (r *Reader) Extract(ctx context.Context) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()

	t, err := table.Read(f)
	if err != nil {
		return nil, fmt.Errorf("read input file %s: %w", r.path, err)
	}
	r.logger.Info("input file read", "path", r.path, "rows", len(t.Rows))
	return t, nil
}
