// Package model trains and evaluates baseline classifiers on the labeled
// table and persists the best one.
package model

import (
	"fmt"

	"github.com/urbanairlab/source-attribution/internal/domain"
	"github.com/urbanairlab/source-attribution/internal/table"
)

// Dataset is the numeric feature matrix and label vector extracted from a
// labeled table.
type Dataset struct {
	Features []string
	X        [][]float64
	Y        []string
}

// excludedColumns are never used as features: identifiers, coordinates, raw
// timestamps, and the label columns themselves.
func excludedColumns() map[string]bool {
	return map[string]bool{
		domain.ColLocationID:      true,
		"location_name":           true,
		domain.ColLatitude:        true,
		domain.ColLongitude:       true,
		domain.ColTimestamp:       true,
		domain.ColPollutionSource: true,
		domain.ColProvenance:      true,
	}
}

// FromTable extracts the training dataset from a labeled table. Feature
// columns are the numeric columns minus identifiers and label columns, in
// header order. Missing cells are imputed with the column mean, so a sparse
// table still yields a complete matrix.
func FromTable(t *table.Table) (*Dataset, error) {
	if err := t.Require(domain.ColPollutionSource); err != nil {
		return nil, err
	}

	features := t.NumericColumns(excludedColumns())
	if len(features) == 0 {
		return nil, &NoFeaturesError{}
	}

	means := make([]float64, len(features))
	for j, name := range features {
		var sum float64
		var n int
		for i := range t.Rows {
			if v, ok := t.Float(i, name); ok {
				sum += v
				n++
			}
		}
		if n > 0 {
			means[j] = sum / float64(n)
		}
	}

	ds := &Dataset{Features: features}
	for i := range t.Rows {
		row := make([]float64, len(features))
		for j, name := range features {
			if v, ok := t.Float(i, name); ok {
				row[j] = v
			} else {
				row[j] = means[j]
			}
		}
		label := t.Cell(i, domain.ColPollutionSource)
		if label == "" {
			return nil, fmt.Errorf("row %d has an empty %s cell", i, domain.ColPollutionSource)
		}
		ds.X = append(ds.X, row)
		ds.Y = append(ds.Y, label)
	}
	return ds, nil
}

// classes returns the distinct labels present, in first-seen order.
func (d *Dataset) classes() []string {
	seen := make(map[string]bool)
	var out []string
	for _, y := range d.Y {
		if !seen[y] {
			seen[y] = true
			out = append(out, y)
		}
	}
	return out
}
