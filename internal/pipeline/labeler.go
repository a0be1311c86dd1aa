package pipeline

import (
	"fmt"

	"github.com/urbanairlab/source-attribution/internal/domain"
	"github.com/urbanairlab/source-attribution/internal/table"
)

// Labeler assigns a pollution source to every row of a processed table by
// evaluating the configured rule list in order.
type Labeler struct {
	rules      []domain.Rule
	thresholds domain.Thresholds
}

// NewLabeler creates a Labeler. Pass domain.DefaultRules() for the stock
// precedence order.
func NewLabeler(rules []domain.Rule, thresholds domain.Thresholds) *Labeler {
	return &Labeler{rules: rules, thresholds: thresholds}
}

// Label validates the table schema, labels every row, and appends the
// pollution_source and provenance columns. It returns the per-row labels for
// the balance check. Labeling is deterministic: identical table and
// thresholds yield identical labels.
func (l *Labeler) Label(t *table.Table) ([]domain.SourceLabel, error) {
	if err := t.Require(domain.RequiredColumns()...); err != nil {
		return nil, err
	}

	labels := make([]domain.SourceLabel, len(t.Rows))
	labelCells := make([]string, len(t.Rows))
	provCells := make([]string, len(t.Rows))
	for i := range t.Rows {
		label, _ := domain.LabelRecord(recordFromRow(t, i), l.rules, l.thresholds)
		labels[i] = label
		labelCells[i] = string(label)
		provCells[i] = domain.ProvenanceReal
	}

	if err := t.AppendColumn(domain.ColPollutionSource, labelCells); err != nil {
		return nil, fmt.Errorf("label table: %w", err)
	}
	if err := t.AppendColumn(domain.ColProvenance, provCells); err != nil {
		return nil, fmt.Errorf("label table: %w", err)
	}
	return labels, nil
}

// recordFromRow builds the typed rule-engine view of one table row.
// Missing or malformed numeric cells become NaN.
func recordFromRow(t *table.Table, row int) domain.MonitoringRecord {
	return domain.MonitoringRecord{
		PM25:           domain.ParseCell(t.Cell(row, domain.ColPM25)),
		PM10:           domain.ParseCell(t.Cell(row, domain.ColPM10)),
		NO2:            domain.ParseCell(t.Cell(row, domain.ColNO2)),
		CO:             domain.ParseCell(t.Cell(row, domain.ColCO)),
		SO2:            domain.ParseCell(t.Cell(row, domain.ColSO2)),
		O3:             domain.ParseCell(t.Cell(row, domain.ColO3)),
		Humidity:       domain.ParseCell(t.Cell(row, domain.ColHumidity)),
		Season:         t.Cell(row, domain.ColSeason),
		RoadDist:       domain.ParseCell(t.Cell(row, domain.ColRoadDist)),
		IndustrialDist: domain.ParseCell(t.Cell(row, domain.ColIndustrialDist)),
		FarmDist:       domain.ParseCell(t.Cell(row, domain.ColFarmDist)),
	}
}
