package pipeline_test

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/urbanairlab/source-attribution/internal/domain"
	"github.com/urbanairlab/source-attribution/internal/table"
)

// processedHeader mirrors the column set produced by the upstream cleaner.
func processedHeader() []string {
	return []string{
		domain.ColLocationID, domain.ColLatitude, domain.ColLongitude, domain.ColTimestamp,
		domain.ColPM25, domain.ColPM10, domain.ColNO2, domain.ColCO, domain.ColSO2, domain.ColO3,
		domain.ColHumidity, domain.ColSeason,
		domain.ColRoadDist, domain.ColIndustrialDist, domain.ColFarmDist,
	}
}

// newProcessedTable builds an input table with one row per record.
func newProcessedTable(t *testing.T, recs []domain.MonitoringRecord) *table.Table {
	t.Helper()
	tbl := table.New(processedHeader())
	for i, r := range recs {
		row := []string{
			fmt.Sprintf("st-%02d", i+1), "28.61", "77.21", "2026-05-01T10:00:00Z",
			domain.FormatCell(r.PM25), domain.FormatCell(r.PM10), domain.FormatCell(r.NO2),
			domain.FormatCell(r.CO), domain.FormatCell(r.SO2), domain.FormatCell(r.O3),
			domain.FormatCell(r.Humidity), r.Season,
			domain.FormatCell(r.RoadDist), domain.FormatCell(r.IndustrialDist), domain.FormatCell(r.FarmDist),
		}
		if err := tbl.AppendRow(row); err != nil {
			t.Fatalf("append fixture row: %v", err)
		}
	}
	return tbl
}

// naturalRecord matches no rule.
func naturalRecord() domain.MonitoringRecord {
	return domain.MonitoringRecord{
		PM25: 10, PM10: 15, NO2: 20, CO: 0.4, SO2: 5, O3: 30,
		Humidity: 65, Season: "winter",
		RoadDist: 4.0, IndustrialDist: 6.0, FarmDist: 8.0,
	}
}

// industrialRecord matches the industrial rule.
func industrialRecord() domain.MonitoringRecord {
	r := naturalRecord()
	r.IndustrialDist = 0.4
	r.SO2 = 70
	return r
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
