package domain

import (
	"math"
	"strconv"
)

// SourceLabel is the categorical pollution source assigned to a record.
type SourceLabel string

const (
	Vehicular    SourceLabel = "Vehicular"
	Industrial   SourceLabel = "Industrial"
	Agricultural SourceLabel = "Agricultural"
	Burning      SourceLabel = "Burning"
	Natural      SourceLabel = "Natural"
)

// Labels lists every valid source label.
func Labels() []SourceLabel {
	return []SourceLabel{Vehicular, Industrial, Agricultural, Burning, Natural}
}

// Provenance values for the labeled table's provenance column.
const (
	ProvenanceReal      = "real"
	ProvenanceSimulated = "simulated"
)

// Column names of the processed table the labeling rules read.
const (
	ColLocationID     = "location_id"
	ColLatitude       = "latitude"
	ColLongitude      = "longitude"
	ColTimestamp      = "timestamp"
	ColPM25           = "pm25"
	ColPM10           = "pm10"
	ColNO2            = "no2"
	ColCO             = "co"
	ColSO2            = "so2"
	ColO3             = "o3"
	ColHumidity       = "humidity"
	ColSeason         = "season"
	ColRoadDist       = "roads_dist_km"
	ColIndustrialDist = "industrial_zones_dist_km"
	ColFarmDist       = "agricultural_fields_dist_km"

	ColPollutionSource = "pollution_source"
	ColProvenance      = "provenance"
)

// RequiredColumns are the processed-table columns the rule engine needs.
// Missing any of them is a schema failure, never silently defaulted.
func RequiredColumns() []string {
	return []string{
		ColPM25, ColPM10, ColNO2, ColCO, ColSO2, ColO3,
		ColHumidity, ColSeason,
		ColRoadDist, ColIndustrialDist, ColFarmDist,
	}
}

// MonitoringRecord is the typed view of one processed-table row that the
// labeling rules evaluate. Missing numeric cells are NaN; a NaN distance
// never satisfies a proximity condition.
type MonitoringRecord struct {
	PM25           float64
	PM10           float64
	NO2            float64
	CO             float64
	SO2            float64
	O3             float64
	Humidity       float64
	Season         string
	RoadDist       float64
	IndustrialDist float64
	FarmDist       float64
}

// ParseCell parses a table cell as float64, returning NaN for empty or
// malformed cells.
func ParseCell(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// FormatCell renders a float for a table cell. NaN becomes an empty cell,
// matching how missing values arrive from the cleaner.
func FormatCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
