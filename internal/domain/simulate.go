package domain

import (
	"fmt"
	"math"
	"math/rand"
)

// ImbalanceUnresolvedError reports that simulation could not produce enough
// records for a class within its attempt budget.
type ImbalanceUnresolvedError struct {
	Label    SourceLabel
	Needed   int
	Produced int
}

func (e *ImbalanceUnresolvedError) Error() string {
	return fmt.Sprintf("simulation could not reach the target minimum for class %s: produced %d of %d needed",
		e.Label, e.Produced, e.Needed)
}

// Perturb returns a copy of r with every numeric feature jittered by up to
// ±10%. NaN cells stay NaN. The caller owns the rng so runs are reproducible
// from a single seed.
func Perturb(r MonitoringRecord, rng *rand.Rand) MonitoringRecord {
	jitter := func(v float64) float64 {
		if math.IsNaN(v) {
			return v
		}
		return v * (0.9 + rng.Float64()*0.2)
	}

	r.PM25 = jitter(r.PM25)
	r.PM10 = jitter(r.PM10)
	r.NO2 = jitter(r.NO2)
	r.CO = jitter(r.CO)
	r.SO2 = jitter(r.SO2)
	r.O3 = jitter(r.O3)
	r.Humidity = jitter(r.Humidity)
	r.RoadDist = jitter(r.RoadDist)
	r.IndustrialDist = jitter(r.IndustrialDist)
	r.FarmDist = jitter(r.FarmDist)
	return r
}

// ApplyTemplate overwrites the rule-relevant fields of base with values
// sampled from class-conditional ranges, producing a record that satisfies
// the target class's condition without matching any higher-precedence rule.
// Used when a class has no real records to perturb.
func ApplyTemplate(base MonitoringRecord, label SourceLabel, t Thresholds, rng *rand.Rand) MonitoringRecord {
	uniform := func(lo, hi float64) float64 {
		return lo + rng.Float64()*(hi-lo)
	}
	near := func(limit float64) float64 { return uniform(0.05, limit*0.9) }
	far := func(limit float64) float64 { return limit * uniform(3, 10) }

	r := base

	// Start from a quiet baseline so only the target class's condition holds.
	r.SO2 = uniform(0, t[ThresholdSO2High]*0.4)
	r.NO2 = uniform(0, t[ThresholdNO2High]*0.4)
	r.PM25 = uniform(0, t[ThresholdPMHigh]*0.3)
	r.PM10 = uniform(0, t[ThresholdPMHigh]*0.3)
	r.Humidity = uniform(50, 90)
	r.RoadDist = far(t[ThresholdRoadDistKM])
	r.IndustrialDist = far(t[ThresholdIndustrialDist])
	r.FarmDist = far(t[ThresholdFarmDistKM])

	switch label {
	case Industrial:
		r.IndustrialDist = near(t[ThresholdIndustrialDist])
		r.SO2 = uniform(t[ThresholdSO2High], t[ThresholdSO2High]*1.8)
	case Vehicular:
		r.RoadDist = near(t[ThresholdRoadDistKM])
		r.NO2 = uniform(t[ThresholdNO2High], t[ThresholdNO2High]*1.8)
	case Agricultural:
		r.FarmDist = near(t[ThresholdFarmDistKM])
		r.Season = "summer"
		r.PM25 = uniform(t[ThresholdPMHigh], t[ThresholdPMHigh]*1.8)
	case Burning:
		r.PM25 = uniform(t[ThresholdPMHigh], t[ThresholdPMHigh]*1.8)
		r.Humidity = uniform(5, t[ThresholdHumidityLow]*0.9)
	case Natural:
		// The quiet baseline already matches no rule.
	}
	return r
}
