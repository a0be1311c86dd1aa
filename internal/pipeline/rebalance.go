package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/urbanairlab/source-attribution/internal/domain"
	"github.com/urbanairlab/source-attribution/internal/table"
)

// Rebalancer backfills under-represented classes with simulated records when
// one label dominates the real distribution.
type Rebalancer struct {
	rules      []domain.Rule
	thresholds domain.Thresholds

	balanceFraction float64 // dominant fraction above which simulation kicks in
	classMin        int     // target minimum records per class
	maxAttempts     int     // rejection-sampling budget per synthetic record
	seed            int64

	logger *slog.Logger
}

// NewRebalancer creates a Rebalancer. All randomness derives from seed, so a
// run is reproducible.
func NewRebalancer(rules []domain.Rule, thresholds domain.Thresholds, balanceFraction float64, classMin, maxAttempts int, seed int64, logger *slog.Logger) *Rebalancer {
	return &Rebalancer{
		rules:           rules,
		thresholds:      thresholds,
		balanceFraction: balanceFraction,
		classMin:        classMin,
		maxAttempts:     maxAttempts,
		seed:            seed,
		logger:          logger,
	}
}

// Rebalance checks the real label distribution and, when the dominant class
// exceeds the balance fraction, appends simulated rows until every class
// reaches the target minimum. Real rows are never modified or replaced;
// appended rows carry provenance "simulated". The returned map counts
// appended rows per class (nil when no simulation was needed).
func (r *Rebalancer) Rebalance(t *table.Table, labels []domain.SourceLabel) (map[domain.SourceLabel]int, error) {
	counts := domain.Distribution(labels)
	dominant, fraction := domain.Dominant(counts, len(labels))
	if fraction <= r.balanceFraction {
		r.logger.Info("label distribution within balance",
			"dominant", dominant, "fraction", fraction, "threshold", r.balanceFraction)
		return nil, nil
	}

	r.logger.Info("label distribution skewed, simulating minority classes",
		"dominant", dominant, "fraction", fraction, "class_min", r.classMin)

	rng := rand.New(rand.NewSource(r.seed))
	realRows := len(t.Rows)

	// Row indices per class, for perturbation bases.
	byLabel := make(map[domain.SourceLabel][]int)
	for i, l := range labels {
		byLabel[l] = append(byLabel[l], i)
	}

	added := make(map[domain.SourceLabel]int)
	seq := 0
	for _, label := range domain.Labels() {
		needed := r.classMin - counts[label]
		for produced := 0; produced < needed; produced++ {
			base, rec, err := r.synthesize(t, label, byLabel[label], realRows, rng)
			if err != nil {
				var ie *domain.ImbalanceUnresolvedError
				if errors.As(err, &ie) {
					ie.Produced = counts[label] + produced
				}
				return added, err
			}
			seq++
			r.appendSimulatedRow(t, base, rec, label, seq)
			added[label]++
		}
		if needed > 0 {
			r.logger.Info("simulated records appended", "source", label, "count", needed)
		}
	}
	return added, nil
}

// synthesize produces one record that re-labels to the target class, by
// perturbing a real record of that class when one exists or by applying the
// class template to a sampled base row. Candidates that relabel differently
// are rejected; exhausting the attempt budget is an ImbalanceUnresolvedError.
func (r *Rebalancer) synthesize(t *table.Table, label domain.SourceLabel, bases []int, realRows int, rng *rand.Rand) (int, domain.MonitoringRecord, error) {
	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		var base int
		var rec domain.MonitoringRecord
		if len(bases) > 0 {
			base = bases[rng.Intn(len(bases))]
			rec = domain.Perturb(recordFromRow(t, base), rng)
		} else {
			base = rng.Intn(realRows)
			rec = domain.ApplyTemplate(recordFromRow(t, base), label, r.thresholds, rng)
		}
		if got, _ := domain.LabelRecord(rec, r.rules, r.thresholds); got == label {
			return base, rec, nil
		}
	}
	return 0, domain.MonitoringRecord{}, &domain.ImbalanceUnresolvedError{
		Label:  label,
		Needed: r.classMin,
	}
}

// appendSimulatedRow clones the base row, overwrites the feature cells with
// the synthetic record's values, and appends it flagged as simulated.
func (r *Rebalancer) appendSimulatedRow(t *table.Table, base int, rec domain.MonitoringRecord, label domain.SourceLabel, seq int) {
	row := t.CloneRow(base)
	_ = t.AppendRow(row)
	i := len(t.Rows) - 1

	t.SetCell(i, domain.ColPM25, domain.FormatCell(rec.PM25))
	t.SetCell(i, domain.ColPM10, domain.FormatCell(rec.PM10))
	t.SetCell(i, domain.ColNO2, domain.FormatCell(rec.NO2))
	t.SetCell(i, domain.ColCO, domain.FormatCell(rec.CO))
	t.SetCell(i, domain.ColSO2, domain.FormatCell(rec.SO2))
	t.SetCell(i, domain.ColO3, domain.FormatCell(rec.O3))
	t.SetCell(i, domain.ColHumidity, domain.FormatCell(rec.Humidity))
	t.SetCell(i, domain.ColSeason, rec.Season)
	t.SetCell(i, domain.ColRoadDist, domain.FormatCell(rec.RoadDist))
	t.SetCell(i, domain.ColIndustrialDist, domain.FormatCell(rec.IndustrialDist))
	t.SetCell(i, domain.ColFarmDist, domain.FormatCell(rec.FarmDist))

	if baseID := t.Cell(base, domain.ColLocationID); baseID != "" {
		t.SetCell(i, domain.ColLocationID, fmt.Sprintf("%s-sim-%d", baseID, seq))
	}
	t.SetCell(i, domain.ColPollutionSource, string(label))
	t.SetCell(i, domain.ColProvenance, domain.ProvenanceSimulated)
}
