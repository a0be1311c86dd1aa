package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Threshold names understood by the default rule set.
const (
	ThresholdNO2High        = "no2_high"
	ThresholdSO2High        = "so2_high"
	ThresholdPMHigh         = "pm_high"
	ThresholdHumidityLow    = "humidity_low"
	ThresholdRoadDistKM     = "road_dist_km"
	ThresholdIndustrialDist = "industrial_dist_km"
	ThresholdFarmDistKM     = "farm_dist_km"
)

// Thresholds maps rule threshold names to their configured values.
type Thresholds map[string]float64

// DefaultThresholds returns the stock threshold set. Concentration cutoffs
// are approximate µg/m³ values; distances are kilometres.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ThresholdNO2High:        80,
		ThresholdSO2High:        50,
		ThresholdPMHigh:         100,
		ThresholdHumidityLow:    40,
		ThresholdRoadDistKM:     0.5,
		ThresholdIndustrialDist: 1.0,
		ThresholdFarmDistKM:     1.0,
	}
}

// Merge returns a copy of t with the named overrides applied. Unknown names
// are rejected so configuration typos fail loudly.
func (t Thresholds) Merge(overrides map[string]float64) (Thresholds, error) {
	merged := make(Thresholds, len(t))
	for k, v := range t {
		merged[k] = v
	}
	for k, v := range overrides {
		if _, ok := merged[k]; !ok {
			return nil, fmt.Errorf("unknown threshold %q (known: %s)", k, strings.Join(knownThresholds(t), ", "))
		}
		merged[k] = v
	}
	return merged, nil
}

func knownThresholds(t Thresholds) []string {
	names := make([]string, 0, len(t))
	for k := range t {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ParseThresholdOverrides parses "name=value,name=value" configuration input.
func ParseThresholdOverrides(s string) (map[string]float64, error) {
	overrides := map[string]float64{}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("malformed threshold override %q (want name=value)", pair)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("threshold %q: %w", name, err)
		}
		overrides[strings.TrimSpace(name)] = v
	}
	return overrides, nil
}

// Rule is a named threshold condition that, when satisfied, assigns its label.
type Rule struct {
	Name  string
	Label SourceLabel
	Match func(r MonitoringRecord, t Thresholds) bool
}

// DefaultRules returns the rule list in precedence order. The first matching
// rule wins; a record matching none labels Natural.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:  "industrial",
			Label: Industrial,
			Match: func(r MonitoringRecord, t Thresholds) bool {
				return r.IndustrialDist < t[ThresholdIndustrialDist] && r.SO2 >= t[ThresholdSO2High]
			},
		},
		{
			Name:  "vehicular",
			Label: Vehicular,
			Match: func(r MonitoringRecord, t Thresholds) bool {
				return r.RoadDist < t[ThresholdRoadDistKM] && r.NO2 >= t[ThresholdNO2High]
			},
		},
		{
			Name:  "agricultural",
			Label: Agricultural,
			Match: func(r MonitoringRecord, t Thresholds) bool {
				if r.FarmDist >= t[ThresholdFarmDistKM] {
					return false
				}
				if r.Season != "summer" && r.Season != "autumn" {
					return false
				}
				return r.PM25 >= t[ThresholdPMHigh] || r.PM10 >= t[ThresholdPMHigh]
			},
		},
		{
			Name:  "burning",
			Label: Burning,
			Match: func(r MonitoringRecord, t Thresholds) bool {
				return (r.PM25 >= t[ThresholdPMHigh] || r.PM10 >= t[ThresholdPMHigh]) &&
					r.Humidity < t[ThresholdHumidityLow]
			},
		},
	}
}

// LabelRecord evaluates rules in order and returns the first match's label
// and rule name. No match labels Natural with an empty rule name.
//
// NaN comparisons are false, so records with missing distance or pollutant
// cells fall through proximity and concentration conditions rather than
// matching on a default.
func LabelRecord(r MonitoringRecord, rules []Rule, t Thresholds) (SourceLabel, string) {
	for _, rule := range rules {
		if rule.Match(r, t) {
			return rule.Label, rule.Name
		}
	}
	return Natural, ""
}

// Distribution counts labels per class.
func Distribution(labels []SourceLabel) map[SourceLabel]int {
	counts := make(map[SourceLabel]int)
	for _, l := range labels {
		counts[l]++
	}
	return counts
}

// Dominant returns the most frequent label and its fraction of the total.
// Ties resolve to the earlier label in the fixed label order.
func Dominant(counts map[SourceLabel]int, total int) (SourceLabel, float64) {
	if total == 0 {
		return Natural, 0
	}
	var best SourceLabel
	bestCount := -1
	for _, l := range Labels() {
		if counts[l] > bestCount {
			best = l
			bestCount = counts[l]
		}
	}
	return best, float64(bestCount) / float64(total)
}
