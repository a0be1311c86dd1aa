// Command genmock generates a synthetic processed monitoring CSV for test
// and demo runs. Stations are scattered around a city center, distances to
// the nearest road, industrial zone, farm belt, and dump site are geodesic,
// and pollutant readings are drawn from per-source archetypes so the rule
// engine produces a mixed label distribution.
//
// Usage:
//
//	go run ./cmd/genmock -out data/processed_data.csv -stations 12 -samples 24
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/urbanairlab/source-attribution/internal/domain"
)

// City center the synthetic network is scattered around.
var center = orb.Point{77.209, 28.614}

var startTime = time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)

type station struct {
	id   string
	name string
	loc  orb.Point

	roadKM       float64
	industrialKM float64
	farmKM       float64
	dumpKM       float64
}

// archetype biases a sample's readings toward one pollution source.
type archetype struct {
	name     string
	pm25     [2]float64 // sampled uniformly from [min, max)
	pm10     [2]float64
	no2      [2]float64
	co       [2]float64
	so2      [2]float64
	o3       [2]float64
	humidity [2]float64
	weight   int
}

var archetypes = []archetype{
	{name: "background", pm25: [2]float64{8, 45}, pm10: [2]float64{15, 70}, no2: [2]float64{10, 50},
		co: [2]float64{0.2, 1.0}, so2: [2]float64{2, 25}, o3: [2]float64{20, 60},
		humidity: [2]float64{45, 85}, weight: 4},
	{name: "traffic", pm25: [2]float64{40, 110}, pm10: [2]float64{60, 160}, no2: [2]float64{85, 180},
		co: [2]float64{1.0, 4.0}, so2: [2]float64{5, 30}, o3: [2]float64{15, 45},
		humidity: [2]float64{40, 75}, weight: 3},
	{name: "smokestack", pm25: [2]float64{50, 130}, pm10: [2]float64{70, 180}, no2: [2]float64{30, 70},
		co: [2]float64{0.5, 2.0}, so2: [2]float64{55, 140}, o3: [2]float64{15, 40},
		humidity: [2]float64{40, 75}, weight: 2},
	{name: "field_burn", pm25: [2]float64{105, 260}, pm10: [2]float64{130, 320}, no2: [2]float64{20, 60},
		co: [2]float64{0.8, 3.0}, so2: [2]float64{5, 30}, o3: [2]float64{10, 35},
		humidity: [2]float64{15, 38}, weight: 2},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "data/processed_data.csv", "output path for the processed CSV")
	stations := flag.Int("stations", 12, "number of monitoring stations")
	samples := flag.Int("samples", 24, "hourly samples per station")
	seed := flag.Int64("seed", 42, "random seed")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	net := buildNetwork(rng, *stations)
	rows := generateRows(rng, net, *samples)

	if err := writeCSV(*out, rows); err != nil {
		return fmt.Errorf("writing %s: %w", *out, err)
	}
	log.Printf("wrote %d rows for %d stations: %s", len(rows)-1, len(net), *out)

	printStats(rows)
	return nil
}

// buildNetwork places stations and computes their geodesic distance to the
// nearest piece of each infrastructure kind.
func buildNetwork(rng *rand.Rand, n int) []station {
	roads := scatter(rng, 30, 0.25)
	industrial := scatter(rng, 6, 0.30)
	farms := scatter(rng, 8, 0.35)
	dumps := scatter(rng, 4, 0.30)

	out := make([]station, n)
	for i := range out {
		loc := jitter(rng, center, 0.20)
		name := fmt.Sprintf("station-%02d", i+1)
		out[i] = station{
			// SHA1-namespace UUIDs keep IDs stable across regenerations.
			id:           uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String(),
			name:         name,
			loc:          loc,
			roadKM:       nearestKM(loc, roads),
			industrialKM: nearestKM(loc, industrial),
			farmKM:       nearestKM(loc, farms),
			dumpKM:       nearestKM(loc, dumps),
		}
	}
	return out
}

func scatter(rng *rand.Rand, n int, spread float64) []orb.Point {
	pts := make([]orb.Point, n)
	for i := range pts {
		pts[i] = jitter(rng, center, spread)
	}
	return pts
}

func jitter(rng *rand.Rand, p orb.Point, spread float64) orb.Point {
	return orb.Point{
		p[0] + (rng.Float64()*2-1)*spread,
		p[1] + (rng.Float64()*2-1)*spread,
	}
}

func nearestKM(from orb.Point, to []orb.Point) float64 {
	best := geo.Distance(from, to[0])
	for _, p := range to[1:] {
		if d := geo.Distance(from, p); d < best {
			best = d
		}
	}
	return best / 1000
}

func generateRows(rng *rand.Rand, net []station, samples int) [][]string {
	rows := [][]string{{
		"location_id", "location_name", "latitude", "longitude", "timestamp",
		"pm25", "pm10", "no2", "co", "so2", "o3",
		"temperature", "humidity", "wind_speed", "wind_direction",
		"roads_dist_km", "industrial_zones_dist_km", "agricultural_fields_dist_km", "dump_sites_dist_km",
		"hour", "dayofweek", "month", "season",
	}}

	for _, st := range net {
		for s := 0; s < samples; s++ {
			ts := startTime.Add(time.Duration(s) * time.Hour)
			a := pickArchetype(rng)
			rows = append(rows, []string{
				st.id, st.name,
				fmt.Sprintf("%.5f", st.loc[1]), fmt.Sprintf("%.5f", st.loc[0]),
				ts.Format(time.RFC3339),
				draw(rng, a.pm25), draw(rng, a.pm10), draw(rng, a.no2),
				draw(rng, a.co), draw(rng, a.so2), draw(rng, a.o3),
				draw(rng, [2]float64{18, 42}),
				draw(rng, a.humidity),
				draw(rng, [2]float64{0.5, 8}),
				draw(rng, [2]float64{0, 360}),
				fmt.Sprintf("%.3f", st.roadKM),
				fmt.Sprintf("%.3f", st.industrialKM),
				fmt.Sprintf("%.3f", st.farmKM),
				fmt.Sprintf("%.3f", st.dumpKM),
				fmt.Sprintf("%d", ts.Hour()),
				fmt.Sprintf("%d", int(ts.Weekday())),
				fmt.Sprintf("%d", int(ts.Month())),
				seasonOf(ts.Month()),
			})
		}
	}
	return rows
}

func pickArchetype(rng *rand.Rand) archetype {
	total := 0
	for _, a := range archetypes {
		total += a.weight
	}
	r := rng.Intn(total)
	for _, a := range archetypes {
		if r < a.weight {
			return a
		}
		r -= a.weight
	}
	return archetypes[0]
}

func draw(rng *rand.Rand, bounds [2]float64) string {
	return fmt.Sprintf("%.2f", bounds[0]+rng.Float64()*(bounds[1]-bounds[0]))
}

func seasonOf(m time.Month) string {
	switch {
	case m >= time.March && m <= time.May:
		return "summer"
	case m >= time.June && m <= time.September:
		return "monsoon"
	case m >= time.October && m <= time.November:
		return "autumn"
	}
	return "winter"
}

func writeCSV(path string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// printStats labels the generated rows with the stock rules and prints the
// resulting distribution, for updating test assertions.
func printStats(rows [][]string) {
	header := rows[0]
	idx := map[string]int{}
	for i, h := range header {
		idx[h] = i
	}
	cell := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	rules := domain.DefaultRules()
	thresholds := domain.DefaultThresholds()
	counts := map[domain.SourceLabel]int{}
	byRule := map[string]int{}

	for _, row := range rows[1:] {
		rec := domain.MonitoringRecord{
			PM25:           domain.ParseCell(cell(row, domain.ColPM25)),
			PM10:           domain.ParseCell(cell(row, domain.ColPM10)),
			NO2:            domain.ParseCell(cell(row, domain.ColNO2)),
			CO:             domain.ParseCell(cell(row, domain.ColCO)),
			SO2:            domain.ParseCell(cell(row, domain.ColSO2)),
			O3:             domain.ParseCell(cell(row, domain.ColO3)),
			Humidity:       domain.ParseCell(cell(row, domain.ColHumidity)),
			Season:         cell(row, domain.ColSeason),
			RoadDist:       domain.ParseCell(cell(row, domain.ColRoadDist)),
			IndustrialDist: domain.ParseCell(cell(row, domain.ColIndustrialDist)),
			FarmDist:       domain.ParseCell(cell(row, domain.ColFarmDist)),
		}
		label, rule := domain.LabelRecord(rec, rules, thresholds)
		counts[label]++
		if rule != "" {
			byRule[rule]++
		}
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", len(rows)-1)
	for _, label := range domain.Labels() {
		fmt.Printf("%s: %d\n", label, counts[label])
	}
	fmt.Printf("Rule hits: industrial=%d vehicular=%d agricultural=%d burning=%d\n",
		byRule["industrial"], byRule["vehicular"], byRule["agricultural"], byRule["burning"])

	total := len(rows) - 1
	if total > 0 {
		dominant, fraction := domain.Dominant(counts, total)
		fmt.Printf("Dominant: %s (%.2f)\n", dominant, fraction)
	}
}
