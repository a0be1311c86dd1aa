// Package domain models air-quality monitoring records and the heuristics
// that attribute a pollution source to each one.
//
// # Data Source
//
// Monitoring records arrive as a processed CSV table produced by the upstream
// cleaning stage, one row per station and timestamp. Pollutant concentrations
// (pm25, pm10, no2, co, so2, o3) are in µg/m³; weather attributes come from
// the weather collector; proximity features are geodesic distances in
// kilometres from the station to the nearest geographic feature of each kind
// (roads, industrial_zones, agricultural_fields, dump_sites), named
// "<feature>_dist_km". A missing distance cell means the feature inventory
// had no match within range and is treated as "not near".
//
// # Source Attribution
//
// Each record gets exactly one label from the fixed five-value set:
//
//	Vehicular    near a main road with elevated NO2
//	Industrial   near an industrial zone with elevated SO2
//	Agricultural near farmland in the dry season with elevated PM
//	Burning      elevated PM under low humidity
//	Natural      no rule matched
//
// Rules are evaluated in declaration order and the first match wins. The
// default order ranks Industrial above Vehicular above Agricultural above
// Burning, so a record satisfying several conditions resolves to the
// highest-ranked source. Thresholds are named values supplied by
// configuration, not literals in the rules.
//
// # Provenance
//
// When the real label distribution is dominated by Natural, under-represented
// classes are backfilled with simulated records: seeded perturbations of real
// rows (or class-conditional templates) that re-label to the target class.
// Simulated rows always carry provenance "simulated" so downstream reporting
// can tell them from observed data.
package domain
