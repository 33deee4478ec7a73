// Package domain models the agronomic reference data behind crop recommendations.
//
// # Region baselines
//
// A baseline is a (temperature °C, relative humidity %, annual rainfall mm)
// triple keyed by the uppercase name of an Indian state or district, e.g.
// "KERALA" or "ERNAKULAM". District baselines are seeded from their parent
// state's entry; states without an entry fall back to [FallbackBaseline].
// Keys are produced by [RegionKey] so lookups are case-insensitive.
//
// # Region hierarchy
//
// States and their districts come from the India location API. Every response
// is wrapped in an envelope:
//
//	{"success": true, "data": {"states": [{"name": "Kerala", ...}]}}
//	{"success": true, "data": {"districts": [{"name": "Ernakulam", ...}]}}
//
// [Region] keeps the raw JSON of each item so cached responses round-trip
// without losing fields this service does not read.
//
// # Crop parameter ranges
//
// Each crop declares a closed (min, max) interval for the seven model features,
// in this order:
//
//	N, P, K      soil nitrogen, phosphorus, potassium ratio (kg/ha)
//	temperature  °C
//	humidity     relative humidity %
//	ph           soil pH
//	rainfall     mm
//
// The table is static and drives synthetic training data generation; see
// [CropRanges].
package domain
