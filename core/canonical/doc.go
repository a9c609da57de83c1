// Package canonical converts raw Firestore values into the canonical
// representation used by the diff engine.
//
// A canonical value is one of:
//   - nil
//   - a scalar (string, float64, bool)
//   - a *Tagged value (timestamp, geopoint, reference, bytes, date)
//   - a []any array, element order preserved
//   - a map[string]any mapping, the only structure the differ recurses into
//
// Normalization is idempotent and pure: normalizing an already-canonical
// value yields an equal value, and inputs are never mutated.
//
// # Determinism
//
// Go maps iterate in random order, so deterministic output is achieved by
// sorting keys wherever order becomes observable: encoding/json sorts map
// keys on serialization, and the differ sorts key unions before emitting
// difference records. Numbers are normalized to float64 (the JSON number
// space); integers above 2^53 lose precision, a documented caveat.
//
// # Depth limit
//
// Normalization truncates at a fixed depth with a sentinel string instead
// of following circular references forever. See MaxDepth.
package canonical
