// Package diff computes path-addressed structural differences between two
// canonical values. It recurses into plain mappings only; arrays and
// tagged special values are compared as atomic units.
package diff

import (
	"sort"

	"github.com/devandanger/firebase-utils/core/canonical"
)

// Type classifies a single difference.
type Type string

const (
	// TypeAdded means the value exists only on the target side.
	TypeAdded Type = "added"
	// TypeRemoved means the value exists only on the source side.
	TypeRemoved Type = "removed"
	// TypeChanged means both sides hold unequal values.
	TypeChanged Type = "changed"
)

// Difference is one path-addressed add/remove/change entry. Path segments
// are joined by "."; keys containing a dot are not escaped, a documented
// limitation. An empty path addresses the whole value.
type Difference struct {
	// Type is the difference classification.
	Type Type `json:"type"`
	// Path is the dotted field path to the differing value.
	Path string `json:"path"`
	// Value is the present side's value for added/removed entries.
	Value any `json:"value,omitempty"`
	// OldValue is the source-side value for changed entries.
	OldValue any `json:"old_value,omitempty"`
	// NewValue is the target-side value for changed entries.
	NewValue any `json:"new_value,omitempty"`
}

// Compare returns the ordered differences between two canonical values.
// An empty result means the values are deeply equal. Output ordering is
// deterministic: key unions are sorted before emission, so repeated runs
// over the same inputs produce identical sequences. Pure total function;
// never returns an error.
func Compare(a, b any) []Difference {
	if canonical.Equal(a, b) {
		return nil
	}

	if a == nil {
		return []Difference{{Type: TypeAdded, Path: "", Value: b}}
	}
	if b == nil {
		return []Difference{{Type: TypeRemoved, Path: "", Value: a}}
	}

	ma, aOK := a.(map[string]any)
	mb, bOK := b.(map[string]any)
	if !aOK || !bOK {
		// Scalars, arrays, tagged values and type mismatches compare
		// atomically.
		return []Difference{{Type: TypeChanged, Path: "", OldValue: a, NewValue: b}}
	}

	var out []Difference
	compareMappings(ma, mb, "", &out)
	return out
}

// compareMappings walks the sorted union of keys of two mappings,
// appending one record per added, removed or changed key and recursing
// where both sides hold unequal plain mappings.
func compareMappings(a, b map[string]any, prefix string, out *[]Difference) {
	keys := unionKeys(a, b)

	for _, k := range keys {
		p := k
		if prefix != "" {
			p = prefix + "." + k
		}

		va, inA := a[k]
		vb, inB := b[k]

		switch {
		case !inA:
			*out = append(*out, Difference{Type: TypeAdded, Path: p, Value: vb})
		case !inB:
			*out = append(*out, Difference{Type: TypeRemoved, Path: p, Value: va})
		case canonical.Equal(va, vb):
			// Unchanged.
		default:
			na, aIsMap := va.(map[string]any)
			nb, bIsMap := vb.(map[string]any)
			if aIsMap && bIsMap {
				compareMappings(na, nb, p, out)
				continue
			}
			*out = append(*out, Difference{Type: TypeChanged, Path: p, OldValue: va, NewValue: vb})
		}
	}
}

func unionKeys(a, b map[string]any) []string {
	keys := make([]string, 0, len(a)+len(b))
	for k := range a {
		keys = append(keys, k)
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
