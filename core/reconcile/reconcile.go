package reconcile

import (
	"sort"

	"github.com/devandanger/firebase-utils/core/canonical"
	"github.com/devandanger/firebase-utils/core/diff"
	"github.com/devandanger/firebase-utils/core/utils"
)

// DefaultKeyPath is the comparison key used when none is configured.
const DefaultKeyPath = "_id"

// Entry is one record present on a single side.
type Entry struct {
	// Key is the string form of the extracted comparison key.
	Key string `json:"key"`
	// Record is the record's canonical value.
	Record any `json:"record"`
}

// ChangedEntry is one key present on both sides whose records differ.
type ChangedEntry struct {
	// Key is the string form of the extracted comparison key.
	Key string `json:"key"`
	// Differences holds the structural differences between the pair.
	Differences []diff.Difference `json:"differences"`
}

// Report is the added/removed/changed partition over two keyed
// collections. All three sequences are sorted by key. A key appears in at
// most one of the three categories, and in changed only when the pair
// produced at least one difference.
type Report struct {
	// Added holds records present only in the target collection.
	Added []Entry `json:"added"`
	// Removed holds records present only in the source collection.
	Removed []Entry `json:"removed"`
	// Changed holds keys present in both collections with differences.
	Changed []ChangedEntry `json:"changed"`
}

// HasDifferences reports whether any of the three categories is
// non-empty.
func (r *Report) HasDifferences() bool {
	return len(r.Added) > 0 || len(r.Removed) > 0 || len(r.Changed) > 0
}

// Reconcile partitions two normalized collections by comparison key and
// runs the structural differ on every matched pair. keyPath is a dotted
// path into the canonical value; empty means DefaultKeyPath. Pure
// function over already-fetched, already-normalized collections.
func Reconcile(a, b []any, keyPath string) *Report {
	if keyPath == "" {
		keyPath = DefaultKeyPath
	}

	idxA := buildIndex(a, keyPath)
	idxB := buildIndex(b, keyPath)

	report := &Report{
		Added:   []Entry{},
		Removed: []Entry{},
		Changed: []ChangedEntry{},
	}

	for _, key := range unionKeys(idxA, idxB) {
		ra, inA := idxA[key]
		rb, inB := idxB[key]

		switch {
		case !inA:
			report.Added = append(report.Added, Entry{Key: key, Record: rb})
		case !inB:
			report.Removed = append(report.Removed, Entry{Key: key, Record: ra})
		default:
			if diffs := diff.Compare(ra, rb); len(diffs) > 0 {
				report.Changed = append(report.Changed, ChangedEntry{Key: key, Differences: diffs})
			}
			// Identical pairs are omitted entirely.
		}
	}

	return report
}

// buildIndex maps each record's key string to the record. Duplicate keys
// are last-write-wins in input order.
func buildIndex(records []any, keyPath string) map[string]any {
	idx := make(map[string]any, len(records))
	for _, rec := range records {
		key := utils.ToString(canonical.KeyAt(rec, keyPath))
		idx[key] = rec
	}
	return idx
}

// unionKeys returns the sorted union of keys from both indices. Sorting
// here fixes the report order; the per-category slices are appended in
// this order and need no second sort.
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
