// Package reconcile matches two normalized record collections by key and
// partitions them into added, removed and changed sets.
//
// The engine builds a key index per side, computes the union of keys, and
// classifies each key: present on one side only (added/removed) or present
// on both (delegated to the structural differ; identical pairs are omitted
// from the report entirely). All output sequences are sorted by the string
// form of the key, so repeated runs over the same inputs produce identical
// reports regardless of input order.
//
// Keys are extracted by dotted-path descent into the canonical value
// (default path "_id"). Extraction never fails: an absent segment yields a
// nil key, which simply groups under the empty string form. Duplicate keys
// within one side are last-write-wins, a documented caveat pinned by test.
package reconcile
