// Package compare orchestrates one comparison run: fetch both sides
// concurrently, normalize, then diff a document pair or reconcile a
// collection pair. Results are handed unchanged to the renderers and
// exporters, so everything in them is JSON-serializable with stable key
// ordering.
package compare
