// Package firestore fetches documents and collections from the Firestore
// REST API and decodes typed field values into the raw Go values the
// normalizer recognizes (time.Time, canonical.GeoPoint, canonical.DocRef,
// []byte).
//
// The client is the only component that performs network I/O. Connection,
// authentication and decoding failures surface here, before the diff core
// ever runs; the core never sees a partially fetched record.
//
// # Streaming
//
// ListCollection buffers a full collection in memory. StreamCollection
// delivers records incrementally as pages arrive, for large collections
// whose normalization can proceed while fetching continues. Cancellation
// is cooperative through the context.
package firestore
