package canonical

import (
	"sort"
	"strings"
	"time"

	"github.com/devandanger/firebase-utils/core/utils"
)

// MaxDepth bounds the recursion of Normalize. Trees deeper than this
// (including circular references, which would otherwise never terminate)
// are truncated with the DepthSentinel string in place of the subtree.
const MaxDepth = 64

// DepthSentinel replaces subtrees below MaxDepth.
const DepthSentinel = "<max depth exceeded>"

// Options controls field projection during normalization.
type Options struct {
	// Fields is an allow-list of object keys to keep. Empty means keep
	// everything. Applied at every object level.
	Fields []string
	// IgnoreFields is a deny-list of object keys to drop, applied at
	// every object level. If a key is both allowed and ignored, ignore
	// wins.
	IgnoreFields []string
	// IncludeMetadata injects the record's provenance under _metadata in
	// NormalizeDocument. Off by default so metadata never produces
	// differences.
	IncludeMetadata bool
}

func (o Options) keep(key string) bool {
	for _, f := range o.IgnoreFields {
		if f == key {
			return false
		}
	}
	if len(o.Fields) == 0 {
		return true
	}
	for _, f := range o.Fields {
		if f == key {
			return true
		}
	}
	return false
}

// Normalize converts an arbitrary JSON-like value into its canonical
// form: special scalar types become Tagged values, numbers become
// float64, arrays keep their order, and objects are projected through the
// options' field lists. Pure function; the input is never mutated.
func Normalize(v any, opts Options) any {
	return normalize(v, opts, 0)
}

func normalize(v any, opts Options, depth int) any {
	if depth > MaxDepth {
		return DepthSentinel
	}

	switch val := v.(type) {
	case nil:
		return nil
	case string, bool, float64:
		return val
	case *Tagged:
		// Already canonical; normalization is idempotent.
		return val
	case time.Time:
		return NewTimestamp(val)
	case GeoPoint:
		return NewGeoPoint(val.Latitude, val.Longitude)
	case *GeoPoint:
		return NewGeoPoint(val.Latitude, val.Longitude)
	case DocRef:
		return NewReference(val.Path)
	case *DocRef:
		return NewReference(val.Path)
	case []byte:
		return NewBytes(val)
	case Date:
		return NewDate(val.Time)
	case *Date:
		return NewDate(val.Time)
	case []any:
		// Element order is significant and preserved; arrays are never
		// sorted.
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = normalize(elem, opts, depth+1)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			if !opts.keep(k) {
				continue
			}
			out[k] = normalize(elem, opts, depth+1)
		}
		return out
	default:
		if f, ok := utils.ToFloat64(val); ok {
			return f
		}
		// Non-serializable leftovers (functions, channels, custom
		// structs) pass through untouched and compare by reference.
		return val
	}
}

// Document is one comparable unit handed to the normalizer by the fetch
// layer: an identifier, the raw value tree, and optional provenance.
type Document struct {
	// ID is the document identifier. May be empty for anonymous
	// documents.
	ID string
	// Data is the raw value tree.
	Data any
	// Metadata is optional creation/update provenance. Ignored during
	// comparison unless Options.IncludeMetadata is set.
	Metadata any
}

// NormalizeDocument normalizes a document's data and injects the _id key
// (and _metadata, when requested) into the result. A nil document
// normalizes to nil. Non-mapping data is wrapped under a _data key so the
// injected keys always have a mapping to live in.
func NormalizeDocument(doc *Document, opts Options) any {
	if doc == nil {
		return nil
	}

	normalized := Normalize(doc.Data, opts)
	m, ok := normalized.(map[string]any)
	if !ok {
		m = map[string]any{"_data": normalized}
	}

	m["_id"] = doc.ID
	if opts.IncludeMetadata && doc.Metadata != nil {
		m["_metadata"] = Normalize(doc.Metadata, Options{})
	}
	return m
}

// NormalizeCollection normalizes every document and sorts the result for
// deterministic reconciliation: by the value at keyPath when one is
// configured (ascending, absent keys last), otherwise by _id ascending.
func NormalizeCollection(docs []*Document, opts Options, keyPath string) []any {
	out := make([]any, 0, len(docs))
	for _, doc := range docs {
		if v := NormalizeDocument(doc, opts); v != nil {
			out = append(out, v)
		}
	}
	SortCollection(out, keyPath)
	return out
}

// SortCollection sorts already-normalized collection values in place by
// the key at keyPath (ascending, absent keys last; empty path means
// _id). Streaming consumers normalize records as they arrive and sort
// once both streams have drained.
func SortCollection(values []any, keyPath string) {
	path := keyPath
	if path == "" {
		path = "_id"
	}

	sort.SliceStable(values, func(i, j int) bool {
		ki, kj := KeyAt(values[i], path), KeyAt(values[j], path)
		// Absent keys sort last.
		if ki == nil {
			return false
		}
		if kj == nil {
			return true
		}
		return utils.ToString(ki) < utils.ToString(kj)
	})
}

// KeyAt resolves a dotted path into a canonical value by sequential
// property descent. Any absent segment, or descent into a non-mapping,
// yields nil rather than an error so key extraction never aborts a
// reconciliation.
func KeyAt(v any, path string) any {
	cur := v
	for _, seg := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = m[seg]
		if !ok {
			return nil
		}
	}
	return cur
}
