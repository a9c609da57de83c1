package canonical

import (
	"encoding/base64"
	"encoding/json"
	"time"
)

// Tag identifies one of the special value types recognized by the
// normalizer. The set is closed: unrecognized shapes fall through as
// ordinary mappings.
type Tag string

const (
	// TagTimestamp is a Firestore timestamp (time instant).
	TagTimestamp Tag = "timestamp"
	// TagGeoPoint is a latitude/longitude coordinate.
	TagGeoPoint Tag = "geopoint"
	// TagReference is a pointer to another document.
	TagReference Tag = "reference"
	// TagBytes is an opaque binary blob.
	TagBytes Tag = "bytes"
	// TagDate is a generic wall-clock date value, distinct from the
	// store's timestamp type.
	TagDate Tag = "date"
)

// Tagged is an atomic, type-discriminated value. Tagged values are always
// compared as a single unit: two Tagged values are either equal or wholly
// changed, their fields are never individually diffed.
type Tagged struct {
	// Tag discriminates the value type.
	Tag Tag
	// Fields holds the fixed per-tag field set (see the constructors).
	Fields map[string]any
}

// MarshalJSON emits the tagged value as a flat object with a "type"
// discriminator. encoding/json sorts the keys, keeping output stable.
func (t *Tagged) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.asMap())
}

// MarshalYAML mirrors MarshalJSON for the YAML renderers, which also
// sort map keys.
func (t *Tagged) MarshalYAML() (any, error) {
	return t.asMap(), nil
}

func (t *Tagged) asMap() map[string]any {
	m := make(map[string]any, len(t.Fields)+1)
	m["type"] = string(t.Tag)
	for k, v := range t.Fields {
		m[k] = v
	}
	return m
}

// NewTimestamp builds the canonical form of a time instant.
func NewTimestamp(ts time.Time) *Tagged {
	ts = ts.UTC()
	return &Tagged{
		Tag: TagTimestamp,
		Fields: map[string]any{
			"seconds":     float64(ts.Unix()),
			"nanoseconds": float64(ts.Nanosecond()),
			"iso":         ts.Format(time.RFC3339Nano),
		},
	}
}

// NewGeoPoint builds the canonical form of a coordinate.
func NewGeoPoint(lat, lng float64) *Tagged {
	return &Tagged{
		Tag: TagGeoPoint,
		Fields: map[string]any{
			"latitude":  lat,
			"longitude": lng,
		},
	}
}

// NewReference builds the canonical form of a document reference.
// The id is the last segment of the reference path.
func NewReference(path string) *Tagged {
	id := path
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			id = path[i+1:]
			break
		}
	}
	return &Tagged{
		Tag: TagReference,
		Fields: map[string]any{
			"path": path,
			"id":   id,
		},
	}
}

// NewBytes builds the canonical form of a binary blob.
func NewBytes(b []byte) *Tagged {
	return &Tagged{
		Tag: TagBytes,
		Fields: map[string]any{
			"base64": base64.StdEncoding.EncodeToString(b),
			"length": float64(len(b)),
		},
	}
}

// NewDate builds the canonical form of a generic date/time value.
func NewDate(ts time.Time) *Tagged {
	ts = ts.UTC()
	return &Tagged{
		Tag: TagDate,
		Fields: map[string]any{
			"iso":         ts.Format(time.RFC3339Nano),
			"epochMillis": float64(ts.UnixMilli()),
		},
	}
}

// GeoPoint is a raw latitude/longitude pair as produced by the fetch
// layer, before normalization tags it.
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// DocRef is a raw document reference as produced by the fetch layer.
type DocRef struct {
	// Path is the full document path, e.g. "users/u1".
	Path string
}

// Date is a raw wall-clock date value as produced by the fetch layer.
// It is kept distinct from time.Time so the normalizer can tell a store
// timestamp apart from a generic date.
type Date struct {
	Time time.Time
}

// Kind classifies a canonical value for the differ's traversal.
type Kind int

const (
	// KindNull is nil or an absent value.
	KindNull Kind = iota
	// KindScalar is a string, number or boolean.
	KindScalar
	// KindTagged is an atomic special value.
	KindTagged
	// KindArray is an ordered sequence, compared atomically.
	KindArray
	// KindMapping is a string-keyed object, the only recursed structure.
	KindMapping
	// KindOpaque is a non-canonical leftover (function, channel, custom
	// struct) that survived normalization. Opaque values equal nothing
	// but the same referenced value.
	KindOpaque
)

// KindOf reports the kind of a canonical value.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case string, float64, bool:
		return KindScalar
	case *Tagged:
		return KindTagged
	case []any:
		return KindArray
	case map[string]any:
		return KindMapping
	default:
		return KindOpaque
	}
}
