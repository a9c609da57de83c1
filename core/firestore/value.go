package firestore

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/devandanger/firebase-utils/core/canonical"
)

// restValue is the wire form of a Firestore typed value. Exactly one
// field is set per value.
type restValue struct {
	NullValue      *struct{}     `json:"nullValue,omitempty"`
	BooleanValue   *bool         `json:"booleanValue,omitempty"`
	IntegerValue   *string       `json:"integerValue,omitempty"`
	DoubleValue    *float64      `json:"doubleValue,omitempty"`
	TimestampValue *string       `json:"timestampValue,omitempty"`
	StringValue    *string       `json:"stringValue,omitempty"`
	BytesValue     *string       `json:"bytesValue,omitempty"`
	ReferenceValue *string       `json:"referenceValue,omitempty"`
	GeoPointValue  *restGeoPoint `json:"geoPointValue,omitempty"`
	ArrayValue     *restArray    `json:"arrayValue,omitempty"`
	MapValue       *restMap      `json:"mapValue,omitempty"`
}

type restGeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type restArray struct {
	Values []restValue `json:"values,omitempty"`
}

type restMap struct {
	Fields map[string]restValue `json:"fields,omitempty"`
}

// decodeValue converts a wire value into the raw Go value the normalizer
// recognizes. Integer values arrive as decimal strings on the wire.
func decodeValue(v restValue) (any, error) {
	switch {
	case v.BooleanValue != nil:
		return *v.BooleanValue, nil
	case v.IntegerValue != nil:
		n, err := strconv.ParseInt(*v.IntegerValue, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed integerValue %q: %w", *v.IntegerValue, err)
		}
		return n, nil
	case v.DoubleValue != nil:
		return *v.DoubleValue, nil
	case v.TimestampValue != nil:
		ts, err := time.Parse(time.RFC3339Nano, *v.TimestampValue)
		if err != nil {
			return nil, fmt.Errorf("malformed timestampValue %q: %w", *v.TimestampValue, err)
		}
		return ts, nil
	case v.StringValue != nil:
		return *v.StringValue, nil
	case v.BytesValue != nil:
		b, err := base64.StdEncoding.DecodeString(*v.BytesValue)
		if err != nil {
			return nil, fmt.Errorf("malformed bytesValue: %w", err)
		}
		return b, nil
	case v.ReferenceValue != nil:
		return canonical.DocRef{Path: trimDatabasePrefix(*v.ReferenceValue)}, nil
	case v.GeoPointValue != nil:
		return canonical.GeoPoint{Latitude: v.GeoPointValue.Latitude, Longitude: v.GeoPointValue.Longitude}, nil
	case v.ArrayValue != nil:
		out := make([]any, len(v.ArrayValue.Values))
		for i, elem := range v.ArrayValue.Values {
			decoded, err := decodeValue(elem)
			if err != nil {
				return nil, err
			}
			out[i] = decoded
		}
		return out, nil
	case v.MapValue != nil:
		return decodeFields(v.MapValue.Fields)
	default:
		// nullValue or an empty value object.
		return nil, nil
	}
}

// decodeFields converts a wire field map into raw Go values.
func decodeFields(fields map[string]restValue) (map[string]any, error) {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		decoded, err := decodeValue(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		out[k] = decoded
	}
	return out, nil
}

// encodeValue converts a filter literal into its wire form. Only scalar
// literals occur in filters.
func encodeValue(v any) restValue {
	switch val := v.(type) {
	case nil:
		return restValue{NullValue: &struct{}{}}
	case bool:
		return restValue{BooleanValue: &val}
	case float64:
		// Integral literals encode as integers so they match
		// integer-typed fields in the store.
		if val == float64(int64(val)) {
			s := strconv.FormatInt(int64(val), 10)
			return restValue{IntegerValue: &s}
		}
		return restValue{DoubleValue: &val}
	case string:
		return restValue{StringValue: &val}
	default:
		s := fmt.Sprintf("%v", val)
		return restValue{StringValue: &s}
	}
}

// trimDatabasePrefix strips the "projects/P/databases/D/documents/"
// prefix from a document name, leaving the relative document path.
func trimDatabasePrefix(name string) string {
	const marker = "/documents/"
	if i := strings.Index(name, marker); i >= 0 {
		return name[i+len(marker):]
	}
	return name
}
