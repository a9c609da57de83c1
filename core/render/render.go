// Package render turns diff results into the tool's output formats:
// machine-readable JSON/YAML with stable key ordering, a colored
// line-per-difference pretty format, and a side-by-side table.
package render

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Format selects an output format.
type Format string

const (
	// FormatJSON is indented JSON with sorted keys.
	FormatJSON Format = "json"
	// FormatYAML is YAML with sorted keys.
	FormatYAML Format = "yaml"
	// FormatPretty is a colored line-per-difference listing.
	FormatPretty Format = "pretty"
	// FormatTable is a side-by-side old/new table.
	FormatTable Format = "table"
)

// ParseFormat validates a format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatYAML, FormatPretty, FormatTable:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown format %q (expected json, yaml, pretty or table)", s)
	}
}

// JSON writes v as indented JSON. encoding/json sorts map keys, so
// canonical values serialize with stable ordering.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// YAML writes v as YAML. yaml.v3 sorts map keys on output.
func YAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}

// compactValue renders a canonical value as a single-line JSON string
// for pretty and table cells.
func compactValue(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
