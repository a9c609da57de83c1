// Package utils provides small type-conversion helpers shared by the
// normalizer and the filter parser.
package utils
