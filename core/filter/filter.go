// Package filter parses query predicate strings of the form
// "field op value" into structured filters the Firestore client can
// compile into structured queries.
package filter

import (
	"fmt"
	"strconv"
	"strings"
)

// Op is a comparison operator.
type Op string

const (
	OpEqual        Op = "=="
	OpNotEqual     Op = "!="
	OpLess         Op = "<"
	OpLessEqual    Op = "<="
	OpGreater      Op = ">"
	OpGreaterEqual Op = ">="
	OpIn           Op = "in"
	OpContains     Op = "contains"
)

// ops in longest-match-first order so "<=" wins over "<".
var ops = []Op{OpLessEqual, OpGreaterEqual, OpEqual, OpNotEqual, OpLess, OpGreater, OpIn, OpContains}

// Filter is one parsed field predicate.
type Filter struct {
	// Field is the dotted field path the predicate applies to.
	Field string
	// Op is the comparison operator.
	Op Op
	// Value is the literal operand: string, float64, bool or nil.
	Value any
}

// Parse parses a predicate of the form "field op value", e.g.
// `active == true`, `age >= 21`, `name == "John"`. Value literals are a
// quoted or bare string, a number, a boolean, or null.
func Parse(s string) (Filter, error) {
	for _, op := range ops {
		field, value, ok := split(s, op)
		if !ok {
			continue
		}
		if field == "" {
			return Filter{}, fmt.Errorf("filter %q: missing field", s)
		}
		if value == "" {
			return Filter{}, fmt.Errorf("filter %q: missing value", s)
		}
		return Filter{Field: field, Op: op, Value: parseLiteral(value)}, nil
	}
	return Filter{}, fmt.Errorf("filter %q: no operator found (expected one of ==, !=, <, <=, >, >=, in, contains)", s)
}

// ParseAll parses a list of predicate strings, failing on the first
// malformed one.
func ParseAll(exprs []string) ([]Filter, error) {
	filters := make([]Filter, 0, len(exprs))
	for _, expr := range exprs {
		f, err := Parse(expr)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return filters, nil
}

// split cuts s around the first occurrence of op that is surrounded the
// way an operator should be. Word operators (in, contains) must be
// whitespace-delimited so a field named "inactive" doesn't match "in".
func split(s string, op Op) (field, value string, ok bool) {
	sep := string(op)
	if op == OpIn || op == OpContains {
		sep = " " + sep + " "
	}
	idx := strings.Index(s, sep)
	if idx < 0 {
		return "", "", false
	}
	return strings.TrimSpace(s[:idx]), strings.TrimSpace(s[idx+len(sep):]), true
}

// parseLiteral interprets a value literal. Quoted strings keep their
// exact contents; bare tokens try bool, null and number before falling
// back to string.
func parseLiteral(s string) any {
	if len(s) >= 2 && (s[0] == '"' && s[len(s)-1] == '"' || s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	switch s {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
