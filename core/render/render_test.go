package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/devandanger/firebase-utils/core/canonical"
	"github.com/devandanger/firebase-utils/core/diff"
	"github.com/devandanger/firebase-utils/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"json", "yaml", "pretty", "table"} {
		f, err := ParseFormat(s)
		require.NoError(t, err)
		assert.Equal(t, Format(s), f)
	}

	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestJSON_StableKeyOrder(t *testing.T) {
	value := map[string]any{
		"zebra": 1.0,
		"apple": 2.0,
		"mango": map[string]any{"b": true, "a": false},
	}

	var first bytes.Buffer
	require.NoError(t, JSON(&first, value))
	for i := 0; i < 20; i++ {
		var again bytes.Buffer
		require.NoError(t, JSON(&again, value))
		assert.Equal(t, first.String(), again.String())
	}

	out := first.String()
	assert.Less(t, strings.Index(out, "apple"), strings.Index(out, "mango"))
	assert.Less(t, strings.Index(out, "mango"), strings.Index(out, "zebra"))
}

func TestJSON_TaggedValue(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, canonical.NewGeoPoint(48.85, 2.35)))

	out := buf.String()
	assert.Contains(t, out, `"type": "geopoint"`)
	assert.Contains(t, out, `"latitude": 48.85`)
}

func TestYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, YAML(&buf, map[string]any{"name": "Ada", "age": 36.0}))

	out := buf.String()
	assert.Contains(t, out, "name: Ada")
	assert.Contains(t, out, "age: 36")
}

func TestPrettyDifferences(t *testing.T) {
	var buf bytes.Buffer
	PrettyDifferences(&buf, []diff.Difference{
		{Type: diff.TypeAdded, Path: "email", Value: "ada@example.com"},
		{Type: diff.TypeRemoved, Path: "nickname", Value: "ada"},
		{Type: diff.TypeChanged, Path: "age", OldValue: 30.0, NewValue: 31.0},
	})

	out := buf.String()
	assert.Contains(t, out, `+ email: "ada@example.com"`)
	assert.Contains(t, out, `- nickname: "ada"`)
	assert.Contains(t, out, "~ age: 30 -> 31")
}

func TestPrettyDifferences_Empty(t *testing.T) {
	var buf bytes.Buffer
	PrettyDifferences(&buf, nil)
	assert.Equal(t, "No differences found.\n", buf.String())
}

func TestPrettyDifferences_WholeDocument(t *testing.T) {
	var buf bytes.Buffer
	PrettyDifferences(&buf, []diff.Difference{
		{Type: diff.TypeRemoved, Path: "", Value: map[string]any{"_id": "u1"}},
	})
	assert.Contains(t, buf.String(), "- (document):")
}

func TestPrettyReport(t *testing.T) {
	report := &reconcile.Report{
		Added:   []reconcile.Entry{{Key: "u3", Record: map[string]any{"_id": "u3"}}},
		Removed: []reconcile.Entry{{Key: "u1", Record: map[string]any{"_id": "u1"}}},
		Changed: []reconcile.ChangedEntry{{
			Key: "u2",
			Differences: []diff.Difference{
				{Type: diff.TypeChanged, Path: "name", OldValue: "Grace", NewValue: "Grace Hopper"},
			},
		}},
	}

	var buf bytes.Buffer
	PrettyReport(&buf, report)

	out := buf.String()
	assert.Contains(t, out, "+ u3")
	assert.Contains(t, out, "- u1")
	assert.Contains(t, out, "~ u2")
	assert.Contains(t, out, `~ name: "Grace" -> "Grace Hopper"`)
	assert.Contains(t, out, "1 added, 1 removed, 1 changed")
}

func TestPrettyReport_Identical(t *testing.T) {
	var buf bytes.Buffer
	PrettyReport(&buf, &reconcile.Report{
		Added:   []reconcile.Entry{},
		Removed: []reconcile.Entry{},
		Changed: []reconcile.ChangedEntry{},
	})
	assert.Equal(t, "Collections are identical.\n", buf.String())
}

func TestTableDifferences(t *testing.T) {
	var buf bytes.Buffer
	TableDifferences(&buf, []diff.Difference{
		{Type: diff.TypeChanged, Path: "age", OldValue: 30.0, NewValue: 31.0},
	})

	out := buf.String()
	assert.Contains(t, out, "PATH")
	assert.Contains(t, out, "age")
	assert.Contains(t, out, "30")
	assert.Contains(t, out, "31")
}

func TestTableReport(t *testing.T) {
	report := &reconcile.Report{
		Added: []reconcile.Entry{{Key: "u3", Record: map[string]any{"_id": "u3"}}},
		Changed: []reconcile.ChangedEntry{{
			Key: "u2",
			Differences: []diff.Difference{
				{Type: diff.TypeChanged, Path: "name", OldValue: "a", NewValue: "b"},
			},
		}},
	}

	var buf bytes.Buffer
	TableReport(&buf, report)

	out := buf.String()
	assert.Contains(t, out, "KEY")
	assert.Contains(t, out, "u3")
	assert.Contains(t, out, "u2")
	assert.Contains(t, out, "name")
}
