package render

import (
	"fmt"
	"io"

	"github.com/devandanger/firebase-utils/core/diff"
	"github.com/devandanger/firebase-utils/core/reconcile"

	"github.com/fatih/color"
)

var (
	addedLine   = color.New(color.FgGreen).FprintfFunc()
	removedLine = color.New(color.FgRed).FprintfFunc()
	changedLine = color.New(color.FgYellow).FprintfFunc()
)

// PrettyDifferences writes one colored line per difference:
// + for added, - for removed, ~ for changed.
func PrettyDifferences(w io.Writer, diffs []diff.Difference) {
	if len(diffs) == 0 {
		fmt.Fprintln(w, "No differences found.")
		return
	}

	for _, d := range diffs {
		path := d.Path
		if path == "" {
			path = "(document)"
		}
		switch d.Type {
		case diff.TypeAdded:
			addedLine(w, "+ %s: %s\n", path, compactValue(d.Value))
		case diff.TypeRemoved:
			removedLine(w, "- %s: %s\n", path, compactValue(d.Value))
		case diff.TypeChanged:
			changedLine(w, "~ %s: %s -> %s\n", path, compactValue(d.OldValue), compactValue(d.NewValue))
		}
	}
}

// PrettyReport writes a collection report grouped by category, keys in
// report order (already sorted).
func PrettyReport(w io.Writer, report *reconcile.Report) {
	if !report.HasDifferences() {
		fmt.Fprintln(w, "Collections are identical.")
		return
	}

	for _, e := range report.Added {
		addedLine(w, "+ %s\n", e.Key)
	}
	for _, e := range report.Removed {
		removedLine(w, "- %s\n", e.Key)
	}
	for _, e := range report.Changed {
		changedLine(w, "~ %s\n", e.Key)
		for _, d := range e.Differences {
			switch d.Type {
			case diff.TypeAdded:
				addedLine(w, "    + %s: %s\n", d.Path, compactValue(d.Value))
			case diff.TypeRemoved:
				removedLine(w, "    - %s: %s\n", d.Path, compactValue(d.Value))
			case diff.TypeChanged:
				changedLine(w, "    ~ %s: %s -> %s\n", d.Path, compactValue(d.OldValue), compactValue(d.NewValue))
			}
		}
	}

	fmt.Fprintf(w, "\n%d added, %d removed, %d changed\n",
		len(report.Added), len(report.Removed), len(report.Changed))
}
