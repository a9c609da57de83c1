package render

import (
	"io"

	"github.com/devandanger/firebase-utils/core/diff"
	"github.com/devandanger/firebase-utils/core/reconcile"

	"github.com/olekukonko/tablewriter"
)

// TableDifferences writes differences as a side-by-side source/target
// table.
func TableDifferences(w io.Writer, diffs []diff.Difference) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Type", "Path", "Source", "Target"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, d := range diffs {
		table.Append(differenceRow(d))
	}
	table.Render()
}

// TableReport writes a collection report as a side-by-side table, one
// row per difference prefixed with its record key.
func TableReport(w io.Writer, report *reconcile.Report) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Key", "Type", "Path", "Source", "Target"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, e := range report.Added {
		table.Append([]string{e.Key, string(diff.TypeAdded), "", "", compactValue(e.Record)})
	}
	for _, e := range report.Removed {
		table.Append([]string{e.Key, string(diff.TypeRemoved), "", compactValue(e.Record), ""})
	}
	for _, e := range report.Changed {
		for _, d := range e.Differences {
			table.Append(append([]string{e.Key}, differenceRow(d)...))
		}
	}
	table.Render()
}

func differenceRow(d diff.Difference) []string {
	path := d.Path
	switch d.Type {
	case diff.TypeAdded:
		return []string{string(d.Type), path, "", compactValue(d.Value)}
	case diff.TypeRemoved:
		return []string{string(d.Type), path, compactValue(d.Value), ""}
	default:
		return []string{string(d.Type), path, compactValue(d.OldValue), compactValue(d.NewValue)}
	}
}
