package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"tanko/internal/plan"
)

// printPlan renders the full plan for review: the cover source, one table of
// batch folders, the per-file moves, and any warnings.
func printPlan(out io.Writer, p *plan.Plan) {
	fmt.Fprintf(out, "Series: %s\n", p.SeriesName)
	fmt.Fprintf(out, "Cover source: %s\n\n", p.Source.Describe())

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Folder", "Volumes", "Range"})
	for _, batch := range p.Batches {
		tw.AppendRow(table.Row{
			batch.Index,
			batch.Name,
			len(batch.Moves),
			fmt.Sprintf("v%03d-v%03d", batch.FirstVolume, batch.LastVolume),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	fmt.Fprintln(out, tw.Render())

	for _, batch := range p.Batches {
		for _, move := range batch.Moves {
			marker := " "
			if move.Renamed {
				marker = "*"
			}
			fmt.Fprintf(out, "  %s %s -> %s/%s\n", marker, move.Source, batch.Name, move.DestName)
		}
	}

	if len(p.Warnings) > 0 {
		fmt.Fprintln(out)
		for _, warning := range p.Warnings {
			fmt.Fprintf(out, "warning: %s\n", warning.Message)
		}
	}
	fmt.Fprintln(out)
}
