package pipeline

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"

	"github.com/lineage-sim/lineage-sim/sim/export"
	"github.com/lineage-sim/lineage-sim/sim/trace"
)

// RenderSummary renders one row per tree with a totals footer.
func RenderSummary(trees []export.TreeResult) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Tree", "Rounds", "Nodes", "Dead", "SNVs", "CNVs", "VAF rows"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	var nodes, dead, snvs, cnvs, rows int
	for _, t := range trees {
		table.Append([]string{
			t.Dir,
			fmt.Sprintf("%d", t.Rounds),
			fmt.Sprintf("%d", t.Nodes),
			fmt.Sprintf("%d", t.DeadNodes),
			fmt.Sprintf("%d", t.SNVs),
			fmt.Sprintf("%d", t.CNVs),
			fmt.Sprintf("%d", t.VAFRows),
		})
		nodes += t.Nodes
		dead += t.DeadNodes
		snvs += t.SNVs
		cnvs += t.CNVs
		rows += t.VAFRows
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total %d", len(trees)),
		"",
		fmt.Sprintf("%d", nodes),
		fmt.Sprintf("%d", dead),
		fmt.Sprintf("%d", snvs),
		fmt.Sprintf("%d", cnvs),
		fmt.Sprintf("%d", rows),
	})

	table.Render()
	return buf.String()
}

// RenderTraceSummary renders per-tree growth and sampling statistics from
// traces. Nil traces are skipped; the result is empty when none were recorded.
func RenderTraceSummary(traces []*trace.SimulationTrace) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Tree", "Births", "Deaths", "Peak births", "Samples", "Mean subclones"})
	table.SetBorder(false)
	table.SetCenterSeparator("")

	n := 0
	for i, st := range traces {
		if st == nil {
			continue
		}
		s := trace.Summarize(st)
		table.Append([]string{
			fmt.Sprintf("tree_%d", i),
			fmt.Sprintf("%d (%d SNV, %d CNV)", s.TotalBirths, s.SNVBirths, s.CNVBirths),
			fmt.Sprintf("%d", s.TotalDeaths),
			fmt.Sprintf("%d", s.PeakBirths),
			fmt.Sprintf("%d", s.SamplesDrawn),
			fmt.Sprintf("%.2f", s.MeanSubclones),
		})
		n++
	}
	if n == 0 {
		return ""
	}
	table.Render()
	return buf.String()
}
