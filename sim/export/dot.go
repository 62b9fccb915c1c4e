package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/lineage-sim/lineage-sim/sim"
)

// DOT renders tr as a Graphviz digraph. CNV populations are stars, SNV
// populations are circles whose width scales with size relative to
// maxPopulationSize, and dead populations are grey.
func DOT(tr *sim.Tree, maxPopulationSize int) string {
	var b strings.Builder
	b.WriteString("digraph G { \n")
	writeEdges(&b, tr)
	for _, p := range tr.Populations() {
		writeNode(&b, p, fillColor(p), false, maxPopulationSize)
	}
	b.WriteString("}")
	return b.String()
}

// SampledDOT renders tr with every population filled in the colors of the
// samples that selected it, plus a legend mapping sample numbers to colors.
// Circles drawn by more than one sample are wedged.
func SampledDOT(tr *sim.Tree, samples []*sim.TumorSample, maxPopulationSize int) string {
	colors := make(map[sim.PopulationID][]string)
	for _, s := range samples {
		for _, id := range s.Subclones() {
			colors[id] = append(colors[id], s.Color())
		}
	}

	var b strings.Builder
	b.WriteString("digraph G { \n")
	b.WriteString("rankdir=TB;\n")
	writeEdges(&b, tr)
	for _, p := range tr.Populations() {
		color := fillColor(p)
		if c := colors[p.ID]; len(c) > 0 {
			color = `"` + strings.Join(c, ":") + `"`
		}
		writeNode(&b, p, color, len(colors[p.ID]) > 1, maxPopulationSize)
	}

	b.WriteString("{")
	b.WriteString("rank=sink;\n")
	b.WriteString("Legend[shape=none, margin=0, label=")
	b.WriteString("<<TABLE border=\"0\" cellborder=\"0\" cellspacing=\"0\"> \n")
	b.WriteString("<TR>")
	for i, s := range samples {
		fmt.Fprintf(&b, "<TD width=\"200\" height=\"200\" colspan=\"1\"><FONT POINT-SIZE=\"36.0\"><B>Sample %d</B></FONT></TD>", i+1)
		fmt.Fprintf(&b, "<TD width=\"200\" height=\"200\" colspan=\"1\" BGCOLOR=\"%s\"></TD>\n", s.Color())
	}
	b.WriteString("</TR>")
	b.WriteString("</TABLE>>];\n")
	b.WriteString("} \n")
	b.WriteString("}")
	return b.String()
}

// WriteDOT writes a rendered digraph to path.
func WriteDOT(path, dot string) error {
	if err := os.WriteFile(path, []byte(dot), 0644); err != nil {
		return fmt.Errorf("writing dot file: %w", err)
	}
	return nil
}

func writeEdges(b *strings.Builder, tr *sim.Tree) {
	for _, e := range tr.Edges() {
		fmt.Fprintf(b, "%d -> %d;\n", e.Parent, e.Child)
	}
}

func fillColor(p *sim.CellPopulation) string {
	if p.Dead {
		return "grey"
	}
	return "white"
}

func writeNode(b *strings.Builder, p *sim.CellPopulation, color string, wedged bool, maxPopulationSize int) {
	switch {
	case p.Germline:
		fmt.Fprintf(b, "%d [label=\"GL\" fontname=\"arial-bold\" fontsize=56 width=5 height=5];\n", p.ID)
	case p.IsCNV():
		fmt.Fprintf(b, "%d [shape=star style=filled fillcolor=%s fontname=\"helvetica-bold\" fontsize=42 label=\"%s\"];\n",
			p.ID, color, p.Name())
	default:
		width := 0.0
		if maxPopulationSize > 0 {
			width = 5 * float64(p.Size) / float64(maxPopulationSize)
		}
		style := "style=filled fillcolor="
		if wedged {
			style = "style=wedged color="
		}
		fmt.Fprintf(b, "%d [shape=circle %s%s fontname=\"helvetica-bold\" fontsize=56 label=\"%s\" width=%s height=2 ];\n",
			p.ID, style, color, p.Name(), formatDecimal(width, 2))
	}
}
