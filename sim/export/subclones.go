package export

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/lineage-sim/lineage-sim/sim"
)

// Subclones renders the SNV content of every population present in at least
// one sample: one line per population, each SNV name preceded by a tab.
// Populations carrying no SNV are skipped.
func Subclones(tr *sim.Tree, samples []*sim.TumorSample) string {
	seen := make(map[sim.PopulationID]bool)
	var ids []sim.PopulationID
	for _, s := range samples {
		for _, id := range s.Populations() {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	slices.Sort(ids)

	var b strings.Builder
	for _, id := range ids {
		hasSNV := false
		for _, m := range tr.Population(id).Mutations {
			if m.IsCNV() {
				continue
			}
			b.WriteByte('\t')
			b.WriteString(m.Name)
			hasSNV = true
		}
		if hasSNV {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// WriteSubclones writes Subclones(tr, samples) to path.
func WriteSubclones(path string, tr *sim.Tree, samples []*sim.TumorSample) error {
	if err := os.WriteFile(path, []byte(Subclones(tr, samples)), 0644); err != nil {
		return fmt.Errorf("writing subclones: %w", err)
	}
	return nil
}
