package sim

import (
	"fmt"
	"slices"
	"strings"
)

// TumorSample is a weighted multiset of cell populations plus normal contamination.
//
// A sample refers to its tree's populations by ID and must not be used after the
// tree has grown further. Apart from the CNV-affected SNV count, which is set as
// a side product of CNV-aware frequency computation, a sample never changes.
type TumorSample struct {
	tree        *Tree
	subclones   []PopulationID       // selection order; may repeat when subtrees overlap
	counts      map[PopulationID]int // cells drawn per population
	normalCells int
	color       string

	cnvAffectedSNVs int
}

// NewTumorSample builds a sample directly from per-population cell counts.
// Populations with no cells are not part of the sample.
func NewTumorSample(tree *Tree, counts map[PopulationID]int, normalCells int) *TumorSample {
	s := &TumorSample{
		tree:        tree,
		counts:      make(map[PopulationID]int, len(counts)),
		normalCells: normalCells,
	}
	for id, n := range counts {
		if n > 0 {
			s.counts[id] = n
		}
	}
	s.subclones = s.Populations()
	return s
}

// Tree returns the tree the sample was drawn from.
func (s *TumorSample) Tree() *Tree {
	return s.tree
}

// Subclones returns the populations selected for the sample, in selection order.
// A selected population may have received no cells.
func (s *TumorSample) Subclones() []PopulationID {
	return slices.Clone(s.subclones)
}

// Populations returns the IDs of populations present in the sample, in ascending order.
func (s *TumorSample) Populations() []PopulationID {
	ids := make([]PopulationID, 0, len(s.counts))
	for id := range s.counts {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Count returns the number of cells drawn from population id.
func (s *TumorSample) Count(id PopulationID) int {
	return s.counts[id]
}

// NumSubclones returns the number of distinct populations present in the sample.
func (s *TumorSample) NumSubclones() int {
	return len(s.counts)
}

// NormalCells returns the number of mutation-free diploid cells.
func (s *TumorSample) NormalCells() int {
	return s.normalCells
}

// TumorCells returns the number of cells drawn from tumor populations.
func (s *TumorSample) TumorCells() int {
	total := 0
	for _, n := range s.counts {
		total += n
	}
	return total
}

// Color returns the sample's visualization tag as "#rrggbb".
func (s *TumorSample) Color() string {
	return s.color
}

// CNVAffectedSNVs returns the number of distinct SNVs overlapped by at least one
// CNV, as found by the last CNV-aware VariantFrequencies call.
func (s *TumorSample) CNVAffectedSNVs() int {
	return s.cnvAffectedSNVs
}

// Composition lists each population with its cell count and mutation names.
func (s *TumorSample) Composition() string {
	var b strings.Builder
	for _, id := range s.Populations() {
		p := s.tree.Population(id)
		fmt.Fprintf(&b, "%s: %d (", p.Name(), s.counts[id])
		for _, m := range p.Mutations {
			b.WriteString(m.Name)
			b.WriteByte(' ')
		}
		b.WriteString(")\n")
	}
	return b.String()
}
