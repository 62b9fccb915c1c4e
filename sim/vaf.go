package sim

import (
	"errors"
	"slices"
)

// ErrZeroDenominator is returned when an SNV's allele copy total is zero.
// Only populations holding cells count as carriers, so a sample never hits it.
var ErrZeroDenominator = errors.New("variant allele frequency has a zero denominator")

// Frequencies maps SNVs to variant-allele frequencies in [0, 1].
type Frequencies map[Mutation]float64

// SNVs returns the keys ordered by mutation ID.
func (f Frequencies) SNVs() []Mutation {
	out := make([]Mutation, 0, len(f))
	for m := range f {
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b Mutation) int { return a.ID - b.ID })
	return out
}

// VariantFrequencies computes the true VAF of every SNV carried by at least one
// sampled cell. SNVs without observed carriers are omitted, not reported as 0.
//
// With cnvAware false every cell is diploid. With cnvAware true, arm-level CNVs
// add allele copies: a CNV acquired before the SNV adds a reference copy, one
// acquired after adds a variant copy on the SNV's haplotype and a reference copy
// on the other. Populations and normal cells without the SNV contribute
// reference copies only.
func (s *TumorSample) VariantFrequencies(cnvAware bool) (Frequencies, error) {
	if cnvAware {
		return s.cnvAwareFrequencies()
	}
	return s.diploidFrequencies()
}

func (s *TumorSample) diploidFrequencies() (Frequencies, error) {
	variant := make(map[Mutation]int)
	total := s.normalCells
	for _, id := range s.Populations() {
		n := s.counts[id]
		if n == 0 {
			continue
		}
		for _, m := range s.tree.Population(id).Mutations {
			if m.IsSNV() {
				variant[m] += n
			}
		}
		total += n
	}
	if len(variant) > 0 && total == 0 {
		return nil, ErrZeroDenominator
	}
	freqs := make(Frequencies, len(variant))
	for m, v := range variant {
		freqs[m] = float64(v) / float64(2*total)
	}
	return freqs, nil
}

// alleleCopies accumulates cell-weighted allele copies at one SNV locus.
type alleleCopies struct {
	variant int
	total   int
}

func (s *TumorSample) cnvAwareFrequencies() (Frequencies, error) {
	ids := s.Populations()
	loci := make(map[Mutation]*alleleCopies)
	affected := make(map[Mutation]bool)

	// carriers
	for _, id := range ids {
		n := s.counts[id]
		if n == 0 {
			continue
		}
		muts := s.tree.Population(id).Mutations
		for i, snv := range muts {
			if !snv.IsSNV() {
				continue
			}
			refHits, varHits := 0, 0
			for j, cnv := range muts {
				if !cnv.Overlaps(snv) {
					continue
				}
				affected[snv] = true
				switch {
				case j < i:
					refHits++
				case cnv.Haplotype == snv.Haplotype:
					varHits++
				default:
					refHits++
				}
			}
			acc, ok := loci[snv]
			if !ok {
				acc = &alleleCopies{}
				loci[snv] = acc
			}
			acc.total += n * (varHits + refHits + 2)
			acc.variant += n * (varHits + 1)
		}
	}

	// non-carriers and normal cells
	for snv, acc := range loci {
		for _, id := range ids {
			p := s.tree.Population(id)
			if p.indexOf(snv) >= 0 {
				continue
			}
			overlapping := 0
			for _, m := range p.Mutations {
				if m.Overlaps(snv) {
					overlapping++
				}
			}
			if overlapping > 0 {
				affected[snv] = true
			}
			acc.total += s.counts[id] * (2 + overlapping)
		}
		acc.total += 2 * s.normalCells
	}

	freqs := make(Frequencies, len(loci))
	for snv, acc := range loci {
		if acc.total == 0 {
			return nil, ErrZeroDenominator
		}
		freqs[snv] = float64(acc.variant) / float64(acc.total)
	}
	s.cnvAffectedSNVs = len(affected)
	return freqs, nil
}
