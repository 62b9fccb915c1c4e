package sim

import (
	"fmt"
	"math/rand"
)

// NumChromosomes is the number of chromosomes mutations are drawn over.
const NumChromosomes = 23

// ChromosomeLengths holds human (GRCh37) chromosome lengths in base pairs,
// indexed by 0-based chromosome number. Only the first NumChromosomes are used.
var ChromosomeLengths = [...]int{
	249250621, 243199373, 198022430, 191154276,
	180915260, 171115067, 159138663, 155270560,
	146364022, 141213431, 135534747, 135006516,
	133851895, 115169878, 107349540, 102531392,
	90354753, 81195210, 78077248, 63025520,
	59373566, 59128983, 51304566, 48129895,
}

// MutationKind discriminates the Mutation union.
type MutationKind int

const (
	// KindSNV is a single-nucleotide variant at a chromosome position.
	KindSNV MutationKind = iota
	// KindCNV is a copy-number gain of one chromosome arm.
	KindCNV
)

// String returns "SNV" or "CNV".
func (k MutationKind) String() string {
	switch k {
	case KindSNV:
		return "SNV"
	case KindCNV:
		return "CNV"
	default:
		return fmt.Sprintf("MutationKind(%d)", int(k))
	}
}

// Mutation is an immutable SNV or CNV event.
// Position is meaningful only for SNVs and Arm only for CNVs.
// Mutation values are comparable and are used directly as map keys.
type Mutation struct {
	ID         int
	Name       string
	Kind       MutationKind
	Chromosome int // 0-based
	Haplotype  int // 0 or 1
	Position   int // SNV only
	Arm        int // CNV only: 0 = first half, 1 = second half
}

// IsSNV reports whether m is an SNV.
func (m Mutation) IsSNV() bool { return m.Kind == KindSNV }

// IsCNV reports whether m is a CNV.
func (m Mutation) IsCNV() bool { return m.Kind == KindCNV }

// ArmOf returns the arm (0 or 1) containing position on chromosome chr.
// The boundary at length/2 belongs to arm 0.
func ArmOf(chr, position int) int {
	if position <= ChromosomeLengths[chr]/2 {
		return 0
	}
	return 1
}

// Overlaps reports whether CNV m covers the locus of snv.
func (m Mutation) Overlaps(snv Mutation) bool {
	return m.IsCNV() && snv.IsSNV() && m.Chromosome == snv.Chromosome && m.Arm == ArmOf(snv.Chromosome, snv.Position)
}

// String renders the mutation with a 1-based chromosome.
func (m Mutation) String() string {
	switch m.Kind {
	case KindCNV:
		return fmt.Sprintf("%s: chr=%d, arm=%d, haplotype=%d", m.Name, m.Chromosome+1, m.Arm, m.Haplotype)
	default:
		return fmt.Sprintf("%s: chr=%d, pos=%d, haplotype=%d", m.Name, m.Chromosome+1, m.Position, m.Haplotype)
	}
}

// MutationFactory generates mutations with per-run sequential names.
// SNVs and CNVs share one counter. Not thread-safe; one factory per run.
type MutationFactory struct {
	rng  *rand.Rand
	next int
}

// NewMutationFactory creates a factory drawing from rng.
func NewMutationFactory(rng *rand.Rand) *MutationFactory {
	return &MutationFactory{rng: rng}
}

// Count returns the number of mutations generated so far.
func (f *MutationFactory) Count() int {
	return f.next
}

func (f *MutationFactory) base(kind MutationKind) Mutation {
	m := Mutation{
		ID:         f.next,
		Name:       fmt.Sprintf("M%d", f.next),
		Kind:       kind,
		Chromosome: f.rng.Intn(NumChromosomes),
		Haplotype:  f.rng.Intn(2),
	}
	if kind == KindCNV {
		m.Name = "CNV_" + m.Name
	}
	f.next++
	return m
}

// NewSNV draws an unconstrained SNV.
func (f *MutationFactory) NewSNV() Mutation {
	m := f.base(KindSNV)
	m.Position = f.rng.Intn(ChromosomeLengths[m.Chromosome])
	return m
}

// NewCNV draws an unconstrained CNV.
func (f *MutationFactory) NewCNV() Mutation {
	m := f.base(KindCNV)
	m.Arm = f.rng.Intn(2)
	return m
}

// NewSNVFrom draws an SNV on the arm affected by parent.
// The chromosome is inherited; the haplotype is drawn independently.
func (f *MutationFactory) NewSNVFrom(parent Mutation) Mutation {
	m := f.base(KindSNV)
	m.Chromosome = parent.Chromosome
	length := ChromosomeLengths[m.Chromosome]
	half := length / 2
	if parent.Arm == 1 {
		m.Position = half + 1 + f.rng.Intn(length-half-1)
	} else {
		m.Position = f.rng.Intn(half + 1)
	}
	return m
}

// NewCNVFrom draws a CNV on the arm containing parent's position.
func (f *MutationFactory) NewCNVFrom(parent Mutation) Mutation {
	m := f.base(KindCNV)
	m.Chromosome = parent.Chromosome
	m.Arm = ArmOf(m.Chromosome, parent.Position)
	return m
}
