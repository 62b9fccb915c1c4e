package sim

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// randSource exposes a math/rand stream as the source gonum distributions draw from.
type randSource struct {
	r *rand.Rand
}

func (s randSource) Uint64() uint64 { return s.r.Uint64() }

// binomial draws from Binomial(n, p).
func binomial(n int, p float64, rng *rand.Rand) int {
	if n <= 0 || p <= 0 {
		return 0
	}
	if p >= 1 {
		return n
	}
	return int(distuv.Binomial{N: float64(n), P: p, Src: randSource{rng}}.Rand())
}

// NoisyFrequency simulates sequencing a locus with true frequency f at the given
// depth: variant reads ~ Bin(coverage, f), then each variant read is called
// correctly with probability 1-seqError and each reference read is miscalled as
// the variant with probability seqError/3 (one of three wrong bases).
func NoisyFrequency(f float64, coverage int, seqError float64, rng *rand.Rand) float64 {
	variantReads := 0
	if f > 0 {
		variantReads = binomial(coverage, f, rng)
	}
	refReads := coverage - variantReads
	called := binomial(variantReads, 1-seqError, rng) + binomial(refReads, seqError/3, rng)
	return float64(called) / float64(coverage)
}

// ApplyNoise returns observed frequencies for every SNV in freqs.
// Draws are independent per SNV and taken in mutation ID order.
func ApplyNoise(freqs Frequencies, coverage int, seqError float64, rng *rand.Rand) Frequencies {
	out := make(Frequencies, len(freqs))
	for _, snv := range freqs.SNVs() {
		out[snv] = NoisyFrequency(freqs[snv], coverage, seqError, rng)
	}
	return out
}
