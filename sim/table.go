package sim

import (
	"fmt"
	"math/rand"
	"slices"
	"strings"
)

// VAFRow holds one SNV's frequency in every sample.
// Values[0] is the normal sample and is always zero.
type VAFRow struct {
	SNV    Mutation
	Values []float64
}

// Profile returns the binary presence string over all samples, normal first.
func (r VAFRow) Profile() string {
	var b strings.Builder
	for _, v := range r.Values {
		if v == 0 {
			b.WriteByte('0')
		} else {
			b.WriteByte('1')
		}
	}
	return b.String()
}

// VAFTable is a multi-sample frequency table: one row per SNV seen in any
// sample, one column per sample with the normal sample at column 0.
type VAFTable struct {
	numSamples int
	rows       []VAFRow
	index      map[Mutation]int
}

// BuildVAFTable computes true frequencies for samples and collects them into a
// table with len(samples)+1 columns.
func BuildVAFTable(samples []*TumorSample, cnvAware bool) (*VAFTable, error) {
	tbl := &VAFTable{numSamples: len(samples) + 1, index: make(map[Mutation]int)}
	for i, s := range samples {
		freqs, err := s.VariantFrequencies(cnvAware)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i+1, err)
		}
		for snv, f := range freqs {
			tbl.row(snv).Values[i+1] = f
		}
	}
	slices.SortFunc(tbl.rows, func(a, b VAFRow) int { return a.SNV.ID - b.SNV.ID })
	for i, r := range tbl.rows {
		tbl.index[r.SNV] = i
	}
	return tbl, nil
}

func (t *VAFTable) row(snv Mutation) *VAFRow {
	if i, ok := t.index[snv]; ok {
		return &t.rows[i]
	}
	t.index[snv] = len(t.rows)
	t.rows = append(t.rows, VAFRow{SNV: snv, Values: make([]float64, t.numSamples)})
	return &t.rows[len(t.rows)-1]
}

// NumSamples returns the number of columns, the normal sample included.
func (t *VAFTable) NumSamples() int {
	return t.numSamples
}

// Rows returns a copy of the rows ordered by mutation ID.
func (t *VAFTable) Rows() []VAFRow {
	out := make([]VAFRow, len(t.rows))
	for i, r := range t.rows {
		out[i] = VAFRow{SNV: r.SNV, Values: slices.Clone(r.Values)}
	}
	return out
}

// Lookup returns a copy of the per-sample values of snv.
func (t *VAFTable) Lookup(snv Mutation) ([]float64, bool) {
	i, ok := t.index[snv]
	if !ok {
		return nil, false
	}
	return slices.Clone(t.rows[i].Values), true
}

// WithNoise returns a copy of the table with every tumor-sample value replaced by
// its observed frequency at the given coverage. The normal column stays zero.
func (t *VAFTable) WithNoise(coverage int, seqError float64, rng *rand.Rand) *VAFTable {
	out := &VAFTable{
		numSamples: t.numSamples,
		rows:       make([]VAFRow, len(t.rows)),
		index:      make(map[Mutation]int, len(t.rows)),
	}
	for i, r := range t.rows {
		values := make([]float64, t.numSamples)
		for s := 1; s < t.numSamples; s++ {
			values[s] = NoisyFrequency(r.Values[s], coverage, seqError, rng)
		}
		out.rows[i] = VAFRow{SNV: r.SNV, Values: values}
		out.index[r.SNV] = i
	}
	return out
}
