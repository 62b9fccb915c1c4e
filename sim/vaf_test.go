package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lineage-sim/lineage-sim/sim/internal/testutil"
)

// buildGoldenSample materializes a golden scenario as a tree and one sample.
func buildGoldenSample(t *testing.T, sc testutil.GoldenScenario) *TumorSample {
	t.Helper()
	tr := newTestTree(t, testConfig(), 1)
	ids := []PopulationID{RootID}
	counts := make(map[PopulationID]int)
	for i, p := range sc.Populations {
		require.Less(t, p.Parent, len(ids), "%s: population %d refers to a later parent", sc.Name, i+1)
		var m Mutation
		switch p.Mutation.Kind {
		case "snv":
			m = testSNV(i+1, p.Mutation.Chromosome, p.Mutation.Position, p.Mutation.Haplotype)
		case "cnv":
			m = testCNV(i+1, p.Mutation.Chromosome, p.Mutation.Arm, p.Mutation.Haplotype)
		default:
			t.Fatalf("%s: unknown mutation kind %q", sc.Name, p.Mutation.Kind)
		}
		id := addPopulation(tr, ids[p.Parent], m, 100)
		ids = append(ids, id)
		counts[id] = p.Count
	}
	return NewTumorSample(tr, counts, sc.NormalCells)
}

func TestVariantFrequencies_Golden(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)

	for _, sc := range dataset.Scenarios {
		t.Run(sc.Name, func(t *testing.T) {
			s := buildGoldenSample(t, sc)

			freqs, err := s.VariantFrequencies(sc.CNVAware)
			require.NoError(t, err)

			got := make(map[string]float64, len(freqs))
			for m, f := range freqs {
				got[m.Name] = f
			}
			require.Len(t, got, len(sc.Expected))
			for name, want := range sc.Expected {
				f, ok := got[name]
				require.True(t, ok, "missing frequency for %s", name)
				testutil.AssertFloat64Equal(t, name, want, f, 1e-9)
			}
			if sc.CNVAware {
				assert.Equal(t, sc.Affected, s.CNVAffectedSNVs())
			}
		})
	}
}

func TestVariantFrequencies_GainAfterSNVExceedsDiploid(t *testing.T) {
	tr := newTestTree(t, testConfig(), 1)
	a := addPopulation(tr, RootID, testSNV(1, 0, 1000, 0), 100)
	b := addPopulation(tr, a, testCNV(2, 0, 0, 0), 100)
	s := NewTumorSample(tr, map[PopulationID]int{b: 100}, 0)

	diploid, err := s.VariantFrequencies(false)
	require.NoError(t, err)
	aware, err := s.VariantFrequencies(true)
	require.NoError(t, err)

	snv := tr.Population(a).Mutations[0]
	assert.InDelta(t, 0.5, diploid[snv], 1e-12)
	assert.InDelta(t, 2.0/3.0, aware[snv], 1e-12)
	assert.Greater(t, aware[snv], diploid[snv])
}

func TestVariantFrequencies_OmitsSNVsWithoutCarriers(t *testing.T) {
	tr := buildFixtureTree(t)
	s := NewTumorSample(tr, map[PopulationID]int{1: 40}, 0)

	for _, cnvAware := range []bool{false, true} {
		freqs, err := s.VariantFrequencies(cnvAware)
		require.NoError(t, err)
		require.Len(t, freqs, 1, "cnvAware=%v", cnvAware)
		for m, f := range freqs {
			assert.Equal(t, "M1", m.Name)
			assert.InDelta(t, 0.5, f, 1e-12)
		}
	}
}

func TestVariantFrequencies_CNVsAreNotReported(t *testing.T) {
	tr := buildFixtureTree(t)
	s := NewTumorSample(tr, map[PopulationID]int{3: 5, 4: 5}, 0)

	freqs, err := s.VariantFrequencies(true)
	require.NoError(t, err)
	for m := range freqs {
		assert.True(t, m.IsSNV(), "%s reported", m.Name)
	}
}

func TestVariantFrequencies_EmptyPopulationsAreNotCarriers(t *testing.T) {
	tr := buildFixtureTree(t)
	s := NewTumorSample(tr, map[PopulationID]int{1: 0}, 0)

	for _, cnvAware := range []bool{false, true} {
		freqs, err := s.VariantFrequencies(cnvAware)
		require.NoError(t, err, "cnvAware=%v", cnvAware)
		assert.Empty(t, freqs, "cnvAware=%v", cnvAware)
	}
	assert.Empty(t, s.Populations())
	assert.Zero(t, s.NumSubclones())
}

func TestVariantFrequencies_OmitsSNVsOfEmptyPopulations(t *testing.T) {
	// GIVEN a sample where M1's population drew no cells and CNV_M3 -> M4 drew ten
	tr := buildFixtureTree(t)
	s := NewTumorSample(tr, map[PopulationID]int{1: 0, 4: 10}, 0)
	m1 := tr.Population(1).Mutations[0]
	m4 := tr.Population(4).Mutations[1]

	tests := []struct {
		cnvAware bool
		want     float64
	}{
		{false, 0.5},
		{true, 1.0 / 3.0},
	}
	for _, tt := range tests {
		// WHEN frequencies are computed
		freqs, err := s.VariantFrequencies(tt.cnvAware)
		require.NoError(t, err)

		// THEN M1 is absent rather than reported at 0
		_, ok := freqs[m1]
		assert.False(t, ok, "cnvAware=%v: M1 has no observed carrier", tt.cnvAware)
		require.Len(t, freqs, 1)
		assert.InDelta(t, tt.want, freqs[m4], 1e-12, "cnvAware=%v", tt.cnvAware)
	}
}

func TestVariantFrequencies_BoundedOnGrownTree(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Growth.ProbCNV = 0.1
	cfg.Growth.MaxNodes = 200
	cfg.Sampling.CellsPerSample = 5000
	tr := newTestTree(t, cfg, 99)
	GrowToBounds(tr)
	samples, err := tr.DrawSamples(3)
	require.NoError(t, err)

	for _, s := range samples {
		for _, cnvAware := range []bool{false, true} {
			freqs, err := s.VariantFrequencies(cnvAware)
			require.NoError(t, err)
			for m, f := range freqs {
				assert.GreaterOrEqual(t, f, 0.0, m.Name)
				assert.LessOrEqual(t, f, 1.0, m.Name)
				if !cnvAware {
					assert.LessOrEqual(t, f, 0.5, m.Name)
				}
			}
		}
	}
}

func TestFrequencies_SNVsOrderedByID(t *testing.T) {
	f := Frequencies{
		testSNV(9, 0, 1, 0): 0.1,
		testSNV(2, 0, 1, 0): 0.2,
		testSNV(5, 0, 1, 0): 0.3,
	}
	var ids []int
	for _, m := range f.SNVs() {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []int{2, 5, 9}, ids)
}
