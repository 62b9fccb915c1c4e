package sim

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutationFactory_SharedCounter(t *testing.T) {
	f := NewMutationFactory(newRandFromSeed(1))

	a := f.NewSNV()
	b := f.NewCNV()
	c := f.NewSNVFrom(b)
	d := f.NewCNVFrom(a)

	assert.Equal(t, []int{0, 1, 2, 3}, []int{a.ID, b.ID, c.ID, d.ID})
	assert.Equal(t, "M0", a.Name)
	assert.Equal(t, "CNV_M1", b.Name)
	assert.Equal(t, "M2", c.Name)
	assert.Equal(t, "CNV_M3", d.Name)
	assert.Equal(t, 4, f.Count())
}

func TestMutationFactory_NewSNV_WithinChromosome(t *testing.T) {
	f := NewMutationFactory(newRandFromSeed(7))
	for i := 0; i < 1000; i++ {
		m := f.NewSNV()
		require.True(t, m.IsSNV())
		require.GreaterOrEqual(t, m.Chromosome, 0)
		require.Less(t, m.Chromosome, NumChromosomes)
		require.GreaterOrEqual(t, m.Position, 0)
		require.Less(t, m.Position, ChromosomeLengths[m.Chromosome])
		require.Contains(t, []int{0, 1}, m.Haplotype)
	}
}

func TestMutationFactory_NewSNVFrom_StaysOnParentArm(t *testing.T) {
	f := NewMutationFactory(newRandFromSeed(3))
	for _, arm := range []int{0, 1} {
		parent := testCNV(100, 4, arm, 1)
		for i := 0; i < 500; i++ {
			m := f.NewSNVFrom(parent)
			require.Equal(t, 4, m.Chromosome)
			require.Equal(t, arm, ArmOf(m.Chromosome, m.Position), "position %d", m.Position)
			require.True(t, parent.Overlaps(m))
		}
	}
}

func TestArmOf_MidpointBelongsToArmZero(t *testing.T) {
	half := ChromosomeLengths[4] / 2
	assert.Equal(t, 0, ArmOf(4, half))
	assert.Equal(t, 1, ArmOf(4, half+1))

	// an SNV derived from an arm-1 CNV never lands on the midpoint
	f := NewMutationFactory(newRandFromSeed(9))
	for i := 0; i < 1000; i++ {
		require.Greater(t, f.NewSNVFrom(testCNV(100, 4, 1, 0)).Position, half)
	}
}

func TestMutationFactory_NewCNVFrom_CoversParentLocus(t *testing.T) {
	f := NewMutationFactory(newRandFromSeed(3))
	half := ChromosomeLengths[2] / 2

	tests := []struct {
		pos     int
		wantArm int
	}{
		{pos: 0, wantArm: 0},
		{pos: half - 1, wantArm: 0},
		{pos: half, wantArm: 0},
		{pos: half + 1, wantArm: 1},
		{pos: ChromosomeLengths[2] - 1, wantArm: 1},
	}
	for _, tc := range tests {
		m := f.NewCNVFrom(testSNV(1, 2, tc.pos, 0))
		assert.Equal(t, 2, m.Chromosome)
		assert.Equal(t, tc.wantArm, m.Arm, "pos %d", tc.pos)
		assert.True(t, m.IsCNV())
	}
}

func TestMutation_Overlaps(t *testing.T) {
	snv := testSNV(1, 0, 1000, 0)

	assert.True(t, testCNV(2, 0, 0, 0).Overlaps(snv))
	assert.True(t, testCNV(2, 0, 0, 1).Overlaps(snv), "haplotype does not matter for overlap")
	assert.False(t, testCNV(2, 0, 1, 0).Overlaps(snv), "other arm")
	assert.False(t, testCNV(2, 1, 0, 0).Overlaps(snv), "other chromosome")
	assert.False(t, testSNV(2, 0, 1000, 0).Overlaps(snv), "an SNV never overlaps")
}

func TestMutation_String_UsesOneBasedChromosome(t *testing.T) {
	assert.Equal(t, "M3: chr=1, pos=1000, haplotype=0", testSNV(3, 0, 1000, 0).String())
	assert.Equal(t, "CNV_M4: chr=23, arm=1, haplotype=1", testCNV(4, 22, 1, 1).String())
}

func TestMutationKind_String(t *testing.T) {
	assert.Equal(t, "SNV", KindSNV.String())
	assert.Equal(t, "CNV", KindCNV.String())
	assert.True(t, strings.HasPrefix(MutationKind(9).String(), "MutationKind("))
}

func TestCellPopulation_Name(t *testing.T) {
	tr := newTestTree(t, testConfig(), 1)
	id := addPopulation(tr, RootID, testCNV(5, 0, 0, 0), 10)

	assert.Equal(t, "GL", tr.Root().Name())
	assert.Equal(t, "CNV_M5", tr.Population(id).Name())
	assert.True(t, tr.Population(id).IsCNV())
	assert.False(t, tr.Root().Eligible())
	assert.True(t, tr.Population(id).Eligible())
}
