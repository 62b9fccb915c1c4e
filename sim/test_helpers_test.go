package sim

import (
	"strconv"
	"testing"
)

// testConfig returns a config suited to hand-built trees: no normal
// contamination, small samples and no neighbour mixing.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Sampling.CellsPerSample = 1000
	cfg.Sampling.MinNormalPercent = 0
	cfg.Sampling.MaxNormalPercent = 0
	cfg.Sampling.MixNeighborSubtree = false
	return cfg
}

func newTestTree(t *testing.T, cfg Config, seed int64) *Tree {
	t.Helper()
	return NewTree(cfg, NewPartitionedRNG(NewSimulationKey(seed)))
}

// addPopulation links a hand-made child carrying m under parent.
func addPopulation(tr *Tree, parent PopulationID, m Mutation, size int) PopulationID {
	c := tr.newChild(tr.nodes[parent], m, size, len(tr.nodes))
	tr.attach(c)
	return c.ID
}

func killPopulation(tr *Tree, id PopulationID) {
	tr.nodes[id].Dead = true
	tr.numDead++
}

func testSNV(id, chr, pos, hap int) Mutation {
	return Mutation{ID: id, Name: "M" + strconv.Itoa(id), Kind: KindSNV, Chromosome: chr, Position: pos, Haplotype: hap}
}

func testCNV(id, chr, arm, hap int) Mutation {
	return Mutation{ID: id, Name: "CNV_M" + strconv.Itoa(id), Kind: KindCNV, Chromosome: chr, Arm: arm, Haplotype: hap}
}

// grownTree returns a tree grown to the default bounds.
func grownTree(t *testing.T, seed int64) *Tree {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Growth.NumIterations = 30
	cfg.Growth.MaxNodes = 300
	tr := newTestTree(t, cfg, seed)
	GrowToBounds(tr)
	return tr
}
