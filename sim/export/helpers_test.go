package export

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/lineage-sim/lineage-sim/sim"
)

func doublingConfig() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Growth.ProbSNV = 1
	cfg.Growth.ProbCNV = 0
	cfg.Growth.ProbDeath = 0
	cfg.Sampling.CellsPerSample = 1000
	return cfg
}

// growTree applies rounds generations to a fresh tree.
func growTree(t *testing.T, cfg sim.Config, seed int64, rounds int) *sim.Tree {
	t.Helper()
	tr := sim.NewTree(cfg, sim.NewPartitionedRNG(sim.NewSimulationKey(seed)))
	for i := 0; i < rounds; i++ {
		tr.Grow()
	}
	return tr
}

// lastPopulation returns the most recently created population.
func lastPopulation(tr *sim.Tree) *sim.CellPopulation {
	return tr.Population(sim.PopulationID(tr.NodeCount() - 1))
}

func formatInt(v int) string {
	return strconv.Itoa(v)
}

func newTestRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
