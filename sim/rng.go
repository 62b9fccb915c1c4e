package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two runs with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical trees, samples and frequency tables.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// Derive returns the key of an independent child run (e.g. one replicate tree).
// Derivation is a pure function of the parent key and the name, so keys can be
// handed to concurrent workers without touching any shared RNG.
func (k SimulationKey) Derive(name string) SimulationKey {
	return SimulationKey(int64(k) ^ fnv1a64(name))
}

// === Subsystem Constants ===

const (
	// SubsystemGrowth drives death and division rolls and child sizes.
	// Uses the master seed directly.
	SubsystemGrowth = "growth"

	// SubsystemMutation drives chromosome, position, arm and haplotype draws.
	SubsystemMutation = "mutation"

	// SubsystemSampling drives subclone selection, contamination and cell allocation.
	SubsystemSampling = "sampling"

	// SubsystemNoise drives read-count binomial draws.
	SubsystemNoise = "noise"
)

// SubsystemTree returns the key-derivation name for replicate tree N.
func SubsystemTree(id int) string {
	return fmt.Sprintf("tree_%d", id)
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula:
//   - For SubsystemGrowth: uses masterSeed directly
//   - For all other subsystems: masterSeed XOR fnv1a64(subsystemName)
//
// Thread-safety: NOT thread-safe. Each replicate owns its own PartitionedRNG.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	var derivedSeed int64
	if name == SubsystemGrowth {
		derivedSeed = int64(p.key)
	} else {
		derivedSeed = int64(p.key) ^ fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
