// Package sim provides the core clonal-evolution simulation kernel.
//
// # Reading Guide
//
// Start with these files to understand the kernel:
//   - mutation.go: SNV/CNV events and the per-run MutationFactory
//   - tree.go: the population arena and the synchronous Grow round
//   - sampling.go: random and localized (disjoint-subtree) sampling
//   - vaf.go: true variant-allele frequencies, diploid and CNV-aware
//   - noise.go: read-depth and sequencing-error perturbation
//
// # Architecture
//
// Every tree owns a PartitionedRNG with one stream per subsystem (growth,
// mutation, sampling, noise) and its own mutation counter, so replicate trees
// share no mutable state and can be simulated concurrently. Populations live
// in an arena addressed by PopulationID; samples and subtree traversals hold
// IDs, never copies.
//
// Sub-packages:
//   - sim/trace/: growth and sampling trace records
//   - sim/export/: text, DOT, VAF table, subclone and SQLite writers
//   - sim/pipeline/: the multi-tree replicate driver
package sim
