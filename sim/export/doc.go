// Package export renders simulated trees, samples and frequency tables to the
// files a run produces, and reads the plain tree format back.
//
// Formats:
//   - TREE_plain.txt: tab-separated parent/child name pairs, then one
//     description line per mutated population (see sim.Tree.TextDump).
//   - TREE.dot / TREE_s<n>.dot: Graphviz digraphs; the sampled variant colors
//     each population by the samples that drew it and adds a legend.
//   - VAF_*.txt: tab-separated frequency tables, one row per SNV.
//   - SUBCLONES_s<n>.txt: SNV names of every sampled population.
//   - run.yaml: run manifest.
//
// Store persists the same results to SQLite.
package export
