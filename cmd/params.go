package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lineage-sim/lineage-sim/sim"
)

var (
	// CLI flags for simulation parameters; each overrides the --config file only when set
	paramsPath         string  // YAML parameter file
	numIterations      int     // Growth rounds before the node bounds apply
	probSNV            float64 // Per-node per-round SNV probability
	probCNV            float64 // Per-node per-round CNV probability
	probDeath          float64 // Per-node per-round death probability
	maxPopulationSize  int     // Upper bound (exclusive) of population sizes
	minNodes           int     // Live nodes required before growth may stop
	maxNodes           int     // Live nodes at which growth stops
	upstreamCNVEffect  bool    // Constrain new mutations by the parent's last mutation
	numSamples         []int   // Sample counts to draw, normal sample included
	coverage           []int   // Simulated sequencing depths
	maxSubclones       int     // Subclones per sample are drawn from [1, max-1]
	cellsPerSample     int     // Cells per sample, normal cells included
	seqError           float64 // Per-base sequencing error rate
	minNormalPercent   float64 // Lower bound of normal contamination (%)
	maxNormalPercent   float64 // Upper bound of normal contamination (%)
	localized          bool    // Draw samples from disjoint subtrees
	mixNeighborSubtree bool    // Localized only: add one subclone from the neighbouring subtree
)

// registerParamFlags binds the simulation parameter flags to cmd.
// Flag defaults mirror sim.DefaultConfig.
func registerParamFlags(cmd *cobra.Command) {
	d := sim.DefaultConfig()
	cmd.Flags().StringVar(&paramsPath, "config", "", "YAML parameter file; explicitly set flags take precedence")

	// growth
	cmd.Flags().IntVar(&numIterations, "iterations", d.Growth.NumIterations, "Number of growth rounds")
	cmd.Flags().Float64Var(&probSNV, "prob-snv", d.Growth.ProbSNV, "Probability of a node acquiring an SNV per round")
	cmd.Flags().Float64Var(&probCNV, "prob-cnv", d.Growth.ProbCNV, "Probability of a node acquiring a CNV per round (0 disables copy-number aware VAFs)")
	cmd.Flags().Float64Var(&probDeath, "prob-death", d.Growth.ProbDeath, "Probability of a node dying per round")
	cmd.Flags().IntVar(&maxPopulationSize, "max-population-size", d.Growth.MaxPopulationSize, "Maximum cell population size")
	cmd.Flags().IntVar(&minNodes, "min-nodes", d.Growth.MinNodes, "Minimum number of live nodes per tree")
	cmd.Flags().IntVar(&maxNodes, "max-nodes", d.Growth.MaxNodes, "Maximum number of live nodes per tree")
	cmd.Flags().BoolVar(&upstreamCNVEffect, "upstream-cnv-effect", d.Growth.UpstreamCNVEffect, "Place new mutations on the arm affected by the parent's last mutation")

	// sampling
	cmd.Flags().IntSliceVar(&numSamples, "samples", d.Sampling.NumSamples, "Numbers of samples to collect, the normal sample included (comma-separated)")
	cmd.Flags().IntVar(&maxSubclones, "max-subclones", d.Sampling.MaxSubclones, "Maximum number of subclones per sample")
	cmd.Flags().IntVar(&cellsPerSample, "sample-size", d.Sampling.CellsPerSample, "Number of cells per sample")
	cmd.Flags().Float64Var(&minNormalPercent, "min-nc", d.Sampling.MinNormalPercent, "Minimum percentage of normal cells per sample")
	cmd.Flags().Float64Var(&maxNormalPercent, "max-nc", d.Sampling.MaxNormalPercent, "Maximum percentage of normal cells per sample")
	cmd.Flags().BoolVar(&localized, "localized", d.Sampling.Localized, "Collect samples from disjoint subtrees")
	cmd.Flags().BoolVar(&mixNeighborSubtree, "mix-subclone", d.Sampling.MixNeighborSubtree, "With --localized, add a subclone from the neighbouring subtree to each sample")

	// sequencing
	cmd.Flags().IntSliceVar(&coverage, "coverage", d.Sequencing.Coverage, "Simulated coverages (comma-separated)")
	cmd.Flags().Float64Var(&seqError, "seq-error", d.Sequencing.Error, "Per-base sequencing error rate")
}

// resolveParams loads the --config file (or the defaults), applies the flags
// the user set explicitly, normalizes and validates the result.
func resolveParams(cmd *cobra.Command) (*sim.Config, error) {
	cfg := sim.DefaultConfig()
	if paramsPath != "" {
		loaded, err := sim.LoadParams(paramsPath)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
		logrus.Infof("Loaded parameters from %s", paramsPath)
	}

	changed := cmd.Flags().Changed
	if changed("iterations") {
		cfg.Growth.NumIterations = numIterations
	}
	if changed("prob-snv") {
		cfg.Growth.ProbSNV = probSNV
	}
	if changed("prob-cnv") {
		cfg.Growth.ProbCNV = probCNV
	}
	if changed("prob-death") {
		cfg.Growth.ProbDeath = probDeath
	}
	if changed("max-population-size") {
		cfg.Growth.MaxPopulationSize = maxPopulationSize
	}
	if changed("min-nodes") {
		cfg.Growth.MinNodes = minNodes
	}
	if changed("max-nodes") {
		cfg.Growth.MaxNodes = maxNodes
	}
	if changed("upstream-cnv-effect") {
		cfg.Growth.UpstreamCNVEffect = upstreamCNVEffect
	}
	if changed("samples") {
		cfg.Sampling.NumSamples = numSamples
	}
	if changed("max-subclones") {
		cfg.Sampling.MaxSubclones = maxSubclones
	}
	if changed("sample-size") {
		cfg.Sampling.CellsPerSample = cellsPerSample
	}
	if changed("min-nc") {
		cfg.Sampling.MinNormalPercent = minNormalPercent
	}
	if changed("max-nc") {
		cfg.Sampling.MaxNormalPercent = maxNormalPercent
	}
	if changed("localized") {
		cfg.Sampling.Localized = localized
	}
	if changed("mix-subclone") {
		cfg.Sampling.MixNeighborSubtree = mixNeighborSubtree
	}
	if changed("coverage") {
		cfg.Sequencing.Coverage = coverage
	}
	if changed("seq-error") {
		cfg.Sequencing.Error = seqError
	}

	if cfg.Normalize() {
		logrus.Warnf("max normal contamination is below the minimum; using %.2f%% for both", cfg.Sampling.MaxNormalPercent)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.CNVAware() {
		logrus.Debug("prob_cnv is 0: computing diploid VAFs")
	}
	return &cfg, nil
}
