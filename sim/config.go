package sim

import (
	"errors"
	"fmt"
	"math"
)

// GrowthConfig groups lineage tree growth parameters.
type GrowthConfig struct {
	NumIterations     int     `yaml:"iterations"`          // growth rounds before the node bounds are checked
	MinNodes          int     `yaml:"min_nodes"`           // live nodes required before growth may stop (must be >= 1)
	MaxNodes          int     `yaml:"max_nodes"`           // growth stops once this many live nodes exist
	MaxPopulationSize int     `yaml:"max_population_size"` // child sizes are drawn from [0, MaxPopulationSize)
	ProbSNV           float64 `yaml:"prob_snv"`            // per-node per-round probability of an SNV child
	ProbCNV           float64 `yaml:"prob_cnv"`            // per-node per-round probability of a CNV child
	ProbDeath         float64 `yaml:"prob_death"`          // per-node per-round death probability (root exempt)
	UpstreamCNVEffect bool    `yaml:"upstream_cnv_effect"` // constrain new mutations by the parent's last mutation
}

// SamplingConfig groups tumor sample collection parameters.
type SamplingConfig struct {
	NumSamples         []int   `yaml:"num_samples"`          // sample counts to collect, each including the normal sample
	MaxSubclones       int     `yaml:"max_subclones"`        // subclone count per sample is drawn from [1, MaxSubclones-1]
	CellsPerSample     int     `yaml:"cells_per_sample"`     // total cells per sample, normal cells included
	MinNormalPercent   float64 `yaml:"min_normal_percent"`   // lower bound of the normal contamination percentage
	MaxNormalPercent   float64 `yaml:"max_normal_percent"`   // upper bound of the normal contamination percentage
	Localized          bool    `yaml:"localized"`            // draw samples from disjoint subtrees
	MixNeighborSubtree bool    `yaml:"mix_neighbor_subtree"` // localized only: add one subclone from the previous subtree
}

// SequencingConfig groups the read-count noise parameters.
type SequencingConfig struct {
	Coverage []int   `yaml:"coverage"` // simulated depths, one noisy table per value
	Error    float64 `yaml:"error"`    // per-base sequencing error rate
}

// Config is the full set of simulation parameters for one tree.
type Config struct {
	Growth     GrowthConfig     `yaml:"growth"`
	Sampling   SamplingConfig   `yaml:"sampling"`
	Sequencing SequencingConfig `yaml:"sequencing"`
}

// ErrInvalidConfig is wrapped by every error returned from Config.Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// DefaultConfig returns the stock parameter set.
func DefaultConfig() Config {
	return Config{
		Growth: GrowthConfig{
			NumIterations:     50,
			MinNodes:          10,
			MaxNodes:          1000,
			MaxPopulationSize: 1000000,
			ProbSNV:           0.15,
			ProbCNV:           0.02,
			ProbDeath:         0.06,
		},
		Sampling: SamplingConfig{
			NumSamples:         []int{5},
			MaxSubclones:       5,
			CellsPerSample:     100000,
			MinNormalPercent:   0,
			MaxNormalPercent:   20,
			MixNeighborSubtree: true,
		},
		Sequencing: SequencingConfig{
			Coverage: []int{1000},
			Error:    0.001,
		},
	}
}

// CNVAware reports whether frequencies must be computed with haplotype accounting.
func (c *Config) CNVAware() bool {
	return c.Growth.ProbCNV > 0
}

// Normalize applies the documented parameter coercions in place and reports
// whether anything changed. A max contamination below the min is raised to the min.
func (c *Config) Normalize() bool {
	if c.Sampling.MaxNormalPercent < c.Sampling.MinNormalPercent {
		c.Sampling.MaxNormalPercent = c.Sampling.MinNormalPercent
		return true
	}
	return false
}

// Validate checks every parameter before any simulation work begins.
func (c *Config) Validate() error {
	g := c.Growth
	for name, p := range map[string]float64{"prob_snv": g.ProbSNV, "prob_cnv": g.ProbCNV, "prob_death": g.ProbDeath} {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return fmt.Errorf("%w: %s must be in [0, 1], got %f", ErrInvalidConfig, name, p)
		}
	}
	if g.ProbSNV+g.ProbCNV+g.ProbDeath > 1 {
		return fmt.Errorf("%w: the sum of SNV, CNV and death probabilities cannot exceed 1, got %f",
			ErrInvalidConfig, g.ProbSNV+g.ProbCNV+g.ProbDeath)
	}
	if g.NumIterations < 0 {
		return fmt.Errorf("%w: iterations must be non-negative, got %d", ErrInvalidConfig, g.NumIterations)
	}
	if g.MinNodes < 1 {
		return fmt.Errorf("%w: min_nodes must be at least 1, got %d", ErrInvalidConfig, g.MinNodes)
	}
	if g.MaxNodes < g.MinNodes {
		return fmt.Errorf("%w: max_nodes must be at least 1 and not less than min_nodes (%d), got %d",
			ErrInvalidConfig, g.MinNodes, g.MaxNodes)
	}
	if g.MaxPopulationSize < 1 {
		return fmt.Errorf("%w: max_population_size must be positive, got %d", ErrInvalidConfig, g.MaxPopulationSize)
	}
	if g.ProbSNV+g.ProbCNV == 0 {
		// The root never dies but would never divide either, so min_nodes is unreachable.
		return fmt.Errorf("%w: prob_snv + prob_cnv must be positive to grow %d nodes", ErrInvalidConfig, g.MinNodes)
	}

	s := c.Sampling
	if len(s.NumSamples) == 0 {
		return fmt.Errorf("%w: at least one sample count is required", ErrInvalidConfig)
	}
	for _, n := range s.NumSamples {
		if n < 2 {
			return fmt.Errorf("%w: sample count must be at least 2 (normal + one tumor sample), got %d", ErrInvalidConfig, n)
		}
	}
	if s.MaxSubclones < 1 {
		return fmt.Errorf("%w: max_subclones must be positive, got %d", ErrInvalidConfig, s.MaxSubclones)
	}
	if s.CellsPerSample < 1 {
		return fmt.Errorf("%w: cells_per_sample must be positive, got %d", ErrInvalidConfig, s.CellsPerSample)
	}
	if s.MinNormalPercent < 0 || s.MinNormalPercent > 100 {
		return fmt.Errorf("%w: min_normal_percent must be in [0, 100], got %f", ErrInvalidConfig, s.MinNormalPercent)
	}
	if s.MaxNormalPercent < 0 || s.MaxNormalPercent > 100 {
		return fmt.Errorf("%w: max_normal_percent must be in [0, 100], got %f", ErrInvalidConfig, s.MaxNormalPercent)
	}

	q := c.Sequencing
	if len(q.Coverage) == 0 {
		return fmt.Errorf("%w: at least one coverage value is required", ErrInvalidConfig)
	}
	for _, cov := range q.Coverage {
		if cov < 1 {
			return fmt.Errorf("%w: coverage must be positive, got %d", ErrInvalidConfig, cov)
		}
	}
	if math.IsNaN(q.Error) || q.Error < 0 || q.Error > 1 {
		return fmt.Errorf("%w: sequencing error must be in [0, 1], got %f", ErrInvalidConfig, q.Error)
	}
	return nil
}
