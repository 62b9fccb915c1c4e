// Package pipeline runs replicate lineage simulations and writes their outputs.
//
// Each replicate tree gets its own PartitionedRNG derived from the run seed
// and the tree index, so a tree's outputs do not depend on how many workers
// ran alongside it or in which order trees finished.
package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/lineage-sim/lineage-sim/sim"
	"github.com/lineage-sim/lineage-sim/sim/export"
	"github.com/lineage-sim/lineage-sim/sim/trace"
)

// ResultsDirName is the directory created under the output directory.
const ResultsDirName = "simulation_results"

// ManifestName is the run manifest file inside ResultsDirName.
const ManifestName = "run.yaml"

// RunConfig configures a replicate run.
type RunConfig struct {
	Params        sim.Config
	NumTrees      int
	Workers       int // concurrent trees; values < 1 mean one
	OutputDir     string
	Seed          int64
	DOT           bool // write TREE.dot per tree
	SampledDOT    bool // write TREE_s<n>.dot per tree and sample count
	SampleProfile bool // add the binary presence column to VAF files
	TraceLevel    trace.TraceLevel
	SQLitePath    string // optional result database
}

// Result is the outcome of a completed run.
type Result struct {
	RunID      string
	ResultsDir string
	Trees      []export.TreeResult // indexed by tree
	Traces     []*trace.SimulationTrace
}

// AverageNodes returns the mean node count per tree.
func (r *Result) AverageNodes() float64 {
	if len(r.Trees) == 0 {
		return 0
	}
	total := 0
	for _, t := range r.Trees {
		total += t.Nodes
	}
	return float64(total) / float64(len(r.Trees))
}

// Runner simulates NumTrees independent trees and writes their outputs.
type Runner struct {
	config     RunConfig
	resultsDir string
	store      *export.Store
	hasRun     bool
}

// NewRunner creates a Runner. The config is checked when Run is called.
func NewRunner(config RunConfig) *Runner {
	if config.Workers < 1 {
		config.Workers = 1
	}
	return &Runner{
		config:     config,
		resultsDir: filepath.Join(config.OutputDir, ResultsDirName),
	}
}

func (r *Runner) validate() error {
	if err := r.config.Params.Validate(); err != nil {
		return err
	}
	if r.config.NumTrees < 1 {
		return fmt.Errorf("%w: number of trees must be positive, got %d", sim.ErrInvalidConfig, r.config.NumTrees)
	}
	if r.config.OutputDir == "" {
		return fmt.Errorf("%w: output directory is required", sim.ErrInvalidConfig)
	}
	if !trace.IsValidTraceLevel(string(r.config.TraceLevel)) {
		return fmt.Errorf("%w: unknown trace level %q", sim.ErrInvalidConfig, r.config.TraceLevel)
	}
	return nil
}

// Run simulates every tree, writes per-tree files and the run manifest, and
// returns the per-tree summaries. The first tree failure cancels the rest.
// Panics if called more than once.
func (r *Runner) Run(ctx context.Context) (result *Result, err error) {
	if r.hasRun {
		panic("Runner.Run() called more than once")
	}
	r.hasRun = true

	if err := r.validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(r.resultsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating results directory: %w", err)
	}

	runID := uuid.NewString()
	if r.config.SQLitePath != "" {
		store, openErr := export.OpenStore(ctx, r.config.SQLitePath)
		if openErr != nil {
			return nil, openErr
		}
		defer func() {
			if cerr := store.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing result database: %w", cerr)
			}
		}()
		if err := store.SaveRun(ctx, runID, r.config.Seed, r.config.Params); err != nil {
			return nil, err
		}
		r.store = store
	}

	logrus.Infof("Starting run %s: %d trees, %d workers, seed %d", runID, r.config.NumTrees, r.config.Workers, r.config.Seed)
	key := sim.NewSimulationKey(r.config.Seed)
	results := make([]export.TreeResult, r.config.NumTrees)
	traces := make([]*trace.SimulationTrace, r.config.NumTrees)

	var done atomic.Int64
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.config.Workers)
	for t := 0; t < r.config.NumTrees; t++ {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			res, st, err := r.simulateTree(groupCtx, runID, t, key)
			if err != nil {
				return fmt.Errorf("tree %d: %w", t, err)
			}
			results[t] = res
			traces[t] = st
			logrus.Infof("[PROGRESS] Simulated %d trees.", done.Add(1))
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	result = &Result{
		RunID:      runID,
		ResultsDir: r.resultsDir,
		Trees:      results,
		Traces:     traces,
	}
	manifest := &export.Manifest{
		RunID:     runID,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Seed:      r.config.Seed,
		Trees:     r.config.NumTrees,
		CNVAware:  r.config.Params.CNVAware(),
		Params:    r.config.Params,
		Results:   results,
	}
	if err := export.WriteManifest(filepath.Join(r.resultsDir, ManifestName), manifest); err != nil {
		return nil, err
	}
	logrus.Infof("[SUMMARY] Simulated %d trees. Average number of nodes / tree = %g", r.config.NumTrees, result.AverageNodes())
	return result, nil
}

// simulateTree grows, samples and writes one replicate.
func (r *Runner) simulateTree(ctx context.Context, runID string, t int, key sim.SimulationKey) (export.TreeResult, *trace.SimulationTrace, error) {
	params := r.config.Params
	dirName := fmt.Sprintf("tree_%d", t)
	dir := filepath.Join(r.resultsDir, dirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return export.TreeResult{}, nil, fmt.Errorf("creating tree directory: %w", err)
	}

	rng := sim.NewPartitionedRNG(key.Derive(sim.SubsystemTree(t)))
	tr := sim.NewTree(params, rng)
	var st *trace.SimulationTrace
	if r.config.TraceLevel == trace.TraceLevelRounds {
		st = trace.NewSimulationTrace(trace.TraceConfig{Level: r.config.TraceLevel})
		tr.SetTrace(st)
	}

	sim.GrowToBounds(tr)
	if err := export.WriteTreeText(filepath.Join(dir, "TREE_plain.txt"), tr); err != nil {
		return export.TreeResult{}, nil, err
	}
	if r.config.DOT {
		if err := export.WriteDOT(filepath.Join(dir, "TREE.dot"), export.DOT(tr, params.Growth.MaxPopulationSize)); err != nil {
			return export.TreeResult{}, nil, err
		}
	}
	logrus.Debugf("Generated tree %d with %d nodes.", t, tr.NodeCount())
	if r.store != nil {
		if err := r.store.SaveTree(ctx, runID, t, tr); err != nil {
			return export.TreeResult{}, nil, err
		}
	}

	snvs, cnvs := tr.MutationCounts()
	res := export.TreeResult{
		Tree:      t,
		Dir:       dirName,
		Rounds:    tr.Rounds(),
		Nodes:     tr.NodeCount(),
		DeadNodes: tr.DeadNodeCount(),
		SNVs:      snvs,
		CNVs:      cnvs,
	}

	noise := rng.ForSubsystem(sim.SubsystemNoise)
	for _, n := range params.Sampling.NumSamples {
		if err := ctx.Err(); err != nil {
			return export.TreeResult{}, nil, err
		}
		rows, err := r.writeSampleSet(ctx, runID, t, dir, tr, n, noise)
		if err != nil {
			return export.TreeResult{}, nil, fmt.Errorf("%d samples: %w", n, err)
		}
		res.VAFRows += rows
	}
	return res, st, nil
}

// writeSampleSet draws n-1 tumor samples (sample 0 is the normal sample) and
// writes the sampled tree, the true and noisy VAF tables and the subclones.
// It returns the number of SNV rows in the true table.
func (r *Runner) writeSampleSet(ctx context.Context, runID string, t int, dir string, tr *sim.Tree, n int, noise *rand.Rand) (int, error) {
	params := r.config.Params
	samples, err := tr.DrawSamples(n - 1)
	if err != nil {
		return 0, err
	}
	if r.config.SampledDOT {
		path := filepath.Join(dir, fmt.Sprintf("TREE_s%d.dot", n))
		if err := export.WriteDOT(path, export.SampledDOT(tr, samples, params.Growth.MaxPopulationSize)); err != nil {
			return 0, err
		}
	}

	cnvAware := params.CNVAware()
	tbl, err := sim.BuildVAFTable(samples, cnvAware)
	if err != nil {
		return 0, fmt.Errorf("computing frequencies: %w", err)
	}
	if cnvAware {
		affected := 0
		for _, s := range samples {
			affected += s.CNVAffectedSNVs()
		}
		logrus.Debugf("Tree %d, %d samples: %d SNV loci touched by copy-number gains", t, n, affected)
	}

	var profiles *sim.VAFTable
	if r.config.SampleProfile {
		profiles = tbl
	}
	if err := export.WriteVAFFile(filepath.Join(dir, fmt.Sprintf("VAF_s%d_true.txt", n)), tbl, profiles); err != nil {
		return 0, err
	}
	if err := r.saveVAFs(ctx, runID, t, export.TrueCoverage, tbl); err != nil {
		return 0, err
	}
	for _, cov := range params.Sequencing.Coverage {
		noisy := tbl.WithNoise(cov, params.Sequencing.Error, noise)
		if err := export.WriteVAFFile(filepath.Join(dir, fmt.Sprintf("VAF_s%d_%dX.txt", n, cov)), noisy, profiles); err != nil {
			return 0, err
		}
		if err := r.saveVAFs(ctx, runID, t, cov, noisy); err != nil {
			return 0, err
		}
	}
	if err := export.WriteSubclones(filepath.Join(dir, fmt.Sprintf("SUBCLONES_s%d.txt", n)), tr, samples); err != nil {
		return 0, err
	}
	return len(tbl.Rows()), nil
}

func (r *Runner) saveVAFs(ctx context.Context, runID string, t, coverage int, tbl *sim.VAFTable) error {
	if r.store == nil {
		return nil
	}
	return r.store.SaveVAFTable(ctx, runID, t, coverage, tbl)
}
