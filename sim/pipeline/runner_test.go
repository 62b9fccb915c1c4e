package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/lineage-sim/lineage-sim/sim"
	"github.com/lineage-sim/lineage-sim/sim/export"
	"github.com/lineage-sim/lineage-sim/sim/trace"
)

// smallRunConfig returns a fast run: small trees, two sample counts, one coverage.
func smallRunConfig(t *testing.T) RunConfig {
	t.Helper()
	params := sim.DefaultConfig()
	params.Growth.NumIterations = 8
	params.Growth.MinNodes = 4
	params.Growth.MaxNodes = 40
	params.Sampling.NumSamples = []int{2, 4}
	params.Sampling.CellsPerSample = 500
	params.Sequencing.Coverage = []int{100}
	return RunConfig{
		Params:    params,
		NumTrees:  3,
		Workers:   2,
		OutputDir: t.TempDir(),
		Seed:      42,
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRun_WritesOutputLayout(t *testing.T) {
	// GIVEN a run with every optional output enabled
	cfg := smallRunConfig(t)
	cfg.DOT = true
	cfg.SampledDOT = true
	cfg.SampleProfile = true

	// WHEN running it
	result, err := NewRunner(cfg).Run(context.Background())
	require.NoError(t, err)

	// THEN each tree directory holds the full file set
	resultsDir := filepath.Join(cfg.OutputDir, ResultsDirName)
	assert.Equal(t, resultsDir, result.ResultsDir)
	for tree := 0; tree < cfg.NumTrees; tree++ {
		dir := filepath.Join(resultsDir, "tree_"+strconv.Itoa(tree))
		files := []string{"TREE_plain.txt", "TREE.dot"}
		for _, n := range []string{"2", "4"} {
			files = append(files,
				"TREE_s"+n+".dot",
				"VAF_s"+n+"_true.txt",
				"VAF_s"+n+"_100X.txt",
				"SUBCLONES_s"+n+".txt",
			)
		}
		for _, f := range files {
			assert.FileExists(t, filepath.Join(dir, f))
		}
		header := strings.SplitN(readFile(t, filepath.Join(dir, "VAF_s4_true.txt")), "\n", 2)[0]
		assert.Equal(t, "#chrom\tpos\tdesc\tprofile\tnormal\tsample1\tsample2\tsample3", header)
	}

	// AND the manifest matches the returned result
	m, err := export.ReadManifest(filepath.Join(resultsDir, ManifestName))
	require.NoError(t, err)
	assert.Equal(t, result.RunID, m.RunID)
	_, err = uuid.Parse(m.RunID)
	assert.NoError(t, err)
	assert.Equal(t, cfg.Params, m.Params)
	assert.Equal(t, result.Trees, m.Results)
	for i, tr := range result.Trees {
		assert.Equal(t, i, tr.Tree)
		assert.GreaterOrEqual(t, tr.Nodes-tr.DeadNodes, cfg.Params.Growth.MinNodes+1)
		assert.Equal(t, tr.Nodes-1, tr.SNVs+tr.CNVs)
	}
}

func TestRun_SameSeedSameOutputsRegardlessOfWorkers(t *testing.T) {
	serial := smallRunConfig(t)
	serial.Workers = 1
	parallel := smallRunConfig(t)
	parallel.Workers = 3

	_, err := NewRunner(serial).Run(context.Background())
	require.NoError(t, err)
	_, err = NewRunner(parallel).Run(context.Background())
	require.NoError(t, err)

	for tree := 0; tree < serial.NumTrees; tree++ {
		for _, f := range []string{"TREE_plain.txt", "VAF_s4_true.txt", "VAF_s4_100X.txt", "SUBCLONES_s2.txt"} {
			rel := filepath.Join(ResultsDirName, "tree_"+strconv.Itoa(tree), f)
			assert.Equal(t,
				readFile(t, filepath.Join(serial.OutputDir, rel)),
				readFile(t, filepath.Join(parallel.OutputDir, rel)),
				rel)
		}
	}
}

func TestRun_TreesDiffer(t *testing.T) {
	cfg := smallRunConfig(t)
	_, err := NewRunner(cfg).Run(context.Background())
	require.NoError(t, err)

	dir := filepath.Join(cfg.OutputDir, ResultsDirName)
	a := readFile(t, filepath.Join(dir, "tree_0", "TREE_plain.txt"))
	b := readFile(t, filepath.Join(dir, "tree_1", "TREE_plain.txt"))
	assert.NotEqual(t, a, b, "replicates must use independent streams")
}

func TestRun_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RunConfig)
	}{
		{"no trees", func(c *RunConfig) { c.NumTrees = 0 }},
		{"no output dir", func(c *RunConfig) { c.OutputDir = "" }},
		{"bad params", func(c *RunConfig) { c.Params.Growth.ProbSNV = 2 }},
		{"bad trace level", func(c *RunConfig) { c.TraceLevel = "verbose" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := smallRunConfig(t)
			tc.mutate(&cfg)

			_, err := NewRunner(cfg).Run(context.Background())

			assert.True(t, errors.Is(err, sim.ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestRun_CancelledContext(t *testing.T) {
	cfg := smallRunConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(cfg).Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, ResultsDirName, ManifestName))
}

func TestRun_RecordsTraces(t *testing.T) {
	cfg := smallRunConfig(t)
	cfg.TraceLevel = trace.TraceLevelRounds

	result, err := NewRunner(cfg).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Traces, cfg.NumTrees)
	for i, st := range result.Traces {
		require.NotNil(t, st)
		assert.Len(t, st.Rounds, result.Trees[i].Rounds)
		// 1 + 3 tumor samples across the two sample counts
		assert.Len(t, st.Samples, 4)
	}
	assert.NotEmpty(t, RenderTraceSummary(result.Traces))
}

func TestRun_SQLiteSink(t *testing.T) {
	cfg := smallRunConfig(t)
	cfg.SQLitePath = filepath.Join(t.TempDir(), "results.db")

	result, err := NewRunner(cfg).Run(context.Background())
	require.NoError(t, err)

	db, err := sql.Open("sqlite", cfg.SQLitePath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var runs, trees, pops int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM runs WHERE id = ?", result.RunID).Scan(&runs))
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM trees").Scan(&trees))
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM populations").Scan(&pops))
	assert.Equal(t, 1, runs)
	assert.Equal(t, cfg.NumTrees, trees)
	nodes := 0
	for _, tr := range result.Trees {
		nodes += tr.Nodes
	}
	assert.Equal(t, nodes, pops)
}

func TestRun_TwicePanics(t *testing.T) {
	r := NewRunner(smallRunConfig(t))
	_, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Panics(t, func() { _, _ = r.Run(context.Background()) })
}

func TestResult_AverageNodes(t *testing.T) {
	assert.Zero(t, (&Result{}).AverageNodes())
	r := &Result{Trees: []export.TreeResult{{Nodes: 10}, {Nodes: 20}}}
	assert.Equal(t, 15.0, r.AverageNodes())
}
