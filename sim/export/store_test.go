package export

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lineage-sim/lineage-sim/sim"
)

// newTestStore creates an in-memory store for testing.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := OpenStore(context.Background(), ":memory:")
	require.NoError(t, err, "failed to create test store")

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

func countRows(t *testing.T, s *Store, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, s.db.QueryRow(query, args...).Scan(&n))
	return n
}

// TestStore_Schema verifies that every table is created.
func TestStore_Schema(t *testing.T) {
	s := newTestStore(t)

	for _, table := range []string{"runs", "trees", "populations", "vafs"} {
		n := countRows(t, s, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table)
		require.Equal(t, 1, n, "table %s not found", table)
	}
}

func TestStore_SaveRunTreeAndVAFs(t *testing.T) {
	// GIVEN a run with one tree and its true table
	ctx := context.Background()
	s := newTestStore(t)
	tr, leaf, tbl := leafTable(t)

	// WHEN saving everything
	require.NoError(t, s.SaveRun(ctx, "run-1", 7, doublingConfig()))
	require.NoError(t, s.SaveTree(ctx, "run-1", 0, tr))
	require.NoError(t, s.SaveVAFTable(ctx, "run-1", 0, TrueCoverage, tbl))
	require.NoError(t, s.SaveVAFTable(ctx, "run-1", 0, 100, tbl.WithNoise(100, 0.01, newTestRand(2))))

	// THEN row counts follow the tree and table shapes
	require.Equal(t, 1, countRows(t, s, "SELECT COUNT(*) FROM runs"))
	require.Equal(t, tr.NodeCount(), countRows(t, s, "SELECT COUNT(*) FROM populations WHERE run_id = ?", "run-1"))
	require.Equal(t, 1, countRows(t, s, "SELECT COUNT(*) FROM populations WHERE kind = 'germline' AND parent = -1"))

	perTable := len(leaf.Mutations) * (tbl.NumSamples() - 1)
	require.Equal(t, perTable, countRows(t, s, "SELECT COUNT(*) FROM vafs WHERE coverage = ?", TrueCoverage))
	require.Equal(t, perTable, countRows(t, s, "SELECT COUNT(*) FROM vafs WHERE coverage = 100"))

	var vaf float64
	require.NoError(t, s.db.QueryRow(
		"SELECT vaf FROM vafs WHERE coverage = 0 AND sample = 2 LIMIT 1").Scan(&vaf))
	require.InDelta(t, 0.25, vaf, 1e-12)
}

func TestStore_TreeRequiresRun(t *testing.T) {
	s := newTestStore(t)
	tr := growTree(t, doublingConfig(), 1, 2)

	err := s.SaveTree(context.Background(), "missing-run", 0, tr)

	require.Error(t, err)
	require.Zero(t, countRows(t, s, "SELECT COUNT(*) FROM trees"))
}

func TestStore_DuplicateTreeRejected(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	tr := growTree(t, sim.DefaultConfig(), 1, 5)
	require.NoError(t, s.SaveRun(ctx, "run-1", 1, sim.DefaultConfig()))
	require.NoError(t, s.SaveTree(ctx, "run-1", 0, tr))

	require.Error(t, s.SaveTree(ctx, "run-1", 0, tr))
	require.Equal(t, tr.NodeCount(), countRows(t, s, "SELECT COUNT(*) FROM populations"))
}
