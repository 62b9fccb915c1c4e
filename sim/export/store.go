package export

import (
	"context"
	"database/sql"
	"fmt"

	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/lineage-sim/lineage-sim/sim"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    seed INTEGER NOT NULL,
    params TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS trees (
    run_id TEXT NOT NULL,
    tree INTEGER NOT NULL,
    rounds INTEGER NOT NULL,
    nodes INTEGER NOT NULL,
    dead_nodes INTEGER NOT NULL,
    PRIMARY KEY (run_id, tree),
    FOREIGN KEY (run_id) REFERENCES runs(id)
);

CREATE TABLE IF NOT EXISTS populations (
    run_id TEXT NOT NULL,
    tree INTEGER NOT NULL,
    id INTEGER NOT NULL,
    parent INTEGER NOT NULL,
    name TEXT NOT NULL,
    kind TEXT NOT NULL,
    size INTEGER NOT NULL,
    dead INTEGER NOT NULL,
    description TEXT NOT NULL,
    PRIMARY KEY (run_id, tree, id),
    FOREIGN KEY (run_id, tree) REFERENCES trees(run_id, tree)
);

CREATE TABLE IF NOT EXISTS vafs (
    run_id TEXT NOT NULL,
    tree INTEGER NOT NULL,
    num_samples INTEGER NOT NULL,
    coverage INTEGER NOT NULL,
    snv TEXT NOT NULL,
    chrom INTEGER NOT NULL,
    pos INTEGER NOT NULL,
    sample INTEGER NOT NULL,
    vaf REAL NOT NULL,
    FOREIGN KEY (run_id, tree) REFERENCES trees(run_id, tree)
);
CREATE INDEX IF NOT EXISTS idx_vafs_tree ON vafs(run_id, tree, num_samples, coverage);
`

// TrueCoverage is the coverage recorded for noise-free frequency tables.
const TrueCoverage = 0

// Store writes run results to a SQLite database.
// It holds a single connection, so concurrent callers are serialized.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the database at dataSourceName and
// applies the schema. ":memory:" gives a private in-memory database.
func OpenStore(ctx context.Context, dataSourceName string) (*Store, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun records a run and its parameters.
func (s *Store) SaveRun(ctx context.Context, runID string, seed int64, params sim.Config) error {
	data, err := yaml.Marshal(params)
	if err != nil {
		return fmt.Errorf("marshaling params: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, seed, params) VALUES (?, ?, ?)`,
		runID, seed, string(data),
	); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// SaveTree records a tree and every population in it.
func (s *Store) SaveTree(ctx context.Context, runID string, tree int, tr *sim.Tree) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO trees (run_id, tree, rounds, nodes, dead_nodes) VALUES (?, ?, ?, ?, ?)`,
		runID, tree, tr.Rounds(), tr.NodeCount(), tr.DeadNodeCount(),
	); err != nil {
		return fmt.Errorf("failed to save tree %d: %w", tree, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO populations (run_id, tree, id, parent, name, kind, size, dead, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare population insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, p := range tr.Populations() {
		kind, desc := "germline", ""
		if m, ok := p.LastMutation(); ok {
			kind, desc = m.Kind.String(), m.String()
		}
		if _, err := stmt.ExecContext(ctx,
			runID, tree, int(p.ID), int(p.Parent), p.Name(), kind, p.Size, p.Dead, desc,
		); err != nil {
			return fmt.Errorf("failed to save population %d: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

// SaveVAFTable records every tumor-sample value of tbl in long format.
// coverage is TrueCoverage for noise-free tables.
func (s *Store) SaveVAFTable(ctx context.Context, runID string, tree, coverage int, tbl *sim.VAFTable) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO vafs (run_id, tree, num_samples, coverage, snv, chrom, pos, sample, vaf)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare vaf insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range tbl.Rows() {
		for sample := 1; sample < len(r.Values); sample++ {
			if _, err := stmt.ExecContext(ctx,
				runID, tree, tbl.NumSamples(), coverage,
				r.SNV.Name, r.SNV.Chromosome+1, r.SNV.Position, sample, r.Values[sample],
			); err != nil {
				return fmt.Errorf("failed to save vaf %s/%d: %w", r.SNV.Name, sample, err)
			}
		}
	}
	return tx.Commit()
}
