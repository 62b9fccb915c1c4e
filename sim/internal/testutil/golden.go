// Package testutil provides shared test infrastructure for the lineage simulator.
// It holds the golden VAF scenarios and assertion helpers used across
// sim/ and its subpackages.
package testutil

import (
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"gopkg.in/yaml.v3"
)

// GoldenDataset represents the structure of testdata/golden_vaf.yaml.
type GoldenDataset struct {
	Scenarios []GoldenScenario `yaml:"scenarios"`
}

// GoldenScenario is a hand-built tree, one sample drawn from it and the
// frequencies that sample must produce.
type GoldenScenario struct {
	Name        string             `yaml:"name"`
	CNVAware    bool               `yaml:"cnv_aware"`
	NormalCells int                `yaml:"normal_cells"`
	Populations []GoldenPopulation `yaml:"populations"`
	Expected    map[string]float64 `yaml:"expected"` // SNV name -> frequency
	Affected    int                `yaml:"cnv_affected"`
}

// GoldenPopulation is one non-root node. Parent indexes earlier entries of
// Populations plus one; 0 is the germline root.
type GoldenPopulation struct {
	Parent   int            `yaml:"parent"`
	Mutation GoldenMutation `yaml:"mutation"`
	Count    int            `yaml:"count"` // cells drawn into the sample
}

// GoldenMutation describes a mutation by kind and locus.
type GoldenMutation struct {
	Kind       string `yaml:"kind"` // "snv" or "cnv"
	Chromosome int    `yaml:"chromosome"`
	Position   int    `yaml:"position"`
	Arm        int    `yaml:"arm"`
	Haplotype  int    `yaml:"haplotype"`
}

// LoadGoldenDataset loads the golden scenarios from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "golden_vaf.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := yaml.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}
	if len(dataset.Scenarios) == 0 {
		t.Fatal("golden dataset has no scenarios")
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
