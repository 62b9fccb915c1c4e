package export

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lineage-sim/lineage-sim/sim"
)

// Manifest describes one run: its identity, its parameters and a summary line
// per simulated tree.
type Manifest struct {
	RunID     string       `yaml:"run_id"`
	CreatedAt string       `yaml:"created_at"`
	Seed      int64        `yaml:"seed"`
	Trees     int          `yaml:"trees"`
	CNVAware  bool         `yaml:"cnv_aware"`
	Params    sim.Config   `yaml:"params"`
	Results   []TreeResult `yaml:"results"`
}

// TreeResult summarizes one simulated tree.
type TreeResult struct {
	Tree      int    `yaml:"tree"`
	Dir       string `yaml:"dir"`
	Rounds    int    `yaml:"rounds"`
	Nodes     int    `yaml:"nodes"`
	DeadNodes int    `yaml:"dead_nodes"`
	SNVs      int    `yaml:"snvs"`
	CNVs      int    `yaml:"cnvs"`
	VAFRows   int    `yaml:"vaf_rows"` // SNVs in the true tables, summed over sample counts
}

// WriteManifest writes m as YAML to path.
func WriteManifest(path string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling run manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing run manifest: %w", err)
	}
	return nil
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing run manifest: %w", err)
	}
	return &m, nil
}
