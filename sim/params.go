package sim

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadParams reads a YAML parameter file on top of DefaultConfig.
// Keys absent from the file keep their default; unknown keys (typos) are rejected.
func LoadParams(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading parameter file: %w", err)
	}
	return ParseParams(data)
}

// ParseParams decodes YAML parameter bytes on top of DefaultConfig.
// Empty input yields the defaults.
func ParseParams(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing parameter file: %w", err)
	}
	return &cfg, nil
}
