package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig is the top-level shape of a driver's on-disk configuration
// file: cluster options plus the build profile it was authored against.
type FileConfig struct {
	Options ClusterOptions `yaml:"options"`
	Profile BuildProfile   `yaml:"profile"`
}

// Load reads and parses a FileConfig from a YAML file, then validates
// the embedded ClusterOptions.
func Load(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := fc.Options.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}

	return &fc, nil
}

// Dump serializes a FileConfig to YAML and writes it to path.
func Dump(path string, fc *FileConfig) error {
	data, err := yaml.Marshal(fc)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
