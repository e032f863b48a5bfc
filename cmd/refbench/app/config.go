package app

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the optional refbench.yaml workload configuration.
type Config struct {
	Iterations int      `yaml:"iterations,omitempty"`
	Workloads  []string `yaml:"workloads,omitempty"`
}

// DefaultConfig returns the workload set used when no config file is
// given.
func DefaultConfig() *Config {
	return &Config{
		Iterations: 1_000_000,
		Workloads:  []string{WorkloadRaw, WorkloadStrong, WorkloadWeak, WorkloadPool, WorkloadDedup},
	}
}

// LoadOptional reads the config at path, or returns defaults when path
// is empty. Missing fields fall back to their defaults.
func LoadOptional(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}

	if fileCfg.Iterations > 0 {
		cfg.Iterations = fileCfg.Iterations
	}
	if len(fileCfg.Workloads) > 0 {
		cfg.Workloads = fileCfg.Workloads
	}

	return cfg, nil
}
