package cli

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config is the run configuration file.
type Config struct {
	TmpDir         string            `yaml:"tmp_dir"`
	SpillThreshold int               `yaml:"spill_threshold"`
	Workers        int               `yaml:"workers"`
	Prefixes       map[string]string `yaml:"prefixes"`
}

// LoadConfig reads a YAML config file. Unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.SpillThreshold < 0 {
		return nil, fmt.Errorf("%s: spill_threshold must not be negative", path)
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("%s: workers must not be negative", path)
	}
	return &cfg, nil
}

// merge overlays the flags the user set explicitly.
func (c *Config) merge(flags *pflag.FlagSet, opts *RunOptions) {
	if flags.Changed("tmp") || c.TmpDir == "" {
		c.TmpDir = opts.TmpDir
	}
	if flags.Changed("spill-threshold") || c.SpillThreshold == 0 {
		c.SpillThreshold = opts.SpillThreshold
	}
	if flags.Changed("workers") || c.Workers == 0 {
		c.Workers = opts.Workers
	}
}
