// Package config provides YAML-based solver configuration.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"shapecaptcha/internal/shape"
	"shapecaptcha/pkg/colorutil"
)

const (
	appDir     = "shapesolve"
	configFile = "config.yaml"

	// EnvCollect enables the labeled-example log when set to a true value.
	EnvCollect = "COLLECT_DATASET"
	// EnvDatasetPath overrides the labeled-example log path.
	EnvDatasetPath = "SHAPESOLVE_DATASET"
)

// Config holds every tunable of the solver.
type Config struct {
	Analysis shape.Params      `yaml:"analysis"`
	Palette  colorutil.Palette `yaml:"palette"`
	// Workers bounds per-stage parallel shape analysis; 0 or 1 is sequential.
	Workers int     `yaml:"workers"`
	Dataset Dataset `yaml:"dataset"`
}

// Dataset configures the labeled-example log and the image dump.
type Dataset struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	DumpDir string `yaml:"dump_dir"`
}

// Default returns the calibrated configuration.
func Default() Config {
	return Config{
		Analysis: shape.DefaultParams(),
		Palette:  colorutil.DefaultPalette(),
		Workers:  1,
		Dataset:  Dataset{Path: "fine_tuning_dataset.jsonl"},
	}
}

// DefaultPath returns ~/.config/shapesolve/config.yaml.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, appDir, configFile)
}

// Load reads path over the defaults. An empty path means DefaultPath, and a
// missing file at the default location yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, cfg.Validate()
}

// ApplyEnv applies environment overrides. Any non-empty EnvCollect value
// enables collection except one that parses as false ("0", "false").
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvCollect); v != "" {
		on, err := strconv.ParseBool(v)
		c.Dataset.Enabled = on || err != nil
	}
	if v := os.Getenv(EnvDatasetPath); v != "" {
		c.Dataset.Path = v
	}
}

// Validate reports the first inconsistent setting.
func (c Config) Validate() error {
	if err := c.Analysis.Validate(); err != nil {
		return errors.Wrap(err, "analysis")
	}
	if err := c.Palette.Validate(); err != nil {
		return err
	}
	if c.Workers < 0 {
		return errors.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if c.Dataset.Enabled && c.Dataset.Path == "" {
		return errors.New("dataset enabled without a path")
	}
	return nil
}

// Save writes the configuration as YAML.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create config directory")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0o644), "write config %s", path)
}
