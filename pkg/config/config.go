package config

import (
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/XiaoConstantine/hyperband-go/pkg/errors"
)

// OutputConfig names where the driver persists the evaluation trace.
// Empty fields disable the corresponding sink.
type OutputConfig struct {
	Trace   string `yaml:"trace"`   // tab-separated cumulative-cost/best-score file
	SQLite  string `yaml:"sqlite"`  // per-evaluation sqlite database
	Parquet string `yaml:"parquet"` // post-run parquet snapshot
}

// Config drives the hypersearch batch entry point.
type Config struct {
	Eta         float64 `yaml:"eta" validate:"gt=1"`
	MaxBudget   float64 `yaml:"max_budget" validate:"gte=1"`
	Seed        int64   `yaml:"seed"`
	Parallelism int     `yaml:"parallelism" validate:"gte=1"`

	// Noise is the synthetic objective's noise level.
	Noise float64 `yaml:"noise" validate:"gte=0"`

	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=DEBUG INFO WARN ERROR FATAL"`

	Output OutputConfig `yaml:"output"`
}

// Default returns the baseline configuration: the canonical eta=3,
// 60-second-budget search, strictly sequential.
func Default() *Config {
	return &Config{
		Eta:         3,
		MaxBudget:   60,
		Parallelism: 1,
		Noise:       0.1,
		LogLevel:    "INFO",
		Output: OutputConfig{
			Trace: "hyperband_evals.txt",
		},
	}
}

// Load builds the configuration by layering sources: defaults, then the
// YAML file at path (skipped when path is empty or missing), then
// HYPERBAND_* environment variables. The merged result is validated before
// anything else runs.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, errors.Wrap(err, errors.InvalidInput, "failed to read config file")
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, errors.InvalidInput, "failed to parse config YAML")
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, errors.ValidationFailed, "invalid configuration")
	}

	return cfg, nil
}

// applyEnv overrides fields from HYPERBAND_* environment variables,
// the highest-priority source.
func applyEnv(cfg *Config) error {
	if v := os.Getenv("HYPERBAND_ETA"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrap(err, errors.InvalidInput, "invalid HYPERBAND_ETA")
		}
		cfg.Eta = f
	}
	if v := os.Getenv("HYPERBAND_MAX_BUDGET"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrap(err, errors.InvalidInput, "invalid HYPERBAND_MAX_BUDGET")
		}
		cfg.MaxBudget = f
	}
	if v := os.Getenv("HYPERBAND_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return errors.Wrap(err, errors.InvalidInput, "invalid HYPERBAND_SEED")
		}
		cfg.Seed = n
	}
	if v := os.Getenv("HYPERBAND_PARALLELISM"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, errors.InvalidInput, "invalid HYPERBAND_PARALLELISM")
		}
		cfg.Parallelism = n
	}
	if v := os.Getenv("HYPERBAND_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return nil
}
