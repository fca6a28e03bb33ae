package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. HPM_INDICES_DIR.
const EnvPrefix = "HPM"

type Config struct {
	IndicesDir   string `yaml:"indices_dir" envconfig:"INDICES_DIR"`
	RiskFreePath string `yaml:"risk_free_path" envconfig:"RISK_FREE_PATH"`
	MarketPath   string `yaml:"market_path" envconfig:"MARKET_PATH"`
	OutputPath   string `yaml:"output_path" envconfig:"OUTPUT_PATH"`
	PlotDir      string `yaml:"plot_dir" envconfig:"PLOT_DIR"`
	// Optional outputs, disabled when empty.
	SummaryChart string `yaml:"summary_chart" envconfig:"SUMMARY_CHART"`
	DBPath       string `yaml:"db_path" envconfig:"DB_PATH"`

	AnchorMonth int  `yaml:"anchor_month" envconfig:"ANCHOR_MONTH"`
	Workers     int  `yaml:"workers" envconfig:"WORKERS"`
	FailFast    bool `yaml:"fail_fast" envconfig:"FAIL_FAST"`

	LogLevel  string `yaml:"log_level" envconfig:"LOG_LEVEL"`
	LogFormat string `yaml:"log_format" envconfig:"LOG_FORMAT"`
}

// Default returns the conventional input layout: ./indices, ./market/3month_tbill.csv
// and ./market/sp500.csv, writing results.csv and the plots to the working directory.
func Default() Config {
	return Config{
		IndicesDir:   "./indices",
		RiskFreePath: "./market/3month_tbill.csv",
		MarketPath:   "./market/sp500.csv",
		OutputPath:   "results.csv",
		PlotDir:      ".",
		AnchorMonth:  1,
		Workers:      1,
		FailFast:     true,
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

// Load starts from Default, applies the YAML file at path (if any) and then the
// HPM_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("env config: %w", err)
	}
	return cfg, nil
}

// ValidateStore checks only what the run history commands need.
func (c Config) ValidateStore() error {
	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	return nil
}

func (c Config) Validate() error {
	if c.IndicesDir == "" {
		return fmt.Errorf("indices dir is required")
	}
	if c.RiskFreePath == "" {
		return fmt.Errorf("risk-free path is required")
	}
	if c.MarketPath == "" {
		return fmt.Errorf("market path is required")
	}
	if c.OutputPath == "" {
		return fmt.Errorf("output path is required")
	}
	if c.AnchorMonth < 1 || c.AnchorMonth > 12 {
		return fmt.Errorf("anchor month must be between 1 and 12, got %d", c.AnchorMonth)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}
