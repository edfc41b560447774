package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Source    string   `yaml:"source"`
	Sources   Sources  `yaml:"sources"`
	Analysis  Analysis `yaml:"analysis"`
	OutputDir string   `yaml:"output_dir"`
}

type Sources struct {
	CSV      string `yaml:"csv"`
	Postgres string `yaml:"postgres"`
	MySQL    string `yaml:"mysql"`
	Mongo    string `yaml:"mongo"`
}

type Analysis struct {
	ClusterCount int `yaml:"cluster_count"`
	// RandomSeed zero in the file selects the default seed; use the -seed
	// flag to run with an explicit zero seed.
	RandomSeed      int64 `yaml:"random_seed"`
	TopProducts     int   `yaml:"top_products"`
	ForecastHorizon int   `yaml:"forecast_horizon"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		Source: "csv",
		Sources: Sources{
			CSV: "data/online_retail_II.csv",
		},
		Analysis: Analysis{
			ClusterCount:    4,
			RandomSeed:      42,
			TopProducts:     10,
			ForecastHorizon: 6,
		},
		OutputDir: "out",
	}
}

// LoadConfig reads a YAML config file and fills unset fields with defaults.
// A missing file is not an error; defaults are returned.
func LoadConfig(path string) (*Config, error) {
	config := Default()

	file, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(file, config); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	config.applyDefaults()

	return config, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Source == "" {
		c.Source = def.Source
	}
	if c.Sources.CSV == "" {
		c.Sources.CSV = def.Sources.CSV
	}
	if c.Analysis.ClusterCount <= 0 {
		c.Analysis.ClusterCount = def.Analysis.ClusterCount
	}
	if c.Analysis.RandomSeed == 0 {
		c.Analysis.RandomSeed = def.Analysis.RandomSeed
	}
	if c.Analysis.TopProducts <= 0 {
		c.Analysis.TopProducts = def.Analysis.TopProducts
	}
	if c.Analysis.ForecastHorizon <= 0 {
		c.Analysis.ForecastHorizon = def.Analysis.ForecastHorizon
	}
	if c.OutputDir == "" {
		c.OutputDir = def.OutputDir
	}
}

// DSN returns the connection string (or file path) configured for the
// given source type.
func (c *Config) DSN(sourceType string) (string, error) {
	switch sourceType {
	case "csv":
		return c.Sources.CSV, nil
	case "postgres":
		return c.Sources.Postgres, nil
	case "mysql":
		return c.Sources.MySQL, nil
	case "mongo":
		return c.Sources.Mongo, nil
	}
	return "", fmt.Errorf("unsupported source type: %s", sourceType)
}
