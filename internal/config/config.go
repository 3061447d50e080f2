// Package config exposes strongly typed application configuration structs loaded from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"fxcarry-go/internal/backtest"
)

// App captures process-wide runtime settings such as name, environment, metrics, and logging levels.
type App struct {
	Name        string `yaml:"name"`
	Env         string `yaml:"env"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
}

// Data points the loader at the four fixing CSVs and the results sink.
type Data struct {
	FXLonFixes    string `yaml:"fx_lon_fixes"`
	FXNYFixes     string `yaml:"fx_ny_fixes"`
	SwapsLonFixes string `yaml:"swaps_lon_fixes"`
	SwapsNYFixes  string `yaml:"swaps_ny_fixes"`
	ResultsPath   string `yaml:"results_path"`
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App      App                `yaml:"app"`
	Backtest backtest.Config    `yaml:"backtest"`
	Spreads  map[string]float64 `yaml:"spreads"`
	Data     Data               `yaml:"data"`
}

// SpreadTable merges configured overrides onto the reference spread costs.
func (c *Config) SpreadTable() backtest.SpreadTable {
	spreads := backtest.DefaultSpreads()
	for instrument, cost := range c.Spreads {
		spreads[instrument] = cost
	}
	return spreads
}

// Load reads a YAML file from disk and hydrates a Config struct.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return &config, nil
}

// Save persists a Config struct to disk as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
