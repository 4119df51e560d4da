// Package config provides configuration management for bwe-report.
package config

import (
	"runtime"
	"time"
)

// Config holds all configuration options for the analyzer.
type Config struct {
	// Input
	ExperimentsDir string `json:"experiments_dir"`
	ConfigPath     string `json:"config_path"` // suite YAML, optional

	// Output
	OutputDir string `json:"output_dir"`

	// Analysis
	Window  time.Duration `json:"window"`
	Workers int           `json:"workers"`

	// Observability
	MetricsAddr string `json:"metrics_addr"` // empty = disabled
	Verbose     bool   `json:"verbose"`
	LogFormat   string `json:"log_format"` // json, text

	// Dashboard
	TUIEnabled bool `json:"tui"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		OutputDir: "report",
		Window:    500 * time.Millisecond,
		Workers:   runtime.NumCPU(),
		Verbose:   false,
		LogFormat: "text",

		TUIEnabled: true,
	}
}
