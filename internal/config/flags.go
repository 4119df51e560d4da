package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// ParseFlags parses command-line flags and returns a Config.
func ParseFlags() (*Config, error) {
	cfg := DefaultConfig()

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `bwe-report - bandwidth estimation experiment log analyzer

Usage:
  bwe-report [flags] <EXPERIMENTS_DIR>

Input Flags:
`)
		printFlagCategory([]string{"config"})

		fmt.Fprintf(os.Stderr, "\nOutput:\n")
		printFlagCategory([]string{"out"})

		fmt.Fprintf(os.Stderr, "\nAnalysis:\n")
		printFlagCategory([]string{"window", "workers"})

		fmt.Fprintf(os.Stderr, "\nObservability:\n")
		printFlagCategory([]string{"metrics", "v", "log-format"})

		fmt.Fprintf(os.Stderr, "\nDashboard:\n")
		printFlagCategory([]string{"tui"})

		fmt.Fprintf(os.Stderr, `
Examples:
  # Analyze every experiment under ./results
  bwe-report -config suite.yaml ./results

  # Coarser bitrate windows, plain output
  bwe-report -window 1s -tui=false ./results

`)
	}

	// Input
	flag.StringVar(&cfg.ConfigPath, "config", cfg.ConfigPath, "Experiment suite YAML (enables quality names and capacity reference)")

	// Output
	flag.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "Directory for generated CSV reports")

	// Analysis
	flag.DurationVar(&cfg.Window, "window", cfg.Window, "Bitrate aggregation window")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "Concurrent experiment analyzers")

	// Observability
	flag.StringVar(&cfg.MetricsAddr, "metrics", cfg.MetricsAddr, "Prometheus metrics address (empty = disabled)")
	flag.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Verbose logging")
	flag.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, `Log format: "json" or "text"`)

	// TUI (Terminal User Interface)
	flag.BoolVar(&cfg.TUIEnabled, "tui", cfg.TUIEnabled, "Enable live progress dashboard (use -tui=false to disable)")

	flag.Parse()

	// Positional argument: experiments directory
	args := flag.Args()
	if len(args) >= 1 {
		cfg.ExperimentsDir = args[0]
	}

	return cfg, nil
}

// printFlagCategory prints flags matching the given names (helper for usage).
func printFlagCategory(names []string) {
	flag.VisitAll(func(f *flag.Flag) {
		for _, name := range names {
			if f.Name == name {
				fmt.Fprintf(os.Stderr, "  -%s %s\n    \t%s", f.Name, flagType(f), f.Usage)
				if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" && f.DefValue != "0s" {
					fmt.Fprintf(os.Stderr, " (default %s)", f.DefValue)
				}
				fmt.Fprintln(os.Stderr)
				return
			}
		}
	})
}

// flagType returns a type hint for the flag value.
func flagType(f *flag.Flag) string {
	switch f.DefValue {
	case "true", "false":
		return ""
	}

	if strings.HasSuffix(f.DefValue, "s") || strings.HasSuffix(f.DefValue, "m") || strings.HasSuffix(f.DefValue, "h") {
		return "duration"
	}

	if _, err := fmt.Sscanf(f.DefValue, "%d", new(int)); err == nil {
		return "int"
	}

	return "string"
}
