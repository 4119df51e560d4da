// Package main provides the bwe-report CLI entry point.
//
// bwe-report analyzes per-packet event logs captured during bandwidth
// estimation experiments and produces per-experiment metric series plus
// a run-wide summary.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aalekseevx/bwe-report/internal/analysis"
	"github.com/aalekseevx/bwe-report/internal/config"
	"github.com/aalekseevx/bwe-report/internal/logging"
	"github.com/aalekseevx/bwe-report/internal/metrics"
	"github.com/aalekseevx/bwe-report/internal/preflight"
	"github.com/aalekseevx/bwe-report/internal/report"
	"github.com/aalekseevx/bwe-report/internal/runner"
	"github.com/aalekseevx/bwe-report/internal/testplan"
	"github.com/aalekseevx/bwe-report/internal/tui"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0" ./cmd/bwe-report
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// Handle version flag early (before flag parsing)
	if len(os.Args) > 1 {
		arg := os.Args[1]
		if arg == "-version" || arg == "--version" || arg == "version" {
			fmt.Printf("bwe-report %s\n", version)
			return 0
		}
	}

	cfg, err := config.ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		return 1
	}

	// When the TUI is enabled, suppress logs to avoid interfering with
	// its rendering.
	var logger *slog.Logger
	if cfg.TUIEnabled {
		logger = logging.NewLoggerWithWriter(io.Discard, "json", "info")
	} else {
		logger = logging.NewLogger(cfg.LogFormat, "info", cfg.Verbose)
	}
	logging.SetDefault(logger)

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 1
	}

	checks := preflight.RunAll(cfg.ExperimentsDir, cfg.OutputDir, cfg.ConfigPath, cfg.Workers)
	if !checks.Passed || !cfg.TUIEnabled {
		preflight.PrintResults(checks)
	}
	if !checks.Passed {
		return 1
	}

	var plan *testplan.Plan
	if cfg.ConfigPath != "" {
		plan, err = testplan.Load(cfg.ConfigPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Suite config error: %v\n", err)
			return 1
		}
	}

	logger.Info("starting",
		"version", version,
		"experiments_dir", cfg.ExperimentsDir,
		"output_dir", cfg.OutputDir,
		"workers", cfg.Workers,
		"window", cfg.Window.String(),
	)

	collector := metrics.NewCollector(metrics.CollectorConfig{
		Version:        version,
		ExperimentsDir: cfg.ExperimentsDir,
		Workers:        cfg.Workers,
	})

	var metricsServer *metrics.Server
	if cfg.MetricsAddr != "" {
		metricsServer = metrics.NewServer(cfg.MetricsAddr, logger)
		if err := metricsServer.Start(); err != nil {
			logger.Error("metrics_server_failed", "error", err)
			return 1
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	var program *tea.Program
	callbacks := runner.Callbacks{
		OnDiscovered: func(names []string) {
			if program != nil {
				program.Send(tui.DiscoveredMsg{Names: names})
			}
		},
		OnExperimentDone:   func(s analysis.Summary) { tui.SendDone(program, s) },
		OnExperimentFailed: func(name string, err error) { tui.SendFailed(program, name, err) },
	}

	rn := runner.New(cfg, plan, collector, logger, callbacks)

	type runOutcome struct {
		rpt *runner.RunReport
		err error
	}
	outcome := make(chan runOutcome, 1)

	if cfg.TUIEnabled {
		program = tea.NewProgram(tui.New(tui.Config{ExperimentsDir: cfg.ExperimentsDir}), tea.WithAltScreen())

		go func() {
			rpt, err := rn.Run(ctx)
			outcome <- runOutcome{rpt: rpt, err: err}
			tui.SendFinished(program)
		}()

		if _, err := program.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
			cancel()
		}
	} else {
		go func() {
			rpt, err := rn.Run(ctx)
			outcome <- runOutcome{rpt: rpt, err: err}
		}()
	}

	res := <-outcome

	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics_server_shutdown_error", "error", err)
		}
		shutdownCancel()
	}

	if res.err != nil {
		if res.rpt == nil {
			fmt.Fprintf(os.Stderr, "Run failed: %v\n", res.err)
			return 1
		}
		logger.Warn("run_interrupted", "error", res.err)
	}

	fmt.Print(report.Table(res.rpt.Summaries))
	for _, f := range res.rpt.Failed {
		fmt.Fprintf(os.Stderr, "failed: %s: %v\n", f.Name, f.Err)
	}
	fmt.Printf("\nReports written to %s (%.1fs)\n", cfg.OutputDir, collector.Elapsed().Seconds())

	if len(res.rpt.Failed) > 0 {
		return 1
	}
	return 0
}
