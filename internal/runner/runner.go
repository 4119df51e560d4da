// Package runner drives a full analysis run: it discovers experiment
// directories, fans them out to a bounded worker pool, and writes the
// per-experiment CSV reports plus the run-wide summary.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/aalekseevx/bwe-report/internal/analysis"
	"github.com/aalekseevx/bwe-report/internal/config"
	"github.com/aalekseevx/bwe-report/internal/eventlog"
	"github.com/aalekseevx/bwe-report/internal/metrics"
	"github.com/aalekseevx/bwe-report/internal/report"
	"github.com/aalekseevx/bwe-report/internal/testplan"
)

// Callbacks notify the caller of per-experiment progress. All callbacks
// are optional and are invoked from the result-collection goroutine, so
// implementations need no locking of their own.
type Callbacks struct {
	OnDiscovered       func(names []string)
	OnExperimentDone   func(s analysis.Summary)
	OnExperimentFailed func(name string, err error)
}

// RunReport is the outcome of one full run.
type RunReport struct {
	// Summaries of successful experiments, sorted by name.
	Summaries []analysis.Summary

	// Failed experiments by name, sorted, with their errors.
	Failed []Failure
}

// Failure records one experiment that could not be analyzed.
type Failure struct {
	Name string
	Err  error
}

// Runner coordinates discovery, analysis workers and report writing.
type Runner struct {
	cfg       *config.Config
	analyzer  *analysis.Analyzer
	collector *metrics.Collector
	logger    *slog.Logger
	callbacks Callbacks
}

// New creates a Runner. plan and collector may be nil.
func New(cfg *config.Config, plan *testplan.Plan, collector *metrics.Collector, logger *slog.Logger, callbacks Callbacks) *Runner {
	return &Runner{
		cfg:       cfg,
		analyzer:  analysis.New(plan, cfg.Window, logger),
		collector: collector,
		logger:    logger,
		callbacks: callbacks,
	}
}

// Discover returns the experiment names under the configured input
// directory, sorted. An experiment is any subdirectory containing at
// least one recognizable log file.
func (r *Runner) Discover() ([]string, error) {
	entries, err := os.ReadDir(r.cfg.ExperimentsDir)
	if err != nil {
		return nil, fmt.Errorf("read experiments dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		logs, err := eventlog.Discover(r.experimentDir(entry.Name()))
		if err != nil || len(logs) == 0 {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Run analyzes every discovered experiment and writes all reports.
// Experiment failures are isolated: they are collected into the report,
// never returned as the run error. The run error covers setup problems
// only (unreadable input dir, unwritable output dir).
func (r *Runner) Run(ctx context.Context) (*RunReport, error) {
	names, err := r.Discover()
	if err != nil {
		return nil, err
	}
	if r.collector != nil {
		r.collector.SetDiscovered(len(names))
	}
	if r.callbacks.OnDiscovered != nil {
		r.callbacks.OnDiscovered(names)
	}
	r.logger.Info("run_starting",
		"experiments", len(names),
		"workers", r.cfg.Workers,
		"window", r.cfg.Window.String(),
	)

	type outcome struct {
		name    string
		summary analysis.Summary
		err     error
	}

	jobs := make(chan string)
	results := make(chan outcome)

	var wg sync.WaitGroup
	for range r.cfg.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range jobs {
				summary, err := r.analyzeOne(name)
				results <- outcome{name: name, summary: summary, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, name := range names {
			select {
			case jobs <- name:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	rpt := &RunReport{}
	for res := range results {
		if res.err != nil {
			r.logger.Error("experiment_failed", "experiment", res.name, "error", res.err)
			rpt.Failed = append(rpt.Failed, Failure{Name: res.name, Err: res.err})
			if r.callbacks.OnExperimentFailed != nil {
				r.callbacks.OnExperimentFailed(res.name, res.err)
			}
			continue
		}
		rpt.Summaries = append(rpt.Summaries, res.summary)
		if r.callbacks.OnExperimentDone != nil {
			r.callbacks.OnExperimentDone(res.summary)
		}
	}

	sort.Slice(rpt.Summaries, func(i, j int) bool {
		return rpt.Summaries[i].Experiment < rpt.Summaries[j].Experiment
	})
	sort.Slice(rpt.Failed, func(i, j int) bool {
		return rpt.Failed[i].Name < rpt.Failed[j].Name
	})

	if err := r.writeSummary(rpt); err != nil {
		return nil, err
	}

	r.logger.Info("run_finished",
		"analyzed", len(rpt.Summaries),
		"failed", len(rpt.Failed),
	)
	return rpt, ctx.Err()
}

func (r *Runner) analyzeOne(name string) (analysis.Summary, error) {
	start := time.Now()
	if r.collector != nil {
		r.collector.ExperimentStarted()
	}

	ds, err := eventlog.Load(r.experimentDir(name), name)
	if err == nil && len(ds.SenderRTP) == 0 && len(ds.ReceiverRTP) == 0 {
		err = fmt.Errorf("no RTP records in either log")
	}
	if err != nil {
		if r.collector != nil {
			r.collector.ExperimentFailed(time.Since(start))
		}
		return analysis.Summary{}, err
	}
	for role, terr := range ds.Truncated {
		r.logger.Warn("log_truncated",
			"experiment", name,
			"role", string(role),
			"error", terr,
		)
	}

	result := r.analyzer.Analyze(ds)

	if err := report.WriteResult(r.cfg.OutputDir, result); err != nil {
		if r.collector != nil {
			r.collector.ExperimentFailed(time.Since(start))
		}
		return analysis.Summary{}, err
	}

	if r.collector != nil {
		r.collector.FlagsReconciled(result.FlagsReconciled)
		r.collector.ExperimentAnalyzed(
			result.Summary.SenderPackets,
			result.Summary.ReceiverPackets,
			result.Summary.LinesSkipped,
			result.Summary.Warnings,
			time.Since(start),
		)
	}
	r.logger.Debug("experiment_analyzed",
		"experiment", name,
		"duration", time.Since(start).String(),
	)
	return result.Summary, nil
}

func (r *Runner) writeSummary(rpt *RunReport) error {
	sw, err := report.NewSummaryWriter(r.cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("summary writer: %w", err)
	}
	for i := range rpt.Summaries {
		if err := sw.WriteRow(rpt.Summaries[i]); err != nil {
			_ = sw.Close()
			return fmt.Errorf("summary row: %w", err)
		}
	}
	return sw.Close()
}

func (r *Runner) experimentDir(name string) string {
	return filepath.Join(r.cfg.ExperimentsDir, name)
}
