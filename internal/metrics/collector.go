// Package metrics provides Prometheus metrics for bwe-report.
//
// The analyzer is a batch tool, so most metrics are run-scoped counters
// and gauges; they matter when the tool runs continuously (for example
// re-analyzing a growing results directory on a schedule) and a scrape
// endpoint is enabled with --metrics-addr.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// --- Run overview ---
var (
	reportInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bwe_report_info",
			Help: "Information about the analysis run (value always 1)",
		},
		[]string{"version", "experiments_dir"},
	)

	reportExperimentsDiscovered = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bwe_report_experiments_discovered",
			Help: "Experiment directories found in the input directory",
		},
	)

	reportExperimentsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bwe_report_experiments_in_flight",
			Help: "Experiments currently being analyzed",
		},
	)

	reportWorkers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bwe_report_workers",
			Help: "Configured analysis worker count",
		},
	)
)

// --- Outcomes ---
var (
	reportExperimentsAnalyzedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bwe_report_experiments_analyzed_total",
			Help: "Experiments analyzed successfully",
		},
	)

	reportExperimentsFailedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bwe_report_experiments_failed_total",
			Help: "Experiments that failed to load or analyze",
		},
	)

	reportExperimentDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bwe_report_experiment_duration_seconds",
			Help:    "Wall time to load, analyze and write one experiment",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)
)

// --- Data volume and quality ---
var (
	reportPacketsParsedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bwe_report_packets_parsed_total",
			Help: "RTP packet records parsed from experiment logs",
		},
		[]string{"side"},
	)

	reportLinesSkippedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bwe_report_lines_skipped_total",
			Help: "Malformed log lines skipped during parsing",
		},
	)

	reportFlagsReconciledTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bwe_report_flags_reconciled_total",
			Help: "Receiver records whose RTX/FEC flags were corrected from sender records",
		},
	)

	reportWarningsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bwe_report_warnings_total",
			Help: "Data-quality warnings emitted by analysis stages",
		},
	)
)

// Collector manages all Prometheus metrics for an analysis run.
type Collector struct {
	startTime time.Time
}

// CollectorConfig holds run facts exported as the info gauge.
type CollectorConfig struct {
	Version        string
	ExperimentsDir string
	Workers        int
}

// NewCollector creates a collector on the default registry.
func NewCollector(cfg CollectorConfig) *Collector {
	return NewCollectorWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewCollectorWithRegistry creates a collector with a custom registry.
// Useful for testing.
func NewCollectorWithRegistry(cfg CollectorConfig, registry prometheus.Registerer) *Collector {
	c := &Collector{startTime: time.Now()}

	registry.MustRegister(
		reportInfo,
		reportExperimentsDiscovered,
		reportExperimentsInFlight,
		reportWorkers,

		reportExperimentsAnalyzedTotal,
		reportExperimentsFailedTotal,
		reportExperimentDurationSeconds,

		reportPacketsParsedTotal,
		reportLinesSkippedTotal,
		reportFlagsReconciledTotal,
		reportWarningsTotal,
	)

	reportInfo.WithLabelValues(cfg.Version, cfg.ExperimentsDir).Set(1)
	reportWorkers.Set(float64(cfg.Workers))

	return c
}

// SetDiscovered records how many experiment directories were found.
func (c *Collector) SetDiscovered(n int) {
	reportExperimentsDiscovered.Set(float64(n))
}

// ExperimentStarted marks one experiment as in flight.
func (c *Collector) ExperimentStarted() {
	reportExperimentsInFlight.Inc()
}

// ExperimentAnalyzed records a successful experiment with its wall time
// and parsed-data volume.
func (c *Collector) ExperimentAnalyzed(senderPackets, receiverPackets, linesSkipped, warnings int, d time.Duration) {
	reportExperimentsInFlight.Dec()
	reportExperimentsAnalyzedTotal.Inc()
	reportExperimentDurationSeconds.Observe(d.Seconds())
	reportPacketsParsedTotal.WithLabelValues("sender").Add(float64(senderPackets))
	reportPacketsParsedTotal.WithLabelValues("receiver").Add(float64(receiverPackets))
	reportLinesSkippedTotal.Add(float64(linesSkipped))
	reportWarningsTotal.Add(float64(warnings))
}

// ExperimentFailed records an experiment that could not be analyzed.
func (c *Collector) ExperimentFailed(d time.Duration) {
	reportExperimentsInFlight.Dec()
	reportExperimentsFailedTotal.Inc()
	reportExperimentDurationSeconds.Observe(d.Seconds())
}

// FlagsReconciled records receiver records corrected during flag
// reconciliation.
func (c *Collector) FlagsReconciled(n int) {
	reportFlagsReconciledTotal.Add(float64(n))
}

// Elapsed returns the wall time since the collector was created.
func (c *Collector) Elapsed() time.Duration {
	return time.Since(c.startTime)
}
