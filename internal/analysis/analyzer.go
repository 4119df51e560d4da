package analysis

import (
	"log/slog"
	"time"

	"github.com/aalekseevx/bwe-report/internal/eventlog"
	"github.com/aalekseevx/bwe-report/internal/testplan"
)

// Analyzer runs the derivation stages over one dataset at a time.
// It is safe to share across goroutines: the plan is read-only and all
// per-run state lives in the dataset and result.
type Analyzer struct {
	plan   *testplan.Plan
	window time.Duration
	logger *slog.Logger
}

// New creates an Analyzer. plan may be nil, in which case quality names
// fall back to sentinels and no capacity reference series is produced.
func New(plan *testplan.Plan, window time.Duration, logger *slog.Logger) *Analyzer {
	if window <= 0 {
		window = DefaultWindow
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{plan: plan, window: window, logger: logger}
}

// Analyze derives every available series for the dataset. Stages run in
// a fixed order because flag reconciliation rewrites receiver records
// that the later stages filter on. Missing inputs degrade the result
// (nil series), they never fail it.
func (a *Analyzer) Analyze(ds *eventlog.Dataset) *Result {
	logger := a.logger.With("experiment", ds.Name)

	reconciled := ReconcileFlags(ds)
	logger.Debug("flags_reconciled", "records", reconciled)

	r := &Result{Experiment: ds.Name, FlagsReconciled: reconciled}

	if len(ds.SenderRTP) > 0 {
		r.Bitrate = Bitrate(ds.SenderRTP, a.window)
		r.TrackBitrate = TrackBitrate(ds.SenderRTP, a.window)
		r.RTXBitrate = ClassBitrate(ds.SenderRTP, a.window, func(ev *eventlog.PacketEvent) bool { return ev.IsRTX })
		r.FECBitrate = ClassBitrate(ds.SenderRTP, a.window, func(ev *eventlog.PacketEvent) bool { return ev.IsFEC })
	}

	var warnings []Warning
	r.StreamLoss, warnings = StreamLoss(ds.ReceiverRTP)
	r.Warnings = append(r.Warnings, warnings...)

	r.TransportLoss, warnings = TransportLoss(ds.ReceiverRTP)
	r.Warnings = append(r.Warnings, warnings...)

	r.Jitter = Jitter(ds.ReceiverRTP)

	r.Delay = OneWayDelay(ds.SenderRTP, ds.ReceiverRTP)

	// The timeline only exists for simulcast senders; single-quality
	// streams have nothing to switch between. Decided once here, not
	// re-checked per record.
	if a.isSimulcast(ds.Name) {
		r.Timeline = Timeline(ds.SenderRTP, func(qualityID uint32) string {
			return a.plan.QualityName(ds.Name, qualityID)
		})
	}

	if a.plan != nil {
		if start := ds.StartTime(); start != 0 {
			for _, p := range a.plan.CapacitySeries(ds.Name) {
				r.Capacity = append(r.Capacity, CapacitySample{
					Time: start + int64(p.Offset*1000),
					Kbps: p.Kbps,
				})
			}
		}
	}

	for i := range ds.CC {
		r.Target = append(r.Target, CapacitySample{
			Time: ds.CC[i].Time,
			Kbps: float64(ds.CC[i].TargetBitrate) / 1000,
		})
	}

	r.Summary = Summarize(ds, r)

	for _, w := range r.Warnings {
		logger.Warn("data_quality_warning", "kind", string(w.Kind), "subject", w.Subject, "message", w.Message)
	}

	return r
}

func (a *Analyzer) isSimulcast(experiment string) bool {
	if a.plan == nil {
		return false
	}
	tc := a.plan.TestCase(experiment)
	return tc != nil && tc.Sender.Mode == "simulcast"
}
