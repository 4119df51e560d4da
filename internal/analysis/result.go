// Package analysis derives time-series metrics from parsed experiment
// datasets: bitrate, cumulative loss, interarrival jitter, one-way delay
// and the quality-switch timeline.
//
// Stages run strictly in order on one dataset (reconciliation first,
// since loss, jitter and the timeline all depend on corrected RTX/FEC
// flags). Datasets are independent, so callers may analyze experiments
// concurrently; a single dataset must never be shared.
package analysis

// BitrateSample is one fixed-width window of a bitrate series.
// Time is the left (floored) window boundary in Unix milliseconds.
type BitrateSample struct {
	Time int64
	Kbps float64
}

// LossSample is one point of a cumulative-loss series.
type LossSample struct {
	Time int64
	Lost int64
}

// JitterSample is one point of an RFC 3550 smoothed-jitter series.
type JitterSample struct {
	Time int64
	Ms   float64
}

// DelaySample is one sender-to-receiver one-way delay observation,
// stamped with the receiver arrival time.
type DelaySample struct {
	Time int64
	Ms   float64
}

// CapacitySample is one point of a reference series (path capacity or
// congestion-controller target) in kbps.
type CapacitySample struct {
	Time int64
	Kbps float64
}

// QualitySegment is a maximal interval during which a track sent a
// single quality level. End is exclusive except for the final segment
// of a track, which ends at its last observed packet time.
type QualitySegment struct {
	TrackID     uint32
	QualityID   uint32
	QualityName string
	Start       int64
	End         int64
}

// WarningKind classifies data-quality warnings.
type WarningKind string

// Warning kinds.
const (
	// WarnMonotonicity means a loss computation saw duplicate or
	// out-of-order sequence keys (negative expected loss).
	WarnMonotonicity WarningKind = "monotonicity_violation"
)

// Warning is a non-fatal data-quality finding attached to a result.
type Warning struct {
	Kind    WarningKind
	Subject string // offending stream/track identifier
	Message string
}

// Result holds every derived series of one experiment. Nil or empty
// fields mean the series is unavailable (missing input or no joining
// records), which consumers must distinguish from zero.
type Result struct {
	Experiment string

	Bitrate      []BitrateSample
	TrackBitrate map[uint32][]BitrateSample
	RTXBitrate   []BitrateSample
	FECBitrate   []BitrateSample

	StreamLoss    map[uint32][]LossSample
	TransportLoss []LossSample

	Jitter map[uint32][]JitterSample

	Delay []DelaySample

	Timeline []QualitySegment

	Capacity []CapacitySample
	Target   []CapacitySample

	Warnings []Warning

	// FlagsReconciled counts receiver records whose RTX/FEC flags were
	// corrected from the sender log.
	FlagsReconciled int

	Summary Summary
}
