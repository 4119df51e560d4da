package analysis

import (
	"github.com/influxdata/tdigest"

	"github.com/aalekseevx/bwe-report/internal/eventlog"
)

// Summary condenses one experiment's dataset and derived series into
// scalar figures for the run report table.
type Summary struct {
	Experiment string

	SenderPackets   int
	ReceiverPackets int
	SenderBytes     int64
	ReceiverBytes   int64

	RTXPackets int
	FECPackets int

	SenderRTCPBytes   int64
	ReceiverRTCPBytes int64

	// LostTotal sums the final cumulative loss of every stream.
	LostTotal int64

	MeanJitterMs float64
	MaxJitterMs  float64

	// Delay percentiles from the one-way-delay join; all zero (with
	// DelaySamples == 0) when the join produced nothing.
	DelaySamples int
	DelayP50Ms   float64
	DelayP95Ms   float64
	DelayP99Ms   float64

	Segments     int
	Warnings     int
	LinesSkipped int
}

// Summarize computes the scalar summary from a dataset and its derived
// series. Called as the final stage, after every series is attached.
func Summarize(ds *eventlog.Dataset, r *Result) Summary {
	s := Summary{
		Experiment:   ds.Name,
		Segments:     len(r.Timeline),
		Warnings:     len(r.Warnings),
		LinesSkipped: ds.TotalSkipped(),
	}

	s.SenderPackets = len(ds.SenderRTP)
	for i := range ds.SenderRTP {
		s.SenderBytes += int64(ds.SenderRTP[i].Size)
		if ds.SenderRTP[i].IsRTX {
			s.RTXPackets++
		}
		if ds.SenderRTP[i].IsFEC {
			s.FECPackets++
		}
	}
	s.ReceiverPackets = len(ds.ReceiverRTP)
	for i := range ds.ReceiverRTP {
		s.ReceiverBytes += int64(ds.ReceiverRTP[i].Size)
	}
	for i := range ds.SenderRTCP {
		s.SenderRTCPBytes += int64(ds.SenderRTCP[i].Size)
	}
	for i := range ds.ReceiverRTCP {
		s.ReceiverRTCPBytes += int64(ds.ReceiverRTCP[i].Size)
	}

	for _, samples := range r.StreamLoss {
		if len(samples) > 0 {
			s.LostTotal += samples[len(samples)-1].Lost
		}
	}

	var jitterSum float64
	jitterCount := 0
	for _, samples := range r.Jitter {
		for i := range samples {
			jitterSum += samples[i].Ms
			jitterCount++
			if samples[i].Ms > s.MaxJitterMs {
				s.MaxJitterMs = samples[i].Ms
			}
		}
	}
	if jitterCount > 0 {
		s.MeanJitterMs = jitterSum / float64(jitterCount)
	}

	if len(r.Delay) > 0 {
		digest := tdigest.NewWithCompression(100)
		for i := range r.Delay {
			digest.Add(r.Delay[i].Ms, 1)
		}
		s.DelaySamples = len(r.Delay)
		s.DelayP50Ms = digest.Quantile(0.50)
		s.DelayP95Ms = digest.Quantile(0.95)
		s.DelayP99Ms = digest.Quantile(0.99)
	}

	return s
}
