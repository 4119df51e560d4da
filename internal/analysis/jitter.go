package analysis

import (
	"sort"

	"github.com/aalekseevx/bwe-report/internal/eventlog"
)

// RTPClockRateHz is the media clock rate assumed when converting RTP
// timestamp deltas to milliseconds. The logs do not carry the negotiated
// clock rate, so the 90 kHz video clock is assumed for every track; for
// audio or mixed-clock tracks the jitter magnitude is off by the clock
// ratio. Known accuracy limitation, kept explicit rather than derived.
const RTPClockRateHz = 90000

// Jitter computes the RFC 3550 interarrival jitter estimate per logical
// track, over primary media only (RTX and FEC excluded). For packets
// i-1, i:
//
//	D    = (arrival[i] - arrival[i-1]) - (ts[i] - ts[i-1]) / clockRateKHz
//	J(i) = J(i-1) + (|D| - J(i-1)) / 16,   J(0) = 0
//
// Output is one series per track, same length as the track's filtered
// input, stamped with arrival times.
func Jitter(receiver []eventlog.PacketEvent) map[uint32][]JitterSample {
	byTrack := make(map[uint32][]eventlog.PacketEvent)
	for i := range receiver {
		ev := receiver[i]
		if ev.IsRTX || ev.IsFEC {
			continue
		}
		byTrack[ev.TrackID] = append(byTrack[ev.TrackID], ev)
	}
	if len(byTrack) == 0 {
		return nil
	}

	const clockRateKHz = float64(RTPClockRateHz) / 1000

	series := make(map[uint32][]JitterSample, len(byTrack))
	for track, group := range byTrack {
		sort.SliceStable(group, func(i, j int) bool { return group[i].Time < group[j].Time })

		samples := make([]JitterSample, len(group))
		samples[0] = JitterSample{Time: group[0].Time, Ms: 0}
		jitter := 0.0
		for i := 1; i < len(group); i++ {
			arrivalDelta := float64(group[i].Time - group[i-1].Time)
			// Signed 32-bit delta handles media-clock wraparound.
			tsDelta := float64(int32(group[i].RTPTimestamp - group[i-1].RTPTimestamp))

			d := arrivalDelta - tsDelta/clockRateKHz
			if d < 0 {
				d = -d
			}
			jitter += (d - jitter) / 16
			samples[i] = JitterSample{Time: group[i].Time, Ms: jitter}
		}
		series[track] = samples
	}
	return series
}
