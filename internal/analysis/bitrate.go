package analysis

import (
	"sort"
	"time"

	"github.com/aalekseevx/bwe-report/internal/eventlog"
)

// DefaultWindow is the bitrate bucketing window.
const DefaultWindow = 500 * time.Millisecond

// Bitrate buckets packet events into fixed-width, left-aligned time
// windows and converts per-window byte sums to kbps. Only windows that
// saw at least one packet are emitted; boundaries always lie on the
// window grid, so emitted windows never overlap.
func Bitrate(events []eventlog.PacketEvent, window time.Duration) []BitrateSample {
	if len(events) == 0 {
		return nil
	}
	windowMS := window.Milliseconds()
	if windowMS <= 0 {
		windowMS = DefaultWindow.Milliseconds()
	}

	buckets := make(map[int64]int64)
	for i := range events {
		bin := events[i].Time - events[i].Time%windowMS
		buckets[bin] += int64(events[i].Size)
	}

	series := make([]BitrateSample, 0, len(buckets))
	for bin, bytes := range buckets {
		series = append(series, BitrateSample{
			Time: bin,
			Kbps: float64(bytes) * 8 / (float64(windowMS) / 1000) / 1000,
		})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Time < series[j].Time })
	return series
}

// TrackBitrate computes one bitrate series per logical media track,
// counting primary media only (RTX and FEC excluded).
func TrackBitrate(events []eventlog.PacketEvent, window time.Duration) map[uint32][]BitrateSample {
	byTrack := make(map[uint32][]eventlog.PacketEvent)
	for i := range events {
		ev := events[i]
		if ev.IsRTX || ev.IsFEC {
			continue
		}
		byTrack[ev.TrackID] = append(byTrack[ev.TrackID], ev)
	}
	if len(byTrack) == 0 {
		return nil
	}

	series := make(map[uint32][]BitrateSample, len(byTrack))
	for track, group := range byTrack {
		series[track] = Bitrate(group, window)
	}
	return series
}

// ClassBitrate computes the aggregate bitrate of the packets selected
// by keep. Returns nil when no packet matches, so absent traffic
// classes (no RTX or FEC observed) are omitted rather than zero-filled.
func ClassBitrate(events []eventlog.PacketEvent, window time.Duration, keep func(*eventlog.PacketEvent) bool) []BitrateSample {
	var filtered []eventlog.PacketEvent
	for i := range events {
		if keep(&events[i]) {
			filtered = append(filtered, events[i])
		}
	}
	return Bitrate(filtered, window)
}
