package analysis

import (
	"fmt"
	"sort"

	"github.com/aalekseevx/bwe-report/internal/eventlog"
)

// StreamLoss computes a cumulative-loss series per SSRC from receiver
// records, ordered by unwrapped sequence number:
//
//	expected = seq - min(seq) + 1
//	received = running count
//	lost     = expected - received
//
// Each stream's count resets at its own first packet, and the series is
// monotonic non-decreasing for well-formed input. A negative value
// means duplicate or out-of-order keys; it is kept in the series and
// surfaced as a monotonicity warning instead of being clamped.
func StreamLoss(receiver []eventlog.PacketEvent) (map[uint32][]LossSample, []Warning) {
	if len(receiver) == 0 {
		return nil, nil
	}

	byStream := make(map[uint32][]eventlog.PacketEvent)
	for i := range receiver {
		byStream[receiver[i].SSRC] = append(byStream[receiver[i].SSRC], receiver[i])
	}

	var warnings []Warning
	series := make(map[uint32][]LossSample, len(byStream))
	for ssrc, group := range byStream {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].UnwrappedSequence < group[j].UnwrappedSequence
		})

		minSeq := group[0].UnwrappedSequence
		samples := make([]LossSample, len(group))
		warned := false
		for i := range group {
			expected := group[i].UnwrappedSequence - minSeq + 1
			lost := expected - int64(i+1)
			samples[i] = LossSample{Time: group[i].Time, Lost: lost}
			if lost < 0 && !warned {
				warned = true
				warnings = append(warnings, Warning{
					Kind:    WarnMonotonicity,
					Subject: fmt.Sprintf("ssrc %d", ssrc),
					Message: fmt.Sprintf("negative expected loss at unwrapped sequence %d (duplicate or reordered keys)", group[i].UnwrappedSequence),
				})
			}
		}
		series[ssrc] = samples
	}
	return series, warnings
}

// TransportLoss computes a single cumulative-loss series across all
// receiver records keyed on the transport-wide sequence number,
// irrespective of stream. Used when the dataset models single-track
// delivery rather than multi-SSRC delivery. The 16-bit TWCC counter is
// unwrapped in arrival order before applying the expected/received
// formula.
func TransportLoss(receiver []eventlog.PacketEvent) ([]LossSample, []Warning) {
	if len(receiver) == 0 {
		return nil, nil
	}

	type keyed struct {
		time int64
		seq  int64
	}
	records := make([]keyed, len(receiver))

	// Unwrap in arrival order: consecutive TWCC numbers are close, so the
	// signed 16-bit delta recovers the true distance across wraps.
	unwrapped := int64(receiver[0].TWCC)
	prev := receiver[0].TWCC
	records[0] = keyed{receiver[0].Time, unwrapped}
	for i := 1; i < len(receiver); i++ {
		cur := receiver[i].TWCC
		unwrapped += int64(int16(cur - prev))
		prev = cur
		records[i] = keyed{receiver[i].Time, unwrapped}
	}

	sort.SliceStable(records, func(i, j int) bool { return records[i].seq < records[j].seq })

	minSeq := records[0].seq
	samples := make([]LossSample, len(records))
	var warnings []Warning
	warned := false
	for i := range records {
		expected := records[i].seq - minSeq + 1
		lost := expected - int64(i+1)
		samples[i] = LossSample{Time: records[i].time, Lost: lost}
		if lost < 0 && !warned {
			warned = true
			warnings = append(warnings, Warning{
				Kind:    WarnMonotonicity,
				Subject: "transport",
				Message: fmt.Sprintf("negative expected loss at transport sequence %d (duplicate delivery)", records[i].seq),
			})
		}
	}
	return samples, warnings
}
