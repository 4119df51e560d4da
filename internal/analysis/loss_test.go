package analysis

import (
	"testing"

	"github.com/aalekseevx/bwe-report/internal/eventlog"
)

func TestStreamLoss(t *testing.T) {
	// Stream 1 drops sequences 12 and 13; stream 2 is complete.
	receiver := []eventlog.PacketEvent{
		{SSRC: 1, UnwrappedSequence: 10, Time: 100},
		{SSRC: 1, UnwrappedSequence: 11, Time: 120},
		{SSRC: 1, UnwrappedSequence: 14, Time: 180},
		{SSRC: 2, UnwrappedSequence: 100, Time: 105},
		{SSRC: 2, UnwrappedSequence: 101, Time: 125},
	}

	series, warnings := StreamLoss(receiver)
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	if len(series) != 2 {
		t.Fatalf("streams = %d, want 2", len(series))
	}

	wantLost := []int64{0, 0, 2}
	for i, s := range series[1] {
		if s.Lost != wantLost[i] {
			t.Errorf("stream 1 sample %d lost = %d, want %d", i, s.Lost, wantLost[i])
		}
	}

	// Loss resets per stream at its own first packet.
	for i, s := range series[2] {
		if s.Lost != 0 {
			t.Errorf("stream 2 sample %d lost = %d, want 0", i, s.Lost)
		}
	}
}

func TestStreamLoss_MonotonicNonDecreasing(t *testing.T) {
	receiver := []eventlog.PacketEvent{
		{SSRC: 7, UnwrappedSequence: 1, Time: 10},
		{SSRC: 7, UnwrappedSequence: 3, Time: 30},
		{SSRC: 7, UnwrappedSequence: 4, Time: 40},
		{SSRC: 7, UnwrappedSequence: 9, Time: 90},
	}

	series, warnings := StreamLoss(receiver)
	if len(warnings) != 0 {
		t.Fatalf("warnings = %v, want none", warnings)
	}
	samples := series[7]
	for i := range samples {
		if samples[i].Lost < 0 {
			t.Errorf("sample %d lost = %d, must be non-negative", i, samples[i].Lost)
		}
		if i > 0 && samples[i].Lost < samples[i-1].Lost {
			t.Errorf("loss decreased at sample %d: %d -> %d", i, samples[i-1].Lost, samples[i].Lost)
		}
	}
}

func TestStreamLoss_DuplicateKeysWarn(t *testing.T) {
	receiver := []eventlog.PacketEvent{
		{SSRC: 5, UnwrappedSequence: 20, Time: 10},
		{SSRC: 5, UnwrappedSequence: 20, Time: 20}, // duplicate delivery
		{SSRC: 5, UnwrappedSequence: 21, Time: 30},
	}

	series, warnings := StreamLoss(receiver)
	if len(warnings) != 1 {
		t.Fatalf("warnings = %d, want 1", len(warnings))
	}
	if warnings[0].Kind != WarnMonotonicity {
		t.Errorf("warning kind = %q, want %q", warnings[0].Kind, WarnMonotonicity)
	}
	if warnings[0].Subject != "ssrc 5" {
		t.Errorf("warning subject = %q, want \"ssrc 5\"", warnings[0].Subject)
	}

	// The negative value is surfaced, not silently clamped.
	found := false
	for _, s := range series[5] {
		if s.Lost < 0 {
			found = true
		}
	}
	if !found {
		t.Error("expected a negative loss sample to remain in the series")
	}
}

func TestStreamLoss_Empty(t *testing.T) {
	series, warnings := StreamLoss(nil)
	if series != nil || warnings != nil {
		t.Errorf("StreamLoss(nil) = %v, %v, want nil, nil", series, warnings)
	}
}

func TestTransportLoss(t *testing.T) {
	// TWCC numbers span streams; 3 is lost in transit.
	receiver := []eventlog.PacketEvent{
		{SSRC: 1, TWCC: 1, Time: 10},
		{SSRC: 2, TWCC: 2, Time: 15},
		{SSRC: 1, TWCC: 4, Time: 25},
		{SSRC: 2, TWCC: 5, Time: 30},
	}

	series, warnings := TransportLoss(receiver)
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	if len(series) != 4 {
		t.Fatalf("series = %d samples, want 4", len(series))
	}

	wantLost := []int64{0, 0, 1, 1}
	for i, s := range series {
		if s.Lost != wantLost[i] {
			t.Errorf("sample %d lost = %d, want %d", i, s.Lost, wantLost[i])
		}
	}
}

func TestTransportLoss_WrapAround(t *testing.T) {
	// The 16-bit counter wraps 65534, 65535, 0, 1 with no real loss.
	receiver := []eventlog.PacketEvent{
		{TWCC: 65534, Time: 10},
		{TWCC: 65535, Time: 20},
		{TWCC: 0, Time: 30},
		{TWCC: 1, Time: 40},
	}

	series, warnings := TransportLoss(receiver)
	if len(warnings) != 0 {
		t.Fatalf("warnings across wrap = %v, want none", warnings)
	}
	for i, s := range series {
		if s.Lost != 0 {
			t.Errorf("sample %d lost = %d, want 0 across wrap", i, s.Lost)
		}
	}
}

func TestTransportLoss_DuplicateWarns(t *testing.T) {
	receiver := []eventlog.PacketEvent{
		{TWCC: 10, Time: 10},
		{TWCC: 10, Time: 20},
	}

	_, warnings := TransportLoss(receiver)
	if len(warnings) != 1 {
		t.Fatalf("warnings = %d, want 1", len(warnings))
	}
	if warnings[0].Kind != WarnMonotonicity {
		t.Errorf("warning kind = %q, want %q", warnings[0].Kind, WarnMonotonicity)
	}
}
