package analysis

import (
	"fmt"
	"testing"

	"github.com/aalekseevx/bwe-report/internal/eventlog"
)

func testNamer(id uint32) string { return fmt.Sprintf("q%d", id) }

func TestTimeline(t *testing.T) {
	// Quality sequence A A A B B A over times 0..5.
	const a, b = 1, 2
	sender := []eventlog.PacketEvent{
		{TrackID: 1, QualityID: a, Time: 0},
		{TrackID: 1, QualityID: a, Time: 1},
		{TrackID: 1, QualityID: a, Time: 2},
		{TrackID: 1, QualityID: b, Time: 3},
		{TrackID: 1, QualityID: b, Time: 4},
		{TrackID: 1, QualityID: a, Time: 5},
	}

	segments := Timeline(sender, testNamer)
	if len(segments) != 3 {
		t.Fatalf("segments = %d, want 3", len(segments))
	}

	want := []QualitySegment{
		{TrackID: 1, QualityID: a, QualityName: "q1", Start: 0, End: 3},
		{TrackID: 1, QualityID: b, QualityName: "q2", Start: 3, End: 5},
		{TrackID: 1, QualityID: a, QualityName: "q1", Start: 5, End: 5},
	}
	for i, seg := range segments {
		if seg != want[i] {
			t.Errorf("segment %d = %+v, want %+v", i, seg, want[i])
		}
	}
}

func TestTimeline_ConstantQuality(t *testing.T) {
	sender := []eventlog.PacketEvent{
		{TrackID: 3, QualityID: 7, Time: 100},
		{TrackID: 3, QualityID: 7, Time: 200},
		{TrackID: 3, QualityID: 7, Time: 300},
	}

	segments := Timeline(sender, testNamer)
	if len(segments) != 1 {
		t.Fatalf("segments = %d, want exactly 1 for constant quality", len(segments))
	}
	seg := segments[0]
	if seg.Start != 100 || seg.End != 300 {
		t.Errorf("segment = [%d, %d], want [100, 300]", seg.Start, seg.End)
	}
}

func TestTimeline_ExcludesRepairTraffic(t *testing.T) {
	sender := []eventlog.PacketEvent{
		{TrackID: 1, QualityID: 1, Time: 0},
		{TrackID: 1, QualityID: 9, Time: 1, IsRTX: true}, // must not split the segment
		{TrackID: 1, QualityID: 9, Time: 2, IsFEC: true},
		{TrackID: 1, QualityID: 1, Time: 3},
	}

	segments := Timeline(sender, testNamer)
	if len(segments) != 1 {
		t.Fatalf("segments = %d, want 1 (repair traffic excluded)", len(segments))
	}
}

func TestTimeline_PerTrack(t *testing.T) {
	sender := []eventlog.PacketEvent{
		{TrackID: 2, QualityID: 1, Time: 0},
		{TrackID: 1, QualityID: 5, Time: 0},
		{TrackID: 2, QualityID: 2, Time: 10},
	}

	segments := Timeline(sender, testNamer)
	if len(segments) != 3 {
		t.Fatalf("segments = %d, want 3", len(segments))
	}
	// Deterministic ordering: by track, then start.
	if segments[0].TrackID != 1 {
		t.Errorf("segment 0 track = %d, want 1", segments[0].TrackID)
	}
	if segments[1].TrackID != 2 || segments[2].TrackID != 2 {
		t.Errorf("segments 1,2 tracks = %d,%d, want 2,2", segments[1].TrackID, segments[2].TrackID)
	}
}

func TestTimeline_NamesResolvedAtEmission(t *testing.T) {
	calls := 0
	namer := func(id uint32) string {
		calls++
		return "x"
	}

	sender := []eventlog.PacketEvent{
		{TrackID: 1, QualityID: 1, Time: 0},
		{TrackID: 1, QualityID: 1, Time: 1},
		{TrackID: 1, QualityID: 1, Time: 2},
		{TrackID: 1, QualityID: 2, Time: 3},
	}

	segments := Timeline(sender, namer)
	if len(segments) != 2 {
		t.Fatalf("segments = %d, want 2", len(segments))
	}
	// One resolution per emitted segment, not per scanned record.
	if calls != 2 {
		t.Errorf("namer called %d times, want 2", calls)
	}
}

func TestTimeline_Empty(t *testing.T) {
	if segments := Timeline(nil, testNamer); segments != nil {
		t.Errorf("Timeline(nil) = %v, want nil", segments)
	}
}
