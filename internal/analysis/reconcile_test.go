package analysis

import (
	"testing"

	"github.com/aalekseevx/bwe-report/internal/eventlog"
)

func TestReconcileFlags(t *testing.T) {
	ds := &eventlog.Dataset{
		SenderRTP: []eventlog.PacketEvent{
			{SSRC: 1, UnwrappedSequence: 5, IsRTX: true, IsFEC: false},
			{SSRC: 1, UnwrappedSequence: 6, IsRTX: false, IsFEC: true},
			{SSRC: 2, UnwrappedSequence: 5, IsRTX: false, IsFEC: false},
		},
		ReceiverRTP: []eventlog.PacketEvent{
			{SSRC: 1, UnwrappedSequence: 5, IsRTX: false, IsFEC: false}, // misclassified
			{SSRC: 1, UnwrappedSequence: 6, IsRTX: true, IsFEC: false},  // misclassified
			{SSRC: 2, UnwrappedSequence: 5, IsRTX: false, IsFEC: false}, // already correct
			{SSRC: 3, UnwrappedSequence: 9, IsRTX: true, IsFEC: true},   // no sender match
		},
	}

	updated := ReconcileFlags(ds)
	if updated != 3 {
		t.Errorf("updated = %d, want 3", updated)
	}

	if !ds.ReceiverRTP[0].IsRTX || ds.ReceiverRTP[0].IsFEC {
		t.Errorf("record 0 = RTX:%v FEC:%v, want sender's RTX:true FEC:false",
			ds.ReceiverRTP[0].IsRTX, ds.ReceiverRTP[0].IsFEC)
	}
	if ds.ReceiverRTP[1].IsRTX || !ds.ReceiverRTP[1].IsFEC {
		t.Errorf("record 1 = RTX:%v FEC:%v, want sender's RTX:false FEC:true",
			ds.ReceiverRTP[1].IsRTX, ds.ReceiverRTP[1].IsFEC)
	}
	// Unmatched receiver records keep their original flags.
	if !ds.ReceiverRTP[3].IsRTX || !ds.ReceiverRTP[3].IsFEC {
		t.Error("unmatched record must keep its original flags")
	}
}

func TestReconcileFlags_KeyIncludesStream(t *testing.T) {
	// Same unwrapped sequence on a different stream must not match.
	ds := &eventlog.Dataset{
		SenderRTP: []eventlog.PacketEvent{
			{SSRC: 1, UnwrappedSequence: 5, IsRTX: true},
		},
		ReceiverRTP: []eventlog.PacketEvent{
			{SSRC: 2, UnwrappedSequence: 5, IsRTX: false},
		},
	}

	if updated := ReconcileFlags(ds); updated != 0 {
		t.Errorf("updated = %d, want 0", updated)
	}
	if ds.ReceiverRTP[0].IsRTX {
		t.Error("record on stream 2 must not inherit stream 1 flags")
	}
}

func TestReconcileFlags_EmptySides(t *testing.T) {
	if n := ReconcileFlags(&eventlog.Dataset{}); n != 0 {
		t.Errorf("empty dataset: updated = %d, want 0", n)
	}

	ds := &eventlog.Dataset{
		ReceiverRTP: []eventlog.PacketEvent{{SSRC: 1, UnwrappedSequence: 1, IsRTX: true}},
	}
	if n := ReconcileFlags(ds); n != 0 {
		t.Errorf("no sender log: updated = %d, want 0", n)
	}
	if !ds.ReceiverRTP[0].IsRTX {
		t.Error("flags must be untouched without a sender log")
	}
}
