package analysis

import "github.com/aalekseevx/bwe-report/internal/eventlog"

// packetKey identifies one logical packet within a direction.
type packetKey struct {
	ssrc uint32
	seq  int64 // unwrapped sequence
}

type packetFlags struct {
	isRTX bool
	isFEC bool
}

// ReconcileFlags overwrites the receiver's RTX/FEC classification flags
// with the sender's for every packet present in both logs, matched by
// (stream, unwrapped sequence). The receiver can misclassify because it
// observes only the recovered stream; the sender knows what it sent.
//
// Receiver records without a sender counterpart keep their original
// flags. Must run once, before any metric that filters on these flags.
// Returns the number of receiver records updated.
func ReconcileFlags(ds *eventlog.Dataset) int {
	if len(ds.SenderRTP) == 0 || len(ds.ReceiverRTP) == 0 {
		return 0
	}

	index := make(map[packetKey]packetFlags, len(ds.SenderRTP))
	for i := range ds.SenderRTP {
		ev := &ds.SenderRTP[i]
		index[packetKey{ev.SSRC, ev.UnwrappedSequence}] = packetFlags{ev.IsRTX, ev.IsFEC}
	}

	updated := 0
	for i := range ds.ReceiverRTP {
		ev := &ds.ReceiverRTP[i]
		flags, ok := index[packetKey{ev.SSRC, ev.UnwrappedSequence}]
		if !ok {
			continue
		}
		ev.IsRTX = flags.isRTX
		ev.IsFEC = flags.isFEC
		updated++
	}
	return updated
}
