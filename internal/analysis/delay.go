package analysis

import "github.com/aalekseevx/bwe-report/internal/eventlog"

// OneWayDelay correlates sender and receiver observations of the same
// packet via the transport-wide sequence number and reports the clock
// difference in milliseconds, stamped with the receiver arrival time.
//
// TWCC numbers are unique per direction, so the join is an exact inner
// join: packets lost in transit or visible on only one side simply
// produce no sample. An empty result means "delay unavailable" (the two
// logs never joined), which consumers must not read as zero delay.
func OneWayDelay(sender, receiver []eventlog.PacketEvent) []DelaySample {
	if len(sender) == 0 || len(receiver) == 0 {
		return nil
	}

	sentAt := make(map[uint16]int64, len(sender))
	for i := range sender {
		sentAt[sender[i].TWCC] = sender[i].Time
	}

	var series []DelaySample
	for i := range receiver {
		st, ok := sentAt[receiver[i].TWCC]
		if !ok {
			continue
		}
		series = append(series, DelaySample{
			Time: receiver[i].Time,
			Ms:   float64(receiver[i].Time - st),
		})
	}
	return series
}
