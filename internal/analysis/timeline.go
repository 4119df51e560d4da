package analysis

import (
	"sort"

	"github.com/aalekseevx/bwe-report/internal/eventlog"
)

// QualityNamer resolves a quality identifier to a display name. It must
// be a pure function; names are resolved once per emitted segment, not
// per scanned record.
type QualityNamer func(qualityID uint32) string

// Timeline reconstructs the quality-switch history of every track from
// sender records, primary media only (RTX and FEC excluded).
//
// Each track is scanned in time order holding the current quality and
// segment start. A segment closes when the quality identifier changes
// (its end is the first packet of the new quality) and the last open
// segment closes at the track's final packet time, so a track with a
// constant quality yields exactly one segment.
func Timeline(sender []eventlog.PacketEvent, name QualityNamer) []QualitySegment {
	byTrack := make(map[uint32][]eventlog.PacketEvent)
	for i := range sender {
		ev := sender[i]
		if ev.IsRTX || ev.IsFEC {
			continue
		}
		byTrack[ev.TrackID] = append(byTrack[ev.TrackID], ev)
	}
	if len(byTrack) == 0 {
		return nil
	}

	tracks := make([]uint32, 0, len(byTrack))
	for track := range byTrack {
		tracks = append(tracks, track)
	}
	sort.Slice(tracks, func(i, j int) bool { return tracks[i] < tracks[j] })

	var segments []QualitySegment
	for _, track := range tracks {
		group := byTrack[track]
		sort.SliceStable(group, func(i, j int) bool { return group[i].Time < group[j].Time })

		inSegment := false
		var (
			quality uint32
			start   int64
		)
		for i := range group {
			switch {
			case !inSegment:
				inSegment = true
				quality = group[i].QualityID
				start = group[i].Time
			case group[i].QualityID != quality:
				segments = append(segments, QualitySegment{
					TrackID:     track,
					QualityID:   quality,
					QualityName: name(quality),
					Start:       start,
					End:         group[i].Time,
				})
				quality = group[i].QualityID
				start = group[i].Time
			}
		}
		if inSegment {
			segments = append(segments, QualitySegment{
				TrackID:     track,
				QualityID:   quality,
				QualityName: name(quality),
				Start:       start,
				End:         group[len(group)-1].Time,
			})
		}
	}
	return segments
}
