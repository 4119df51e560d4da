package testplan

import (
	"fmt"
	"sort"
)

// QualityName resolves a quality identifier from the packet logs to its
// configured display name for the given experiment.
//
// Resolution never fails: unknown experiments, non-simulcast senders and
// unmatched identifiers all produce a sentinel name that embeds the raw
// identifier, so the timeline stays renderable even with a stale or
// incomplete configuration.
func (p *Plan) QualityName(experiment string, qualityID uint32) string {
	tc := p.TestCase(experiment)
	if tc == nil {
		return fmt.Sprintf("Unknown (quality %d)", qualityID)
	}
	if tc.Sender.Mode != "simulcast" {
		// Single-quality streams have no timeline to label.
		return fmt.Sprintf("Default (quality %d)", qualityID)
	}

	for _, presetName := range tc.Sender.SimulcastPresets {
		preset, ok := p.SimulcastPresets[presetName]
		if !ok {
			continue
		}
		for _, q := range preset.Qualities {
			if q.ID == qualityID {
				return q.Name
			}
		}
	}

	return fmt.Sprintf("Unknown (quality %d)", qualityID)
}

// QualityLevels returns all distinct quality levels declared for the
// experiment's simulcast presets, sorted ascending by nominal bitrate.
// Unknown experiments and non-simulcast senders return nil.
func (p *Plan) QualityLevels(experiment string) []Quality {
	tc := p.TestCase(experiment)
	if tc == nil || tc.Sender.Mode != "simulcast" {
		return nil
	}

	seen := make(map[string]bool)
	var levels []Quality
	for _, presetName := range tc.Sender.SimulcastPresets {
		preset, ok := p.SimulcastPresets[presetName]
		if !ok {
			continue
		}
		for _, q := range preset.Qualities {
			if q.Name == "" || seen[q.Name] {
				continue
			}
			seen[q.Name] = true
			levels = append(levels, q)
		}
	}

	sort.Slice(levels, func(i, j int) bool { return levels[i].Bitrate < levels[j].Bitrate })
	return levels
}

// CapacityPoint is one step of the path-capacity reference series.
// Offset is seconds since the start of the experiment.
type CapacityPoint struct {
	Offset float64
	Kbps   float64
}

// CapacitySeries converts the experiment's path-characteristic phases
// into a step series of link capacity over time (two points per phase,
// suitable for drawing a reference line next to measured bitrate).
// Returns nil when the experiment or its preset is unknown or has no
// phases.
func (p *Plan) CapacitySeries(experiment string) []CapacityPoint {
	tc := p.TestCase(experiment)
	if tc == nil {
		return nil
	}
	pc, ok := p.PathPresets[tc.PathPreset]
	if !ok || len(pc.Phases) == 0 {
		return nil
	}

	series := make([]CapacityPoint, 0, 2*len(pc.Phases))
	var offset float64
	for _, phase := range pc.Phases {
		kbps := float64(phase.Capacity) / 1000
		series = append(series, CapacityPoint{Offset: offset, Kbps: kbps})
		offset += phase.Duration.Duration().Seconds()
		series = append(series, CapacityPoint{Offset: offset, Kbps: kbps})
	}
	return series
}
