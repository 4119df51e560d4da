package testplan

import (
	"strings"
	"testing"
)

func mustParse(t *testing.T) *Plan {
	t.Helper()
	plan, err := Parse([]byte(sampleConfig))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	return plan
}

func TestQualityName(t *testing.T) {
	plan := mustParse(t)

	testCases := []struct {
		name       string
		experiment string
		qualityID  uint32
		want       string
	}{
		{"first_preset_match", "simulcast-variable", 2, "medium"},
		{"second_preset_match", "simulcast-variable", 11, "screen-high"},
		{"unknown_id", "simulcast-variable", 99, "Unknown (quality 99)"},
		{"non_simulcast", "abr-constant", 1, "Default (quality 1)"},
		{"unknown_experiment", "no-such-case", 1, "Unknown (quality 1)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := plan.QualityName(tc.experiment, tc.qualityID)
			if got != tc.want {
				t.Errorf("QualityName(%q, %d) = %q, want %q", tc.experiment, tc.qualityID, got, tc.want)
			}
		})
	}
}

func TestQualityName_SentinelEmbedsIdentifier(t *testing.T) {
	plan := mustParse(t)

	// Identifiers absent from every preset must come back embedded in the
	// sentinel, never as an error.
	got := plan.QualityName("simulcast-variable", 12345)
	if !strings.Contains(got, "12345") {
		t.Errorf("sentinel %q should contain the raw identifier", got)
	}
}

func TestQualityLevels(t *testing.T) {
	plan := mustParse(t)

	levels := plan.QualityLevels("simulcast-variable")
	if len(levels) != 5 {
		t.Fatalf("QualityLevels = %d entries, want 5", len(levels))
	}

	// Ascending by bitrate across both presets.
	for i := 1; i < len(levels); i++ {
		if levels[i].Bitrate < levels[i-1].Bitrate {
			t.Errorf("levels not sorted at %d: %d < %d", i, levels[i].Bitrate, levels[i-1].Bitrate)
		}
	}
	if levels[0].Name != "low" {
		t.Errorf("lowest level = %q, want low", levels[0].Name)
	}
	if levels[len(levels)-1].Name != "high" {
		t.Errorf("highest level = %q, want high", levels[len(levels)-1].Name)
	}
}

func TestQualityLevels_NonSimulcast(t *testing.T) {
	plan := mustParse(t)

	if levels := plan.QualityLevels("abr-constant"); levels != nil {
		t.Errorf("QualityLevels for abr sender = %v, want nil", levels)
	}
	if levels := plan.QualityLevels("no-such-case"); levels != nil {
		t.Errorf("QualityLevels for unknown case = %v, want nil", levels)
	}
}

func TestCapacitySeries(t *testing.T) {
	plan := mustParse(t)

	series := plan.CapacitySeries("simulcast-variable")
	if len(series) != 6 {
		t.Fatalf("CapacitySeries = %d points, want 6 (two per phase)", len(series))
	}

	want := []CapacityPoint{
		{0, 1000}, {40, 1000},
		{40, 2500}, {60, 2500},
		{60, 600}, {80, 600},
	}
	for i, p := range series {
		if p.Offset != want[i].Offset || p.Kbps != want[i].Kbps {
			t.Errorf("point %d = %+v, want %+v", i, p, want[i])
		}
	}
}

func TestCapacitySeries_MissingPreset(t *testing.T) {
	plan := mustParse(t)

	// abr-constant references a preset that does not exist.
	if series := plan.CapacitySeries("abr-constant"); series != nil {
		t.Errorf("CapacitySeries with missing preset = %v, want nil", series)
	}
	if series := plan.CapacitySeries("no-such-case"); series != nil {
		t.Errorf("CapacitySeries for unknown case = %v, want nil", series)
	}
}
