package testplan

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleConfig = `
simulcast_configs_presets:
  camera:
    initial_quality: low
    qualities:
      - id: 1
        name: low
        bitrate: 150000
      - id: 2
        name: medium
        bitrate: 500000
      - id: 3
        name: high
        bitrate: 1500000
  screen:
    initial_quality: screen-low
    qualities:
      - id: 10
        name: screen-low
        bitrate: 200000
      - id: 11
        name: screen-high
        bitrate: 1200000

path_characteristic_presets:
  variable:
    phases:
      - duration: 40s
        capacity: 1000000
      - duration: 20s
        capacity: 2500000
      - duration: 20
        capacity: 600000

test_cases:
  - name: simulcast-variable
    flow_mode: sequential
    path_characteristic_preset: variable
    sender:
      mode: simulcast
      simulcast_presets: [camera, screen]
  - name: abr-constant
    path_characteristic_preset: missing-preset
    sender:
      mode: abr
`

func TestParse(t *testing.T) {
	plan, err := Parse([]byte(sampleConfig))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if len(plan.TestCases) != 2 {
		t.Fatalf("TestCases = %d, want 2", len(plan.TestCases))
	}
	if len(plan.SimulcastPresets) != 2 {
		t.Errorf("SimulcastPresets = %d, want 2", len(plan.SimulcastPresets))
	}

	tc := plan.TestCase("simulcast-variable")
	if tc == nil {
		t.Fatal("TestCase(simulcast-variable) = nil")
	}
	if tc.Sender.Mode != "simulcast" {
		t.Errorf("Sender.Mode = %q, want simulcast", tc.Sender.Mode)
	}
	if len(tc.Sender.SimulcastPresets) != 2 {
		t.Errorf("SimulcastPresets = %v, want [camera screen]", tc.Sender.SimulcastPresets)
	}

	if plan.TestCase("no-such-case") != nil {
		t.Error("TestCase(no-such-case) should be nil")
	}
}

func TestParse_PhaseDurations(t *testing.T) {
	plan, err := Parse([]byte(sampleConfig))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	phases := plan.PathPresets["variable"].Phases
	if len(phases) != 3 {
		t.Fatalf("phases = %d, want 3", len(phases))
	}

	// Both suffixed ("40s") and bare-number ("20") durations must parse.
	want := []time.Duration{40 * time.Second, 20 * time.Second, 20 * time.Second}
	for i, phase := range phases {
		if phase.Duration.Duration() != want[i] {
			t.Errorf("phase %d duration = %v, want %v", i, phase.Duration.Duration(), want[i])
		}
	}
}

func TestParse_InvalidDuration(t *testing.T) {
	_, err := Parse([]byte(`
path_characteristic_presets:
  bad:
    phases:
      - duration: soon
        capacity: 1000
`))
	if err == nil {
		t.Fatal("expected error for unparseable duration")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		t.Fatal(err)
	}

	plan, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if plan.TestCase("abr-constant") == nil {
		t.Error("expected abr-constant test case after Load")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}
