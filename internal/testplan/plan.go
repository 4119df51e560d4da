// Package testplan loads the experiment-suite configuration and resolves
// quality identifiers found in packet logs to their configured names and
// bitrates.
//
// The configuration is the same YAML file the test harness runs from, so
// the analyzer never needs a second source of truth: test cases, simulcast
// presets and path-characteristic presets are all looked up here.
package testplan

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Plan is the root of the experiment-suite configuration.
type Plan struct {
	SimulcastPresets map[string]SimulcastPreset    `yaml:"simulcast_configs_presets"`
	PathPresets      map[string]PathCharacteristic `yaml:"path_characteristic_presets"`
	TestCases        []TestCase                    `yaml:"test_cases"`

	// byName is built once at load time; test-case resolution is per-record
	// hot path in timeline emission.
	byName map[string]*TestCase
}

// TestCase describes a single experiment configuration.
type TestCase struct {
	Name       string       `yaml:"name"`
	FlowMode   string       `yaml:"flow_mode"`
	PathPreset string       `yaml:"path_characteristic_preset"`
	Sender     SenderConfig `yaml:"sender"`
}

// SenderConfig describes how the sender produced media for a test case.
// Mode "simulcast" is the only mode with a quality timeline.
type SenderConfig struct {
	Mode             string   `yaml:"mode"`
	SimulcastPresets []string `yaml:"simulcast_presets,omitempty"`
}

// SimulcastPreset is a named set of quality levels a track can switch
// between during a run.
type SimulcastPreset struct {
	InitialQuality string    `yaml:"initial_quality"`
	Qualities      []Quality `yaml:"qualities"`
}

// Quality is one simulcast quality level. ID is the identifier written
// into the packet logs; Bitrate is the nominal encoder bitrate in bps.
type Quality struct {
	ID      uint32 `yaml:"id"`
	Name    string `yaml:"name"`
	Bitrate int    `yaml:"bitrate"`
}

// PathCharacteristic is a named sequence of link-capacity phases.
type PathCharacteristic struct {
	Phases []Phase `yaml:"phases"`
}

// Phase is one constant-capacity interval of a path characteristic.
type Phase struct {
	Duration Seconds `yaml:"duration"`
	Capacity int     `yaml:"capacity"` // bits per second
	MaxBurst int     `yaml:"max_burst,omitempty"`
}

// Seconds is a duration that unmarshals from either a Go duration string
// ("30s", "1m") or a bare number of seconds.
type Seconds time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Seconds) UnmarshalYAML(node *yaml.Node) error {
	if n, err := strconv.ParseFloat(node.Value, 64); err == nil {
		*s = Seconds(time.Duration(n * float64(time.Second)))
		return nil
	}
	d, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", node.Value, err)
	}
	*s = Seconds(d)
	return nil
}

// Duration returns the phase duration as a time.Duration.
func (s Seconds) Duration() time.Duration { return time.Duration(s) }

// Load reads and parses the experiment-suite configuration.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse parses the experiment-suite configuration from raw YAML.
func Parse(data []byte) (*Plan, error) {
	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	plan.index()
	return &plan, nil
}

func (p *Plan) index() {
	p.byName = make(map[string]*TestCase, len(p.TestCases))
	for i := range p.TestCases {
		tc := &p.TestCases[i]
		if tc.Name != "" {
			p.byName[tc.Name] = tc
		}
	}
}

// TestCase returns the test case with the given name, or nil.
func (p *Plan) TestCase(name string) *TestCase {
	if p.byName == nil {
		p.index()
	}
	return p.byName[name]
}
