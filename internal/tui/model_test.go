package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aalekseevx/bwe-report/internal/analysis"
)

func TestModelProgress(t *testing.T) {
	m := New(Config{ExperimentsDir: "./results"})

	if got := m.Progress(); got != 0 {
		t.Errorf("initial progress = %v, want 0", got)
	}

	updated, _ := m.Update(DiscoveredMsg{Names: []string{"a", "b", "c", "d"}})
	m = updated.(Model)

	updated, _ = m.Update(DoneMsg{Summary: analysis.Summary{Experiment: "a", SenderPackets: 100}})
	m = updated.(Model)
	updated, _ = m.Update(FailedMsg{Name: "b", Err: errors.New("no RTP records")})
	m = updated.(Model)

	if got := m.Progress(); got != 0.5 {
		t.Errorf("progress = %v, want 0.5", got)
	}
	if m.done != 1 || m.failed != 1 {
		t.Errorf("done/failed = %d/%d, want 1/1", m.done, m.failed)
	}
}

func TestModelQuitKeys(t *testing.T) {
	for _, key := range []string{"q", "ctrl+c", "esc"} {
		t.Run(key, func(t *testing.T) {
			m := New(Config{})
			_, cmd := m.Update(keyMsg(key))
			if cmd == nil {
				t.Fatalf("key %q should quit", key)
			}
		})
	}
}

func keyMsg(key string) tea.Msg {
	switch key {
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

func TestModelFinished(t *testing.T) {
	m := New(Config{})
	updated, cmd := m.Update(FinishedMsg{})
	m = updated.(Model)

	if !m.finished {
		t.Error("model not marked finished")
	}
	if cmd == nil {
		t.Error("FinishedMsg should produce a quit command")
	}
	if m.View() != "" {
		t.Error("finished view should be empty")
	}
}

func TestModelRecentOutcomesBounded(t *testing.T) {
	m := New(Config{})
	for i := 0; i < maxRecent+5; i++ {
		updated, _ := m.Update(DoneMsg{Summary: analysis.Summary{Experiment: "exp"}})
		m = updated.(Model)
	}
	if len(m.recent) != maxRecent {
		t.Errorf("recent = %d entries, want capped at %d", len(m.recent), maxRecent)
	}
}

func TestView(t *testing.T) {
	m := New(Config{ExperimentsDir: "./results"})
	updated, _ := m.Update(DiscoveredMsg{Names: []string{"exp-a", "exp-b"}})
	m = updated.(Model)
	updated, _ = m.Update(DoneMsg{Summary: analysis.Summary{Experiment: "exp-a", SenderPackets: 42, Warnings: 1}})
	m = updated.(Model)
	updated, _ = m.Update(FailedMsg{Name: "exp-b", Err: errors.New("boom")})
	m = updated.(Model)

	out := m.View()
	for _, want := range []string{"bwe-report", "Progress", "2/2", "exp-a", "exp-b", "1 failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
