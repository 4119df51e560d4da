// Package tui provides a live terminal dashboard for an analysis run.
//
// The TUI uses Bubble Tea for the application framework and Lipgloss for
// styling. It shows run progress (analyzed/failed/total), the most recent
// experiment outcomes and any data-quality warnings, then exits when the
// run finishes.
package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aalekseevx/bwe-report/internal/analysis"
)

// maxRecent bounds the outcome log shown in the dashboard.
const maxRecent = 8

// TickMsg is sent periodically to update the display.
type TickMsg time.Time

// DiscoveredMsg carries the experiment names found at startup.
type DiscoveredMsg struct {
	Names []string
}

// DoneMsg reports one successfully analyzed experiment.
type DoneMsg struct {
	Summary analysis.Summary
}

// FailedMsg reports one experiment that could not be analyzed.
type FailedMsg struct {
	Name string
	Err  error
}

// FinishedMsg signals that the whole run completed.
type FinishedMsg struct{}

// outcome is one line of the recent-outcomes log.
type outcome struct {
	name     string
	failed   bool
	detail   string
	warnings int
}

// Model represents the TUI state.
type Model struct {
	experimentsDir string

	total  int
	done   int
	failed int

	recent    []outcome
	startTime time.Time

	width    int
	height   int
	finished bool
	quitting bool
}

// Config holds TUI configuration.
type Config struct {
	ExperimentsDir string
}

// New creates a new TUI model.
func New(cfg Config) Model {
	return Model{
		experimentsDir: cfg.ExperimentsDir,
		startTime:      time.Now(),
		width:          80,
		height:         24,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case TickMsg:
		return m, tickCmd()

	case DiscoveredMsg:
		m.total = len(msg.Names)
		return m, nil

	case DoneMsg:
		m.done++
		m.pushOutcome(outcome{
			name:     msg.Summary.Experiment,
			detail:   fmt.Sprintf("%d pkts, %d lost", msg.Summary.SenderPackets, msg.Summary.LostTotal),
			warnings: msg.Summary.Warnings,
		})
		return m, nil

	case FailedMsg:
		m.failed++
		m.pushOutcome(outcome{
			name:   msg.Name,
			failed: true,
			detail: msg.Err.Error(),
		})
		return m, nil

	case FinishedMsg:
		m.finished = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) pushOutcome(o outcome) {
	m.recent = append(m.recent, o)
	if len(m.recent) > maxRecent {
		m.recent = m.recent[len(m.recent)-maxRecent:]
	}
}

// Progress returns run completion from 0.0 to 1.0.
func (m Model) Progress() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.done+m.failed) / float64(m.total)
}

// Elapsed returns the time since the run started.
func (m Model) Elapsed() time.Duration {
	return time.Since(m.startTime)
}

// tickCmd returns a command that sends a tick after 500ms.
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// SendDone sends a success update to a running program.
func SendDone(p *tea.Program, s analysis.Summary) {
	if p != nil {
		p.Send(DoneMsg{Summary: s})
	}
}

// SendFailed sends a failure update to a running program.
func SendFailed(p *tea.Program, name string, err error) {
	if p != nil {
		p.Send(FailedMsg{Name: name, Err: err})
	}
}

// SendFinished tells a running program the run is over.
func SendFinished(p *tea.Program) {
	if p != nil {
		p.Send(FinishedMsg{})
	}
}

// formatDuration formats a duration as MM:SS.
func formatDuration(d time.Duration) string {
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}
