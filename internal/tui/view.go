package tui

import (
	"fmt"
	"strings"
)

// progressBarWidth is the character width of the progress bar.
const progressBarWidth = 40

// View renders the TUI.
func (m Model) View() string {
	if m.quitting || m.finished {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("bwe-report"))
	b.WriteString(mutedStyle.Render("  " + m.experimentsDir))
	b.WriteString("\n\n")

	b.WriteString(m.renderProgress())
	b.WriteString("\n\n")

	b.WriteString(m.renderRecent())

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("elapsed %s  ·  q to quit", formatDuration(m.Elapsed()))))
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderProgress() string {
	completed := m.done + m.failed

	filled := 0
	if m.total > 0 {
		filled = completed * progressBarWidth / m.total
	}
	if filled > progressBarWidth {
		filled = progressBarWidth
	}

	bar := progressFilledStyle.Render(strings.Repeat("█", filled)) +
		progressEmptyStyle.Render(strings.Repeat("░", progressBarWidth-filled))

	counts := textStyle.Render(fmt.Sprintf(" %d/%d", completed, m.total))
	if m.failed > 0 {
		counts += errorStyle.Render(fmt.Sprintf("  %d failed", m.failed))
	}

	return panelStyle.Render(headerStyle.Render("Progress") + "\n" + bar + counts)
}

func (m Model) renderRecent() string {
	if len(m.recent) == 0 {
		return panelStyle.Render(headerStyle.Render("Experiments") + "\n" + mutedStyle.Render("waiting..."))
	}

	var lines []string
	for _, o := range m.recent {
		switch {
		case o.failed:
			lines = append(lines, errorStyle.Render("✗ "+o.name)+mutedStyle.Render("  "+o.detail))
		case o.warnings > 0:
			lines = append(lines, warningStyle.Render("⚠ "+o.name)+
				mutedStyle.Render(fmt.Sprintf("  %s, %d warnings", o.detail, o.warnings)))
		default:
			lines = append(lines, successStyle.Render("✓ "+o.name)+mutedStyle.Render("  "+o.detail))
		}
	}

	return panelStyle.Render(headerStyle.Render("Experiments") + "\n" + strings.Join(lines, "\n"))
}
