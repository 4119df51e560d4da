package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aalekseevx/bwe-report/internal/analysis"
)

var (
	tableTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#06B6D4"))

	tableCellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E5E7EB"))

	tableWarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))

	tableBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#374151")).
				Padding(0, 1)
)

var tableColumns = []string{
	"Experiment",
	"Sent",
	"Received",
	"Lost",
	"MaxJit ms",
	"p50 ms",
	"p95 ms",
	"Segments",
	"Warnings",
}

// Table renders the run summaries as a bordered terminal table, one row
// per experiment, in the order given.
func Table(summaries []analysis.Summary) string {
	if len(summaries) == 0 {
		return tableTitleStyle.Render("No experiments analyzed") + "\n"
	}

	rows := make([][]string, 0, len(summaries))
	for i := range summaries {
		s := &summaries[i]
		rows = append(rows, []string{
			s.Experiment,
			fmt.Sprintf("%d", s.SenderPackets),
			fmt.Sprintf("%d", s.ReceiverPackets),
			fmt.Sprintf("%d", s.LostTotal),
			fmt.Sprintf("%.2f", s.MaxJitterMs),
			fmt.Sprintf("%.1f", s.DelayP50Ms),
			fmt.Sprintf("%.1f", s.DelayP95Ms),
			fmt.Sprintf("%d", s.Segments),
			fmt.Sprintf("%d", s.Warnings),
		})
	}

	widths := make([]int, len(tableColumns))
	for i, col := range tableColumns {
		widths[i] = len(col)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	for i, col := range tableColumns {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(tableHeaderStyle.Render(pad(col, widths[i])))
	}
	for r, row := range rows {
		b.WriteString("\n")
		style := tableCellStyle
		if summaries[r].Warnings > 0 {
			style = tableWarnStyle
		}
		for i, cell := range row {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(style.Render(pad(cell, widths[i])))
		}
	}

	return tableTitleStyle.Render("Run Summary") + "\n" +
		tableBorderStyle.Render(b.String()) + "\n"
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
