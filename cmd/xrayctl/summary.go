package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const secretMask = "************"

var (
	summaryBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("2")).
			Padding(1).
			Margin(1)

	summaryKeyStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
)

type summaryRow struct {
	key   string
	value string
}

// mask hides a secret but still tells whether one is set.
func mask(secret string) string {
	if secret == "" {
		return ""
	}

	return secretMask
}

// renderSummary draws the run options in a rounded box.
func renderSummary(rows []summaryRow) string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, summaryKeyStyle.Render(row.key+":")+" "+row.value)
	}

	return summaryBoxStyle.Render(strings.Join(lines, "\n"))
}
