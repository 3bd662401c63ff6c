package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"billtrack/internal/config"
)

type palette struct {
	success  lipgloss.Style
	warning  lipgloss.Style
	err      lipgloss.Style
	info     lipgloss.Style
	emphasis lipgloss.Style
	border   lipgloss.Style
}

var colors = paletteFrom(config.New().Theme)

func paletteFrom(t config.Theme) palette {
	return palette{
		success:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)),
		warning:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)),
		err:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.Error)).Bold(true),
		info:     lipgloss.NewStyle().Foreground(lipgloss.Color(t.Info)),
		emphasis: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Emphasis)).Bold(true),
		border:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Border)),
	}
}

func successText(s string) string  { return colors.success.Render(s) }
func warningText(s string) string  { return colors.warning.Render(s) }
func errorText(s string) string    { return colors.err.Render(s) }
func infoText(s string) string     { return colors.info.Render(s) }
func emphasisText(s string) string { return colors.emphasis.Render(s) }

// renderTable draws rows under headers with the theme's border colour.
func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(colors.border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return colors.emphasis.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...).
		Rows(rows...).
		Render()
}
