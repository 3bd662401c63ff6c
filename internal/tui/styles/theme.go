package styles

import (
	"github.com/charmbracelet/lipgloss"

	"billtrack/internal/config"
	"billtrack/internal/tracker"
)

// Styles holds every style the views render with. Build it from a config
// theme so the palette follows the user's choice.
type Styles struct {
	App        lipgloss.Style
	Title      lipgloss.Style
	Header     lipgloss.Style
	Cursor     lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Muted      lipgloss.Style
	Help       lipgloss.Style
	Pane       lipgloss.Style
	Error      lipgloss.Style
	Success    lipgloss.Style
	Status     map[string]lipgloss.Style
}

// FromTheme builds the styles for a theme.
func FromTheme(t config.Theme) Styles {
	primary := lipgloss.Color(t.Primary)
	return Styles{
		App: lipgloss.NewStyle().
			Padding(1, 2),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(t.Info)),
		Cursor: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(t.Emphasis)),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)).
			Bold(true),
		Unselected: lipgloss.NewStyle(),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5A9")),
		Pane: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Error)),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)),
		Status: map[string]lipgloss.Style{
			tracker.StatusUntracked: lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
			tracker.StatusPending:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)),
			tracker.StatusOverdue:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Error)).Bold(true),
			tracker.StatusSent:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)),
		},
	}
}

// ForStatus returns the badge style for a bill status.
func (s Styles) ForStatus(status string) lipgloss.Style {
	if st, ok := s.Status[status]; ok {
		return st
	}
	return s.Unselected
}
