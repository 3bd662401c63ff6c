package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"billtrack/internal/tui/styles"
)

type StatusBar struct {
	text    string
	isError bool
	styles  styles.Styles
	spinner spinner.Model
	loading bool
}

func NewStatusBar(st styles.Styles) *StatusBar {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = st.Help

	return &StatusBar{
		styles:  st,
		spinner: s,
	}
}

// SetLoading shows the spinner next to text until the next SetText or
// SetError. The returned command starts the spinner.
func (s *StatusBar) SetLoading(text string) tea.Cmd {
	s.text = text
	s.isError = false
	s.loading = true
	return s.spinner.Tick
}

func (s *StatusBar) SetText(text string) {
	s.text = text
	s.isError = false
	s.loading = false
}

func (s *StatusBar) SetError(err error) {
	s.text = err.Error()
	s.isError = true
	s.loading = false
}

func (s *StatusBar) Text() string {
	return s.text
}

func (s *StatusBar) Loading() bool {
	return s.loading
}

func (s *StatusBar) Update(msg tea.Msg) tea.Cmd {
	if s.loading {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return cmd
	}
	return nil
}

func (s *StatusBar) View() string {
	if s.text == "" && !s.loading {
		return ""
	}

	if s.loading {
		return s.styles.Help.Render(s.spinner.View() + " " + s.text)
	}
	if s.isError {
		return s.styles.Error.Render(s.text)
	}
	return s.styles.Help.Render(s.text)
}
