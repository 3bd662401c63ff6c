package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"billtrack/internal/tracker"
	"billtrack/internal/tui/common"
	"billtrack/internal/tui/components"
	"billtrack/internal/tui/styles"
)

func RenderMainView(m common.ModelReader, st styles.Styles) string {
	s := m.State()
	var sb strings.Builder

	sb.WriteString(renderBanner(m, st) + "\n")
	sb.WriteString(RenderFilterLine(s, st) + "\n\n")

	main := components.FileList{
		State:  s,
		Files:  m.Files(),
		Cursor: m.Cursor(),
		Now:    m.Now(),
		Styles: st,
	}.View()

	var side []string
	if m.Mode() == common.Folders || s.ShowChangeFolders {
		side = append(side, st.Pane.Render(components.FolderList{State: s, Cursor: m.FolderCursor(), Styles: st}.View()))
	}
	if s.ShowStats {
		side = append(side, st.Pane.Render(components.StatsPane{Stats: s.Statistics, Styles: st}.View()))
	}
	if len(side) > 0 {
		main = lipgloss.JoinHorizontal(lipgloss.Top, main, "  ", lipgloss.JoinVertical(lipgloss.Left, side...))
	}
	sb.WriteString(main)

	if s.ShowBulkActions {
		sb.WriteString("\n" + st.Selected.Render(fmt.Sprintf("%d selected: s mark sent, b bill month, x ignore, esc clear", s.SelectedFiles.Len())))
	}
	if in := m.InputView(); in != "" {
		sb.WriteString("\n" + in)
	}
	if status := m.StatusView(); status != "" {
		sb.WriteString("\n" + status)
	}
	sb.WriteString("\n" + st.Help.Render(m.HelpView()))

	return st.App.Render(sb.String())
}

// RenderFilterLine summarises the active filters and sort.
func RenderFilterLine(s tracker.State, st styles.Styles) string {
	arrow := "↑"
	if s.SortOrder == tracker.SortDesc {
		arrow = "↓"
	}
	parts := []string{
		"status: " + s.StatusFilter,
		"type: " + s.FileTypeFilter,
		"sort: " + s.SortBy + " " + arrow,
	}
	if s.SearchTerm != "" {
		parts = append(parts, fmt.Sprintf("search: %q", s.SearchTerm))
	}
	if !s.DateRange.IsZero() {
		parts = append(parts, "dates: "+formatDate(s.DateRange.Start)+".."+formatDate(s.DateRange.End))
	}
	if s.MinFileSize > 0 || s.MaxFileSize > 0 {
		parts = append(parts, fmt.Sprintf("size: %d..%d", s.MinFileSize, s.MaxFileSize))
	}
	return st.Muted.Render(strings.Join(parts, "  "))
}

func renderBanner(m common.ModelReader, st styles.Styles) string {
	s := m.State()
	folder := s.SelectedFolder
	if folder == "" {
		folder = "(no folder selected)"
	}
	month := s.CurrentMonth
	if month == "" {
		month = m.Now().Format(tracker.MonthLayout)
	}
	title := st.Title.Render("billtrack")
	info := st.Muted.Render(fmt.Sprintf("%s  month %s  [%s]", folder, month, m.Mode()))
	return title + "  " + info
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "*"
	}
	return t.Format("2006-01-02")
}
