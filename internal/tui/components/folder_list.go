package components

import (
	"fmt"
	"strings"

	"billtrack/internal/tracker"
	"billtrack/internal/tui/styles"
)

// FolderList renders the discovered subfolders with their scope marks:
// [x] selected, [-] ignored.
type FolderList struct {
	State  tracker.State
	Cursor int
	Styles styles.Styles
}

func (fl FolderList) View() string {
	var s strings.Builder
	s.WriteString(fl.Styles.Title.Render("Subfolders") + "\n")

	if len(fl.State.Subfolders) == 0 {
		s.WriteString(fl.Styles.Muted.Render("No subfolders") + "\n")
		return s.String()
	}

	for i, sub := range fl.State.Subfolders {
		cursor := " "
		if i == fl.Cursor {
			cursor = fl.Styles.Cursor.Render(">")
		}

		mark := "[ ]"
		style := fl.Styles.Unselected
		switch {
		case fl.State.IgnoredSubfolders.Has(sub.Path):
			mark = "[-]"
			style = fl.Styles.Muted
		case fl.State.SelectedSubfolders.Has(sub.Path):
			mark = "[x]"
			style = fl.Styles.Selected
		}

		indent := strings.Repeat("  ", max(sub.Depth-1, 0))
		line := fmt.Sprintf("%s %s%s (%d)", mark, indent, sub.Name, sub.FileCount)
		s.WriteString(cursor + style.Render(line) + "\n")
	}

	if fl.State.SelectedSubfolders.Len() == 0 {
		s.WriteString(fl.Styles.Muted.Render("All subfolders in scope") + "\n")
	}
	return s.String()
}
