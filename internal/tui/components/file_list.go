package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"billtrack/internal/tracker"
	"billtrack/internal/tui/styles"
)

// FileList renders one window of the visible bills.
type FileList struct {
	State  tracker.State
	Files  []tracker.FileEntry // the whole filtered list
	Cursor int                 // index into Files
	Now    time.Time
	Styles styles.Styles
}

func (fl FileList) View() string {
	var s strings.Builder

	if len(fl.Files) == 0 {
		if len(fl.State.AllFiles) == 0 {
			s.WriteString(fl.Styles.Muted.Render("No files found. Run a scan first.") + "\n")
		} else {
			s.WriteString(fl.Styles.Muted.Render("No files match the current filters.") + "\n")
		}
		return s.String()
	}

	settings := fl.State.Settings
	s.WriteString(fl.Styles.Header.Render(fl.header(settings)) + "\n")

	r := fl.State.VisibleRange
	window := tracker.Window(fl.Files, r)
	for i, file := range window {
		idx := max(r.Start, 0) + i
		s.WriteString(fl.row(idx, file, settings) + "\n")
	}

	if len(window) < len(fl.Files) {
		first := max(r.Start, 0) + 1
		s.WriteString(fl.Styles.Muted.Render(fmt.Sprintf("  %d-%d of %d", first, first+len(window)-1, len(fl.Files))) + "\n")
	}

	return s.String()
}

func (fl FileList) header(settings tracker.Settings) string {
	cols := []string{"    ", "    ", fmt.Sprintf("%-32s", "Name"), fmt.Sprintf("%-8s", "Bill"), fmt.Sprintf("%-8s", "Sent")}
	if !settings.CompactView {
		if settings.ShowFileSize {
			cols = append(cols, fmt.Sprintf("%8s", "Size"))
		}
		if settings.ShowDates {
			cols = append(cols, fmt.Sprintf("%-10s", "Modified"))
		}
		if settings.ShowTags {
			cols = append(cols, "Tags")
		}
	}
	return strings.Join(cols, " ")
}

func (fl FileList) row(idx int, file tracker.FileEntry, settings tracker.Settings) string {
	cursor := " "
	if idx == fl.Cursor {
		cursor = fl.Styles.Cursor.Render(">")
	}
	mark := "[ ]"
	if fl.State.SelectedFiles.Has(file.Path) {
		mark = fl.Styles.Selected.Render("[x]")
	}

	status := tracker.FileStatus(fl.State, file.Path, fl.Now)
	badge := fl.Styles.ForStatus(status).Render(styles.StatusLabel(status))

	rec := fl.State.TrackingData[file.Path]
	nameStyle := fl.Styles.Unselected
	if fl.State.SelectedFiles.Has(file.Path) {
		nameStyle = fl.Styles.Selected
	}
	cols := []string{
		nameStyle.Render(fmt.Sprintf("%-32s", truncate(file.Name, 32))),
		fmt.Sprintf("%-8s", rec.BillMonth),
		fmt.Sprintf("%-8s", rec.SentMonth),
	}
	if !settings.CompactView {
		if settings.ShowFileSize {
			cols = append(cols, fmt.Sprintf("%8s", humanize.Bytes(uint64(max(file.Size, 0)))))
		}
		if settings.ShowDates {
			cols = append(cols, fmt.Sprintf("%-10s", file.ModifiedDate.Format("2006-01-02")))
		}
		if settings.ShowTags {
			cols = append(cols, fl.Styles.Muted.Render(strings.Join(fl.State.Tags[file.Path], ",")))
		}
	}

	return fmt.Sprintf("%s%s %s %s", cursor, mark, badge, strings.Join(cols, " "))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
