package components

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"

	"billtrack/internal/tracker"
	"billtrack/internal/tui/styles"
)

// StatsPane renders the statistics last pushed into the store.
type StatsPane struct {
	Stats  tracker.Statistics
	Styles styles.Styles
}

func (p StatsPane) View() string {
	st := p.Stats
	var s strings.Builder

	s.WriteString(p.Styles.Title.Render("Statistics") + "\n")
	line := func(label string, v any) {
		s.WriteString(fmt.Sprintf("%-10s %v\n", label, v))
	}
	line("Files", st.TotalFiles)
	line("Tracked", st.TrackedFiles)
	line("Sent", p.Styles.ForStatus(tracker.StatusSent).Render(fmt.Sprint(st.SentFiles)))
	line("Pending", p.Styles.ForStatus(tracker.StatusPending).Render(fmt.Sprint(st.PendingFiles)))
	line("Overdue", p.Styles.ForStatus(tracker.StatusOverdue).Render(fmt.Sprint(st.OverdueFiles)))
	line("Untracked", st.UntrackedFiles)
	line("Size", humanize.Bytes(uint64(max(st.TotalSize, 0))))

	if len(st.ByBillMonth) > 0 {
		s.WriteString("\n" + p.Styles.Header.Render("By bill month") + "\n")
		months := make([]string, 0, len(st.ByBillMonth))
		for m := range st.ByBillMonth {
			months = append(months, m)
		}
		slices.Sort(months)
		for _, m := range months {
			line(m, st.ByBillMonth[m])
		}
	}

	if !st.LastUpdated.IsZero() {
		s.WriteString("\n" + p.Styles.Muted.Render("updated "+humanize.Time(st.LastUpdated)) + "\n")
	}
	return s.String()
}
