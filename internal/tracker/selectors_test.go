package tracker_test

import (
	"testing"
	"time"

	"billtrack/internal/tracker"

	"github.com/stretchr/testify/assert"
)

var selectorNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func selectorState() tracker.State {
	s := tracker.InitialState()
	s.AllFiles = []tracker.FileEntry{
		{Path: "/bills/jan/power.pdf", Name: "power.pdf", Folder: "/bills/jan", Size: 300, Extension: ".pdf", ModifiedDate: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)},
		{Path: "/bills/jan/water.png", Name: "water.png", Folder: "/bills/jan", Size: 100, Extension: ".png", ModifiedDate: time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC)},
		{Path: "/bills/feb/gas.pdf", Name: "gas.pdf", Folder: "/bills/feb", Size: 200, Extension: ".pdf", ModifiedDate: time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)},
		{Path: "/bills/jun/rent.pdf", Name: "Rent.pdf", Folder: "/bills/jun", Size: 50, Extension: ".pdf", ModifiedDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
	s.TrackingData = tracker.TrackingData{
		"/bills/jan/power.pdf": {BillMonth: "2024-01", SentMonth: "2024-02"},
		"/bills/feb/gas.pdf":   {BillMonth: "2024-02"},
		"/bills/jun/rent.pdf":  {BillMonth: "2024-06"},
	}
	return s
}

func names(files []tracker.FileEntry) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Name)
	}
	return out
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		rec  tracker.BillRecord
		ok   bool
		want string
	}{
		{"no record", tracker.BillRecord{}, false, tracker.StatusUntracked},
		{"empty record", tracker.BillRecord{}, true, tracker.StatusUntracked},
		{"sent", tracker.BillRecord{BillMonth: "2024-01", SentMonth: "2024-02"}, true, tracker.StatusSent},
		{"recent", tracker.BillRecord{BillMonth: "2024-06"}, true, tracker.StatusPending},
		{"old", tracker.BillRecord{BillMonth: "2024-02"}, true, tracker.StatusOverdue},
		{"unparseable month", tracker.BillRecord{BillMonth: "Feb"}, true, tracker.StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tracker.StatusOf(tt.rec, tt.ok, 30, selectorNow))
		})
	}
}

func TestVisibleFiles(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*tracker.State)
		want   []string
	}{
		{"defaults sort by name", func(*tracker.State) {}, []string{"gas.pdf", "power.pdf", "Rent.pdf", "water.png"}},
		{"ignored file", func(s *tracker.State) { s.IgnoredFiles = tracker.NewPathSet("/bills/feb/gas.pdf") }, []string{"power.pdf", "Rent.pdf", "water.png"}},
		{"ignored subfolder", func(s *tracker.State) { s.IgnoredSubfolders = tracker.NewPathSet("/bills/jan") }, []string{"gas.pdf", "Rent.pdf"}},
		{"selected subfolder", func(s *tracker.State) { s.SelectedSubfolders = tracker.NewPathSet("/bills/feb") }, []string{"gas.pdf"}},
		{"search", func(s *tracker.State) { s.SearchTerm = "WAT" }, []string{"water.png"}},
		{"search folder", func(s *tracker.State) { s.SearchTerm = "jun" }, []string{"Rent.pdf"}},
		{"type", func(s *tracker.State) { s.FileTypeFilter = "png" }, []string{"water.png"}},
		{"sent", func(s *tracker.State) { s.StatusFilter = tracker.StatusSent }, []string{"power.pdf"}},
		{"untracked", func(s *tracker.State) { s.StatusFilter = tracker.StatusUntracked }, []string{"water.png"}},
		{"tracked", func(s *tracker.State) { s.StatusFilter = tracker.StatusTracked }, []string{"gas.pdf", "power.pdf", "Rent.pdf"}},
		{"pending includes overdue", func(s *tracker.State) { s.StatusFilter = tracker.StatusPending }, []string{"gas.pdf", "Rent.pdf"}},
		{"overdue", func(s *tracker.State) { s.StatusFilter = tracker.StatusOverdue }, []string{"gas.pdf"}},
		{"size range", func(s *tracker.State) { s.MinFileSize = 100; s.MaxFileSize = 200 }, []string{"gas.pdf", "water.png"}},
		{"date range", func(s *tracker.State) {
			s.DateRange = tracker.DateRange{Start: time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC), End: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}
		}, []string{"gas.pdf", "water.png"}},
		{"size desc", func(s *tracker.State) { s.SortBy = tracker.SortBySize; s.SortOrder = tracker.SortDesc }, []string{"power.pdf", "gas.pdf", "water.png", "Rent.pdf"}},
		{"modified", func(s *tracker.State) { s.SortBy = tracker.SortByModified }, []string{"power.pdf", "water.png", "gas.pdf", "Rent.pdf"}},
		{"bill month", func(s *tracker.State) { s.SortBy = tracker.SortByBillMonth }, []string{"water.png", "power.pdf", "gas.pdf", "Rent.pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := selectorState()
			tt.modify(&s)
			assert.Equal(t, tt.want, names(tracker.VisibleFiles(s, selectorNow)))
		})
	}
}

func TestWindow(t *testing.T) {
	files := selectorState().AllFiles

	assert.Len(t, tracker.Window(files, tracker.Range{Start: 0, End: 50}), 4)
	assert.Len(t, tracker.Window(files, tracker.Range{Start: 1, End: 3}), 2)
	assert.Empty(t, tracker.Window(files, tracker.Range{Start: 10, End: 20}))
	assert.Empty(t, tracker.Window(files, tracker.Range{Start: 3, End: 2}))
	assert.Len(t, tracker.Window(files, tracker.Range{Start: -5, End: 1}), 1)
}
