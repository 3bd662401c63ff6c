package tracker_test

import (
	"testing"

	"billtrack/internal/tracker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reduceAll(r *tracker.Reducer, s tracker.State, actions ...tracker.Action) tracker.State {
	for _, a := range actions {
		s = r.Reduce(s, a)
	}
	return s
}

func billsSubfolders() tracker.SetSubfolders {
	return tracker.SetSubfolders{
		Subfolders: []tracker.SubfolderEntry{
			{Path: "/bills/jan", Name: "jan", Depth: 1},
			{Path: "/bills/feb", Name: "feb", Depth: 1},
		},
		TreeStructure: []tracker.TreeNode{},
	}
}

func TestReduceBillsScenario(t *testing.T) {
	r := tracker.NewReducer(tracker.InitialState())
	s := reduceAll(r, r.Initial(),
		tracker.SetSelectedFolder{Path: "/bills"},
		billsSubfolders(),
		tracker.ToggleSubfolder{Path: "/bills/jan"},
	)

	assert.Equal(t, "/bills", s.SelectedFolder)
	assert.Len(t, s.Subfolders, 2)
	assert.Equal(t, []string{"/bills/jan"}, s.SelectedSubfolders.Slice())

	s = r.Reduce(s, tracker.ToggleSubfolder{Path: "/bills/jan"})
	assert.Equal(t, 0, s.SelectedSubfolders.Len())
}

func TestReduceTogglePairs(t *testing.T) {
	r := tracker.NewReducer(tracker.InitialState())
	base := reduceAll(r, r.Initial(),
		tracker.SetSelectedSubfolders{Paths: tracker.NewPathSet("/a", "/b")},
		tracker.SetIgnoredSubfolders{Paths: tracker.NewPathSet("/x")},
		tracker.SetIgnoredFiles{Paths: tracker.NewPathSet("/x/1.pdf")},
	)

	tests := []struct {
		name   string
		action tracker.Action
		field  func(tracker.State) tracker.PathSet
	}{
		{"subfolder present", tracker.ToggleSubfolder{Path: "/a"}, func(s tracker.State) tracker.PathSet { return s.SelectedSubfolders }},
		{"subfolder absent", tracker.ToggleSubfolder{Path: "/c"}, func(s tracker.State) tracker.PathSet { return s.SelectedSubfolders }},
		{"ignored subfolder", tracker.ToggleIgnoredSubfolder{Path: "/y"}, func(s tracker.State) tracker.PathSet { return s.IgnoredSubfolders }},
		{"ignored file", tracker.ToggleIgnoredFile{Path: "/x/1.pdf"}, func(s tracker.State) tracker.PathSet { return s.IgnoredFiles }},
		{"file selection", tracker.ToggleFileSelection{Path: "/a/1.pdf"}, func(s tracker.State) tracker.PathSet { return s.SelectedFiles }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once := r.Reduce(base, tt.action)
			assert.False(t, tt.field(once).Equal(tt.field(base)), "single toggle must change membership")

			twice := r.Reduce(once, tt.action)
			assert.True(t, tt.field(twice).Equal(tt.field(base)))
			assert.False(t, tt.field(twice).Same(tt.field(base)), "toggle must produce a new set")
		})
	}
}

func TestReduceToggleUnknownPathAdds(t *testing.T) {
	r := tracker.NewReducer(tracker.InitialState())
	s := r.Reduce(r.Initial(), tracker.ToggleSubfolder{Path: "/never/scanned"})
	assert.True(t, s.SelectedSubfolders.Has("/never/scanned"))
}

func TestReduceSelectAllSubfolders(t *testing.T) {
	r := tracker.NewReducer(tracker.InitialState())
	s := reduceAll(r, r.Initial(), billsSubfolders(), tracker.SelectAllSubfolders{})

	assert.Equal(t, []string{"/bills/feb", "/bills/jan"}, s.SelectedSubfolders.Slice())

	s = r.Reduce(s, tracker.DeselectAllSubfolders{})
	assert.Equal(t, 0, s.SelectedSubfolders.Len())
}

func TestReduceTrackingUpsertPreservesSiblings(t *testing.T) {
	r := tracker.NewReducer(tracker.InitialState())
	x := tracker.BillRecord{BillMonth: "2024-01"}
	y := tracker.BillRecord{BillMonth: "2024-02", SentMonth: "2024-03"}

	s1 := r.Reduce(r.Initial(), tracker.UpdateTrackingData{FilePath: "a", Data: x})
	s2 := r.Reduce(s1, tracker.UpdateTrackingData{FilePath: "b", Data: y})

	assert.Equal(t, x, s2.TrackingData["a"])
	assert.Equal(t, y, s2.TrackingData["b"])
	assert.Len(t, s1.TrackingData, 1, "previous state must not see the later upsert")
}

func TestReduceSetTrackingDataReplaces(t *testing.T) {
	r := tracker.NewReducer(tracker.InitialState())
	s := r.Reduce(r.Initial(), tracker.UpdateTrackingData{FilePath: "a", Data: tracker.BillRecord{BillMonth: "2024-01"}})
	s = r.Reduce(s, tracker.SetTrackingData{Data: tracker.TrackingData{"b": {SentMonth: "2024-02"}}})

	assert.NotContains(t, s.TrackingData, "a")
	assert.Equal(t, "2024-02", s.TrackingData["b"].SentMonth)
}

func TestReduceTags(t *testing.T) {
	r := tracker.NewReducer(tracker.InitialState())
	s := reduceAll(r, r.Initial(),
		tracker.SetTags{Tags: tracker.Tags{"a": {"power"}}},
		tracker.UpdateTag{FilePath: "b", Tags: []string{"water", "q1"}},
	)

	assert.Equal(t, []string{"power"}, s.Tags["a"])
	assert.Equal(t, []string{"water", "q1"}, s.Tags["b"])
}

func TestReduceResetFilters(t *testing.T) {
	r := tracker.NewReducer(tracker.InitialState())
	data := tracker.TrackingData{"/bills/jan/a.pdf": {BillMonth: "2024-01"}}
	s := reduceAll(r, r.Initial(),
		tracker.SetSelectedFolder{Path: "/bills"},
		tracker.SetTrackingData{Data: data},
		tracker.SetSearchTerm{Term: "power"},
		tracker.SetFileTypeFilter{Filter: "pdf"},
		tracker.SetStatusFilter{Filter: tracker.StatusSent},
		tracker.SetSortBy{Key: tracker.SortBySize},
		tracker.SetSortOrder{Order: tracker.SortDesc},
		tracker.SetMinFileSize{Size: 10},
		tracker.SetMaxFileSize{Size: 1000},
		tracker.SetViewMode{Mode: tracker.ViewGrid},
	)

	s = r.Reduce(s, tracker.ResetFilters{})

	initial := r.Initial()
	assert.Equal(t, initial.SearchTerm, s.SearchTerm)
	assert.Equal(t, initial.FileTypeFilter, s.FileTypeFilter)
	assert.Equal(t, initial.StatusFilter, s.StatusFilter)
	assert.Equal(t, initial.SortBy, s.SortBy)
	assert.Equal(t, initial.SortOrder, s.SortOrder)
	assert.Zero(t, s.MinFileSize)
	assert.Zero(t, s.MaxFileSize)

	assert.Equal(t, "/bills", s.SelectedFolder)
	assert.Equal(t, data, s.TrackingData)
	assert.Equal(t, tracker.ViewGrid, s.ViewMode, "view mode is not a filter")
}

func TestReduceResetState(t *testing.T) {
	r := tracker.NewReducer(tracker.InitialState())
	s := reduceAll(r, r.Initial(),
		tracker.SetSelectedFolder{Path: "/bills"},
		tracker.SetShowStats{Show: true},
	)

	reset := r.Reduce(s, tracker.ResetState{})
	want := r.Initial()
	want.Version = s.Version + 1
	assert.Equal(t, want, reset)
}

func TestReduceUnknownActionIsNoop(t *testing.T) {
	r := tracker.NewReducer(tracker.InitialState())
	s := r.Reduce(r.Initial(), tracker.SetSearchTerm{Term: "gas"})

	next, known := r.Step(s, tracker.UnknownAction{Kind: "NOT_A_REAL_ACTION"})
	assert.False(t, known)
	assert.Equal(t, s, next)

	next, known = r.Step(s, nil)
	assert.False(t, known)
	assert.Equal(t, s, next)
}

func TestReduceVersion(t *testing.T) {
	r := tracker.NewReducer(tracker.InitialState())
	s := r.Initial()
	require.Zero(t, s.Version)

	s = r.Reduce(s, tracker.SetSearchTerm{Term: "a"})
	assert.Equal(t, uint64(1), s.Version)

	s = r.Reduce(s, tracker.Undo{})
	assert.Equal(t, uint64(1), s.Version, "undo on an empty stack changes nothing")

	s = r.Reduce(s, tracker.UnknownAction{Kind: "X"})
	assert.Equal(t, uint64(1), s.Version)
}

func TestReduceCopyOnWrite(t *testing.T) {
	r := tracker.NewReducer(tracker.InitialState())
	before := reduceAll(r, r.Initial(),
		tracker.SetSelectedSubfolders{Paths: tracker.NewPathSet("/a")},
		tracker.SetIgnoredFiles{Paths: tracker.NewPathSet("/a/x.pdf")},
	)

	after := r.Reduce(before, tracker.ToggleSubfolder{Path: "/b"})

	assert.False(t, after.SelectedSubfolders.Same(before.SelectedSubfolders))
	assert.True(t, after.IgnoredFiles.Same(before.IgnoredFiles))
	assert.True(t, after.IgnoredSubfolders.Same(before.IgnoredSubfolders))
	assert.True(t, after.SelectedFiles.Same(before.SelectedFiles))
	assert.Equal(t, []string{"/a"}, before.SelectedSubfolders.Slice(), "input state must not be modified")
}

func TestReduceSetSelectedSubfoldersCopiesInput(t *testing.T) {
	r := tracker.NewReducer(tracker.InitialState())
	in := tracker.NewPathSet("/a")
	s := r.Reduce(r.Initial(), tracker.SetSelectedSubfolders{Paths: in})
	assert.True(t, s.SelectedSubfolders.Equal(in))
	assert.False(t, s.SelectedSubfolders.Same(in))
}

func TestReduceSelectedAndIgnoredMayOverlap(t *testing.T) {
	r := tracker.NewReducer(tracker.InitialState())
	s := reduceAll(r, r.Initial(),
		tracker.ToggleSubfolder{Path: "/bills/jan"},
		tracker.ToggleIgnoredSubfolder{Path: "/bills/jan"},
	)

	assert.True(t, s.SelectedSubfolders.Has("/bills/jan"))
	assert.True(t, s.IgnoredSubfolders.Has("/bills/jan"))
}

func TestReduceBulkActionsFollowSelection(t *testing.T) {
	r := tracker.NewReducer(tracker.InitialState())
	files := []tracker.FileEntry{{Path: "/a.pdf"}, {Path: "/b.pdf"}}
	s := r.Reduce(r.Initial(), tracker.SetAllFiles{Files: files})

	s = r.Reduce(s, tracker.ToggleFileSelection{Path: "/a.pdf"})
	assert.True(t, s.ShowBulkActions)

	s = r.Reduce(s, tracker.ToggleFileSelection{Path: "/a.pdf"})
	assert.False(t, s.ShowBulkActions)

	s = r.Reduce(s, tracker.SelectAllFiles{})
	assert.Equal(t, []string{"/a.pdf", "/b.pdf"}, s.SelectedFiles.Slice())
	assert.True(t, s.ShowBulkActions)

	s = r.Reduce(s, tracker.ClearSelection{})
	assert.Equal(t, 0, s.SelectedFiles.Len())
	assert.False(t, s.ShowBulkActions)

	s = r.Reduce(s, tracker.SelectAllFiles{Paths: []string{"/b.pdf"}})
	assert.Equal(t, []string{"/b.pdf"}, s.SelectedFiles.Slice())
}

func TestReduceUpdateSettingsMerges(t *testing.T) {
	r := tracker.NewReducer(tracker.InitialState())
	theme := "dark"
	overdue := 45

	s := r.Reduce(r.Initial(), tracker.UpdateSettings{Patch: tracker.SettingsPatch{Theme: &theme, OverdueDays: &overdue}})

	want := tracker.DefaultSettings()
	want.Theme = "dark"
	want.OverdueDays = 45
	assert.Equal(t, want, s.Settings)
}

func TestReduceUpdateStatisticsMerges(t *testing.T) {
	r := tracker.NewReducer(tracker.InitialState())
	total, sent := 10, 4

	s := r.Reduce(r.Initial(), tracker.UpdateStatistics{Patch: tracker.StatisticsPatch{TotalFiles: &total}})
	s = r.Reduce(s, tracker.UpdateStatistics{Patch: tracker.StatisticsPatch{SentFiles: &sent}})

	assert.Equal(t, 10, s.Statistics.TotalFiles)
	assert.Equal(t, 4, s.Statistics.SentFiles)
}

func TestReduceFieldReplacement(t *testing.T) {
	r := tracker.NewReducer(tracker.InitialState())
	s := reduceAll(r, r.Initial(),
		tracker.SetGSTSubmittedFolder{Path: "/bills/filed"},
		tracker.SetCurrentMonth{Month: "2024-05"},
		tracker.SetEditingSentMonth{Month: "2024-06"},
		tracker.SetEditingBillMonth{Month: "2024-04"},
		tracker.SetShowSettings{Show: true},
		tracker.SetShowReports{Show: true},
		tracker.SetShowChangeFolders{Show: true},
		tracker.SetShowBulkActions{Show: true},
		tracker.SetVisibleRange{Range: tracker.Range{Start: 50, End: 100}},
	)

	assert.Equal(t, "/bills/filed", s.GSTSubmittedFolder)
	assert.Equal(t, "2024-05", s.CurrentMonth)
	assert.Equal(t, "2024-06", s.EditingSentMonth)
	assert.Equal(t, "2024-04", s.EditingBillMonth)
	assert.True(t, s.ShowSettings)
	assert.True(t, s.ShowReports)
	assert.True(t, s.ShowChangeFolders)
	assert.True(t, s.ShowBulkActions)
	assert.Equal(t, tracker.Range{Start: 50, End: 100}, s.VisibleRange)
	assert.Equal(t, uint64(9), s.Version)
}
