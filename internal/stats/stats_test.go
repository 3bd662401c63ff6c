package stats_test

import (
	"testing"
	"time"

	"billtrack/internal/stats"
	"billtrack/internal/tracker"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

func fixture() tracker.State {
	s := tracker.InitialState()
	s.AllFiles = []tracker.FileEntry{
		{Path: "/bills/jan/power.pdf", Size: 300, Extension: ".pdf"},
		{Path: "/bills/jan/water.PNG", Size: 100, Extension: ".PNG"},
		{Path: "/bills/feb/gas.pdf", Size: 200, Extension: ".pdf"},
		{Path: "/bills/jun/rent.pdf", Size: 50, Extension: ".pdf"},
		{Path: "/bills/jun/README", Size: 5},
	}
	s.TrackingData = tracker.TrackingData{
		"/bills/jan/power.pdf": {BillMonth: "2024-01", SentMonth: "2024-02"},
		"/bills/feb/gas.pdf":   {BillMonth: "2024-02"},
		"/bills/jun/rent.pdf":  {BillMonth: "2024-06"},
	}
	return s
}

func TestCompute(t *testing.T) {
	got := stats.Compute(fixture(), now)

	assert.Equal(t, 5, got.TotalFiles)
	assert.Equal(t, 3, got.TrackedFiles)
	assert.Equal(t, 1, got.SentFiles)
	assert.Equal(t, 2, got.PendingFiles)
	assert.Equal(t, 1, got.OverdueFiles)
	assert.Equal(t, 2, got.UntrackedFiles)
	assert.Equal(t, int64(655), got.TotalSize)
	assert.Equal(t, map[string]int{"2024-01": 1, "2024-02": 1, "2024-06": 1}, got.ByBillMonth)
	assert.Equal(t, map[string]int{"pdf": 3, "png": 1, "none": 1}, got.ByExtension)
	assert.Equal(t, now, got.LastUpdated)
}

func TestComputeRespectsScope(t *testing.T) {
	s := fixture()
	s.IgnoredSubfolders = tracker.NewPathSet("/bills/jun")
	s.IgnoredFiles = tracker.NewPathSet("/bills/jan/water.PNG")

	got := stats.Compute(s, now)
	assert.Equal(t, 2, got.TotalFiles)
	assert.Equal(t, 0, got.UntrackedFiles)
}

func TestRefresh(t *testing.T) {
	store := tracker.NewStore(tracker.WithInitialState(fixture()))

	want := stats.Refresh(store, now)
	assert.Equal(t, want, store.State().Statistics)
}
