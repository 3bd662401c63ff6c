package report_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"billtrack/internal/report"
	"billtrack/internal/tracker"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func reportState() tracker.State {
	s := tracker.InitialState()
	s.SelectedFolder = "/bills"
	s.AllFiles = []tracker.FileEntry{
		{Path: "/bills/jan/power.pdf", Name: "power.pdf", Folder: "/bills/jan", Size: 2048, Extension: ".pdf", ModifiedDate: time.Date(2024, 1, 20, 9, 30, 0, 0, time.UTC)},
		{Path: "/bills/feb/gas.pdf", Name: "gas.pdf", Folder: "/bills/feb", Size: 512, Extension: ".pdf", ModifiedDate: time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)},
		{Path: "/bills/feb/old.jpg", Name: "old.jpg", Folder: "/bills/feb", Size: 10, Extension: ".jpg"},
	}
	s.TrackingData = tracker.TrackingData{
		"/bills/jan/power.pdf": {BillMonth: "2024-01", SentMonth: "2024-02"},
		"/bills/feb/gas.pdf":   {BillMonth: "2024-02"},
	}
	s.Tags = tracker.Tags{"/bills/jan/power.pdf": {"utility", "q1"}}
	s.IgnoredFiles = tracker.NewPathSet("/bills/feb/old.jpg")
	return s
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "bills.xlsx")
	require.NoError(t, report.WriteXLSX(path, reportState(), now))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{report.FilesSheet, report.SummarySheet}, f.GetSheetList())

	rows, err := f.GetRows(report.FilesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus the two files not ignored")
	assert.Equal(t, report.FilesHeader, rows[0])

	gas := rows[1]
	assert.Equal(t, "/bills/feb/gas.pdf", gas[0])
	assert.Equal(t, "2024-02", gas[3])
	assert.Equal(t, "", gas[4])
	assert.Equal(t, tracker.StatusOverdue, gas[5])
	assert.Equal(t, "512 B", gas[6])
	assert.Equal(t, "512", gas[7])

	power := rows[2]
	assert.Equal(t, "power.pdf", power[2])
	assert.Equal(t, "2024-02", power[4])
	assert.Equal(t, tracker.StatusSent, power[5])
	assert.Equal(t, "2.0 kB", power[6])
	assert.Equal(t, "2024-01-20 09:30", power[8])
	assert.Equal(t, "utility, q1", power[9])
}

func TestWriteXLSXSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bills.xlsx")
	require.NoError(t, report.WriteXLSX(path, reportState(), now))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	cell := func(axis string) string {
		v, err := f.GetCellValue(report.SummarySheet, axis)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Metric", cell("A1"))
	assert.Equal(t, "/bills", cell("B2"))
	assert.Equal(t, now.Format(time.RFC3339), cell("B3"))
	assert.Equal(t, "2", cell("B4"), "total files")
	assert.Equal(t, "1", cell("B6"), "sent")
	assert.Equal(t, "1", cell("B8"), "overdue")
	assert.Equal(t, "0", cell("B9"), "untracked")

	assert.Equal(t, "Bill Month", cell("A12"))
	assert.Equal(t, "2024-01", cell("A13"))
	assert.Equal(t, "2024-02", cell("A14"))
	assert.Equal(t, "Extension", cell("A16"))
	assert.Equal(t, "pdf", cell("A17"))
	assert.Equal(t, "2", cell("B17"))
}

func TestWriteXLSXFollowsFilters(t *testing.T) {
	s := reportState()
	s.StatusFilter = tracker.StatusSent

	path := filepath.Join(t.TempDir(), "sent.xlsx")
	require.NoError(t, report.WriteXLSX(path, s, now))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(report.FilesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "/bills/jan/power.pdf", rows[1][0])
}

func TestWriteXLSXBadPath(t *testing.T) {
	dir := t.TempDir()
	err := report.WriteXLSX(dir, reportState(), now)
	assert.Error(t, err, "a directory is not a writable workbook")
}
