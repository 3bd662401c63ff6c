// Package report exports the tracker's bills to a spreadsheet.
package report

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/xuri/excelize/v2"

	"billtrack/internal/errors"
	log "billtrack/internal/log"
	"billtrack/internal/stats"
	"billtrack/internal/tracker"
)

// Sheet names in the exported workbook.
const (
	FilesSheet   = "Files"
	SummarySheet = "Summary"
)

// FilesHeader is the first row of the Files sheet.
var FilesHeader = []string{"Path", "Folder", "Name", "Bill Month", "Sent Month", "Status", "Size", "Size (bytes)", "Modified", "Tags"}

// WriteXLSX writes the files currently visible in s, plus a summary of the
// whole tracked folder, to an xlsx workbook at path.
func WriteXLSX(path string, s tracker.State, now time.Time) error {
	logger := log.LogWithFields(log.F("path", path))

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", FilesSheet); err != nil {
		return errors.Wrap(err, "failed to name files sheet")
	}

	files := tracker.VisibleFiles(s, now)
	if err := writeFiles(f, s, files, now); err != nil {
		return err
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return errors.Wrap(err, "failed to create summary sheet")
	}
	if err := writeSummary(f, s, stats.Compute(s, now)); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.NewFileError("failed to create report directory", dir, errors.FileCreateFailed, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return errors.NewFileError("failed to save report", path, errors.FileOperationFailed, err)
	}

	logger.With(log.F("files", len(files))).Info("Report written")
	return nil
}

func writeFiles(f *excelize.File, s tracker.State, files []tracker.FileEntry, now time.Time) error {
	if err := setRow(f, FilesSheet, 1, toRow(FilesHeader)); err != nil {
		return err
	}

	for i, file := range files {
		rec := s.TrackingData[file.Path]
		row := []interface{}{
			file.Path,
			file.Folder,
			file.Name,
			rec.BillMonth,
			rec.SentMonth,
			tracker.FileStatus(s, file.Path, now),
			humanize.Bytes(uint64(max(file.Size, 0))),
			file.Size,
			file.ModifiedDate.Format("2006-01-02 15:04"),
			strings.Join(s.Tags[file.Path], ", "),
		}
		if err := setRow(f, FilesSheet, i+2, row); err != nil {
			return err
		}
	}

	if err := styleHeader(f, FilesSheet, len(FilesHeader)); err != nil {
		return err
	}
	if err := f.SetColWidth(FilesSheet, "A", "A", 60); err != nil {
		return errors.Wrap(err, "failed to size path column")
	}
	if err := f.SetPanes(FilesSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return errors.Wrap(err, "failed to freeze header row")
	}
	return nil
}

func writeSummary(f *excelize.File, s tracker.State, st tracker.Statistics) error {
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Folder", s.SelectedFolder},
		{"Generated", st.LastUpdated.Format(time.RFC3339)},
		{"Total files", st.TotalFiles},
		{"Tracked", st.TrackedFiles},
		{"Sent", st.SentFiles},
		{"Pending", st.PendingFiles},
		{"Overdue", st.OverdueFiles},
		{"Untracked", st.UntrackedFiles},
		{"Total size", humanize.Bytes(uint64(max(st.TotalSize, 0)))},
	}

	// Bill month and extension breakdowns follow, each in key order.
	rows = append(rows, []interface{}{}, []interface{}{"Bill Month", "Files"})
	for _, k := range sortedKeys(st.ByBillMonth) {
		rows = append(rows, []interface{}{k, st.ByBillMonth[k]})
	}
	rows = append(rows, []interface{}{}, []interface{}{"Extension", "Files"})
	for _, k := range sortedKeys(st.ByExtension) {
		rows = append(rows, []interface{}{k, st.ByExtension[k]})
	}

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		if err := setRow(f, SummarySheet, i+1, row); err != nil {
			return err
		}
	}

	if err := styleHeader(f, SummarySheet, 2); err != nil {
		return err
	}
	if err := f.SetColWidth(SummarySheet, "A", "A", 20); err != nil {
		return errors.Wrap(err, "failed to size summary column")
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return errors.Wrapf(err, "invalid row %d", row)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return errors.Wrapf(err, "failed to write %s row %d", sheet, row)
	}
	return nil
}

func styleHeader(f *excelize.File, sheet string, cols int) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "failed to create header style")
	}
	last, err := excelize.CoordinatesToCellName(cols, 1)
	if err != nil {
		return errors.Wrapf(err, "invalid header width %d", cols)
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

func toRow(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
