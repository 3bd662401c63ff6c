package tracker

import (
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// MonthLayout is the format of bill and sent months.
const MonthLayout = "2006-01"

// ParseMonth parses a YYYY-MM month into the first instant of that month.
func ParseMonth(month string) (time.Time, bool) {
	t, err := time.Parse(MonthLayout, month)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// StatusOf classifies a file by its bill record. A file with no record, or a
// record with neither month set, is untracked. A tracked, unsent bill whose
// month began more than overdueDays before now is overdue.
func StatusOf(rec BillRecord, ok bool, overdueDays int, now time.Time) string {
	switch {
	case !ok || (rec.BillMonth == "" && rec.SentMonth == ""):
		return StatusUntracked
	case rec.Sent():
		return StatusSent
	case isOverdue(rec, overdueDays, now):
		return StatusOverdue
	default:
		return StatusPending
	}
}

func isOverdue(rec BillRecord, overdueDays int, now time.Time) bool {
	if overdueDays <= 0 {
		return false
	}
	start, ok := ParseMonth(rec.BillMonth)
	if !ok {
		return false
	}
	return now.Sub(start) > time.Duration(overdueDays)*24*time.Hour
}

// FileStatus is StatusOf for one file of s.
func FileStatus(s State, path string, now time.Time) string {
	rec, ok := s.TrackingData[path]
	return StatusOf(rec, ok, s.Settings.OverdueDays, now)
}

// InScope reports whether f belongs to the tracked set: not ignored, and inside
// a selected subfolder when any are selected.
func InScope(s State, f FileEntry) bool {
	if s.IgnoredFiles.Has(f.Path) {
		return false
	}
	if underAny(f.Path, s.IgnoredSubfolders) {
		return false
	}
	if s.SelectedSubfolders.Len() > 0 && !underAny(f.Path, s.SelectedSubfolders) {
		return false
	}
	return true
}

func underAny(path string, dirs PathSet) bool {
	for _, dir := range dirs.Slice() {
		if isUnder(path, dir) {
			return true
		}
	}
	return false
}

func isUnder(path, dir string) bool {
	if dir == "" {
		return false
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// VisibleFiles returns the files of s that pass every active filter, sorted by
// the current sort key and order.
func VisibleFiles(s State, now time.Time) []FileEntry {
	term := strings.ToLower(strings.TrimSpace(s.SearchTerm))
	out := make([]FileEntry, 0, len(s.AllFiles))

	for _, f := range s.AllFiles {
		if !InScope(s, f) {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(f.Name), term) &&
			!strings.Contains(strings.ToLower(f.Folder), term) {
			continue
		}
		if !matchesType(f, s.FileTypeFilter) {
			continue
		}
		if s.StatusFilter != "" && s.StatusFilter != FilterAll && !matchesStatus(s, f, now) {
			continue
		}
		if !s.DateRange.Start.IsZero() && f.ModifiedDate.Before(s.DateRange.Start) {
			continue
		}
		if !s.DateRange.End.IsZero() && f.ModifiedDate.After(s.DateRange.End) {
			continue
		}
		if s.MinFileSize > 0 && f.Size < s.MinFileSize {
			continue
		}
		if s.MaxFileSize > 0 && f.Size > s.MaxFileSize {
			continue
		}
		out = append(out, f)
	}

	sortFiles(out, s)
	return out
}

func matchesType(f FileEntry, filter string) bool {
	if filter == "" || filter == FilterAll {
		return true
	}
	want := strings.ToLower(strings.TrimPrefix(filter, "."))
	return strings.ToLower(strings.TrimPrefix(f.Extension, ".")) == want
}

func matchesStatus(s State, f FileEntry, now time.Time) bool {
	status := FileStatus(s, f.Path, now)
	if s.StatusFilter == StatusTracked {
		return status != StatusUntracked
	}
	// Overdue bills are still pending.
	if s.StatusFilter == StatusPending {
		return status == StatusPending || status == StatusOverdue
	}
	return status == s.StatusFilter
}

func sortFiles(files []FileEntry, s State) {
	cmp := func(a, b FileEntry) int {
		switch s.SortBy {
		case SortBySize:
			return compareInt64(a.Size, b.Size)
		case SortByModified:
			return a.ModifiedDate.Compare(b.ModifiedDate)
		case SortByCreated:
			return a.CreatedDate.Compare(b.CreatedDate)
		case SortByBillMonth:
			return strings.Compare(s.TrackingData[a.Path].BillMonth, s.TrackingData[b.Path].BillMonth)
		default:
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	}

	slices.SortStableFunc(files, func(a, b FileEntry) int {
		c := cmp(a, b)
		if c == 0 {
			c = strings.Compare(a.Path, b.Path)
		}
		if s.SortOrder == SortDesc {
			return -c
		}
		return c
	})
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Window returns the part of files inside r, clamped to the slice bounds.
func Window(files []FileEntry, r Range) []FileEntry {
	start := max(r.Start, 0)
	end := min(r.End, len(files))
	if start >= end {
		return nil
	}
	return files[start:end]
}
