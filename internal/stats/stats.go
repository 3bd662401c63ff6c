// Package stats derives tracker metrics from the files and bill records in a
// state. The store never computes them itself; callers push the result back
// with UPDATE_STATISTICS.
package stats

import (
	"path/filepath"
	"strings"
	"time"

	"billtrack/internal/tracker"
)

// Compute counts the in-scope files of s by status, bill month and extension.
func Compute(s tracker.State, now time.Time) tracker.Statistics {
	out := tracker.Statistics{
		ByBillMonth: make(map[string]int),
		ByExtension: make(map[string]int),
		LastUpdated: now,
	}

	for _, f := range s.AllFiles {
		if !tracker.InScope(s, f) {
			continue
		}
		out.TotalFiles++
		out.TotalSize += f.Size
		out.ByExtension[extensionKey(f)]++

		rec, ok := s.TrackingData[f.Path]
		switch tracker.StatusOf(rec, ok, s.Settings.OverdueDays, now) {
		case tracker.StatusUntracked:
			out.UntrackedFiles++
			continue
		case tracker.StatusSent:
			out.SentFiles++
		case tracker.StatusOverdue:
			out.OverdueFiles++
			out.PendingFiles++
		default:
			out.PendingFiles++
		}
		out.TrackedFiles++
		if rec.BillMonth != "" {
			out.ByBillMonth[rec.BillMonth]++
		}
	}

	return out
}

func extensionKey(f tracker.FileEntry) string {
	ext := f.Extension
	if ext == "" {
		ext = filepath.Ext(f.Path)
	}
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" {
		return "none"
	}
	return ext
}

// Patch turns computed statistics into the action that stores them.
func Patch(st tracker.Statistics) tracker.UpdateStatistics {
	return tracker.UpdateStatistics{Patch: tracker.StatisticsPatch{
		TotalFiles:     &st.TotalFiles,
		TrackedFiles:   &st.TrackedFiles,
		SentFiles:      &st.SentFiles,
		PendingFiles:   &st.PendingFiles,
		UntrackedFiles: &st.UntrackedFiles,
		OverdueFiles:   &st.OverdueFiles,
		TotalSize:      &st.TotalSize,
		ByBillMonth:    st.ByBillMonth,
		ByExtension:    st.ByExtension,
		LastUpdated:    &st.LastUpdated,
	}}
}

// Refresh computes statistics for the current state of store and dispatches
// them.
func Refresh(store *tracker.Store, now time.Time) tracker.Statistics {
	st := Compute(store.State(), now)
	store.Dispatch(Patch(st))
	return st
}
