// Package persist saves and restores the durable part of a tracker session.
// The reducer has no SAVE or LOAD action; restoring a snapshot means
// dispatching the SET_* actions it produces.
package persist

import (
	"context"
	"time"

	"billtrack/internal/tracker"
)

// SnapshotFormat is bumped when the persisted layout changes.
const SnapshotFormat = 1

// Snapshot is the persisted subtree of a tracker state. Sets are written as
// sorted arrays.
type Snapshot struct {
	Format             int                  `json:"format"`
	SavedAt            time.Time            `json:"savedAt"`
	SelectedFolder     string               `json:"selectedFolder"`
	GSTSubmittedFolder string               `json:"gstSubmittedFolder,omitempty"`
	SelectedSubfolders tracker.PathSet      `json:"selectedSubfolders"`
	IgnoredSubfolders  tracker.PathSet      `json:"ignoredSubfolders"`
	IgnoredFiles       tracker.PathSet      `json:"ignoredFiles"`
	TrackingData       tracker.TrackingData `json:"trackingData"`
	Tags               tracker.Tags         `json:"tags"`
	Settings           tracker.Settings     `json:"settings"`
}

// Repository stores one snapshot.
type Repository interface {
	// Load returns nil without error when nothing has been saved yet.
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
	Close() error
}

// SnapshotOf captures the persisted subtree of s.
func SnapshotOf(s tracker.State) *Snapshot {
	return &Snapshot{
		Format:             SnapshotFormat,
		SelectedFolder:     s.SelectedFolder,
		GSTSubmittedFolder: s.GSTSubmittedFolder,
		SelectedSubfolders: s.SelectedSubfolders,
		IgnoredSubfolders:  s.IgnoredSubfolders,
		IgnoredFiles:       s.IgnoredFiles,
		TrackingData:       s.TrackingData,
		Tags:               s.Tags,
		Settings:           s.Settings,
	}
}

// Actions returns the actions that restore the snapshot into a store.
func (s *Snapshot) Actions() []tracker.Action {
	settings := s.Settings
	return []tracker.Action{
		tracker.SetSelectedFolder{Path: s.SelectedFolder},
		tracker.SetGSTSubmittedFolder{Path: s.GSTSubmittedFolder},
		tracker.SetSelectedSubfolders{Paths: s.SelectedSubfolders},
		tracker.SetIgnoredSubfolders{Paths: s.IgnoredSubfolders},
		tracker.SetIgnoredFiles{Paths: s.IgnoredFiles},
		tracker.SetTrackingData{Data: s.TrackingData},
		tracker.SetTags{Tags: s.Tags},
		tracker.UpdateSettings{Patch: tracker.SettingsPatch{
			Theme:               &settings.Theme,
			ReminderDays:        &settings.ReminderDays,
			OverdueDays:         &settings.OverdueDays,
			SyncIntervalSeconds: &settings.SyncIntervalSeconds,
			ShowFileSize:        &settings.ShowFileSize,
			ShowDates:           &settings.ShowDates,
			ShowTags:            &settings.ShowTags,
			CompactView:         &settings.CompactView,
			PageSize:            &settings.PageSize,
		}},
	}
}

// Restore loads the repository's snapshot into store. It reports false when
// there was nothing to restore.
func Restore(ctx context.Context, repo Repository, store *tracker.Store) (bool, error) {
	snap, err := repo.Load(ctx)
	if err != nil {
		return false, err
	}
	if snap == nil {
		return false, nil
	}
	store.DispatchAll(snap.Actions()...)
	return true, nil
}
