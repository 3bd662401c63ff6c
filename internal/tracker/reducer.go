package tracker

// Reducer applies actions to state. It holds the state RESET_STATE returns to.
type Reducer struct {
	initial State
}

// NewReducer creates a reducer whose reset target is initial.
func NewReducer(initial State) *Reducer {
	return &Reducer{initial: initial}
}

// Initial returns the reset target.
func (r *Reducer) Initial() State {
	return r.initial
}

// Reduce returns the state after applying action to s. It never fails:
// unknown actions and guarded no-ops (UNDO/REDO on an empty stack) return s
// unchanged. s itself is not modified; only the fields the action touches are
// replaced in the result.
func (r *Reducer) Reduce(s State, action Action) State {
	next, _ := r.Step(s, action)
	return next
}

// Step is Reduce that also reports whether the action was recognised.
// Every recognised action that changes the state bumps Version.
func (r *Reducer) Step(s State, action Action) (State, bool) {
	if action == nil {
		return s, false
	}
	if noop(s, action) {
		return s, true
	}
	next, ok := r.apply(s, action)
	if !ok {
		return s, false
	}
	next.Version = s.Version + 1
	return next, true
}

func noop(s State, action Action) bool {
	switch action.(type) {
	case Undo:
		return len(s.UndoStack) == 0
	case Redo:
		return len(s.RedoStack) == 0
	}
	return false
}

func (r *Reducer) apply(s State, action Action) (State, bool) {
	switch a := action.(type) {

	// ===== FOLDER CONFIGURATION =====

	case SetSelectedFolder:
		s.SelectedFolder = a.Path
	case SetSubfolders:
		s.Subfolders = a.Subfolders
		s.SubfolderTree = a.TreeStructure
	case SetSelectedSubfolders:
		s.SelectedSubfolders = NewPathSet(a.Paths.Slice()...)
	case ToggleSubfolder:
		s.SelectedSubfolders = s.SelectedSubfolders.Toggle(a.Path)
	case SelectAllSubfolders:
		paths := make([]string, 0, len(s.Subfolders))
		for _, sub := range s.Subfolders {
			paths = append(paths, sub.Path)
		}
		s.SelectedSubfolders = NewPathSet(paths...)
	case DeselectAllSubfolders:
		s.SelectedSubfolders = NewPathSet()
	case SetGSTSubmittedFolder:
		s.GSTSubmittedFolder = a.Path

	// ===== EXCLUSION =====

	case SetIgnoredSubfolders:
		s.IgnoredSubfolders = NewPathSet(a.Paths.Slice()...)
	case ToggleIgnoredSubfolder:
		s.IgnoredSubfolders = s.IgnoredSubfolders.Toggle(a.Path)
	case SetIgnoredFiles:
		s.IgnoredFiles = NewPathSet(a.Paths.Slice()...)
	case ToggleIgnoredFile:
		s.IgnoredFiles = s.IgnoredFiles.Toggle(a.Path)

	// ===== TRACKING DATA =====

	case SetTrackingData:
		s.TrackingData = cloneTracking(a.Data)
	case UpdateTrackingData:
		data := cloneTracking(s.TrackingData)
		data[a.FilePath] = a.Data
		s.TrackingData = data
	case SetAllFiles:
		s.AllFiles = a.Files
	case SetCurrentMonth:
		s.CurrentMonth = a.Month
	case SetEditingSentMonth:
		s.EditingSentMonth = a.Month
	case SetEditingBillMonth:
		s.EditingBillMonth = a.Month

	// ===== VIEW =====

	case SetViewMode:
		s.ViewMode = a.Mode
	case SetFileTypeFilter:
		s.FileTypeFilter = a.Filter
	case SetStatusFilter:
		s.StatusFilter = a.Filter
	case SetSearchTerm:
		s.SearchTerm = a.Term
	case SetSortBy:
		s.SortBy = a.Key
	case SetSortOrder:
		s.SortOrder = a.Order
	case ToggleFileSelection:
		s.SelectedFiles = s.SelectedFiles.Toggle(a.Path)
		s.ShowBulkActions = s.SelectedFiles.Len() > 0
	case SelectAllFiles:
		paths := a.Paths
		if len(paths) == 0 {
			paths = make([]string, 0, len(s.AllFiles))
			for _, f := range s.AllFiles {
				paths = append(paths, f.Path)
			}
		}
		s.SelectedFiles = NewPathSet(paths...)
		s.ShowBulkActions = s.SelectedFiles.Len() > 0
	case ClearSelection:
		s.SelectedFiles = NewPathSet()
		s.ShowBulkActions = false
	case SetShowBulkActions:
		s.ShowBulkActions = a.Show
	case SetShowSettings:
		s.ShowSettings = a.Show
	case SetShowStats:
		s.ShowStats = a.Show
	case SetShowReports:
		s.ShowReports = a.Show
	case SetShowChangeFolders:
		s.ShowChangeFolders = a.Show
	case SetVisibleRange:
		s.VisibleRange = a.Range

	// ===== RANGE FILTERS =====

	case SetDateRange:
		s.DateRange = a.Range
	case SetMinFileSize:
		s.MinFileSize = a.Size
	case SetMaxFileSize:
		s.MaxFileSize = a.Size

	// ===== HISTORY =====

	case AddToUndoStack:
		s = r.addToUndoStack(s, a.Entry)
	case Undo:
		s = r.undo(s)
	case Redo:
		s = r.redo(s)

	// ===== TAGS, SETTINGS, METRICS =====

	case SetTags:
		s.Tags = cloneTags(a.Tags)
	case UpdateTag:
		tags := cloneTags(s.Tags)
		tags[a.FilePath] = append([]string(nil), a.Tags...)
		s.Tags = tags
	case UpdateSettings:
		s.Settings = a.Patch.mergeInto(s.Settings)
	case UpdateStatistics:
		s.Statistics = a.Patch.mergeInto(s.Statistics)

	// ===== LIFECYCLE =====

	case ResetState:
		return r.initial, true
	case ResetFilters:
		s = r.resetFilters(s)

	default:
		return s, false
	}

	return s, true
}

// resetFilters restores the filter subset from the initial state.
func (r *Reducer) resetFilters(s State) State {
	s.SearchTerm = r.initial.SearchTerm
	s.FileTypeFilter = r.initial.FileTypeFilter
	s.StatusFilter = r.initial.StatusFilter
	s.SortBy = r.initial.SortBy
	s.SortOrder = r.initial.SortOrder
	s.DateRange = r.initial.DateRange
	s.MinFileSize = r.initial.MinFileSize
	s.MaxFileSize = r.initial.MaxFileSize
	return s
}
