package tracker

import "time"

// ActionType is the wire tag of an action.
type ActionType string

// Action is anything the reducer can be asked to apply.
type Action interface {
	Type() ActionType
}

const (
	// Folder configuration
	TypeSetSelectedFolder      ActionType = "SET_SELECTED_FOLDER"
	TypeSetSubfolders          ActionType = "SET_SUBFOLDERS"
	TypeSetSelectedSubfolders  ActionType = "SET_SELECTED_SUBFOLDERS"
	TypeToggleSubfolder        ActionType = "TOGGLE_SUBFOLDER"
	TypeSelectAllSubfolders    ActionType = "SELECT_ALL_SUBFOLDERS"
	TypeDeselectAllSubfolders  ActionType = "DESELECT_ALL_SUBFOLDERS"
	TypeSetGSTSubmittedFolder  ActionType = "SET_GST_SUBMITTED_FOLDER"
	TypeSetIgnoredSubfolders   ActionType = "SET_IGNORED_SUBFOLDERS"
	TypeToggleIgnoredSubfolder ActionType = "TOGGLE_IGNORED_SUBFOLDER"
	TypeSetIgnoredFiles        ActionType = "SET_IGNORED_FILES"
	TypeToggleIgnoredFile      ActionType = "TOGGLE_IGNORED_FILE"

	// Tracking data
	TypeSetTrackingData     ActionType = "SET_TRACKING_DATA"
	TypeUpdateTrackingData  ActionType = "UPDATE_TRACKING_DATA"
	TypeSetAllFiles         ActionType = "SET_ALL_FILES"
	TypeSetCurrentMonth     ActionType = "SET_CURRENT_MONTH"
	TypeSetEditingSentMonth ActionType = "SET_EDITING_SENT_MONTH"
	TypeSetEditingBillMonth ActionType = "SET_EDITING_BILL_MONTH"

	// View
	TypeSetViewMode          ActionType = "SET_VIEW_MODE"
	TypeSetFileTypeFilter    ActionType = "SET_FILE_TYPE_FILTER"
	TypeSetStatusFilter      ActionType = "SET_STATUS_FILTER"
	TypeSetSearchTerm        ActionType = "SET_SEARCH_TERM"
	TypeSetSortBy            ActionType = "SET_SORT_BY"
	TypeSetSortOrder         ActionType = "SET_SORT_ORDER"
	TypeToggleFileSelection  ActionType = "TOGGLE_FILE_SELECTION"
	TypeSelectAllFiles       ActionType = "SELECT_ALL_FILES"
	TypeClearSelection       ActionType = "CLEAR_SELECTION"
	TypeSetShowBulkActions   ActionType = "SET_SHOW_BULK_ACTIONS"
	TypeSetShowSettings      ActionType = "SET_SHOW_SETTINGS"
	TypeSetShowStats         ActionType = "SET_SHOW_STATS"
	TypeSetShowReports       ActionType = "SET_SHOW_REPORTS"
	TypeSetShowChangeFolders ActionType = "SET_SHOW_CHANGE_FOLDERS"
	TypeSetVisibleRange      ActionType = "SET_VISIBLE_RANGE"

	// Range filters
	TypeSetDateRange   ActionType = "SET_DATE_RANGE"
	TypeSetMinFileSize ActionType = "SET_MIN_FILE_SIZE"
	TypeSetMaxFileSize ActionType = "SET_MAX_FILE_SIZE"

	// History
	TypeAddToUndoStack ActionType = "ADD_TO_UNDO_STACK"
	TypeUndo           ActionType = "UNDO"
	TypeRedo           ActionType = "REDO"

	// Tags, settings, metrics
	TypeSetTags          ActionType = "SET_TAGS"
	TypeUpdateTag        ActionType = "UPDATE_TAG"
	TypeUpdateSettings   ActionType = "UPDATE_SETTINGS"
	TypeUpdateStatistics ActionType = "UPDATE_STATISTICS"

	// Lifecycle
	TypeResetState   ActionType = "RESET_STATE"
	TypeResetFilters ActionType = "RESET_FILTERS"
)

type SetSelectedFolder struct{ Path string }

// SetSubfolders injects the externally discovered folder list and tree.
type SetSubfolders struct {
	Subfolders    []SubfolderEntry `json:"subfolders"`
	TreeStructure []TreeNode       `json:"treeStructure"`
}

type SetSelectedSubfolders struct{ Paths PathSet }
type ToggleSubfolder struct{ Path string }
type SelectAllSubfolders struct{}
type DeselectAllSubfolders struct{}
type SetGSTSubmittedFolder struct{ Path string }
type SetIgnoredSubfolders struct{ Paths PathSet }
type ToggleIgnoredSubfolder struct{ Path string }
type SetIgnoredFiles struct{ Paths PathSet }
type ToggleIgnoredFile struct{ Path string }

type SetTrackingData struct{ Data TrackingData }

// UpdateTrackingData upserts the record of a single file.
type UpdateTrackingData struct {
	FilePath string     `json:"filePath"`
	Data     BillRecord `json:"data"`
}

type SetAllFiles struct{ Files []FileEntry }
type SetCurrentMonth struct{ Month string }
type SetEditingSentMonth struct{ Month string }
type SetEditingBillMonth struct{ Month string }

type SetViewMode struct{ Mode string }
type SetFileTypeFilter struct{ Filter string }
type SetStatusFilter struct{ Filter string }
type SetSearchTerm struct{ Term string }
type SetSortBy struct{ Key string }
type SetSortOrder struct{ Order string }
type ToggleFileSelection struct{ Path string }

// SelectAllFiles selects Paths, or every known file when Paths is empty.
type SelectAllFiles struct{ Paths []string }
type ClearSelection struct{}
type SetShowBulkActions struct{ Show bool }
type SetShowSettings struct{ Show bool }
type SetShowStats struct{ Show bool }
type SetShowReports struct{ Show bool }
type SetShowChangeFolders struct{ Show bool }
type SetVisibleRange struct{ Range Range }

type SetDateRange struct{ Range DateRange }
type SetMinFileSize struct{ Size int64 }
type SetMaxFileSize struct{ Size int64 }

type AddToUndoStack struct{ Entry HistoryEntry }
type Undo struct{}
type Redo struct{}

type SetTags struct{ Tags Tags }

// UpdateTag replaces the tag list of one file.
type UpdateTag struct {
	FilePath string   `json:"filePath"`
	Tags     []string `json:"tags"`
}

// UpdateSettings merges the non-nil fields of Patch.
type UpdateSettings struct{ Patch SettingsPatch }

// UpdateStatistics merges the non-nil fields of Patch.
type UpdateStatistics struct{ Patch StatisticsPatch }

type ResetState struct{}
type ResetFilters struct{}

// UnknownAction stands in for a tag this build does not know. Reducing it is a no-op.
type UnknownAction struct{ Kind string }

func (SetSelectedFolder) Type() ActionType      { return TypeSetSelectedFolder }
func (SetSubfolders) Type() ActionType          { return TypeSetSubfolders }
func (SetSelectedSubfolders) Type() ActionType  { return TypeSetSelectedSubfolders }
func (ToggleSubfolder) Type() ActionType        { return TypeToggleSubfolder }
func (SelectAllSubfolders) Type() ActionType    { return TypeSelectAllSubfolders }
func (DeselectAllSubfolders) Type() ActionType  { return TypeDeselectAllSubfolders }
func (SetGSTSubmittedFolder) Type() ActionType  { return TypeSetGSTSubmittedFolder }
func (SetIgnoredSubfolders) Type() ActionType   { return TypeSetIgnoredSubfolders }
func (ToggleIgnoredSubfolder) Type() ActionType { return TypeToggleIgnoredSubfolder }
func (SetIgnoredFiles) Type() ActionType        { return TypeSetIgnoredFiles }
func (ToggleIgnoredFile) Type() ActionType      { return TypeToggleIgnoredFile }
func (SetTrackingData) Type() ActionType        { return TypeSetTrackingData }
func (UpdateTrackingData) Type() ActionType     { return TypeUpdateTrackingData }
func (SetAllFiles) Type() ActionType            { return TypeSetAllFiles }
func (SetCurrentMonth) Type() ActionType        { return TypeSetCurrentMonth }
func (SetEditingSentMonth) Type() ActionType    { return TypeSetEditingSentMonth }
func (SetEditingBillMonth) Type() ActionType    { return TypeSetEditingBillMonth }
func (SetViewMode) Type() ActionType            { return TypeSetViewMode }
func (SetFileTypeFilter) Type() ActionType      { return TypeSetFileTypeFilter }
func (SetStatusFilter) Type() ActionType        { return TypeSetStatusFilter }
func (SetSearchTerm) Type() ActionType          { return TypeSetSearchTerm }
func (SetSortBy) Type() ActionType              { return TypeSetSortBy }
func (SetSortOrder) Type() ActionType           { return TypeSetSortOrder }
func (ToggleFileSelection) Type() ActionType    { return TypeToggleFileSelection }
func (SelectAllFiles) Type() ActionType         { return TypeSelectAllFiles }
func (ClearSelection) Type() ActionType         { return TypeClearSelection }
func (SetShowBulkActions) Type() ActionType     { return TypeSetShowBulkActions }
func (SetShowSettings) Type() ActionType        { return TypeSetShowSettings }
func (SetShowStats) Type() ActionType           { return TypeSetShowStats }
func (SetShowReports) Type() ActionType         { return TypeSetShowReports }
func (SetShowChangeFolders) Type() ActionType   { return TypeSetShowChangeFolders }
func (SetVisibleRange) Type() ActionType        { return TypeSetVisibleRange }
func (SetDateRange) Type() ActionType           { return TypeSetDateRange }
func (SetMinFileSize) Type() ActionType         { return TypeSetMinFileSize }
func (SetMaxFileSize) Type() ActionType         { return TypeSetMaxFileSize }
func (AddToUndoStack) Type() ActionType         { return TypeAddToUndoStack }
func (Undo) Type() ActionType                   { return TypeUndo }
func (Redo) Type() ActionType                   { return TypeRedo }
func (SetTags) Type() ActionType                { return TypeSetTags }
func (UpdateTag) Type() ActionType              { return TypeUpdateTag }
func (UpdateSettings) Type() ActionType         { return TypeUpdateSettings }
func (UpdateStatistics) Type() ActionType       { return TypeUpdateStatistics }
func (ResetState) Type() ActionType             { return TypeResetState }
func (ResetFilters) Type() ActionType           { return TypeResetFilters }
func (a UnknownAction) Type() ActionType        { return ActionType(a.Kind) }

// SettingsPatch lists the settings to overwrite; nil fields are kept.
type SettingsPatch struct {
	Theme               *string `json:"theme,omitempty"`
	ReminderDays        *int    `json:"reminderDays,omitempty"`
	OverdueDays         *int    `json:"overdueDays,omitempty"`
	SyncIntervalSeconds *int    `json:"syncIntervalSeconds,omitempty"`
	ShowFileSize        *bool   `json:"showFileSize,omitempty"`
	ShowDates           *bool   `json:"showDates,omitempty"`
	ShowTags            *bool   `json:"showTags,omitempty"`
	CompactView         *bool   `json:"compactView,omitempty"`
	PageSize            *int    `json:"pageSize,omitempty"`
}

func (p SettingsPatch) mergeInto(s Settings) Settings {
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.ReminderDays != nil {
		s.ReminderDays = *p.ReminderDays
	}
	if p.OverdueDays != nil {
		s.OverdueDays = *p.OverdueDays
	}
	if p.SyncIntervalSeconds != nil {
		s.SyncIntervalSeconds = *p.SyncIntervalSeconds
	}
	if p.ShowFileSize != nil {
		s.ShowFileSize = *p.ShowFileSize
	}
	if p.ShowDates != nil {
		s.ShowDates = *p.ShowDates
	}
	if p.ShowTags != nil {
		s.ShowTags = *p.ShowTags
	}
	if p.CompactView != nil {
		s.CompactView = *p.CompactView
	}
	if p.PageSize != nil {
		s.PageSize = *p.PageSize
	}
	return s
}

// StatisticsPatch lists the metrics to overwrite; nil fields are kept.
type StatisticsPatch struct {
	TotalFiles     *int           `json:"totalFiles,omitempty"`
	TrackedFiles   *int           `json:"trackedFiles,omitempty"`
	SentFiles      *int           `json:"sentFiles,omitempty"`
	PendingFiles   *int           `json:"pendingFiles,omitempty"`
	UntrackedFiles *int           `json:"untrackedFiles,omitempty"`
	OverdueFiles   *int           `json:"overdueFiles,omitempty"`
	TotalSize      *int64         `json:"totalSize,omitempty"`
	ByBillMonth    map[string]int `json:"byBillMonth,omitempty"`
	ByExtension    map[string]int `json:"byExtension,omitempty"`
	LastUpdated    *time.Time     `json:"lastUpdated,omitempty"`
}

func (p StatisticsPatch) mergeInto(s Statistics) Statistics {
	if p.TotalFiles != nil {
		s.TotalFiles = *p.TotalFiles
	}
	if p.TrackedFiles != nil {
		s.TrackedFiles = *p.TrackedFiles
	}
	if p.SentFiles != nil {
		s.SentFiles = *p.SentFiles
	}
	if p.PendingFiles != nil {
		s.PendingFiles = *p.PendingFiles
	}
	if p.UntrackedFiles != nil {
		s.UntrackedFiles = *p.UntrackedFiles
	}
	if p.OverdueFiles != nil {
		s.OverdueFiles = *p.OverdueFiles
	}
	if p.TotalSize != nil {
		s.TotalSize = *p.TotalSize
	}
	if p.ByBillMonth != nil {
		s.ByBillMonth = p.ByBillMonth
	}
	if p.ByExtension != nil {
		s.ByExtension = p.ByExtension
	}
	if p.LastUpdated != nil {
		s.LastUpdated = *p.LastUpdated
	}
	return s
}
