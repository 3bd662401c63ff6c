package tracker

import (
	"encoding/json"
	"maps"
	"time"
)

// SubfolderEntry is a directory discovered under the tracked root.
type SubfolderEntry struct {
	Path      string `json:"path"`
	Name      string `json:"name"`
	Depth     int    `json:"depth"`
	FileCount int    `json:"fileCount"`
}

// TreeNode is the hierarchical view of the same subfolders.
type TreeNode struct {
	Path     string     `json:"path"`
	Name     string     `json:"name"`
	Children []TreeNode `json:"children,omitempty"`
}

// FileEntry describes one bill file. Path is the unique id.
type FileEntry struct {
	Path         string    `json:"path"`
	Name         string    `json:"name"`
	Folder       string    `json:"folder"`
	Size         int64     `json:"size"`
	CreatedDate  time.Time `json:"createdDate"`
	ModifiedDate time.Time `json:"modifiedDate"`
	Extension    string    `json:"extension"`
	ContentType  string    `json:"contentType,omitempty"`
}

// BillRecord is the open-shaped metadata kept per file. Fields other than the
// two months are carried in Extra and flattened on the wire.
type BillRecord struct {
	BillMonth string
	SentMonth string
	Extra     map[string]any
}

const (
	billMonthKey = "billMonth"
	sentMonthKey = "sentMonth"
)

// MarshalJSON flattens Extra alongside billMonth and sentMonth.
func (r BillRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Extra)+2)
	for k, v := range r.Extra {
		out[k] = v
	}
	if r.BillMonth != "" {
		out[billMonthKey] = r.BillMonth
	}
	if r.SentMonth != "" {
		out[sentMonthKey] = r.SentMonth
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts any object; unknown keys land in Extra.
func (r *BillRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = BillRecord{}
	if v, ok := raw[billMonthKey].(string); ok {
		r.BillMonth = v
	}
	if v, ok := raw[sentMonthKey].(string); ok {
		r.SentMonth = v
	}
	delete(raw, billMonthKey)
	delete(raw, sentMonthKey)
	if len(raw) > 0 {
		r.Extra = raw
	}
	return nil
}

// Sent reports whether the bill has been sent.
func (r BillRecord) Sent() bool {
	return r.SentMonth != ""
}

// TrackingData maps file path to bill record.
type TrackingData map[string]BillRecord

// Tags maps file path to its ordered tags.
type Tags map[string][]string

// Range is the windowing range for large lists; End is exclusive.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// DateRange filters on modification date. A zero bound is open.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// IsZero reports whether neither bound is set.
func (d DateRange) IsZero() bool {
	return d.Start.IsZero() && d.End.IsZero()
}

// Settings are the user-facing tracker options.
type Settings struct {
	Theme               string `json:"theme" yaml:"theme"`
	ReminderDays        int    `json:"reminderDays" yaml:"reminder_days"`
	OverdueDays         int    `json:"overdueDays" yaml:"overdue_days"`
	SyncIntervalSeconds int    `json:"syncIntervalSeconds" yaml:"sync_interval_seconds"`
	ShowFileSize        bool   `json:"showFileSize" yaml:"show_file_size"`
	ShowDates           bool   `json:"showDates" yaml:"show_dates"`
	ShowTags            bool   `json:"showTags" yaml:"show_tags"`
	CompactView         bool   `json:"compactView" yaml:"compact_view"`
	PageSize            int    `json:"pageSize" yaml:"page_size"`
}

// DefaultSettings returns the settings a fresh tracker starts with.
func DefaultSettings() Settings {
	return Settings{
		Theme:               "default",
		ReminderDays:        5,
		OverdueDays:         30,
		SyncIntervalSeconds: 300,
		ShowFileSize:        true,
		ShowDates:           true,
		ShowTags:            true,
		PageSize:            50,
	}
}

// Statistics is computed outside the store and pushed in.
type Statistics struct {
	TotalFiles     int            `json:"totalFiles"`
	TrackedFiles   int            `json:"trackedFiles"`
	SentFiles      int            `json:"sentFiles"`
	PendingFiles   int            `json:"pendingFiles"`
	UntrackedFiles int            `json:"untrackedFiles"`
	OverdueFiles   int            `json:"overdueFiles"`
	TotalSize      int64          `json:"totalSize"`
	ByBillMonth    map[string]int `json:"byBillMonth,omitempty"`
	ByExtension    map[string]int `json:"byExtension,omitempty"`
	LastUpdated    time.Time      `json:"lastUpdated"`
}

// View modes, filters and sort keys understood by the selectors.
const (
	ViewList = "list"
	ViewGrid = "grid"

	FilterAll       = "all"
	StatusTracked   = "tracked"
	StatusUntracked = "untracked"
	StatusSent      = "sent"
	StatusPending   = "pending"
	StatusOverdue   = "overdue"

	SortByName      = "name"
	SortBySize      = "size"
	SortByModified  = "modified"
	SortByCreated   = "created"
	SortByBillMonth = "billMonth"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// MaxUndo bounds the undo stack.
const MaxUndo = 10

// State is the whole tracker aggregate. A State is never modified after it
// has been returned by the reducer; every action produces a new value and
// fields the action does not touch keep their previous instances.
type State struct {
	Version uint64 `json:"version"`

	// Folder configuration
	SelectedFolder     string           `json:"selectedFolder"`
	Subfolders         []SubfolderEntry `json:"subfolders"`
	SubfolderTree      []TreeNode       `json:"subfolderTree"`
	SelectedSubfolders PathSet          `json:"selectedSubfolders"`
	IgnoredSubfolders  PathSet          `json:"ignoredSubfolders"`
	IgnoredFiles       PathSet          `json:"ignoredFiles"`
	GSTSubmittedFolder string           `json:"gstSubmittedFolder"`

	// Tracking data
	TrackingData     TrackingData `json:"trackingData"`
	AllFiles         []FileEntry  `json:"allFiles"`
	CurrentMonth     string       `json:"currentMonth"`
	EditingSentMonth string       `json:"editingSentMonth"`
	EditingBillMonth string       `json:"editingBillMonth"`

	// View
	ViewMode          string  `json:"viewMode"`
	FileTypeFilter    string  `json:"fileTypeFilter"`
	StatusFilter      string  `json:"statusFilter"`
	SearchTerm        string  `json:"searchTerm"`
	SortBy            string  `json:"sortBy"`
	SortOrder         string  `json:"sortOrder"`
	SelectedFiles     PathSet `json:"selectedFiles"`
	ShowBulkActions   bool    `json:"showBulkActions"`
	ShowSettings      bool    `json:"showSettings"`
	ShowStats         bool    `json:"showStats"`
	ShowReports       bool    `json:"showReports"`
	ShowChangeFolders bool    `json:"showChangeFolders"`
	VisibleRange      Range   `json:"visibleRange"`

	// Range filters
	DateRange   DateRange `json:"dateRange"`
	MinFileSize int64     `json:"minFileSize"`
	MaxFileSize int64     `json:"maxFileSize"`

	// History
	UndoStack []HistoryEntry `json:"undoStack"`
	RedoStack []HistoryEntry `json:"redoStack"`

	Tags       Tags       `json:"tags"`
	Settings   Settings   `json:"settings"`
	Statistics Statistics `json:"statistics"`
}

// InitialState returns the state a tracker session starts from.
func InitialState() State {
	return State{
		SelectedSubfolders: NewPathSet(),
		IgnoredSubfolders:  NewPathSet(),
		IgnoredFiles:       NewPathSet(),
		TrackingData:       TrackingData{},
		ViewMode:           ViewList,
		FileTypeFilter:     FilterAll,
		StatusFilter:       FilterAll,
		SortBy:             SortByName,
		SortOrder:          SortAsc,
		SelectedFiles:      NewPathSet(),
		VisibleRange:       Range{Start: 0, End: 50},
		Tags:               Tags{},
		Settings:           DefaultSettings(),
	}
}

// Document is the undoable part of the state: what the user configured and
// recorded, as opposed to how it is currently being viewed.
type Document struct {
	SelectedFolder     string
	SelectedSubfolders PathSet
	IgnoredSubfolders  PathSet
	IgnoredFiles       PathSet
	GSTSubmittedFolder string
	TrackingData       TrackingData
	Tags               Tags
}

// DocumentOf captures the undoable fields. Because those fields are never
// mutated in place, the capture shares instances with s.
func DocumentOf(s State) *Document {
	return &Document{
		SelectedFolder:     s.SelectedFolder,
		SelectedSubfolders: s.SelectedSubfolders,
		IgnoredSubfolders:  s.IgnoredSubfolders,
		IgnoredFiles:       s.IgnoredFiles,
		GSTSubmittedFolder: s.GSTSubmittedFolder,
		TrackingData:       s.TrackingData,
		Tags:               s.Tags,
	}
}

func (d *Document) applyTo(s State) State {
	s.SelectedFolder = d.SelectedFolder
	s.SelectedSubfolders = d.SelectedSubfolders
	s.IgnoredSubfolders = d.IgnoredSubfolders
	s.IgnoredFiles = d.IgnoredFiles
	s.GSTSubmittedFolder = d.GSTSubmittedFolder
	s.TrackingData = d.TrackingData
	s.Tags = d.Tags
	return s
}

func cloneTracking(src TrackingData) TrackingData {
	if src == nil {
		return TrackingData{}
	}
	return maps.Clone(src)
}

func cloneTags(src Tags) Tags {
	if src == nil {
		return Tags{}
	}
	return maps.Clone(src)
}
