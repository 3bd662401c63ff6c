package common

import (
	"time"

	"billtrack/internal/tracker"
)

type Mode int

const (
	Normal Mode = iota
	Search
	BillMonth
	Folders
)

func (m Mode) String() string {
	switch m {
	case Search:
		return "SEARCH"
	case BillMonth:
		return "BILL MONTH"
	case Folders:
		return "FOLDERS"
	default:
		return "NORMAL"
	}
}

// ModelReader defines the interface that views use to read model state
type ModelReader interface {
	State() tracker.State
	// Files is the filtered and sorted list; the view windows it with
	// State().VisibleRange.
	Files() []tracker.FileEntry
	Cursor() int
	FolderCursor() int
	Mode() Mode
	ShowHelp() bool
	InputView() string
	HelpView() string
	StatusView() string
	Now() time.Time
	Width() int
}
