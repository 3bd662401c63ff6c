package messages

import "billtrack/internal/tracker"

// StateChangedMsg carries the store state after a dispatch made outside the
// UI, such as a watch rescan.
type StateChangedMsg struct {
	State tracker.State
}

type ReportWrittenMsg struct {
	Path  string
	Error error
}

type ErrorMsg struct {
	Err error
}
