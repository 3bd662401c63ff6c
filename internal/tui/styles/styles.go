package styles

import (
	"billtrack/internal/config"
	"billtrack/internal/tracker"
)

// Default is the style set of the default theme.
var Default = FromTheme(config.New().Theme)

// StatusLabel is the fixed-width badge text of a bill status.
func StatusLabel(status string) string {
	switch status {
	case tracker.StatusUntracked:
		return "----"
	case tracker.StatusPending:
		return "DUE "
	case tracker.StatusOverdue:
		return "LATE"
	case tracker.StatusSent:
		return "SENT"
	default:
		return "    "
	}
}
