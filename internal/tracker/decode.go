package tracker

import (
	"encoding/json"

	"billtrack/internal/errors"
)

// Envelope is the {type, payload} form actions take outside the process,
// for example in a replay file or from the CLI.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type undoPayload struct {
	Label  string   `json:"label"`
	Action Envelope `json:"action"`
}

// Decode parses a JSON envelope into a typed action. Unrecognised tags decode
// to UnknownAction rather than failing; only malformed payloads are errors.
func Decode(data []byte) (Action, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.NewInvalidInputError("malformed action envelope", err)
	}
	return env.Action()
}

// Action converts the envelope into a typed action.
func (e Envelope) Action() (Action, error) {
	kind := ActionType(e.Type)
	var (
		action Action
		err    error
	)

	switch kind {
	case TypeSetSelectedFolder:
		var p string
		err = e.decode(&p)
		action = SetSelectedFolder{Path: p}
	case TypeSetSubfolders:
		var p SetSubfolders
		err = e.decode(&p)
		action = p
	case TypeSetSelectedSubfolders:
		var p PathSet
		err = e.decode(&p)
		action = SetSelectedSubfolders{Paths: p}
	case TypeToggleSubfolder:
		var p string
		err = e.decode(&p)
		action = ToggleSubfolder{Path: p}
	case TypeSelectAllSubfolders:
		action = SelectAllSubfolders{}
	case TypeDeselectAllSubfolders:
		action = DeselectAllSubfolders{}
	case TypeSetGSTSubmittedFolder:
		var p string
		err = e.decode(&p)
		action = SetGSTSubmittedFolder{Path: p}
	case TypeSetIgnoredSubfolders:
		var p PathSet
		err = e.decode(&p)
		action = SetIgnoredSubfolders{Paths: p}
	case TypeToggleIgnoredSubfolder:
		var p string
		err = e.decode(&p)
		action = ToggleIgnoredSubfolder{Path: p}
	case TypeSetIgnoredFiles:
		var p PathSet
		err = e.decode(&p)
		action = SetIgnoredFiles{Paths: p}
	case TypeToggleIgnoredFile:
		var p string
		err = e.decode(&p)
		action = ToggleIgnoredFile{Path: p}
	case TypeSetTrackingData:
		var p TrackingData
		err = e.decode(&p)
		action = SetTrackingData{Data: p}
	case TypeUpdateTrackingData:
		var p UpdateTrackingData
		err = e.decode(&p)
		action = p
	case TypeSetAllFiles:
		var p []FileEntry
		err = e.decode(&p)
		action = SetAllFiles{Files: p}
	case TypeSetCurrentMonth:
		var p string
		err = e.decode(&p)
		action = SetCurrentMonth{Month: p}
	case TypeSetEditingSentMonth:
		var p string
		err = e.decode(&p)
		action = SetEditingSentMonth{Month: p}
	case TypeSetEditingBillMonth:
		var p string
		err = e.decode(&p)
		action = SetEditingBillMonth{Month: p}
	case TypeSetViewMode:
		var p string
		err = e.decode(&p)
		action = SetViewMode{Mode: p}
	case TypeSetFileTypeFilter:
		var p string
		err = e.decode(&p)
		action = SetFileTypeFilter{Filter: p}
	case TypeSetStatusFilter:
		var p string
		err = e.decode(&p)
		action = SetStatusFilter{Filter: p}
	case TypeSetSearchTerm:
		var p string
		err = e.decode(&p)
		action = SetSearchTerm{Term: p}
	case TypeSetSortBy:
		var p string
		err = e.decode(&p)
		action = SetSortBy{Key: p}
	case TypeSetSortOrder:
		var p string
		err = e.decode(&p)
		action = SetSortOrder{Order: p}
	case TypeToggleFileSelection:
		var p string
		err = e.decode(&p)
		action = ToggleFileSelection{Path: p}
	case TypeSelectAllFiles:
		var p []string
		err = e.decode(&p)
		action = SelectAllFiles{Paths: p}
	case TypeClearSelection:
		action = ClearSelection{}
	case TypeSetShowBulkActions:
		var p bool
		err = e.decode(&p)
		action = SetShowBulkActions{Show: p}
	case TypeSetShowSettings:
		var p bool
		err = e.decode(&p)
		action = SetShowSettings{Show: p}
	case TypeSetShowStats:
		var p bool
		err = e.decode(&p)
		action = SetShowStats{Show: p}
	case TypeSetShowReports:
		var p bool
		err = e.decode(&p)
		action = SetShowReports{Show: p}
	case TypeSetShowChangeFolders:
		var p bool
		err = e.decode(&p)
		action = SetShowChangeFolders{Show: p}
	case TypeSetVisibleRange:
		var p Range
		err = e.decode(&p)
		action = SetVisibleRange{Range: p}
	case TypeSetDateRange:
		var p DateRange
		err = e.decode(&p)
		action = SetDateRange{Range: p}
	case TypeSetMinFileSize:
		var p int64
		err = e.decode(&p)
		action = SetMinFileSize{Size: p}
	case TypeSetMaxFileSize:
		var p int64
		err = e.decode(&p)
		action = SetMaxFileSize{Size: p}
	case TypeAddToUndoStack:
		var p undoPayload
		if err = e.decode(&p); err == nil {
			var inner Action
			if inner, err = p.Action.Action(); err == nil {
				action = AddToUndoStack{Entry: NewHistoryEntry(p.Label, inner, nil, nil)}
			}
		}
	case TypeUndo:
		action = Undo{}
	case TypeRedo:
		action = Redo{}
	case TypeSetTags:
		var p Tags
		err = e.decode(&p)
		action = SetTags{Tags: p}
	case TypeUpdateTag:
		var p UpdateTag
		err = e.decode(&p)
		action = p
	case TypeUpdateSettings:
		var p SettingsPatch
		err = e.decode(&p)
		action = UpdateSettings{Patch: p}
	case TypeUpdateStatistics:
		var p StatisticsPatch
		err = e.decode(&p)
		action = UpdateStatistics{Patch: p}
	case TypeResetState:
		action = ResetState{}
	case TypeResetFilters:
		action = ResetFilters{}
	default:
		return UnknownAction{Kind: e.Type}, nil
	}

	if err != nil {
		return nil, errors.NewInvalidInputError("malformed action payload", err).WithContext("type", e.Type)
	}
	return action, nil
}

func (e Envelope) decode(v any) error {
	if len(e.Payload) == 0 {
		return nil
	}
	return json.Unmarshal(e.Payload, v)
}
