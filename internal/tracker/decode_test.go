package tracker_test

import (
	"testing"

	"billtrack/internal/errors"
	"billtrack/internal/tracker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want tracker.Action
	}{
		{"folder", `{"type":"SET_SELECTED_FOLDER","payload":"/bills"}`, tracker.SetSelectedFolder{Path: "/bills"}},
		{"toggle", `{"type":"TOGGLE_SUBFOLDER","payload":"/bills/jan"}`, tracker.ToggleSubfolder{Path: "/bills/jan"}},
		{"no payload", `{"type":"SELECT_ALL_SUBFOLDERS"}`, tracker.SelectAllSubfolders{}},
		{"bool", `{"type":"SET_SHOW_STATS","payload":true}`, tracker.SetShowStats{Show: true}},
		{"size", `{"type":"SET_MIN_FILE_SIZE","payload":2048}`, tracker.SetMinFileSize{Size: 2048}},
		{"range", `{"type":"SET_VISIBLE_RANGE","payload":{"start":10,"end":20}}`, tracker.SetVisibleRange{Range: tracker.Range{Start: 10, End: 20}}},
		{"undo", `{"type":"UNDO"}`, tracker.Undo{}},
		{"unknown", `{"type":"NOT_A_REAL_ACTION","payload":{"x":1}}`, tracker.UnknownAction{Kind: "NOT_A_REAL_ACTION"}},
		{
			"upsert",
			`{"type":"UPDATE_TRACKING_DATA","payload":{"filePath":"a","data":{"billMonth":"2024-01","note":"gas"}}}`,
			tracker.UpdateTrackingData{FilePath: "a", Data: tracker.BillRecord{BillMonth: "2024-01", Extra: map[string]any{"note": "gas"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tracker.Decode([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeSets(t *testing.T) {
	got, err := tracker.Decode([]byte(`{"type":"SET_IGNORED_FILES","payload":["/b","/a","/a"]}`))
	require.NoError(t, err)

	a, ok := got.(tracker.SetIgnoredFiles)
	require.True(t, ok)
	assert.Equal(t, []string{"/a", "/b"}, a.Paths.Slice())
}

func TestDecodeUndoEntry(t *testing.T) {
	got, err := tracker.Decode([]byte(`{"type":"ADD_TO_UNDO_STACK","payload":{"label":"jan","action":{"type":"TOGGLE_SUBFOLDER","payload":"/bills/jan"}}}`))
	require.NoError(t, err)

	a, ok := got.(tracker.AddToUndoStack)
	require.True(t, ok)
	assert.Equal(t, "jan", a.Entry.Label)
	assert.Equal(t, tracker.TypeToggleSubfolder, a.Entry.Kind)
	assert.Equal(t, tracker.ToggleSubfolder{Path: "/bills/jan"}, a.Entry.Action)
	assert.Nil(t, a.Entry.Before)
}

func TestDecodeErrors(t *testing.T) {
	t.Run("bad envelope", func(t *testing.T) {
		_, err := tracker.Decode([]byte(`{"type":`))
		require.Error(t, err)
		assert.True(t, errors.IsInvalidInputError(err))
	})

	t.Run("bad payload", func(t *testing.T) {
		_, err := tracker.Decode([]byte(`{"type":"SET_SHOW_STATS","payload":"yes"}`))
		require.Error(t, err)
		assert.True(t, errors.IsInvalidInputError(err))
		assert.Contains(t, err.Error(), "malformed action payload")
	})
}

func TestDecodedActionsReduce(t *testing.T) {
	r := tracker.NewReducer(tracker.InitialState())
	s := r.Initial()
	for _, raw := range []string{
		`{"type":"SET_SELECTED_FOLDER","payload":"/bills"}`,
		`{"type":"SET_SUBFOLDERS","payload":{"subfolders":[{"path":"/bills/jan"},{"path":"/bills/feb"}],"treeStructure":[]}}`,
		`{"type":"TOGGLE_SUBFOLDER","payload":"/bills/jan"}`,
	} {
		a, err := tracker.Decode([]byte(raw))
		require.NoError(t, err)
		s = r.Reduce(s, a)
	}

	assert.Equal(t, []string{"/bills/jan"}, s.SelectedSubfolders.Slice())
	assert.Len(t, s.Subfolders, 2)
}
