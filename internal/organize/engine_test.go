package organize_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billtrack/internal/organize"
	"billtrack/internal/tracker"
	"billtrack/pkg/testutils"
)

// billStore loads the bill folder fixture into a store: power sent, water
// billed but unsent, gas sent without a bill month.
func billStore(t *testing.T, root string) *tracker.Store {
	t.Helper()
	testutils.CreateBillFolder(t, root)

	file := func(rel string) tracker.FileEntry {
		p := filepath.Join(root, filepath.FromSlash(rel))
		return tracker.FileEntry{Path: p, Name: filepath.Base(p), Folder: filepath.Dir(p), Extension: filepath.Ext(p)}
	}
	power, water, gas := file("2024-01/power.pdf"), file("2024-01/water.pdf"), file("2024-02/gas.pdf")

	store := tracker.NewStore()
	store.DispatchAll(
		tracker.SetSelectedFolder{Path: root},
		tracker.SetAllFiles{Files: []tracker.FileEntry{power, water, gas}},
		tracker.SetTrackingData{Data: tracker.TrackingData{
			power.Path: {BillMonth: "2024-01", SentMonth: "2024-02", Extra: map[string]any{"amount": 120.5}},
			water.Path: {BillMonth: "2024-01"},
			gas.Path:   {SentMonth: "2024-03"},
		}},
		tracker.SetTags{Tags: tracker.Tags{power.Path: {"utility"}}},
		tracker.SelectAllFiles{Paths: []string{power.Path, water.Path}},
	)
	return store
}

func TestNewValidates(t *testing.T) {
	_, err := organize.New(organize.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no submitted folder")

	_, err = organize.New(organize.Options{Destination: "/gst", Collision: "ask"})
	require.Error(t, err)

	e, err := organize.New(organize.Options{Destination: "/gst", DryRun: true})
	require.NoError(t, err)
	assert.True(t, e.IsDryRun())
}

func TestPlan(t *testing.T) {
	root := t.TempDir()
	dest := filepath.Join(t.TempDir(), "gst")
	store := billStore(t, root)

	e, err := organize.New(organize.Options{Destination: dest})
	require.NoError(t, err)

	moves := e.Plan(store.State(), "")
	require.Len(t, moves, 2)
	assert.Equal(t, filepath.Join(root, "2024-01", "power.pdf"), moves[0].From)
	assert.Equal(t, filepath.Join(dest, "2024-01", "power.pdf"), moves[0].To)
	assert.Equal(t, filepath.Join(dest, "2024-03", "gas.pdf"), moves[1].To, "no bill month files under the sent month")

	moves = e.Plan(store.State(), "2024-01")
	require.Len(t, moves, 1)
	assert.Equal(t, "power.pdf", filepath.Base(moves[0].From))

	s := store.State()
	s.IgnoredFiles = tracker.NewPathSet(filepath.Join(root, "2024-01", "power.pdf"))
	assert.Len(t, e.Plan(s, ""), 1, "ignored bills stay put")
}

func TestPlanSkipsBillsAlreadyFiled(t *testing.T) {
	root := t.TempDir()
	store := billStore(t, root)

	e, err := organize.New(organize.Options{Destination: filepath.Join(root, "2024-01")})
	require.NoError(t, err)

	moves := e.Plan(store.State(), "")
	require.Len(t, moves, 1)
	assert.Equal(t, "gas.pdf", filepath.Base(moves[0].From))
}

func TestFile(t *testing.T) {
	root := t.TempDir()
	dest := filepath.Join(t.TempDir(), "gst")
	store := billStore(t, root)
	oldPower := filepath.Join(root, "2024-01", "power.pdf")
	newPower := filepath.Join(dest, "2024-01", "power.pdf")

	e, err := organize.New(organize.Options{Destination: dest})
	require.NoError(t, err)

	moves, err := e.File(context.Background(), store, "")
	require.NoError(t, err)
	require.Len(t, moves, 2)

	assert.NoFileExists(t, oldPower)
	assert.FileExists(t, newPower)
	assert.FileExists(t, filepath.Join(dest, "2024-03", "gas.pdf"))
	assert.FileExists(t, filepath.Join(root, "2024-01", "water.pdf"))

	s := store.State()
	assert.NotContains(t, s.TrackingData, oldPower)
	rec := s.TrackingData[newPower]
	assert.Equal(t, "2024-02", rec.SentMonth)
	assert.Equal(t, 120.5, rec.Extra["amount"])
	assert.Equal(t, oldPower, rec.Extra[organize.FiledFromKey])
	assert.NotEmpty(t, rec.Extra[organize.FiledAtKey])
	assert.Equal(t, []string{"utility"}, s.Tags[newPower])
	assert.NotContains(t, s.Tags, oldPower)

	assert.False(t, s.SelectedFiles.Has(oldPower))
	assert.True(t, s.SelectedFiles.Has(filepath.Join(root, "2024-01", "water.pdf")))
}

func TestFileDryRun(t *testing.T) {
	root := t.TempDir()
	dest := filepath.Join(t.TempDir(), "gst")
	store := billStore(t, root)
	before := store.State()

	e, err := organize.New(organize.Options{Destination: dest, DryRun: true})
	require.NoError(t, err)

	moves, err := e.File(context.Background(), store, "")
	require.NoError(t, err)
	assert.Len(t, moves, 2)
	assert.FileExists(t, filepath.Join(root, "2024-01", "power.pdf"))
	assert.NoDirExists(t, dest)
	assert.Equal(t, before.Version, store.State().Version)
}

func TestCollisionStrategies(t *testing.T) {
	tests := []struct {
		name      string
		collision string
		backup    bool
		check     func(t *testing.T, final, dest string)
	}{
		{
			name:      "rename",
			collision: organize.CollisionRename,
			check: func(t *testing.T, final, dest string) {
				assert.Equal(t, "power_(1).pdf", filepath.Base(final))
				data, err := os.ReadFile(dest)
				require.NoError(t, err)
				assert.Equal(t, "old", string(data))
			},
		},
		{
			name:      "skip",
			collision: organize.CollisionSkip,
			check: func(t *testing.T, final, dest string) {
				assert.Empty(t, final)
			},
		},
		{
			name:      "overwrite with backup",
			collision: organize.CollisionOverwrite,
			backup:    true,
			check: func(t *testing.T, final, dest string) {
				assert.Equal(t, dest, final)
				data, err := os.ReadFile(dest)
				require.NoError(t, err)
				assert.Equal(t, "new", string(data))

				entries, err := os.ReadDir(filepath.Dir(dest))
				require.NoError(t, err)
				var backups int
				for _, e := range entries {
					if strings.HasPrefix(e.Name(), "power.pdf.bak.") {
						backups++
					}
				}
				assert.Equal(t, 1, backups)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := filepath.Join(dir, "in", "power.pdf")
			dest := filepath.Join(dir, "out", "power.pdf")
			testutils.CreateTestFilesWithContent(t, dir, map[string]string{
				"in/power.pdf":  "new",
				"out/power.pdf": "old",
			})

			e, err := organize.New(organize.Options{Destination: filepath.Join(dir, "out"), Collision: tt.collision, Backup: tt.backup})
			require.NoError(t, err)

			final, err := e.MoveFile(src, dest)
			require.NoError(t, err)
			tt.check(t, final, dest)
		})
	}
}

func TestFileSkippedKeepsRecord(t *testing.T) {
	root := t.TempDir()
	dest := filepath.Join(t.TempDir(), "gst")
	store := billStore(t, root)
	testutils.CreateTestFilesWithContent(t, dest, map[string]string{"2024-01/power.pdf": "already there"})

	e, err := organize.New(organize.Options{Destination: dest, Collision: organize.CollisionSkip})
	require.NoError(t, err)

	moves, err := e.File(context.Background(), store, "2024-01")
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.True(t, moves[0].Skipped)
	assert.FileExists(t, filepath.Join(root, "2024-01", "power.pdf"))
	assert.Contains(t, store.State().TrackingData, filepath.Join(root, "2024-01", "power.pdf"))
}

func TestMoveFileErrors(t *testing.T) {
	dir := t.TempDir()
	e, err := organize.New(organize.Options{Destination: dir})
	require.NoError(t, err)

	_, err = e.MoveFile(filepath.Join(dir, "missing.pdf"), filepath.Join(dir, "out", "missing.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")

	_, err = e.MoveFile(dir, filepath.Join(dir, "out"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot file a directory")

	final, err := e.MoveFile(filepath.Join(dir, "x"), filepath.Join(dir, "x"))
	require.NoError(t, err)
	assert.Empty(t, final)
}
