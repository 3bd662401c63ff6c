package organize

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"billtrack/internal/errors"
	"billtrack/internal/log"
	"billtrack/internal/tracker"
)

// Collision strategies for a destination that already exists.
const (
	CollisionRename    = "rename"
	CollisionSkip      = "skip"
	CollisionOverwrite = "overwrite"
)

// Keys added to the bill record of a filed bill.
const (
	FiledFromKey = "filedFrom"
	FiledAtKey   = "filedAt"
)

// Options configures an Engine.
type Options struct {
	Destination string // Folder filed bills are moved into
	Collision   string // One of the Collision constants; empty means rename
	Backup      bool   // Copy an overwritten destination aside first
	DryRun      bool
}

// Move is one bill on its way into the destination folder.
type Move struct {
	From    string
	To      string
	Skipped bool
}

// Engine files sent bills into the submitted folder, one subfolder per bill
// month, and moves their tracking data along with them.
type Engine struct {
	opts   Options
	mu     sync.Mutex
	logger log.Logging
	now    func() time.Time
}

// New creates an engine.
func New(opts Options) (*Engine, error) {
	if strings.TrimSpace(opts.Destination) == "" {
		return nil, errors.NewInvalidInputError("no submitted folder configured", nil)
	}
	switch opts.Collision {
	case "":
		opts.Collision = CollisionRename
	case CollisionRename, CollisionSkip, CollisionOverwrite:
	default:
		return nil, errors.NewInvalidInputError("unknown collision strategy", nil).WithContext("collision", opts.Collision)
	}
	return &Engine{
		opts:   opts,
		logger: log.LogWithFields(log.F("component", "organize"), log.F("destination", opts.Destination)),
		now:    time.Now,
	}, nil
}

// IsDryRun reports whether moves are only planned.
func (e *Engine) IsDryRun() bool {
	return e.opts.DryRun
}

// Plan lists the sent, in-scope bills of s that are not yet in the
// destination. A non-empty month keeps only bills of that bill month. Bills
// without a bill month are filed under their sent month.
func (e *Engine) Plan(s tracker.State, month string) []Move {
	dest := filepath.Clean(e.opts.Destination)
	var moves []Move
	for _, f := range s.AllFiles {
		rec, ok := s.TrackingData[f.Path]
		if !ok || !rec.Sent() || !tracker.InScope(s, f) {
			continue
		}
		if month != "" && rec.BillMonth != month {
			continue
		}
		if within(f.Path, dest) {
			continue
		}
		folder := rec.BillMonth
		if folder == "" {
			folder = rec.SentMonth
		}
		moves = append(moves, Move{From: f.Path, To: filepath.Join(dest, folder, f.Name)})
	}
	sort.Slice(moves, func(i, j int) bool { return moves[i].From < moves[j].From })
	return moves
}

// File moves the planned bills of store's state and re-keys their tracking
// data and tags to the new paths. It returns the moves made, stopping at the
// first failure. A dry run only returns the plan.
func (e *Engine) File(ctx context.Context, store *tracker.Store, month string) ([]Move, error) {
	plan := e.Plan(store.State(), month)
	if e.opts.DryRun {
		for _, m := range plan {
			e.logger.With(log.F("from", m.From), log.F("to", m.To)).Info("Would file bill")
		}
		return plan, nil
	}

	done := make([]Move, 0, len(plan))
	var err error
	for _, m := range plan {
		if err = ctx.Err(); err != nil {
			break
		}
		var final string
		final, err = e.MoveFile(m.From, m.To)
		if err != nil {
			break
		}
		if final == "" {
			m.Skipped = true
		} else {
			m.To = final
		}
		done = append(done, m)
	}

	if actions := e.relocate(store.State(), done); len(actions) > 0 {
		store.DispatchAll(actions...)
	}
	return done, err
}

// relocate returns the actions that move tracking data and tags from the old
// paths to the new ones and drop the moved files from the selection.
func (e *Engine) relocate(s tracker.State, moves []Move) []tracker.Action {
	if len(moves) == 0 {
		return nil
	}
	data := make(tracker.TrackingData, len(s.TrackingData))
	for k, v := range s.TrackingData {
		data[k] = v
	}
	tags := make(tracker.Tags, len(s.Tags))
	for k, v := range s.Tags {
		tags[k] = v
	}
	selected := s.SelectedFiles
	filedAt := e.now().Format(time.RFC3339)

	moved := 0
	for _, m := range moves {
		if m.Skipped {
			continue
		}
		moved++
		rec := data[m.From]
		extra := make(map[string]any, len(rec.Extra)+2)
		for k, v := range rec.Extra {
			extra[k] = v
		}
		extra[FiledFromKey] = m.From
		extra[FiledAtKey] = filedAt
		rec.Extra = extra
		delete(data, m.From)
		data[m.To] = rec

		if t, ok := tags[m.From]; ok {
			delete(tags, m.From)
			tags[m.To] = t
		}
		selected = selected.Without(m.From)
	}
	if moved == 0 {
		return nil
	}
	actions := []tracker.Action{
		tracker.SetTrackingData{Data: data},
		tracker.SetTags{Tags: tags},
	}
	switch {
	case selected.Len() == s.SelectedFiles.Len():
	case selected.Len() == 0:
		actions = append(actions, tracker.ClearSelection{})
	default:
		actions = append(actions, tracker.SelectAllFiles{Paths: selected.Slice()})
	}
	return actions
}

// MoveFile moves src to dest, resolving a collision with the configured
// strategy. It returns the final destination, or "" when the move was
// skipped.
func (e *Engine) MoveFile(src, dest string) (string, error) {
	cleanSrc := filepath.Clean(src)
	cleanDest := filepath.Clean(dest)
	if cleanSrc == cleanDest {
		return "", nil
	}

	srcInfo, err := os.Stat(cleanSrc)
	if err != nil {
		return "", errors.NewFileError("bill to file is missing", cleanSrc, errors.FileNotFound, err)
	}
	if srcInfo.IsDir() {
		return "", errors.NewFileError("cannot file a directory", cleanSrc, errors.InvalidPath, nil)
	}

	destDir := filepath.Dir(cleanDest)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", errors.NewFileError("failed to create destination directory", destDir, errors.FileCreateFailed, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	finalDest, err := e.handleCollision(cleanSrc, cleanDest)
	if err != nil || finalDest == "" {
		return "", err
	}

	if e.opts.Backup {
		if err := e.createBackup(finalDest); err != nil {
			return "", errors.Wrap(err, "backup failed")
		}
	}

	if err := os.Rename(cleanSrc, finalDest); err != nil {
		return "", errors.NewFileError("failed to move bill", cleanSrc, errors.FileOperationFailed, err)
	}
	e.logger.With(log.F("from", cleanSrc), log.F("to", finalDest)).Info("Filed bill")
	return finalDest, nil
}

// handleCollision returns where src should go. An empty path means skip.
func (e *Engine) handleCollision(src, dest string) (string, error) {
	_, err := os.Stat(dest)
	if os.IsNotExist(err) {
		return dest, nil
	}
	if err != nil {
		return "", errors.NewFileError("failed to check destination", dest, errors.FileAccessDenied, err)
	}

	logger := e.logger.With(log.F("path", dest), log.F("strategy", e.opts.Collision))
	switch e.opts.Collision {
	case CollisionSkip:
		logger.Warn("Destination exists, skipping")
		return "", nil
	case CollisionOverwrite:
		logger.Warn("Destination exists, overwriting")
		return dest, nil
	default:
		return e.findUniqueDestName(dest)
	}
}

// findUniqueDestName adds a counter to the base name until it is free.
func (e *Engine) findUniqueDestName(originalPath string) (string, error) {
	ext := filepath.Ext(originalPath)
	base := strings.TrimSuffix(originalPath, ext)

	for counter := 1; counter <= 1000; counter++ {
		newName := fmt.Sprintf("%s_(%d)%s", base, counter, ext)
		if _, err := os.Stat(newName); os.IsNotExist(err) {
			return newName, nil
		}
	}
	return "", errors.NewFileError("no free name after 1000 attempts", originalPath, errors.FileOperationFailed, nil)
}

// createBackup copies an existing dest to dest.bak.<unix time>.
func (e *Engine) createBackup(dest string) error {
	_, err := os.Stat(dest)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	backupPath := fmt.Sprintf("%s.bak.%d", dest, e.now().Unix())
	srcFile, err := os.Open(dest)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	destFile, err := os.Create(backupPath)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, srcFile); err != nil {
		return err
	}
	e.logger.With(log.F("backup", backupPath)).Info("Created backup")
	return nil
}

func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
