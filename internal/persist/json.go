package persist

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"billtrack/internal/errors"
)

// JSONRepository keeps the snapshot in a single JSON file.
type JSONRepository struct {
	path string
}

// NewJSONRepository returns a repository backed by path. The file is created
// on the first Save.
func NewJSONRepository(path string) *JSONRepository {
	return &JSONRepository{path: path}
}

// Path returns the backing file.
func (r *JSONRepository) Path() string {
	return r.path
}

// Load reads the snapshot file.
func (r *JSONRepository) Load(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewFileError("failed to read state file", r.path, errors.FileAccessDenied, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.NewFileError("failed to parse state file", r.path, errors.FileOperationFailed, err)
	}
	if snap.Format > SnapshotFormat {
		return nil, errors.NewInvalidInputError("state file was written by a newer version", nil).
			WithContext("format", snap.Format)
	}
	return &snap, nil
}

// Save writes the snapshot atomically: a temp file in the same directory is
// renamed over the target.
func (r *JSONRepository) Save(ctx context.Context, snap *Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snap == nil {
		return errors.NewInvalidInputError("snapshot cannot be nil", nil)
	}

	out := *snap
	out.Format = SnapshotFormat
	out.SavedAt = time.Now().UTC()

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode snapshot")
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.NewFileError("failed to create state directory", dir, errors.FileCreateFailed, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".billtrack-tmp-*")
	if err != nil {
		return errors.NewFileError("failed to create temp file", dir, errors.FileCreateFailed, err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on error
	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return errors.NewFileError("failed to write temp file", tmpPath, errors.FileOperationFailed, err)
	}
	if err := tmpFile.Sync(); err != nil {
		return errors.NewFileError("failed to sync temp file", tmpPath, errors.FileOperationFailed, err)
	}
	if err := tmpFile.Close(); err != nil {
		return errors.NewFileError("failed to close temp file", tmpPath, errors.FileOperationFailed, err)
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		return errors.NewFileError("failed to replace state file", r.path, errors.FileOperationFailed, err)
	}

	tmpFile = nil
	return nil
}

// Close is a no-op; the file is not held open.
func (r *JSONRepository) Close() error {
	return nil
}
