package persist

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"billtrack/internal/errors"
	"billtrack/internal/log"
	"billtrack/internal/tracker"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed db/schema.sql
var dbFS embed.FS

const (
	setSelectedSubfolders = "selected_subfolders"
	setIgnoredSubfolders  = "ignored_subfolders"
	setIgnoredFiles       = "ignored_files"

	metaSelectedFolder     = "selected_folder"
	metaGSTSubmittedFolder = "gst_submitted_folder"
	metaSettings           = "settings"
)

// SQLiteRepository keeps the snapshot in normalised SQLite tables along with
// a record of the latest save.
type SQLiteRepository struct {
	db     *sql.DB
	logger log.Logging
}

// NewSQLiteRepository opens (creating if needed) the database at dbPath. An
// empty path uses an in-memory database.
func NewSQLiteRepository(dbPath string, logger log.Logging) (*SQLiteRepository, error) {
	db, err := InitDatabase(dbPath)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.LogWithFields(log.F("component", "persist"))
	}
	return &SQLiteRepository{db: db, logger: logger}, nil
}

// InitDatabase opens the database and applies the embedded schema.
func InitDatabase(dbPath string) (*sql.DB, error) {
	connectionString := dbPath
	if connectionString == "" {
		connectionString = ":memory:"
	} else if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, errors.NewFileError("failed to create database directory", filepath.Dir(dbPath), errors.FileCreateFailed, err)
	}

	db, err := sql.Open("sqlite3", connectionString)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to open SQLite database", err).
			WithContext("connectionString", connectionString)
	}
	// An in-memory database lives only as long as its connection.
	db.SetMaxOpenConns(1)

	schemaSQL, err := dbFS.ReadFile("db/schema.sql")
	if err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("failed to read schema SQL", err)
	}
	if _, err := db.Exec(string(schemaSQL)); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("failed to initialize database schema", err).
			WithContext("connectionString", connectionString)
	}

	return db, nil
}

// Load assembles the snapshot from the tables.
func (r *SQLiteRepository) Load(ctx context.Context) (*Snapshot, error) {
	var (
		savedAt string
		format  int
	)
	err := r.db.QueryRowContext(ctx, "SELECT saved_at, format FROM saves ORDER BY rowid DESC LIMIT 1").Scan(&savedAt, &format)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewDatabaseError("failed to read last save", err).WithOperation("load")
	}

	snap := &Snapshot{
		Format:       format,
		TrackingData: tracker.TrackingData{},
		Tags:         tracker.Tags{},
		Settings:     tracker.DefaultSettings(),
	}
	if t, err := time.Parse(time.RFC3339Nano, savedAt); err == nil {
		snap.SavedAt = t
	}

	if err := r.loadMeta(ctx, snap); err != nil {
		return nil, err
	}
	if err := r.loadSets(ctx, snap); err != nil {
		return nil, err
	}
	if err := r.loadRecords(ctx, snap); err != nil {
		return nil, err
	}
	if err := r.loadTags(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (r *SQLiteRepository) loadMeta(ctx context.Context, snap *Snapshot) error {
	rows, err := r.db.QueryContext(ctx, "SELECT key, value FROM meta")
	if err != nil {
		return errors.NewDatabaseError("failed to query meta", err).WithOperation("load")
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return errors.NewDatabaseError("failed to scan meta", err).WithOperation("load")
		}
		switch key {
		case metaSelectedFolder:
			snap.SelectedFolder = value
		case metaGSTSubmittedFolder:
			snap.GSTSubmittedFolder = value
		case metaSettings:
			if err := json.Unmarshal([]byte(value), &snap.Settings); err != nil {
				return errors.NewDatabaseError("failed to decode settings", err).WithOperation("load")
			}
		default:
			r.logger.With(log.F("key", key)).Debug("Ignoring unknown meta key")
		}
	}
	return rows.Err()
}

func (r *SQLiteRepository) loadSets(ctx context.Context, snap *Snapshot) error {
	rows, err := r.db.QueryContext(ctx, "SELECT set_name, path FROM path_sets")
	if err != nil {
		return errors.NewDatabaseError("failed to query path sets", err).WithOperation("load")
	}
	defer rows.Close()

	sets := map[string][]string{}
	for rows.Next() {
		var name, path string
		if err := rows.Scan(&name, &path); err != nil {
			return errors.NewDatabaseError("failed to scan path set", err).WithOperation("load")
		}
		sets[name] = append(sets[name], path)
	}
	if err := rows.Err(); err != nil {
		return errors.NewDatabaseError("failed to read path sets", err).WithOperation("load")
	}

	snap.SelectedSubfolders = tracker.NewPathSet(sets[setSelectedSubfolders]...)
	snap.IgnoredSubfolders = tracker.NewPathSet(sets[setIgnoredSubfolders]...)
	snap.IgnoredFiles = tracker.NewPathSet(sets[setIgnoredFiles]...)
	return nil
}

func (r *SQLiteRepository) loadRecords(ctx context.Context, snap *Snapshot) error {
	rows, err := r.db.QueryContext(ctx, "SELECT path, bill_month, sent_month, extra_json FROM bill_records")
	if err != nil {
		return errors.NewDatabaseError("failed to query bill records", err).WithOperation("load")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			path  string
			rec   tracker.BillRecord
			extra sql.NullString
		)
		if err := rows.Scan(&path, &rec.BillMonth, &rec.SentMonth, &extra); err != nil {
			return errors.NewDatabaseError("failed to scan bill record", err).WithOperation("load")
		}
		if extra.Valid && extra.String != "" {
			if err := json.Unmarshal([]byte(extra.String), &rec.Extra); err != nil {
				return errors.NewDatabaseError("failed to decode bill record extras", err).
					WithOperation("load").
					WithContext("path", path)
			}
		}
		snap.TrackingData[path] = rec
	}
	return rows.Err()
}

func (r *SQLiteRepository) loadTags(ctx context.Context, snap *Snapshot) error {
	paths, err := r.db.QueryContext(ctx, "SELECT path FROM tagged_paths")
	if err != nil {
		return errors.NewDatabaseError("failed to query tagged paths", err).WithOperation("load")
	}
	defer paths.Close()

	for paths.Next() {
		var path string
		if err := paths.Scan(&path); err != nil {
			return errors.NewDatabaseError("failed to scan tagged path", err).WithOperation("load")
		}
		snap.Tags[path] = []string{}
	}
	if err := paths.Err(); err != nil {
		return errors.NewDatabaseError("failed to read tagged paths", err).WithOperation("load")
	}

	rows, err := r.db.QueryContext(ctx, "SELECT path, tag FROM tags ORDER BY path, position")
	if err != nil {
		return errors.NewDatabaseError("failed to query tags", err).WithOperation("load")
	}
	defer rows.Close()

	for rows.Next() {
		var path, tag string
		if err := rows.Scan(&path, &tag); err != nil {
			return errors.NewDatabaseError("failed to scan tag", err).WithOperation("load")
		}
		snap.Tags[path] = append(snap.Tags[path], tag)
	}
	return rows.Err()
}

// Save replaces the stored snapshot in one transaction.
func (r *SQLiteRepository) Save(ctx context.Context, snap *Snapshot) error {
	if snap == nil {
		return errors.NewInvalidInputError("snapshot cannot be nil", nil)
	}

	settingsJSON, err := json.Marshal(snap.Settings)
	if err != nil {
		return errors.NewDatabaseError("failed to marshal settings", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewDatabaseError("failed to begin transaction", err).WithOperation("save")
	}
	defer tx.Rollback()

	for _, table := range []string{"meta", "path_sets", "bill_records", "tags", "tagged_paths"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return errors.NewDatabaseError("failed to clear table", err).
				WithOperation("save").
				WithContext("table", table)
		}
	}

	meta := map[string]string{
		metaSelectedFolder:     snap.SelectedFolder,
		metaGSTSubmittedFolder: snap.GSTSubmittedFolder,
		metaSettings:           string(settingsJSON),
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, "INSERT INTO meta (key, value) VALUES (?, ?)", k, v); err != nil {
			return errors.NewDatabaseError("failed to save meta", err).WithOperation("save").WithContext("key", k)
		}
	}

	sets := map[string]tracker.PathSet{
		setSelectedSubfolders: snap.SelectedSubfolders,
		setIgnoredSubfolders:  snap.IgnoredSubfolders,
		setIgnoredFiles:       snap.IgnoredFiles,
	}
	for name, set := range sets {
		for _, p := range set.Slice() {
			if _, err := tx.ExecContext(ctx, "INSERT INTO path_sets (set_name, path) VALUES (?, ?)", name, p); err != nil {
				return errors.NewDatabaseError("failed to save path set", err).WithOperation("save").WithContext("set", name)
			}
		}
	}

	for path, rec := range snap.TrackingData {
		var extra sql.NullString
		if len(rec.Extra) > 0 {
			data, err := json.Marshal(rec.Extra)
			if err != nil {
				return errors.NewDatabaseError("failed to marshal bill record extras", err).WithContext("path", path)
			}
			extra = sql.NullString{String: string(data), Valid: true}
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO bill_records (path, bill_month, sent_month, extra_json) VALUES (?, ?, ?, ?)",
			path, rec.BillMonth, rec.SentMonth, extra,
		); err != nil {
			return errors.NewDatabaseError("failed to save bill record", err).WithOperation("save").WithContext("path", path)
		}
	}

	for path, tags := range snap.Tags {
		if _, err := tx.ExecContext(ctx, "INSERT INTO tagged_paths (path) VALUES (?)", path); err != nil {
			return errors.NewDatabaseError("failed to save tagged path", err).WithOperation("save").WithContext("path", path)
		}
		for i, tag := range tags {
			if _, err := tx.ExecContext(ctx, "INSERT INTO tags (path, position, tag) VALUES (?, ?, ?)", path, i, tag); err != nil {
				return errors.NewDatabaseError("failed to save tag", err).WithOperation("save").WithContext("path", path)
			}
		}
	}

	id := uuid.New().String()
	savedAt := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := tx.ExecContext(ctx, "INSERT INTO saves (id, saved_at, format) VALUES (?, ?, ?)", id, savedAt, SnapshotFormat); err != nil {
		return errors.NewDatabaseError("failed to record save", err).WithOperation("save")
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM saves WHERE id != ?", id); err != nil {
		return errors.NewDatabaseError("failed to prune saves", err).WithOperation("save")
	}

	if err := tx.Commit(); err != nil {
		return errors.NewDatabaseError("failed to commit snapshot", err).WithOperation("save")
	}

	r.logger.With(log.F("save_id", id), log.F("records", len(snap.TrackingData))).Debug("Snapshot saved")
	return nil
}

// Saves returns how many save records the database holds. Each save replaces
// the previous record.
func (r *SQLiteRepository) Saves(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM saves").Scan(&n); err != nil {
		return 0, errors.NewDatabaseError("failed to count saves", err)
	}
	return n, nil
}

// Close closes the database.
func (r *SQLiteRepository) Close() error {
	if err := r.db.Close(); err != nil {
		return errors.NewDatabaseError("failed to close database", err)
	}
	return nil
}
