package main

import (
	"context"
	"path/filepath"

	"billtrack/internal/config"
	"billtrack/internal/errors"
	log "billtrack/internal/log"
	"billtrack/internal/persist"
	"billtrack/internal/scan"
	"billtrack/internal/tracker"
	"billtrack/internal/watch"
)

// session is one command's view of the tracked folder: the store restored
// from the repository, kept in sync with it, and a daemon that rescans.
type session struct {
	cfg    *config.Config
	folder string
	repo   persist.Repository
	store  *tracker.Store
	syncer *persist.Syncer
	daemon *watch.Daemon
	detach func()
}

func (a *app) trackedFolder() (string, error) {
	folder := a.cfg.Tracker.Folder
	if folder == "" {
		return "", errors.NewInvalidInputError("no bill folder configured; pass --folder or set tracker.folder", nil)
	}
	abs, err := filepath.Abs(folder)
	if err != nil {
		return "", errors.NewFileError("failed to resolve bill folder", folder, errors.InvalidPath, err)
	}
	return abs, nil
}

func openRepository(cfg *config.Config) (persist.Repository, error) {
	path, err := cfg.StoragePath()
	if err != nil {
		return nil, err
	}
	if cfg.Storage.Backend == config.BackendSQLite {
		return persist.NewSQLiteRepository(path, log.LogWithFields(log.F("component", "sqlite"), log.F("path", path)))
	}
	return persist.NewJSONRepository(path), nil
}

// openSession restores the saved state and points it at the tracked folder.
// The files themselves are not scanned until rescan is called.
func (a *app) openSession(ctx context.Context) (*session, error) {
	folder, err := a.trackedFolder()
	if err != nil {
		return nil, err
	}
	repo, err := openRepository(a.cfg)
	if err != nil {
		return nil, err
	}

	initial := tracker.InitialState()
	initial.Settings = a.cfg.Tracker.Settings
	store := tracker.NewStore(
		tracker.WithInitialState(initial),
		tracker.WithLogger(log.LogWithFields(log.F("component", "store"))),
	)
	restored, err := persist.Restore(ctx, repo, store)
	if err != nil {
		repo.Close()
		return nil, err
	}
	log.LogWithFields(log.F("folder", folder), log.F("restored", restored)).Debug("Session opened")

	s := &session{
		cfg:    a.cfg,
		folder: folder,
		repo:   repo,
		store:  store,
		syncer: persist.NewSyncer(repo, nil),
	}
	s.detach = s.syncer.Attach(store)

	state := store.State()
	var actions []tracker.Action
	if state.SelectedFolder != folder {
		actions = append(actions, tracker.SetSelectedFolder{Path: folder})
		if state.SelectedFolder != "" {
			// Subfolder and ignore sets belong to the previous folder.
			actions = append(actions,
				tracker.DeselectAllSubfolders{},
				tracker.SetIgnoredSubfolders{Paths: tracker.NewPathSet()},
				tracker.SetIgnoredFiles{Paths: tracker.NewPathSet()},
			)
		}
	}
	if gst := a.cfg.Tracker.GSTSubmittedFolder; gst != "" && state.GSTSubmittedFolder != gst {
		actions = append(actions, tracker.SetGSTSubmittedFolder{Path: gst})
	}
	actions = append(actions, tracker.SetCurrentMonth{Month: a.now().Format(tracker.MonthLayout)})
	store.DispatchAll(actions...)

	scanner, err := scan.New(scan.OptionsFrom(a.cfg.Scan))
	if err != nil {
		s.close(ctx)
		return nil, err
	}
	s.daemon = watch.NewDaemon(folder, store, scanner, a.cfg.Watch.Debounce(), a.cfg.Scan.IncludeHidden)
	return s, nil
}

// rescan loads the current contents of the folder into the store.
func (s *session) rescan(ctx context.Context) (*scan.Result, error) {
	return s.daemon.Rescan(ctx)
}

// resolve turns a command-line path into the absolute path the store keys
// on. Relative paths are taken from the tracked folder.
func (s *session) resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(s.folder, path)
}

// file looks up a scanned file by command-line path.
func (s *session) file(path string) (tracker.FileEntry, error) {
	abs := s.resolve(path)
	for _, f := range s.store.State().AllFiles {
		if f.Path == abs {
			return f, nil
		}
	}
	return tracker.FileEntry{}, errors.NewFileError("not a file in the tracked folder", abs, errors.FileNotFound, nil)
}

// subfolder looks up a scanned subfolder by command-line path.
func (s *session) subfolder(path string) (tracker.SubfolderEntry, error) {
	abs := s.resolve(path)
	for _, sub := range s.store.State().Subfolders {
		if sub.Path == abs {
			return sub, nil
		}
	}
	return tracker.SubfolderEntry{}, errors.NewFileError("not a subfolder of the tracked folder", abs, errors.FileNotFound, nil)
}

// close saves anything still pending and releases the repository.
func (s *session) close(ctx context.Context) error {
	s.detach()
	err := s.syncer.Flush(ctx)
	if cerr := s.repo.Close(); err == nil {
		err = cerr
	}
	return err
}

// withSession opens a session, optionally rescans, runs fn and closes the
// session, saving whatever fn changed.
func (a *app) withSession(ctx context.Context, rescan bool, fn func(*session) error) (err error) {
	s, err := a.openSession(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.close(ctx); err == nil {
			err = cerr
		}
	}()
	if rescan {
		if _, err := s.rescan(ctx); err != nil {
			return err
		}
	}
	return fn(s)
}

// relative shortens path for display.
func (s *session) relative(path string) string {
	if rel, err := filepath.Rel(s.folder, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}
