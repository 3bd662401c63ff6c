package watch

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"billtrack/internal/errors"
	"billtrack/internal/log"

	"github.com/fsnotify/fsnotify"
)

// Change is one filesystem event under a watched folder.
type Change struct {
	Path      string
	IsDir     bool
	Timestamp time.Time
	Op        fsnotify.Op
}

// Watcher monitors a folder tree for changes using fsnotify. Directories
// created while running are watched as well.
type Watcher struct {
	// Directories being watched
	directories []string

	// Channel to deliver changes
	changes chan Change

	// Channel to signal stop, and closed by the loop once it has exited
	stopChan chan struct{}
	done     chan struct{}

	// fsnotify watcher instance
	fsWatcher *fsnotify.Watcher

	includeHidden bool

	// Lock for running state and the directories list
	mutex sync.RWMutex

	// Whether the watcher is running
	running bool
}

// New creates a new directory watcher using fsnotify
func New(includeHidden bool) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	return &Watcher{
		changes:       make(chan Change, 64),
		fsWatcher:     fsWatcher,
		includeHidden: includeHidden,
	}, nil
}

// AddDirectory adds a single directory to watch.
func (w *Watcher) AddDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewFileError("watch directory does not exist", dir, errors.FileNotFound, err)
		}
		return errors.NewFileError("error accessing watch directory", dir, errors.FileAccessDenied, err)
	}
	if !info.IsDir() {
		return errors.NewFileError("watch path is not a directory", dir, errors.InvalidPath, nil)
	}

	if err := w.fsWatcher.Add(dir); err != nil {
		return errors.NewFileError("failed to add directory to watcher", dir, errors.FileOperationFailed, err)
	}

	w.mutex.Lock()
	found := false
	for _, existing := range w.directories {
		if existing == dir {
			found = true
			break
		}
	}
	if !found {
		w.directories = append(w.directories, dir)
	}
	w.mutex.Unlock()

	log.LogWithFields(log.F("directory", dir)).Debug("Watching directory")
	return nil
}

// AddTree watches root and every directory below it.
func (w *Watcher) AddTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			log.LogWithFields(log.F("directory", path)).Warnf("Not watching unreadable directory: %v", err)
			return filepath.SkipDir
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.skip(d.Name()) {
			return filepath.SkipDir
		}
		return w.AddDirectory(path)
	})
}

func (w *Watcher) skip(name string) bool {
	return !w.includeHidden && strings.HasPrefix(name, ".")
}

// Changes returns the channel that delivers changes. It is closed after Stop.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Start begins the event loop.
func (w *Watcher) Start() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.running {
		return errors.New("watcher already running")
	}
	if w.done != nil {
		return errors.New("watcher cannot be restarted")
	}
	w.running = true
	w.stopChan = make(chan struct{})
	w.done = make(chan struct{})

	go w.loop()

	log.Debug("Watcher started.")
	return nil
}

func (w *Watcher) loop() {
	defer close(w.done)
	defer close(w.changes)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handle(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithFields(log.F("error", err)).Error("fsnotify watcher error")

		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod {
		return
	}
	if w.skip(filepath.Base(event.Name)) {
		return
	}

	change := Change{Path: event.Name, Timestamp: time.Now(), Op: event.Op}

	// Removed and renamed paths can no longer be stat'ed.
	if info, err := os.Stat(event.Name); err == nil {
		change.IsDir = info.IsDir()
		if change.IsDir && event.Op.Has(fsnotify.Create) {
			if err := w.AddTree(event.Name); err != nil {
				log.LogWithError(err).Warn("Failed to watch new directory")
			}
		}
	}

	select {
	case w.changes <- change:
	default:
		log.LogWithFields(log.F("file", event.Name)).Warn("Change channel is full, dropped event")
	}
}

// Stop halts the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mutex.Lock()
	if !w.running {
		started := w.done != nil
		w.mutex.Unlock()
		if !started {
			_ = w.fsWatcher.Close()
		}
		return
	}
	w.running = false
	close(w.stopChan)
	w.mutex.Unlock()

	<-w.done

	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("Error closing fsnotify watcher")
	}
	log.Debug("Watcher stopped.")
}

// IsRunning returns whether the watcher is currently active
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}

// GetDirectories returns the list of directories being watched
func (w *Watcher) GetDirectories() []string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	dirsCopy := make([]string, len(w.directories))
	copy(dirsCopy, w.directories)
	return dirsCopy
}
