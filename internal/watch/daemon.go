package watch

import (
	"context"
	"sync"
	"time"

	"billtrack/internal/errors"
	"billtrack/internal/log"
	"billtrack/internal/scan"
	"billtrack/internal/stats"
	"billtrack/internal/tracker"
)

// DaemonStatus represents the current status of the daemon
type DaemonStatus struct {
	Running          bool      // Whether the daemon is currently active
	Root             string    // Tracked folder
	WatchDirectories []string  // Directories being watched
	LastActivity     time.Time // Time of last file activity
	Rescans          int       // Completed rescans
	LastError        error     // Error of the most recent rescan, if any
}

// Daemon keeps a store in step with the tracked folder: filesystem changes
// are debounced into a rescan whose result is dispatched.
type Daemon struct {
	root          string
	store         *tracker.Store
	scanner       *scan.Scanner
	debounce      time.Duration
	includeHidden bool

	watcher *Watcher

	// Callback for each finished rescan
	callback func(*scan.Result, error)

	// Lock for status fields
	mutex        sync.RWMutex
	running      bool
	lastActivity time.Time
	rescans      int
	lastErr      error
}

// NewDaemon creates a daemon for root.
func NewDaemon(root string, store *tracker.Store, scanner *scan.Scanner, debounce time.Duration, includeHidden bool) *Daemon {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Daemon{
		root:          root,
		store:         store,
		scanner:       scanner,
		debounce:      debounce,
		includeHidden: includeHidden,
	}
}

// SetCallback sets a function to be called after every rescan.
func (d *Daemon) SetCallback(cb func(*scan.Result, error)) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.callback = cb
}

// Rescan scans the root and loads the result and fresh statistics into the
// store.
func (d *Daemon) Rescan(ctx context.Context) (*scan.Result, error) {
	res, err := d.scanner.Scan(ctx, d.root)
	if err == nil {
		d.store.DispatchAll(res.Actions()...)
		stats.Refresh(d.store, res.ScannedAt)
	}

	d.mutex.Lock()
	d.lastErr = err
	if err == nil {
		d.rescans++
	}
	cb := d.callback
	d.mutex.Unlock()

	if cb != nil {
		cb(res, err)
	}
	return res, err
}

// Run rescans once, then watches until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	logger := log.LogWithFields(log.F("root", d.root))

	if _, err := d.Rescan(ctx); err != nil {
		return err
	}

	watcher, err := New(d.includeHidden)
	if err != nil {
		return err
	}
	if err := watcher.AddTree(d.root); err != nil {
		watcher.Stop()
		return errors.NewFileError("failed to watch tracked folder", d.root, errors.FileAccessDenied, err)
	}
	if err := watcher.Start(); err != nil {
		return err
	}
	defer watcher.Stop()

	d.mutex.Lock()
	d.watcher = watcher
	d.running = true
	d.mutex.Unlock()
	defer func() {
		d.mutex.Lock()
		d.running = false
		d.mutex.Unlock()
	}()

	logger.Info("Watching tracked folder")

	timer := time.NewTimer(d.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Watch stopped")
			return nil

		case change, ok := <-watcher.Changes():
			if !ok {
				return nil
			}
			d.mutex.Lock()
			d.lastActivity = change.Timestamp
			d.mutex.Unlock()
			logger.With(log.F("path", change.Path), log.F("op", change.Op.String())).Debug("Change detected")
			timer.Reset(d.debounce)

		case <-timer.C:
			if _, err := d.Rescan(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				log.LogWithError(err).Error("Rescan failed")
			}
		}
	}
}

// Status returns the current status of the daemon
func (d *Daemon) Status() DaemonStatus {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	status := DaemonStatus{
		Running:      d.running,
		Root:         d.root,
		LastActivity: d.lastActivity,
		Rescans:      d.rescans,
		LastError:    d.lastErr,
	}
	if d.watcher != nil {
		status.WatchDirectories = d.watcher.GetDirectories()
	}
	return status
}
