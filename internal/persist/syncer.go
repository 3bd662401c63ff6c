package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"

	"billtrack/internal/log"
	"billtrack/internal/tracker"
)

// Syncer writes the persisted subtree to a repository whenever it changes.
// The store listener only records the latest snapshot; Run does the writing,
// so dispatches never wait on disk.
type Syncer struct {
	repo   Repository
	logger log.Logging

	mu      sync.Mutex
	latest  []byte
	pending *Snapshot
	notify  chan struct{}
}

// NewSyncer creates a syncer for repo.
func NewSyncer(repo Repository, logger log.Logging) *Syncer {
	if logger == nil {
		logger = log.LogWithFields(log.F("component", "syncer"))
	}
	return &Syncer{
		repo:   repo,
		logger: logger,
		notify: make(chan struct{}, 1),
	}
}

// Attach subscribes to store. The current state is taken as already saved.
func (s *Syncer) Attach(store *tracker.Store) func() {
	if data, err := encode(SnapshotOf(store.State())); err == nil {
		s.mu.Lock()
		s.latest = data
		s.mu.Unlock()
	}
	return store.Subscribe(s.observe)
}

func (s *Syncer) observe(state tracker.State) {
	snap := SnapshotOf(state)
	data, err := encode(snap)
	if err != nil {
		s.logger.Warnf("Failed to encode snapshot: %v", err)
		return
	}

	s.mu.Lock()
	changed := !bytes.Equal(data, s.latest)
	if changed {
		s.latest = data
		s.pending = snap
	}
	s.mu.Unlock()

	if changed {
		select {
		case s.notify <- struct{}{}:
		default:
		}
	}
}

// Pending reports whether a change is waiting to be written.
func (s *Syncer) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Flush writes the pending snapshot, if any. A failed write stays pending.
func (s *Syncer) Flush(ctx context.Context) error {
	s.mu.Lock()
	snap := s.pending
	s.pending = nil
	s.mu.Unlock()

	if snap == nil {
		return nil
	}
	if err := s.repo.Save(ctx, snap); err != nil {
		s.mu.Lock()
		if s.pending == nil {
			s.pending = snap
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

// Run writes changes until ctx is cancelled, then flushes once more.
func (s *Syncer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return s.Flush(context.Background())
		case <-s.notify:
			if err := s.Flush(ctx); err != nil {
				log.LogWithError(err).Error("Failed to save tracker state")
			}
		}
	}
}

func encode(snap *Snapshot) ([]byte, error) {
	return json.Marshal(snap)
}
