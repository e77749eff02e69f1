package storage

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Store hands out one work directory per request under root and removes
// abandoned ones once they outlive the retention period.
type Store struct {
	root      string
	retention time.Duration
	logger    logrus.FieldLogger

	mu   sync.Mutex
	busy map[string]int

	warn rate.Sometimes
}

func New(root string, retention time.Duration, logger logrus.FieldLogger) (*Store, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, errors.Wrapf(err, "create storage root %s", root)
	}
	return &Store{
		root:      root,
		retention: retention,
		logger:    logger.WithField("component", "storage"),
		busy:      make(map[string]int),
		warn:      rate.Sometimes{Interval: time.Minute},
	}, nil
}

func (s *Store) Root() string {
	return s.root
}

// WorkDir is a request-scoped directory. It is skipped by Sweep until
// Release is called.
type WorkDir struct {
	Path string

	name    string
	store   *Store
	release sync.Once
}

func (s *Store) Acquire() (*WorkDir, error) {
	name := uuid.NewString()
	path := filepath.Join(s.root, name)
	if err := os.Mkdir(path, 0755); err != nil {
		return nil, errors.Wrap(err, "create work dir")
	}

	s.mu.Lock()
	s.busy[name]++
	s.mu.Unlock()

	return &WorkDir{Path: path, name: name, store: s}, nil
}

// Release removes the directory and everything in it. Calling it more than
// once is a no-op.
func (w *WorkDir) Release() error {
	var err error
	w.release.Do(func() {
		w.store.mu.Lock()
		w.store.busy[w.name]--
		if w.store.busy[w.name] <= 0 {
			delete(w.store.busy, w.name)
		}
		w.store.mu.Unlock()

		if rmErr := os.RemoveAll(w.Path); rmErr != nil {
			err = errors.Wrapf(rmErr, "remove work dir %s", w.Path)
		}
	})
	return err
}

func (s *Store) isBusy(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy[name] > 0
}

// Sweep removes entries under root last modified before now minus the
// retention period, skipping directories still held by a request. It returns
// the number of entries removed.
func (s *Store) Sweep(now time.Time) int {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		s.warn.Do(func() {
			s.logger.WithError(err).Warn("Cleaner cannot read storage root")
		})
		return 0
	}

	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if s.isBusy(name) {
			s.logger.WithField("entry", name).Debug("Skipping busy work dir")
			continue
		}

		info, err := entry.Info()
		if err != nil || now.Sub(info.ModTime()) <= s.retention {
			continue
		}

		if err := os.RemoveAll(filepath.Join(s.root, name)); err != nil {
			s.warn.Do(func() {
				s.logger.WithError(err).WithField("entry", name).Warn("Failed to remove expired entry")
			})
			continue
		}
		removed++
		s.logger.WithField("entry", name).Debug("Cleaned up expired entry")
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.Sweep(now); n > 0 {
				s.logger.WithField("removed", n).Info("Storage sweep finished")
			}
		}
	}
}
