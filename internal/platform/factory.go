// Package platform is the composition root for medi. It wires the
// primary store and the search index into the core service and owns
// the process-level lock on the data directory.
package platform

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	blevead "github.com/cladam/medi/pkg/adapters/bleve"
	"github.com/cladam/medi/pkg/adapters/bolt"
	"github.com/cladam/medi/pkg/core"
)

const (
	storeFile = "medi.db"
	indexDir  = "search_index"
	lockFile  = "medi.lock"
)

// Open prepares the data directory and returns a ready service plus a
// close function releasing the index, the store and the lock, in that
// order. The lock serializes whole invocations: the search index
// tolerates only one writer at a time, and medi is a serially invoked
// CLI tool, so whole-process exclusion is the simplest way to honor
// that across processes.
func Open(dataDir string, opts ...Option) (*core.Service, func() error, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	// Fully injected stores skip the directory and the lock (tests).
	if o.store != nil && o.index != nil {
		svc := core.NewService(o.store, o.index,
			core.WithLogger(logger), core.WithSearchLimit(o.searchLimit))
		return svc, func() error { return nil }, nil
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("create data directory %s: %w", dataDir, err)
	}

	lock := flock.New(filepath.Join(dataDir, lockFile))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, nil, fmt.Errorf("acquire lock on %s: %w", dataDir, err)
	}
	if !locked {
		return nil, nil, fmt.Errorf("data directory %s is in use by another medi process", dataDir)
	}

	store := o.store
	if store == nil {
		store, err = bolt.Open(bolt.Config{
			Path:   filepath.Join(dataDir, storeFile),
			Logger: logger,
		})
		if err != nil {
			lock.Unlock()
			return nil, nil, err
		}
	}

	index := o.index
	if index == nil {
		index, err = blevead.Open(blevead.Config{
			Path:   filepath.Join(dataDir, indexDir),
			Logger: logger,
		})
		if err != nil {
			store.Close()
			lock.Unlock()
			return nil, nil, err
		}
	}

	svc := core.NewService(store, index,
		core.WithLogger(logger), core.WithSearchLimit(o.searchLimit))

	closeFn := func() error {
		var firstErr error
		if err := index.Close(); err != nil {
			firstErr = err
		}
		if err := store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := lock.Unlock(); err != nil && firstErr == nil {
			firstErr = err
		}
		return firstErr
	}
	return svc, closeFn, nil
}
