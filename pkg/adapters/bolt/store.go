// Package bolt implements core.Store on top of bbolt, an embedded,
// ordered key-value store kept in a single file.
package bolt

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/cladam/medi/pkg/core"
)

// Top-level key namespaces map to bbolt buckets. A key like
// "notes/my-note" lives in the "notes" bucket under "my-note"; note
// keys may themselves contain slashes, only the first one namespaces.
var buckets = []string{"notes", "tasks", "meta"}

// Store is the primary store. Every transaction bbolt commits is
// fsynced before Update returns, which is the durability guarantee the
// synchronization layer depends on: a crash after a put must not lose
// the write, since the index update that follows assumes it landed.
type Store struct {
	db     *bbolt.DB
	logger *slog.Logger
}

// Config holds the configuration for the bolt store.
type Config struct {
	// Path is the database file, e.g. <data dir>/medi.db.
	Path   string
	Logger *slog.Logger
}

// Open opens (or creates) the database file and ensures the buckets
// exist. Open failures are fatal for the process: there is nothing the
// caller can do with a note manager that has no store.
func Open(cfg Config) (*Store, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	db, err := bbolt.Open(cfg.Path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, &core.StorageError{Op: "open", Key: cfg.Path, Err: err}
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range buckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, &core.StorageError{Op: "init", Key: cfg.Path, Err: err}
	}

	logger.Debug("store opened", "path", cfg.Path)
	return &Store{db: db, logger: logger}, nil
}

// split resolves a namespaced key to its bucket and in-bucket key.
func split(key string) (bucket, rest string, err error) {
	i := strings.Index(key, "/")
	if i <= 0 || i == len(key)-1 {
		return "", "", fmt.Errorf("key %q has no namespace", key)
	}
	return key[:i], key[i+1:], nil
}

func (s *Store) bucket(tx *bbolt.Tx, name string) (*bbolt.Bucket, error) {
	b := tx.Bucket([]byte(name))
	if b == nil {
		return nil, fmt.Errorf("unknown namespace %q", name)
	}
	return b, nil
}

// Put upserts a value. Durable when it returns.
func (s *Store) Put(key string, value []byte) error {
	bucket, rest, err := split(key)
	if err != nil {
		return &core.StorageError{Op: "put", Key: key, Err: err}
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		b, err := s.bucket(tx, bucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(rest), value)
	})
	if err != nil {
		return &core.StorageError{Op: "put", Key: key, Err: err}
	}
	return nil
}

// Get retrieves a value, or core.ErrNotFound.
func (s *Store) Get(key string) ([]byte, error) {
	bucket, rest, err := split(key)
	if err != nil {
		return nil, &core.StorageError{Op: "get", Key: key, Err: err}
	}
	var value []byte
	err = s.db.View(func(tx *bbolt.Tx) error {
		b, err := s.bucket(tx, bucket)
		if err != nil {
			return err
		}
		v := b.Get([]byte(rest))
		if v == nil {
			return core.ErrNotFound
		}
		// The slice is only valid inside the transaction.
		value = bytes.Clone(v)
		return nil
	})
	if err != nil {
		if err == core.ErrNotFound {
			return nil, core.ErrNotFound
		}
		return nil, &core.StorageError{Op: "get", Key: key, Err: err}
	}
	return value, nil
}

// Has reports key presence.
func (s *Store) Has(key string) (bool, error) {
	_, err := s.Get(key)
	if err == nil {
		return true, nil
	}
	if err == core.ErrNotFound {
		return false, nil
	}
	return false, err
}

// Delete removes a key. Removing a nonexistent key is a caller error
// and returns core.ErrNotFound, never silent success.
func (s *Store) Delete(key string) error {
	bucket, rest, err := split(key)
	if err != nil {
		return &core.StorageError{Op: "delete", Key: key, Err: err}
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		b, err := s.bucket(tx, bucket)
		if err != nil {
			return err
		}
		if b.Get([]byte(rest)) == nil {
			return core.ErrNotFound
		}
		return b.Delete([]byte(rest))
	})
	if err != nil {
		if err == core.ErrNotFound {
			return core.ErrNotFound
		}
		return &core.StorageError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// ScanPrefix visits all keys under prefix in ascending key order.
// The prefix must include a namespace, e.g. "notes/" or "tasks/00".
func (s *Store) ScanPrefix(prefix string, fn func(key string, value []byte) error) error {
	i := strings.Index(prefix, "/")
	if i <= 0 {
		return &core.StorageError{Op: "scan", Key: prefix, Err: fmt.Errorf("prefix %q has no namespace", prefix)}
	}
	bucket, rest := prefix[:i], prefix[i+1:]

	err := s.db.View(func(tx *bbolt.Tx) error {
		b, err := s.bucket(tx, bucket)
		if err != nil {
			return err
		}
		c := b.Cursor()
		seek := []byte(rest)
		for k, v := c.Seek(seek); k != nil && bytes.HasPrefix(k, seek); k, v = c.Next() {
			if err := fn(bucket+"/"+string(k), bytes.Clone(v)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if _, ok := err.(*core.StorageError); ok {
			return err
		}
		return &core.StorageError{Op: "scan", Key: prefix, Err: err}
	}
	return nil
}

// Update applies fn to the current value of key inside one write
// transaction. bbolt serializes write transactions, so fn runs exactly
// once, isolated from every other Update on the same key, even across
// processes sharing the file. A nil result from fn deletes the key.
func (s *Store) Update(key string, fn func(old []byte) ([]byte, error)) ([]byte, error) {
	bucket, rest, err := split(key)
	if err != nil {
		return nil, &core.StorageError{Op: "update", Key: key, Err: err}
	}
	var newValue []byte
	err = s.db.Update(func(tx *bbolt.Tx) error {
		b, err := s.bucket(tx, bucket)
		if err != nil {
			return err
		}
		var old []byte
		if v := b.Get([]byte(rest)); v != nil {
			old = bytes.Clone(v)
		}
		newValue, err = fn(old)
		if err != nil {
			return err
		}
		if newValue == nil {
			return b.Delete([]byte(rest))
		}
		return b.Put([]byte(rest), newValue)
	})
	if err != nil {
		return nil, &core.StorageError{Op: "update", Key: key, Err: err}
	}
	return newValue, nil
}

// Close releases the database file.
func (s *Store) Close() error {
	return s.db.Close()
}
