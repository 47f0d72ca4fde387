package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrNotFound is returned when a key is absent on get or delete.
	// Deleting a nonexistent key is a caller error, not a no-op.
	ErrNotFound = errors.New("key not found")

	// ErrAlreadyExists is returned when create-if-absent is violated.
	ErrAlreadyExists = errors.New("key already exists")

	// ErrBadQuery is returned for malformed search query syntax.
	// It is never mapped to an empty result set.
	ErrBadQuery = errors.New("malformed search query")
)

// StorageError wraps a failure of the primary store. Store failures
// abort the whole operation before any index mutation is attempted.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IndexError wraps a failure of the search index. An index failure
// after a durable store write does not roll the write back; the store
// is authoritative and the remedy is a reindex.
type IndexError struct {
	Op  string
	Key string
	Err error
}

func (e *IndexError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("search index: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("search index: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *IndexError) Unwrap() error { return e.Err }
