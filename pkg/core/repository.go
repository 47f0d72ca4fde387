package core

// Store defines the contract for the primary key-value store.
// It is the single source of truth for all note and task data.
// Adhering to this interface keeps the core independent of the
// underlying engine (bbolt by default, in-memory fakes in tests).
//
// Implementations must make every mutating call durable before
// returning: the synchronization layer updates the search index only
// after the primary write has landed.
type Store interface {
	// Put upserts a value under key.
	Put(key string, value []byte) error

	// Get retrieves the value stored under key.
	// Returns ErrNotFound if the key is absent.
	Get(key string) ([]byte, error)

	// Has reports whether key is present without reading its value.
	Has(key string) (bool, error)

	// Delete removes key. Deleting an absent key returns ErrNotFound,
	// distinguishing "nothing to do" from a caller error.
	Delete(key string) error

	// ScanPrefix calls fn for every key with the given prefix, in
	// ascending key order. Returning an error from fn stops the scan.
	ScanPrefix(prefix string, fn func(key string, value []byte) error) error

	// Update applies fn to the current value of key (nil if absent)
	// atomically: fn runs exactly once, isolated from all other Update
	// calls on the same key, and the returned bytes replace the value.
	// The new value is returned.
	Update(key string, fn func(old []byte) ([]byte, error)) ([]byte, error)

	Close() error
}

// SearchIndex is the derived, rebuildable full-text projection of the
// notes. It is never authoritative: it can always be reconstructed
// from the Store via a full reindex.
type SearchIndex interface {
	// Writer returns a handle for staging index mutations. Only one
	// writer may be in use at a time per index; callers open, use and
	// commit a writer within a single operation.
	Writer() IndexWriter

	// Search parses query against the title, content and tags fields
	// and returns at most limit matching note keys, most relevant
	// first. Malformed query syntax returns ErrBadQuery.
	Search(query string, limit int) ([]string, error)

	// DocCount returns the number of indexed documents.
	DocCount() (uint64, error)

	Close() error
}

// IndexWriter stages index mutations. Nothing is visible or durable
// until Commit.
type IndexWriter interface {
	// Add stages a new search document for the note. It does not check
	// for an existing document under the same key; replacing a note is
	// always a DeleteKey followed by an Add in the same writer.
	Add(n Note) error

	// DeleteKey stages removal of the document with the exact key.
	// A key that was never indexed is a no-op, not an error.
	DeleteKey(key string)

	// DeleteAll stages removal of every document (full rebuild).
	DeleteAll() error

	// Commit makes the staged mutations visible and durable.
	Commit() error
}
