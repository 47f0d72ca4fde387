package core

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"
)

// Key namespaces inside the primary store.
const (
	notePrefix = "notes/"
	taskPrefix = "tasks/"

	// counterKey holds the last issued task ID as an 8-byte
	// little-endian integer. Owned exclusively by the ID generator.
	counterKey = "meta/counter:tasks"
)

// DefaultSearchLimit is the maximum number of keys a search returns.
const DefaultSearchLimit = 10

func noteKey(key string) string { return notePrefix + key }

// taskKey zero-pads the ID so lexical scan order equals numeric order.
func taskKey(id uint64) string { return fmt.Sprintf("%s%020d", taskPrefix, id) }

// Service is the synchronization layer: the single choke point through
// which every note mutation passes. It guarantees that the primary
// store mutation always happens before the corresponding index
// mutation, so the index is never ahead of the store.
type Service struct {
	store Store
	index SearchIndex

	logger *slog.Logger
	limit  int
	now    func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSearchLimit overrides the maximum number of search results.
func WithSearchLimit(limit int) ServiceOption {
	return func(s *Service) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

// WithClock overrides the time source. Useful for tests that assert
// on timestamps.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a new Service on top of a primary store and a
// search index.
func NewService(store Store, index SearchIndex, opts ...ServiceOption) *Service {
	s := &Service{
		store:  store,
		index:  index,
		logger: slog.Default(),
		limit:  DefaultSearchLimit,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// --- Notes ---

// CreateNote saves a note under a key that must not already exist.
// Title defaults to the key when unspecified. Tags are stored verbatim,
// duplicates included.
func (s *Service) CreateNote(n Note) (Note, error) {
	if n.Key == "" {
		return Note{}, fmt.Errorf("note key cannot be empty")
	}
	exists, err := s.store.Has(noteKey(n.Key))
	if err != nil {
		return Note{}, err
	}
	if exists {
		return Note{}, fmt.Errorf("note %q: %w", n.Key, ErrAlreadyExists)
	}

	if n.Title == "" {
		n.Title = n.Key
	}
	now := s.now()
	n.CreatedAt = now
	n.ModifiedAt = now

	if err := s.save(n); err != nil {
		return n, err
	}
	return n, nil
}

// UpdateNote applies mutate to an existing note and persists the
// result. CreatedAt is immutable; ModifiedAt is bumped. The key cannot
// be changed through mutate.
func (s *Service) UpdateNote(key string, mutate func(*Note)) (Note, error) {
	n, err := s.GetNote(key)
	if err != nil {
		return Note{}, err
	}

	created := n.CreatedAt
	mutate(&n)
	// Identity and creation time are not the caller's to change.
	n.Key = key
	n.CreatedAt = created
	if n.Title == "" {
		n.Title = key
	}
	n.ModifiedAt = s.now()

	if err := s.save(n); err != nil {
		return n, err
	}
	return n, nil
}

// save writes the note to the primary store and then mirrors it into
// the search index. The store write is authoritative: if it fails the
// index is never touched, and if the index update fails afterwards the
// store write stands and the returned IndexError tells the caller the
// index is stale (a reindex repairs it).
func (s *Service) save(n Note) error {
	data, err := json.Marshal(n)
	if err != nil {
		return &StorageError{Op: "encode note", Key: n.Key, Err: err}
	}
	if err := s.store.Put(noteKey(n.Key), data); err != nil {
		return err
	}
	s.logger.Debug("note saved", "key", n.Key)

	// Replace-by-key is a delete plus an add inside one writer,
	// committed once. Splitting them across commits would expose a
	// window with zero or duplicate documents for the key.
	w := s.index.Writer()
	w.DeleteKey(n.Key)
	if err := w.Add(n); err != nil {
		return s.indexStale("add", n.Key, err)
	}
	if err := w.Commit(); err != nil {
		return s.indexStale("commit", n.Key, err)
	}
	return nil
}

func (s *Service) indexStale(op, key string, err error) error {
	s.logger.Warn("search index update failed; the note is saved but the index is stale, run a reindex to repair it",
		"op", op, "key", key, "error", err)
	var ie *IndexError
	if errors.As(err, &ie) {
		return ie
	}
	return &IndexError{Op: op, Key: key, Err: err}
}

// GetNote retrieves a note by key.
func (s *Service) GetNote(key string) (Note, error) {
	data, err := s.store.Get(noteKey(key))
	if err != nil {
		return Note{}, fmt.Errorf("note %q: %w", key, err)
	}
	var n Note
	if err := json.Unmarshal(data, &n); err != nil {
		return Note{}, &StorageError{Op: "decode note", Key: key, Err: err}
	}
	return n, nil
}

// ListNotes returns all notes in ascending key order.
func (s *Service) ListNotes() ([]Note, error) {
	var notes []Note
	err := s.store.ScanPrefix(notePrefix, func(_ string, value []byte) error {
		var n Note
		if err := json.Unmarshal(value, &n); err != nil {
			return &StorageError{Op: "decode note", Err: err}
		}
		notes = append(notes, n)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// NotesByTag returns all notes carrying the given tag, in key order.
func (s *Service) NotesByTag(tag string) ([]Note, error) {
	all, err := s.ListNotes()
	if err != nil {
		return nil, err
	}
	var notes []Note
	for _, n := range all {
		if n.HasTag(tag) {
			notes = append(notes, n)
		}
	}
	return notes, nil
}

// DeleteNote removes a note from the primary store and the search
// index. A missing key returns ErrNotFound without touching the index:
// there is nothing to synchronize.
func (s *Service) DeleteNote(key string) error {
	if err := s.store.Delete(noteKey(key)); err != nil {
		return fmt.Errorf("note %q: %w", key, err)
	}
	s.logger.Debug("note deleted", "key", key)

	w := s.index.Writer()
	w.DeleteKey(key)
	if err := w.Commit(); err != nil {
		return s.indexStale("delete", key, err)
	}
	return nil
}

// Reindex rebuilds the search index from scratch, purely from the
// primary store. It is the authoritative repair path: running it after
// any partial failure restores store/index consistency exactly.
// Returns the number of notes indexed.
func (s *Service) Reindex() (int, error) {
	notes, err := s.ListNotes()
	if err != nil {
		return 0, err
	}

	w := s.index.Writer()
	if err := w.DeleteAll(); err != nil {
		return 0, &IndexError{Op: "clear", Err: err}
	}
	for _, n := range notes {
		if err := w.Add(n); err != nil {
			return 0, &IndexError{Op: "add", Key: n.Key, Err: err}
		}
	}
	if err := w.Commit(); err != nil {
		return 0, &IndexError{Op: "commit", Err: err}
	}

	s.logger.Info("search index rebuilt", "notes", len(notes))
	return len(notes), nil
}

// SearchNotes returns the keys of the most relevant notes for a query,
// best match first.
func (s *Service) SearchNotes(query string) ([]string, error) {
	return s.index.Search(query, s.limit)
}

// --- Tasks ---

// NextTaskID issues the next task ID. IDs are strictly increasing and
// never reused: the increment is an atomic read-modify-write on the
// counter key, serialized by the store against all concurrent callers.
// A fresh database starts at 0, so the first issued ID is 1.
func (s *Service) NextTaskID() (uint64, error) {
	newVal, err := s.store.Update(counterKey, func(old []byte) ([]byte, error) {
		var id uint64
		if len(old) == 8 {
			id = binary.LittleEndian.Uint64(old)
		}
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, id+1)
		return buf, nil
	})
	if err != nil {
		return 0, err
	}
	if len(newVal) != 8 {
		return 0, &StorageError{Op: "counter", Key: counterKey, Err: fmt.Errorf("update produced no value")}
	}
	return binary.LittleEndian.Uint64(newVal), nil
}

// ResetTaskCounter force-sets the counter to 0. Maintenance operation
// only: if old tasks still exist, subsequent IDs will collide with
// theirs.
func (s *Service) ResetTaskCounter() error {
	buf := make([]byte, 8)
	return s.store.Put(counterKey, buf)
}

// AddTask creates a task linked to an existing note. The note key is
// checked here, once; the store does not enforce the reference later.
func (s *Service) AddTask(note, description string) (Task, error) {
	exists, err := s.store.Has(noteKey(note))
	if err != nil {
		return Task{}, err
	}
	if !exists {
		return Task{}, fmt.Errorf("note %q: %w", note, ErrNotFound)
	}

	id, err := s.NextTaskID()
	if err != nil {
		return Task{}, err
	}
	t := Task{
		ID:          id,
		NoteKey:     note,
		Description: description,
		Status:      TaskOpen,
		CreatedAt:   s.now(),
	}
	if err := s.putTask(t); err != nil {
		return Task{}, err
	}
	s.logger.Debug("task added", "id", t.ID, "note", t.NoteKey)
	return t, nil
}

func (s *Service) putTask(t Task) error {
	data, err := json.Marshal(t)
	if err != nil {
		return &StorageError{Op: "encode task", Err: err}
	}
	return s.store.Put(taskKey(t.ID), data)
}

// GetTask retrieves a task by ID.
func (s *Service) GetTask(id uint64) (Task, error) {
	data, err := s.store.Get(taskKey(id))
	if err != nil {
		return Task{}, fmt.Errorf("task %d: %w", id, err)
	}
	var t Task
	if err := json.Unmarshal(data, &t); err != nil {
		return Task{}, &StorageError{Op: "decode task", Err: err}
	}
	return t, nil
}

// ListTasks returns all tasks in ascending ID order.
func (s *Service) ListTasks() ([]Task, error) {
	var tasks []Task
	err := s.store.ScanPrefix(taskPrefix, func(_ string, value []byte) error {
		var t Task
		if err := json.Unmarshal(value, &t); err != nil {
			return &StorageError{Op: "decode task", Err: err}
		}
		tasks = append(tasks, t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Task keys are zero-padded so the scan is already numeric order;
	// sort anyway to be independent of key formatting.
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

// SetTaskStatus moves a task to the given status. CreatedAt is
// preserved; re-saving under the same key is the only mutation.
func (s *Service) SetTaskStatus(id uint64, status TaskStatus) (Task, error) {
	t, err := s.GetTask(id)
	if err != nil {
		return Task{}, err
	}
	t.Status = status
	if err := s.putTask(t); err != nil {
		return Task{}, err
	}
	return t, nil
}

// DeleteTask removes a task by ID. A missing ID returns ErrNotFound.
func (s *Service) DeleteTask(id uint64) error {
	if err := s.store.Delete(taskKey(id)); err != nil {
		return fmt.Errorf("task %d: %w", id, err)
	}
	return nil
}

// DeleteAllTasks removes every task and returns how many were deleted.
// The ID counter is left alone, so new tasks keep getting fresh IDs.
func (s *Service) DeleteAllTasks() (int, error) {
	var keys []string
	err := s.store.ScanPrefix(taskPrefix, func(key string, _ []byte) error {
		keys = append(keys, key)
		return nil
	})
	if err != nil {
		return 0, err
	}
	for _, k := range keys {
		if err := s.store.Delete(k); err != nil {
			return 0, err
		}
	}
	return len(keys), nil
}
