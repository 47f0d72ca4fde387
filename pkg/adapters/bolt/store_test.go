package bolt

import (
	"encoding/binary"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cladam/medi/pkg/core"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(Config{Path: filepath.Join(t.TempDir(), "medi.db")})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPutGetRoundTrip(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Put("notes/n1", []byte("hello")))
	value, err := store.Get("notes/n1")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), value)

	// Put is an upsert.
	require.NoError(t, store.Put("notes/n1", []byte("replaced")))
	value, err = store.Get("notes/n1")
	require.NoError(t, err)
	assert.Equal(t, []byte("replaced"), value)
}

func TestGet_NotFound(t *testing.T) {
	store := openTestStore(t)
	_, err := store.Get("notes/missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestHas(t *testing.T) {
	store := openTestStore(t)

	ok, err := store.Has("notes/n1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put("notes/n1", []byte("x")))
	ok, err = store.Has("notes/n1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDelete_NonexistentKeyIsAnError(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Put("notes/n1", []byte("x")))
	require.NoError(t, store.Delete("notes/n1"))

	// A second delete distinguishes "nothing to do" from success.
	err := store.Delete("notes/n1")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestScanPrefix_OrderedAndNamespaced(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Put("notes/bravo", []byte("2")))
	require.NoError(t, store.Put("notes/alpha", []byte("1")))
	require.NoError(t, store.Put("notes/charlie", []byte("3")))
	require.NoError(t, store.Put("tasks/00000000000000000001", []byte("t")))

	var keys []string
	err := store.ScanPrefix("notes/", func(key string, value []byte) error {
		keys = append(keys, key)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"notes/alpha", "notes/bravo", "notes/charlie"}, keys,
		"scan must be ordered and confined to the namespace")
}

func TestScanPrefix_SubPrefix(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Put("notes/proj/a", []byte("1")))
	require.NoError(t, store.Put("notes/proj/b", []byte("2")))
	require.NoError(t, store.Put("notes/other", []byte("3")))

	var keys []string
	err := store.ScanPrefix("notes/proj/", func(key string, _ []byte) error {
		keys = append(keys, key)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"notes/proj/a", "notes/proj/b"}, keys)
}

func TestUpdate_Counter(t *testing.T) {
	store := openTestStore(t)

	increment := func(old []byte) ([]byte, error) {
		var n uint64
		if len(old) == 8 {
			n = binary.LittleEndian.Uint64(old)
		}
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, n+1)
		return buf, nil
	}

	// Absent key starts at zero, so the first value is 1.
	for want := uint64(1); want <= 3; want++ {
		value, err := store.Update("meta/counter:tasks", increment)
		require.NoError(t, err)
		assert.Equal(t, want, binary.LittleEndian.Uint64(value))
	}
}

func TestUpdate_ConcurrentIncrements(t *testing.T) {
	store := openTestStore(t)

	increment := func(old []byte) ([]byte, error) {
		var n uint64
		if len(old) == 8 {
			n = binary.LittleEndian.Uint64(old)
		}
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, n+1)
		return buf, nil
	}

	const workers = 8
	const perWorker = 25

	var wg sync.WaitGroup
	seen := make(chan uint64, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				value, err := store.Update("meta/counter:tasks", increment)
				assert.NoError(t, err)
				seen <- binary.LittleEndian.Uint64(value)
			}
		}()
	}
	wg.Wait()
	close(seen)

	// Every issued value is unique: the update is serialized.
	unique := make(map[uint64]bool)
	for v := range seen {
		assert.False(t, unique[v], "value %d issued twice", v)
		unique[v] = true
	}
	assert.Len(t, unique, workers*perWorker)
}

func TestUpdate_NilDeletes(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Put("meta/flag", []byte("x")))
	_, err := store.Update("meta/flag", func(old []byte) ([]byte, error) {
		return nil, nil
	})
	require.NoError(t, err)

	_, err = store.Get("meta/flag")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestKeysWithoutNamespaceAreRejected(t *testing.T) {
	store := openTestStore(t)

	var se *core.StorageError
	err := store.Put("plain", []byte("x"))
	require.Error(t, err)
	assert.ErrorAs(t, err, &se)

	_, err = store.Get("plain")
	require.Error(t, err)
	assert.ErrorAs(t, err, &se)
}

func TestOpen_BadPath(t *testing.T) {
	_, err := Open(Config{Path: filepath.Join(t.TempDir(), "no", "such", "dir", "medi.db")})
	require.Error(t, err)

	var se *core.StorageError
	assert.ErrorAs(t, err, &se, "open failures carry storage context")
}

func TestValuesSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "medi.db")

	store, err := Open(Config{Path: path})
	require.NoError(t, err)
	require.NoError(t, store.Put("notes/n1", []byte("durable")))
	require.NoError(t, store.Close())

	reopened, err := Open(Config{Path: path})
	require.NoError(t, err)
	defer reopened.Close()

	value, err := reopened.Get("notes/n1")
	require.NoError(t, err)
	assert.Equal(t, []byte("durable"), value)
}
