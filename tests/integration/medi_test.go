package integration

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cladam/medi"
	"github.com/cladam/medi/pkg/core"
)

func openMedi(t *testing.T) (*core.Service, string) {
	t.Helper()
	dir := t.TempDir()
	svc, closeFn, err := medi.Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, closeFn()) })
	return svc, dir
}

// TestSaveThenSearch covers the basic save/search loop: a freshly
// saved note is immediately findable by its content, with no reader
// reopen in between.
func TestSaveThenSearch(t *testing.T) {
	svc, _ := openMedi(t)

	_, err := svc.CreateNote(core.Note{
		Key: "n1", Title: "Alpha", Content: "rust systems", Tags: []string{"x"},
	})
	require.NoError(t, err)

	keys, err := svc.SearchNotes("rust")
	require.NoError(t, err)
	assert.Equal(t, []string{"n1"}, keys)

	// An exact-title query finds the same note.
	keys, err = svc.SearchNotes(`title:"Alpha"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"n1"}, keys)
}

// TestDeleteRemovesFromBothStores covers delete synchronization and
// the not-found contract on a second delete.
func TestDeleteRemovesFromBothStores(t *testing.T) {
	svc, _ := openMedi(t)

	_, err := svc.CreateNote(core.Note{Key: "n1", Title: "Alpha", Content: "rust systems"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteNote("n1"))

	keys, err := svc.SearchNotes("rust")
	require.NoError(t, err)
	assert.Empty(t, keys)

	err = svc.DeleteNote("n1")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

// TestEditReplacesIndexedContent: saving the same key again replaces
// the indexed document, it never duplicates it.
func TestEditReplacesIndexedContent(t *testing.T) {
	svc, _ := openMedi(t)

	_, err := svc.CreateNote(core.Note{Key: "n1", Content: "aardvark"})
	require.NoError(t, err)
	_, err = svc.UpdateNote("n1", func(n *core.Note) { n.Content = "banana" })
	require.NoError(t, err)

	keys, err := svc.SearchNotes("aardvark")
	require.NoError(t, err)
	assert.Empty(t, keys)

	keys, err = svc.SearchNotes("banana")
	require.NoError(t, err)
	assert.Equal(t, []string{"n1"}, keys)
}

// TestReindexAfterDeletions: the rebuilt index contains exactly the
// surviving keys, checked with a broad query matching every note.
func TestReindexAfterDeletions(t *testing.T) {
	svc, _ := openMedi(t)

	names := []string{"a1", "a2", "a3", "a4", "a5"}
	for _, key := range names {
		_, err := svc.CreateNote(core.Note{Key: key, Content: "common body text"})
		require.NoError(t, err)
	}
	require.NoError(t, svc.DeleteNote("a2"))
	require.NoError(t, svc.DeleteNote("a4"))

	count, err := svc.Reindex()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	keys, err := svc.SearchNotes("common")
	require.NoError(t, err)
	sort.Strings(keys)
	assert.Equal(t, []string{"a1", "a3", "a5"}, keys)
}

// TestReindexIsIdempotent: running a reindex twice returns identical
// results for a fixed query.
func TestReindexIsIdempotent(t *testing.T) {
	svc, _ := openMedi(t)

	for _, key := range []string{"x1", "x2", "x3"} {
		_, err := svc.CreateNote(core.Note{Key: key, Content: "shared words here"})
		require.NoError(t, err)
	}

	_, err := svc.Reindex()
	require.NoError(t, err)
	first, err := svc.SearchNotes("shared")
	require.NoError(t, err)

	_, err = svc.Reindex()
	require.NoError(t, err)
	second, err := svc.SearchNotes("shared")
	require.NoError(t, err)

	sort.Strings(first)
	sort.Strings(second)
	assert.Equal(t, first, second)
}

// TestCreatedAtSurvivesEdits: two content edits leave CreatedAt
// untouched while ModifiedAt never moves backwards.
func TestCreatedAtSurvivesEdits(t *testing.T) {
	svc, _ := openMedi(t)

	created, err := svc.CreateNote(core.Note{Key: "n1", Content: "v1"})
	require.NoError(t, err)

	first, err := svc.UpdateNote("n1", func(n *core.Note) { n.Content = "v2" })
	require.NoError(t, err)
	second, err := svc.UpdateNote("n1", func(n *core.Note) { n.Content = "v3" })
	require.NoError(t, err)

	assert.Equal(t, created.CreatedAt.UTC(), second.CreatedAt.UTC())
	// Wall clocks can be coarse; ModifiedAt must never move backwards.
	assert.False(t, first.ModifiedAt.Before(created.ModifiedAt))
	assert.False(t, second.ModifiedAt.Before(first.ModifiedAt))
}

// TestTaskIDSequence: a fresh database issues 1, 2, 3.
func TestTaskIDSequence(t *testing.T) {
	svc, _ := openMedi(t)

	for want := uint64(1); want <= 3; want++ {
		id, err := svc.NextTaskID()
		require.NoError(t, err)
		assert.Equal(t, want, id)
	}
}

// TestTaskIDsSurviveReopen: the counter lives in the store, so IDs
// keep increasing across process lifetimes.
func TestTaskIDsSurviveReopen(t *testing.T) {
	dir := t.TempDir()

	svc, closeFn, err := medi.Open(dir)
	require.NoError(t, err)
	id, err := svc.NextTaskID()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)
	require.NoError(t, closeFn())

	svc, closeFn, err = medi.Open(dir)
	require.NoError(t, err)
	defer closeFn()
	id, err = svc.NextTaskID()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), id)
}

func TestTaskWorkflow(t *testing.T) {
	svc, _ := openMedi(t)

	_, err := svc.CreateNote(core.Note{Key: "article", Content: "draft"})
	require.NoError(t, err)

	task, err := svc.AddTask("article", "finish the introduction")
	require.NoError(t, err)
	assert.Equal(t, core.TaskOpen, task.Status)

	task, err = svc.SetTaskStatus(task.ID, core.TaskPrio)
	require.NoError(t, err)
	assert.Equal(t, core.TaskPrio, task.Status)

	task, err = svc.SetTaskStatus(task.ID, core.TaskDone)
	require.NoError(t, err)
	assert.Equal(t, core.TaskDone, task.Status)

	tasks, err := svc.ListTasks()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
}

func TestBadQueryIsDistinctError(t *testing.T) {
	svc, _ := openMedi(t)

	_, err := svc.SearchNotes(`content:"unterminated`)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrBadQuery)
}

// TestDataDirLock: a second process (simulated by a second Open on
// the same directory) is refused while the first holds the lock.
func TestDataDirLock(t *testing.T) {
	dir := t.TempDir()

	_, closeFn, err := medi.Open(dir)
	require.NoError(t, err)
	defer closeFn()

	_, _, err = medi.Open(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "in use")
}

func TestExportImportRoundTrip(t *testing.T) {
	svc, _ := openMedi(t)

	_, err := svc.CreateNote(core.Note{
		Key: "exported", Title: "Exported", Content: "body text\n", Tags: []string{"keep"},
	})
	require.NoError(t, err)
	_, err = svc.CreateNote(core.Note{Key: "other", Content: "other body\n"})
	require.NoError(t, err)

	exportDir := t.TempDir()
	count, err := medi.ExportNotes(svc, exportDir, medi.ExportMarkdown, "keep")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Import the exported file into a fresh instance.
	fresh, _ := openMedi(t)
	note, err := medi.ImportFile(fresh, filepath.Join(exportDir, "exported.md"), "exported", false)
	require.NoError(t, err)
	assert.Equal(t, "Exported", note.Title)
	assert.Equal(t, []string{"keep"}, note.Tags)
	assert.Equal(t, "body text\n", note.Content)

	keys, err := fresh.SearchNotes("body")
	require.NoError(t, err)
	assert.Equal(t, []string{"exported"}, keys)
}

func TestImportDirSkipsExisting(t *testing.T) {
	svc, _ := openMedi(t)

	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "one.md"), []byte("first\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "sub", "two.md"), []byte("second\n"), 0644))

	_, err := svc.CreateNote(core.Note{Key: "one", Content: "already here"})
	require.NoError(t, err)

	res, err := medi.ImportDir(svc, src)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, []string{"one"}, res.Skipped)

	n, err := svc.GetNote("sub/two")
	require.NoError(t, err)
	assert.Equal(t, "second\n", n.Content)

	// The existing note kept its content.
	n, err = svc.GetNote("one")
	require.NoError(t, err)
	assert.Equal(t, "already here", n.Content)
}

// TestExportNestedKeys: slashes in keys become subdirectories, so
// keys like "a/b" and "a-b" export to distinct files and a directory
// import gets the original keys back.
func TestExportNestedKeys(t *testing.T) {
	svc, _ := openMedi(t)

	_, err := svc.CreateNote(core.Note{Key: "a/b", Content: "nested\n"})
	require.NoError(t, err)
	_, err = svc.CreateNote(core.Note{Key: "a-b", Content: "flat\n"})
	require.NoError(t, err)

	dir := t.TempDir()
	count, err := medi.ExportNotes(svc, dir, medi.ExportMarkdown)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = os.Stat(filepath.Join(dir, "a", "b.md"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "a-b.md"))
	require.NoError(t, err)

	fresh, _ := openMedi(t)
	res, err := medi.ImportDir(fresh, dir)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)

	n, err := fresh.GetNote("a/b")
	require.NoError(t, err)
	assert.Equal(t, "nested\n", n.Content)
	n, err = fresh.GetNote("a-b")
	require.NoError(t, err)
	assert.Equal(t, "flat\n", n.Content)
}

func TestExportJSON(t *testing.T) {
	svc, _ := openMedi(t)

	_, err := svc.CreateNote(core.Note{Key: "a", Content: "x"})
	require.NoError(t, err)
	_, err = svc.CreateNote(core.Note{Key: "b", Content: "y"})
	require.NoError(t, err)

	dir := t.TempDir()
	count, err := medi.ExportNotes(svc, dir, medi.ExportJSON)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = os.Stat(filepath.Join(dir, "notes.json"))
	require.NoError(t, err)
}
