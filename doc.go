// Package medi is the composition root for the medi note manager.
//
// It connects the core business logic (the storage/search
// synchronization layer) with the infrastructure adapters: a bbolt
// primary store and a bleve full-text index.
//
// Philosophy:
//
// medi treats a single embedded key-value store as the source of truth
// for notes and tasks, and the search index as a derived, rebuildable
// cache. Every mutation writes the store first and mirrors into the
// index second, so the index is never ahead of the store; a full
// reindex is the universal repair tool.
//
// Usage:
//
//	svc, closeFn, err := medi.Open(dataDir, medi.WithLogger(logger))
//	if err != nil { ... }
//	defer closeFn()
//
//	note, err := svc.CreateNote(core.Note{Key: "my-note", Content: "..."})
//	keys, err := svc.SearchNotes("systems")
package medi
