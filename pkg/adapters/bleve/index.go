// Package bleve implements core.SearchIndex on top of the bleve
// full-text engine, backed by an index directory on disk.
package bleve

import (
	"errors"
	"fmt"
	"log/slog"

	blevesearch "github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/cladam/medi/pkg/core"
)

// Index is the derived full-text projection of the notes. The schema
// is fixed: key (exact match, stored), title, content and tags (all
// full-text, stored). It is never authoritative; a reindex rebuilds it
// from the primary store.
type Index struct {
	idx    blevesearch.Index
	logger *slog.Logger
}

// Config holds the configuration for the search index.
type Config struct {
	// Path is the index directory, e.g. <data dir>/search_index.
	Path   string
	Logger *slog.Logger
}

// buildMapping defines the search schema. Defined once, never altered
// at runtime.
func buildMapping() mapping.IndexMapping {
	// The key identifies the document for retrieval. It is not
	// analyzed and excluded from the catch-all field, so free-text
	// queries only match title, content and tags.
	keyField := blevesearch.NewTextFieldMapping()
	keyField.Analyzer = keyword.Name
	keyField.Store = true
	keyField.IncludeInAll = false

	textField := blevesearch.NewTextFieldMapping()
	textField.Store = true

	doc := blevesearch.NewDocumentMapping()
	doc.AddFieldMappingsAt("key", keyField)
	doc.AddFieldMappingsAt("title", textField)
	doc.AddFieldMappingsAt("content", textField)
	doc.AddFieldMappingsAt("tags", textField)

	m := blevesearch.NewIndexMapping()
	m.DefaultMapping = doc
	return m
}

// Open opens an existing index or creates a new one at path. It is
// idempotent and safe to call on every process startup.
func Open(cfg Config) (*Index, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	idx, err := blevesearch.Open(cfg.Path)
	if errors.Is(err, blevesearch.ErrorIndexPathDoesNotExist) {
		logger.Debug("creating search index", "path", cfg.Path)
		idx, err = blevesearch.New(cfg.Path, buildMapping())
	}
	if err != nil {
		return nil, &core.IndexError{Op: "open", Key: cfg.Path, Err: err}
	}
	return &Index{idx: idx, logger: logger}, nil
}

// document is the projection of a note that gets indexed. Each tag is
// indexed as a separate value of the tags field.
func document(n core.Note) map[string]interface{} {
	return map[string]interface{}{
		"key":     n.Key,
		"title":   n.Title,
		"content": n.Content,
		"tags":    n.Tags,
	}
}

// Writer returns a writer staging mutations into one batch. Only one
// writer may be in use at a time; the caller opens, uses and commits
// it within a single operation.
func (i *Index) Writer() core.IndexWriter {
	return &writer{idx: i.idx, batch: i.idx.NewBatch()}
}

// Search runs a query-string query over the full-text fields and
// returns at most limit note keys in descending score order. The
// engine's default tf-idf ranking is summed across title, content and
// tags; ties keep the engine's internal document order.
func (i *Index) Search(query string, limit int) ([]string, error) {
	q := blevesearch.NewQueryStringQuery(query)
	if _, err := q.Parse(); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrBadQuery, err)
	}

	req := blevesearch.NewSearchRequest(q)
	req.Size = limit
	res, err := i.idx.Search(req)
	if err != nil {
		return nil, &core.IndexError{Op: "search", Err: err}
	}

	keys := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		// Documents are indexed under the note key.
		keys = append(keys, hit.ID)
	}
	return keys, nil
}

// DocCount returns the number of indexed documents.
func (i *Index) DocCount() (uint64, error) {
	count, err := i.idx.DocCount()
	if err != nil {
		return 0, &core.IndexError{Op: "count", Err: err}
	}
	return count, nil
}

// Close releases the index directory.
func (i *Index) Close() error {
	return i.idx.Close()
}

// writer stages adds and deletes in a bleve batch. The batch is
// applied as a whole by Commit, so a delete and an add for the same
// key are never visible separately.
type writer struct {
	idx   blevesearch.Index
	batch *blevesearch.Batch
}

func (w *writer) Add(n core.Note) error {
	if err := w.batch.Index(n.Key, document(n)); err != nil {
		return &core.IndexError{Op: "add", Key: n.Key, Err: err}
	}
	return nil
}

func (w *writer) DeleteKey(key string) {
	// Deleting an unindexed key is a no-op inside the engine.
	w.batch.Delete(key)
}

// DeleteAll stages removal of every document, for a full rebuild.
func (w *writer) DeleteAll() error {
	count, err := w.idx.DocCount()
	if err != nil {
		return &core.IndexError{Op: "count", Err: err}
	}
	if count == 0 {
		return nil
	}

	req := blevesearch.NewSearchRequest(blevesearch.NewMatchAllQuery())
	req.Size = int(count)
	res, err := w.idx.Search(req)
	if err != nil {
		return &core.IndexError{Op: "enumerate", Err: err}
	}
	for _, hit := range res.Hits {
		w.batch.Delete(hit.ID)
	}
	return nil
}

// Commit applies the staged batch, making it visible to subsequent
// searches and durable on disk. Readers pick the new state up without
// an explicit reopen.
func (w *writer) Commit() error {
	if err := w.idx.Batch(w.batch); err != nil {
		return &core.IndexError{Op: "commit", Err: err}
	}
	w.batch.Reset()
	return nil
}
