package medi

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/cladam/medi/pkg/core"
	"github.com/cladam/medi/pkg/formats"
)

// ImportResult reports what a directory import did.
type ImportResult struct {
	Imported int
	Skipped  []string // keys that already existed and were not overwritten
}

// ImportFile imports a single markdown file under the given key. An
// existing key is an error unless overwrite is set. The import goes
// through the synchronization layer, so the search index stays in step.
func ImportFile(svc *core.Service, path, key string, overwrite bool) (core.Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.Note{}, fmt.Errorf("read %s: %w", path, err)
	}
	parsed, err := formats.ParseMarkdown(key, data)
	if err != nil {
		return core.Note{}, err
	}

	n, err := svc.CreateNote(parsed)
	if err == nil {
		return n, nil
	}
	if !errors.Is(err, core.ErrAlreadyExists) || !overwrite {
		return core.Note{}, err
	}
	// Replace the existing note in place; CreatedAt survives.
	return svc.UpdateNote(key, func(existing *core.Note) {
		existing.Title = parsed.Title
		existing.Tags = parsed.Tags
		existing.Content = parsed.Content
	})
}

// ImportDir imports every .md file under dir (recursively). The note
// key is the file path relative to dir, without the extension.
// Existing keys are skipped, never overwritten.
func ImportDir(svc *core.Service, dir string) (ImportResult, error) {
	var res ImportResult

	matches, err := doublestar.Glob(os.DirFS(dir), "**/*.md")
	if err != nil {
		return res, fmt.Errorf("scan %s: %w", dir, err)
	}

	for _, rel := range matches {
		key := strings.TrimSuffix(filepath.ToSlash(rel), ".md")
		_, err := ImportFile(svc, filepath.Join(dir, rel), key, false)
		if errors.Is(err, core.ErrAlreadyExists) {
			res.Skipped = append(res.Skipped, key)
			continue
		}
		if err != nil {
			return res, err
		}
		res.Imported++
	}
	return res, nil
}
