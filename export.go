package medi

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cladam/medi/pkg/core"
	"github.com/cladam/medi/pkg/formats"
)

// ExportFormat selects the on-disk rendering of exported notes.
type ExportFormat string

const (
	// ExportMarkdown writes one <key>.md file per note, with the note
	// metadata as YAML frontmatter.
	ExportMarkdown ExportFormat = "markdown"
	// ExportJSON writes a single notes.json file with all notes.
	ExportJSON ExportFormat = "json"
)

// ParseExportFormat converts user input into an ExportFormat.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(s) {
	case ExportMarkdown, ExportJSON:
		return ExportFormat(s), nil
	}
	return "", fmt.Errorf("unknown export format %q (want markdown or json)", s)
}

// ExportNotes writes notes to dir in the given format. When tags are
// given, only notes carrying at least one of them are exported.
// Returns the number of notes written.
func ExportNotes(svc *core.Service, dir string, format ExportFormat, tags ...string) (int, error) {
	notes, err := svc.ListNotes()
	if err != nil {
		return 0, err
	}
	if len(tags) > 0 {
		var filtered []core.Note
		for _, n := range notes {
			for _, tag := range tags {
				if n.HasTag(tag) {
					filtered = append(filtered, n)
					break
				}
			}
		}
		notes = filtered
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("create export directory %s: %w", dir, err)
	}

	switch format {
	case ExportJSON:
		data, err := formats.RenderJSON(notes)
		if err != nil {
			return 0, err
		}
		path := filepath.Join(dir, "notes.json")
		if err := os.WriteFile(path, data, 0644); err != nil {
			return 0, fmt.Errorf("write %s: %w", path, err)
		}
		return len(notes), nil

	case ExportMarkdown:
		for _, n := range notes {
			data, err := formats.RenderMarkdown(n)
			if err != nil {
				return 0, err
			}
			// Slashes in the key become subdirectories, so distinct
			// keys never land on the same file and a directory import
			// reconstructs the same keys.
			path := filepath.Join(dir, filepath.FromSlash(n.Key)+".md")
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return 0, fmt.Errorf("create export directory for %q: %w", n.Key, err)
			}
			if err := os.WriteFile(path, data, 0644); err != nil {
				return 0, fmt.Errorf("write %s: %w", path, err)
			}
		}
		return len(notes), nil
	}
	return 0, fmt.Errorf("unknown export format %q", format)
}
