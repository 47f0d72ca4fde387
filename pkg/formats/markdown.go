// Package formats renders notes for export and parses imported files.
// Markdown files carry note metadata as YAML frontmatter; JSON export
// is the raw note data.
package formats

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cladam/medi/pkg/core"
)

const frontmatterFence = "---"

// frontmatter is the metadata block at the top of an exported note.
type frontmatter struct {
	Title      string    `yaml:"title"`
	Tags       []string  `yaml:"tags,omitempty"`
	CreatedAt  time.Time `yaml:"created_at,omitempty"`
	ModifiedAt time.Time `yaml:"modified_at,omitempty"`
}

// RenderMarkdown serializes a note as YAML frontmatter plus content.
func RenderMarkdown(n core.Note) ([]byte, error) {
	meta, err := yaml.Marshal(frontmatter{
		Title:      n.Title,
		Tags:       n.Tags,
		CreatedAt:  n.CreatedAt,
		ModifiedAt: n.ModifiedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("encode frontmatter for %q: %w", n.Key, err)
	}

	var b strings.Builder
	b.WriteString(frontmatterFence + "\n")
	b.Write(meta)
	b.WriteString(frontmatterFence + "\n\n")
	b.WriteString(n.Content)
	if !strings.HasSuffix(n.Content, "\n") {
		b.WriteString("\n")
	}
	return []byte(b.String()), nil
}

// ParseMarkdown builds a note from a markdown file. A leading YAML
// frontmatter block is read into the metadata fields; without one the
// whole file is content. Timestamps are left zero so the save path
// stamps them.
func ParseMarkdown(key string, data []byte) (core.Note, error) {
	n := core.Note{Key: key}
	text := string(data)

	if !strings.HasPrefix(text, frontmatterFence+"\n") {
		n.Content = text
		return n, nil
	}

	rest := text[len(frontmatterFence)+1:]
	end := strings.Index(rest, "\n"+frontmatterFence)
	if end < 0 {
		// Unterminated fence: treat the file as plain content.
		n.Content = text
		return n, nil
	}

	var meta frontmatter
	if err := yaml.Unmarshal([]byte(rest[:end]), &meta); err != nil {
		return core.Note{}, fmt.Errorf("parse frontmatter of %q: %w", key, err)
	}

	body := rest[end+len("\n"+frontmatterFence):]
	// Drop the fence line remainder and at most one blank separator.
	if i := strings.Index(body, "\n"); i >= 0 {
		body = body[i+1:]
	} else {
		body = ""
	}
	body = strings.TrimPrefix(body, "\n")

	n.Title = meta.Title
	n.Tags = meta.Tags
	n.Content = body
	return n, nil
}
