package core

import "time"

// Note is the central entity of the domain.
// It represents a piece of knowledge identified by a stable, caller-chosen key.
// It is agnostic to presentation format (Markdown, JSON, terminal output).
type Note struct {
	Key     string   `json:"key"`
	Title   string   `json:"title"`
	Tags    []string `json:"tags"`
	Content string   `json:"content"`

	// CreatedAt is set exactly once, on first save, and never changes.
	CreatedAt time.Time `json:"created_at"`
	// ModifiedAt is bumped on every content or tag change.
	ModifiedAt time.Time `json:"modified_at"`
}

// HasTag reports whether the note carries the given tag.
// Tags are matched exactly; duplicates in the tag list are preserved
// as stored and do not affect the result.
func (n Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
