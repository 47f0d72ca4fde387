package formats

import (
	"encoding/json"
	"fmt"

	"github.com/cladam/medi/pkg/core"
)

// RenderJSON serializes notes as an indented JSON array, the same wire
// format the primary store uses per note.
func RenderJSON(notes []core.Note) ([]byte, error) {
	data, err := json.MarshalIndent(notes, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode notes: %w", err)
	}
	return append(data, '\n'), nil
}
