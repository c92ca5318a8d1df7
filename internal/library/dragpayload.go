package library

import (
	"encoding/json"
	"fmt"

	"github.com/swairua/kennedynespot/internal/entities"
)

// DragMIME is the drag-and-drop transfer key for library assets.
const DragMIME = "application/x-media-asset"

// DragPayload travels with an asset dragged out of the library toward the
// editor: everything the insertion side needs without a network round-trip.
type DragPayload struct {
	URL    string            `json:"url"`
	Alt    string            `json:"alt"`
	Width  int               `json:"width"`
	Height int               `json:"height"`
	Sizes  map[string]string `json:"sizes,omitempty"`
}

// NewDragPayload snapshots an asset for transfer.
func NewDragPayload(a *entities.MediaAsset) DragPayload {
	alt := ""
	if a.Alt != nil {
		alt = *a.Alt
	}
	return DragPayload{
		URL:    a.URL,
		Alt:    alt,
		Width:  a.Width,
		Height: a.Height,
		Sizes:  a.Sizes,
	}
}

func (p DragPayload) Encode() (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(raw), err
}

// DecodeDragPayload parses a transfer payload; malformed data is an error so
// a bad drop never inserts garbage.
func DecodeDragPayload(raw string) (DragPayload, error) {
	var p DragPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return DragPayload{}, fmt.Errorf("malformed drag payload: %w", err)
	}
	if p.URL == "" {
		return DragPayload{}, fmt.Errorf("drag payload without url")
	}
	return p, nil
}
