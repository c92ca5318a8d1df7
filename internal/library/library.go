// Package library is the command layer behind the media library view:
// folder-scoped filtering and the move/reorder command. The command is the
// same whether the client gesture was a pointer drag or keyboard navigation.
package library

import (
	"context"

	"github.com/swairua/kennedynespot/internal/entities"
)

type AssetStore interface {
	List(ctx context.Context) ([]entities.MediaAsset, error)
	Reorder(ctx context.Context, ids []string, startIndex int) error
}

type Controller struct {
	store AssetStore
}

func NewController(store AssetStore) *Controller {
	return &Controller{store: store}
}

// Visible returns the assets of one folder in catalog order; folder nil
// means root.
func (c *Controller) Visible(ctx context.Context, folder *string) ([]entities.MediaAsset, error) {
	assets, err := c.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(assets, folder), nil
}

// Filter keeps the assets of one folder, preserving order.
func Filter(assets []entities.MediaAsset, folder *string) []entities.MediaAsset {
	out := make([]entities.MediaAsset, 0, len(assets))
	for i := range assets {
		if assets[i].InFolder(folder) {
			out = append(out, assets[i])
		}
	}
	return out
}

// Move places movedID at targetIndex within the folder's visible list and
// persists the resulting order starting at 0. Only the visible folder's
// assets are renumbered; other folders keep their order_index untouched.
func (c *Controller) Move(ctx context.Context, folder *string, movedID string, targetIndex int) error {
	visible, err := c.Visible(ctx, folder)
	if err != nil {
		return err
	}

	from := -1
	for i := range visible {
		if visible[i].ID == movedID {
			from = i
			break
		}
	}
	if from == -1 {
		return entities.ErrNotFound
	}

	if targetIndex < 0 {
		targetIndex = 0
	}
	if targetIndex >= len(visible) {
		targetIndex = len(visible) - 1
	}
	if targetIndex == from {
		return nil
	}

	ids := make([]string, 0, len(visible))
	for i := range visible {
		ids = append(ids, visible[i].ID)
	}
	ids = arrayMove(ids, from, targetIndex)

	return c.store.Reorder(ctx, ids, 0)
}

// arrayMove shifts the element at from to to, sliding everything between.
func arrayMove(ids []string, from, to int) []string {
	out := make([]string, 0, len(ids))
	out = append(out, ids[:from]...)
	out = append(out, ids[from+1:]...)

	rest := make([]string, 0, len(ids))
	rest = append(rest, out[:to]...)
	rest = append(rest, ids[from])
	rest = append(rest, out[to:]...)
	return rest
}
