package library

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swairua/kennedynespot/internal/entities"
)

type fakeStore struct {
	assets       []entities.MediaAsset
	reorderedIDs []string
	startIndex   int
	calls        int
}

func (f *fakeStore) List(ctx context.Context) ([]entities.MediaAsset, error) {
	return f.assets, nil
}

func (f *fakeStore) Reorder(ctx context.Context, ids []string, startIndex int) error {
	f.reorderedIDs = ids
	f.startIndex = startIndex
	f.calls++
	return nil
}

func strPtr(s string) *string { return &s }

func libraryAssets() []entities.MediaAsset {
	// Already in catalog order: root first, then folder A.
	return []entities.MediaAsset{
		{ID: "r1"},
		{ID: "r2"},
		{ID: "a1", Folder: strPtr("A")},
		{ID: "a2", Folder: strPtr("A")},
		{ID: "a3", Folder: strPtr("A")},
	}
}

func TestFilterScopesToFolder(t *testing.T) {
	assets := libraryAssets()

	root := Filter(assets, nil)
	require.Len(t, root, 2)
	assert.Equal(t, "r1", root[0].ID)

	inA := Filter(assets, strPtr("A"))
	require.Len(t, inA, 3)
	assert.Equal(t, "a1", inA[0].ID)
}

func TestMoveReordersWithinVisibleFolderOnly(t *testing.T) {
	store := &fakeStore{assets: libraryAssets()}
	c := NewController(store)

	err := c.Move(context.Background(), strPtr("A"), "a3", 0)
	require.NoError(t, err)

	// Only folder A ids are renumbered, starting at 0.
	assert.Equal(t, []string{"a3", "a1", "a2"}, store.reorderedIDs)
	assert.Zero(t, store.startIndex)
	assert.NotContains(t, store.reorderedIDs, "r1")
	assert.NotContains(t, store.reorderedIDs, "r2")
}

func TestMoveToSamePositionIsANoop(t *testing.T) {
	store := &fakeStore{assets: libraryAssets()}
	c := NewController(store)

	require.NoError(t, c.Move(context.Background(), strPtr("A"), "a2", 1))
	assert.Zero(t, store.calls)
}

func TestMoveClampsTargetIndex(t *testing.T) {
	store := &fakeStore{assets: libraryAssets()}
	c := NewController(store)

	require.NoError(t, c.Move(context.Background(), strPtr("A"), "a1", 99))
	assert.Equal(t, []string{"a2", "a3", "a1"}, store.reorderedIDs)
}

func TestMoveUnknownAsset(t *testing.T) {
	store := &fakeStore{assets: libraryAssets()}
	c := NewController(store)

	err := c.Move(context.Background(), nil, "missing", 0)
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestArrayMove(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}

	assert.Equal(t, []string{"b", "a", "c", "d"}, arrayMove(ids, 0, 1))
	assert.Equal(t, []string{"d", "a", "b", "c"}, arrayMove(ids, 3, 0))
	assert.Equal(t, []string{"a", "c", "b", "d"}, arrayMove(ids, 2, 1))
}
