package folders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swairua/kennedynespot/internal/entities"
)

type fakeStore struct {
	assets  []entities.MediaAsset
	renamed [][2]string
	cleared []string
}

func (f *fakeStore) List(ctx context.Context) ([]entities.MediaAsset, error) {
	return f.assets, nil
}

func (f *fakeStore) RenameFolder(ctx context.Context, oldName, newName string) (int64, error) {
	f.renamed = append(f.renamed, [2]string{oldName, newName})
	var n int64
	for i := range f.assets {
		if f.assets[i].Folder != nil && *f.assets[i].Folder == oldName {
			name := newName
			f.assets[i].Folder = &name
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) DeleteFolder(ctx context.Context, name string) (int64, error) {
	f.cleared = append(f.cleared, name)
	var n int64
	for i := range f.assets {
		if f.assets[i].Folder != nil && *f.assets[i].Folder == name {
			f.assets[i].Folder = nil
			n++
		}
	}
	return n, nil
}

func strPtr(s string) *string { return &s }

func sampleAssets() []entities.MediaAsset {
	return []entities.MediaAsset{
		{ID: "1"},
		{ID: "2", Folder: strPtr("trips")},
		{ID: "3", Folder: strPtr("trips")},
		{ID: "4", Folder: strPtr("banners")},
	}
}

func TestDeriveCountsAndSorting(t *testing.T) {
	listing := Derive(sampleAssets())

	require.Len(t, listing.Folders, 2)
	assert.Equal(t, "banners", listing.Folders[0].Name)
	assert.Equal(t, "trips", listing.Folders[1].Name)

	assert.Equal(t, 1, listing.Counts[RootName])
	assert.Equal(t, 2, listing.Counts["trips"])
	assert.Equal(t, 1, listing.Counts["banners"])
}

func TestCreateValidatesName(t *testing.T) {
	m := NewManager(&fakeStore{})

	_, err := m.Create("   ")
	assert.ErrorIs(t, err, entities.ErrEmptyFolderName)

	view, err := m.Create("new-folder")
	require.NoError(t, err)
	assert.Equal(t, "new-folder", view.Name)
	assert.Zero(t, view.Count)
}

func TestDeleteMigratesAssetsToRoot(t *testing.T) {
	store := &fakeStore{assets: sampleAssets()}
	m := NewManager(store)

	n, err := m.Delete(context.Background(), "trips")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	for _, a := range store.assets {
		if a.Folder != nil {
			assert.NotEqual(t, "trips", *a.Folder)
		}
	}
	// The unrelated folder is untouched.
	assert.Equal(t, "banners", *store.assets[3].Folder)
}

func TestRenameMovesEveryAsset(t *testing.T) {
	store := &fakeStore{assets: sampleAssets()}
	m := NewManager(store)

	n, err := m.Rename(context.Background(), "trips", "journeys")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	listing := Derive(store.assets)
	assert.Equal(t, 2, listing.Counts["journeys"])
	assert.NotContains(t, listing.Counts, "trips")
}

func TestFolderOpsRejectEmptyNames(t *testing.T) {
	m := NewManager(&fakeStore{})

	_, err := m.Rename(context.Background(), "", "x")
	assert.ErrorIs(t, err, entities.ErrEmptyFolderName)

	_, err = m.Delete(context.Background(), "  ")
	assert.ErrorIs(t, err, entities.ErrEmptyFolderName)
}
