// Package folders presents folder-level operations over the asset catalog.
// A folder is nothing but a distinct non-null folder value among assets:
// nothing is persisted for the folder itself, and an empty folder disappears
// on the next catalog read.
package folders

import (
	"context"
	"sort"
	"strings"

	"github.com/swairua/kennedynespot/internal/entities"
)

// RootName is the synthetic counts key for assets without a folder.
const RootName = "root"

type AssetStore interface {
	List(ctx context.Context) ([]entities.MediaAsset, error)
	RenameFolder(ctx context.Context, oldName, newName string) (int64, error)
	DeleteFolder(ctx context.Context, name string) (int64, error)
}

type Manager struct {
	store AssetStore
}

func NewManager(store AssetStore) *Manager {
	return &Manager{store: store}
}

// Listing is the derived folder view: sorted names plus per-folder counts
// including the synthetic root entry.
type Listing struct {
	Folders []entities.FolderView `json:"folders"`
	Counts  map[string]int        `json:"counts"`
}

// Derive computes the folder listing from an asset slice without touching
// the store.
func Derive(assets []entities.MediaAsset) Listing {
	counts := map[string]int{RootName: 0}
	for i := range assets {
		if assets[i].Folder == nil {
			counts[RootName]++
			continue
		}
		counts[*assets[i].Folder]++
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		if name != RootName {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	views := make([]entities.FolderView, 0, len(names))
	for _, name := range names {
		views = append(views, entities.FolderView{Name: name, Count: counts[name]})
	}

	return Listing{Folders: views, Counts: counts}
}

// List reads the catalog and derives the folder view.
func (m *Manager) List(ctx context.Context) (Listing, error) {
	assets, err := m.store.List(ctx)
	if err != nil {
		return Listing{}, err
	}
	return Derive(assets), nil
}

// Create only validates the name. A folder with zero assets is not
// representable, so this is a UI acknowledgment: the name becomes real once
// the first asset is moved into it.
func (m *Manager) Create(name string) (entities.FolderView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return entities.FolderView{}, entities.ErrEmptyFolderName
	}
	return entities.FolderView{Name: name, Count: 0}, nil
}

// Rename moves every asset from oldName to newName and reports the count.
func (m *Manager) Rename(ctx context.Context, oldName, newName string) (int64, error) {
	oldName = strings.TrimSpace(oldName)
	newName = strings.TrimSpace(newName)
	if oldName == "" || newName == "" {
		return 0, entities.ErrEmptyFolderName
	}
	return m.store.RenameFolder(ctx, oldName, newName)
}

// Delete sends the folder's assets back to root. The assets survive; only
// the grouping label goes away.
func (m *Manager) Delete(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, entities.ErrEmptyFolderName
	}
	return m.store.DeleteFolder(ctx, name)
}
